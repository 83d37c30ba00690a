package config

import "flag"

// Flags are the command-line overrides shared by every subcommand.
type Flags struct {
	config   *string
	debug    *bool
	capacity *int
	parallel *bool
	logFile  *string
}

// RegisterFlags defines the config flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		config:   fs.String("config", "", "Path to config file (.yaml or .toml)"),
		debug:    fs.Bool("debug", false, "Enable debug logging"),
		capacity: fs.Int("capacity", 0, "Matrices per packet (1-10)"),
		parallel: fs.Bool("parallel", false, "Build batches concurrently"),
		logFile:  fs.String("log", "", "Also log to this file"),
	}
}

// ConfigPath returns the explicit config path if provided via --config flag.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return *f.config
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if *f.debug {
		cfg.Logging.Level = "debug"
	}
	if *f.capacity > 0 {
		cfg.Packing.MatrixCapacity = *f.capacity
	}
	if *f.parallel {
		cfg.Packing.Parallel = true
	}
	if *f.logFile != "" {
		cfg.Logging.LogFile = *f.logFile
	}
}
