// bmdpack packs skinned glTF meshes into GameCube/Wii BMD shape batches.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/bmdcubed/internal/config"
	"github.com/Faultbox/bmdcubed/internal/convert"
	"github.com/Faultbox/bmdcubed/internal/logger"
	"github.com/Faultbox/bmdcubed/pkg/bmd/geometry"
	"github.com/Faultbox/bmdcubed/pkg/interchange"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "convert", "c":
		err = cmdConvert(args)
	case "inspect", "i":
		err = cmdInspect(args)
	case "watch", "w":
		err = cmdWatch(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`bmdpack - skinned mesh to BMD shape packer

Usage:
  bmdpack <command> [options]

Commands:
  convert [options] <in.gltf> <out.shp>  Pack a model and write the shape section
  inspect [options] <in.gltf>            Show batches and packets without writing
  watch   [options] <in.gltf> <out.shp>  Re-run convert whenever the input changes

Options (all commands):
  -config <file>   Config file (.yaml or .toml)
  -capacity <n>    Matrices per packet (1-10, default 10)
  -parallel        Build batches concurrently
  -debug           Enable debug logging
  -log <file>      Also log to this file

Examples:
  bmdpack convert mario.glb mario.shp
  bmdpack inspect -capacity 4 mario.glb
  bmdpack watch -debug mario.gltf build/mario.shp`)
}

// setup parses the shared flags, loads config and starts logging.
func setup(name string, args []string, positional int) (*config.Config, []string, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	fs.Parse(args)

	if fs.NArg() < positional {
		fmt.Fprintf(os.Stderr, "Usage: bmdpack %s [options] %s\n", name, usageArgs(positional))
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}

func usageArgs(positional int) string {
	if positional == 1 {
		return "<in.gltf>"
	}
	return "<in.gltf> <out.shp>"
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func cmdConvert(args []string) error {
	cfg, rest, err := setup("convert", args, 2)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	res, err := convert.New(cfg).ConvertFile(ctx, rest[0], rest[1])
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s: %d batches, %d packets\n", rest[1], len(res.Batches), res.PacketCount())
	return nil
}

func cmdInspect(args []string) error {
	cfg, rest, err := setup("inspect", args, 1)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	scene, err := interchange.OpenGLTF(rest[0])
	if err != nil {
		return err
	}
	res, err := convert.New(cfg).Convert(ctx, scene)
	if err != nil {
		return err
	}

	fmt.Printf("Model:     %s\n", rest[0])
	fmt.Printf("Positions: %d\n", len(scene.Positions))
	if res.Skeleton != nil {
		fmt.Printf("Bones:     %d\n", res.Skeleton.Count())
	}
	if res.DrawData != nil {
		fmt.Printf("Weights:   %d unique (%d rigid)\n", len(res.DrawData.AllDrw1Weights), res.DrawData.RigidCount())
	} else {
		fmt.Println("Weights:   none (unskinned)")
	}
	fmt.Printf("Capacity:  %d matrices per packet\n", cfg.Packing.MatrixCapacity)
	fmt.Println()

	for i, b := range res.Batches {
		printBatch(i, b)
	}
	return nil
}

func printBatch(i int, b *geometry.Batch) {
	names := make([]string, len(b.ActiveAttributes))
	for j, a := range b.ActiveAttributes {
		names[j] = a.String()
	}

	fmt.Printf("Batch %d %q\n", i, b.MaterialName)
	fmt.Printf("  triangles:  %d (%d vertices)\n", b.TriangleCount(), b.VertexCount())
	fmt.Printf("  attributes: %s\n", strings.Join(names, ", "))
	fmt.Printf("  bounds:     %v .. %v\n", b.Bounds.Min, b.Bounds.Max)
	if !b.Skinned() {
		fmt.Printf("  matrices:   %v\n", b.WeightIndexes)
		return
	}
	for j, p := range b.Packets {
		fmt.Printf("  packet %-3d %4d triangles  matrices %v\n", j, len(p.Triangles), p.MatrixIndexes)
	}
}

func cmdWatch(args []string) error {
	cfg, rest, err := setup("watch", args, 2)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	conv := convert.New(cfg)
	in, out := rest[0], rest[1]
	logger.Info("watching", zap.String("input", in), zap.String("output", out))

	return convert.Watch(ctx, in, func() error {
		_, err := conv.ConvertFile(ctx, in, out)
		return err
	})
}
