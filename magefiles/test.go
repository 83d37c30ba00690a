//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// All runs every package's tests.
func (Test) All() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Race runs the tests with the race detector. The parallel converter and
// the watcher are the interesting targets.
func (Test) Race() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./internal/...", "./pkg/..."), withStream())
	return err
}

// Lint runs go vet and checks formatting.
func Lint() error {
	if _, err := executeCmd("go", withArgs("vet", "./..."), withStream()); err != nil {
		return err
	}
	out, err := executeCmd("gofmt", withArgs("-l", "cmd", "internal", "pkg"))
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s", out)
	}
	return nil
}
