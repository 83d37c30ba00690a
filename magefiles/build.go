//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Cli builds bmdpack into bin/.
func (Build) Cli() error {
	_, err := executeCmd("go", withArgs("build", "-o", filepath.Join("bin", "bmdpack"), "./cmd/bmdpack"), withStream())
	return err
}

// Install installs bmdpack into GOBIN.
func (Build) Install() error {
	_, err := executeCmd("go", withArgs("install", "./cmd/bmdpack"), withStream())
	return err
}
