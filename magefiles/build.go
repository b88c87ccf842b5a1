//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the texpipe CLI binary.
func (Build) Texpipe() error {
	fmt.Println("Build texpipe...")
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/texpipe", "./cmd/texpipe"), withStream()); err != nil {
		return err
	}
	return nil
}

// Builds every package in the module, catching compile errors across
// the whole pipeline without producing a binary.
func (Build) All() error {
	fmt.Println("Build all packages...")
	if _, err := executeCmd("go", withArgs("build", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Tidies go.mod/go.sum and refreshes generated bazel build files.
func (Build) Tidy() error {
	return goGazelle()
}
