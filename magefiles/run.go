//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Generates a single texture through the CLI, passing TEXPIPE_ARGS
// along verbatim (e.g. TEXPIPE_ARGS="-in a.png -out a.tpkg").
func (Run) Generate() error {
	fmt.Println("Run texpipe generate...")
	args := append([]string{"run", "./cmd/texpipe", "generate"}, splitEnvArgs("TEXPIPE_ARGS")...)
	if _, err := executeCmd("go", withArgs(args...), withStream()); err != nil {
		return err
	}
	return nil
}

// Watches a directory of sources and regenerates them on change,
// passing TEXPIPE_ARGS along verbatim (e.g.
// TEXPIPE_ARGS="-dir assets -out build").
func (Run) Watch() error {
	fmt.Println("Run texpipe watch...")
	args := append([]string{"run", "./cmd/texpipe", "watch"}, splitEnvArgs("TEXPIPE_ARGS")...)
	if _, err := executeCmd("go", withArgs(args...), withStream()); err != nil {
		return err
	}
	return nil
}
