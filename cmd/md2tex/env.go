package main

import (
	"io"
	"os"
)

// Environment bundles the output streams so commands can be tested
// without touching the real stdout/stderr.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer
}

// newEnvironment returns the production environment.
func newEnvironment() *Environment {
	return &Environment{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
