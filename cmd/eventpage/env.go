package main

import (
	"io"
	"os"
	"time"

	eventpage "github.com/alnah/go-eventpage"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, process environment and asset loading.
type Environment struct {
	Now         func() time.Time
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
	Getenv      func(string) string
	Environ     func() []string
	AssetLoader eventpage.AssetLoader
}

// DefaultEnv returns the production environment with embedded assets.
func DefaultEnv() *Environment {
	return &Environment{
		Now:         time.Now,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Getenv:      os.Getenv,
		Environ:     os.Environ,
		AssetLoader: eventpage.NewAssetLoader(),
	}
}

// getenv reads a variable through the environment, tolerating a nil hook.
func (e *Environment) getenv(key string) string {
	if e.Getenv == nil {
		return ""
	}
	return e.Getenv(key)
}

func (e *Environment) environ() []string {
	if e.Environ == nil {
		return nil
	}
	return e.Environ()
}
