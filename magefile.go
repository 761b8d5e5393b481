//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var (
	binDir  = "bin"
	appName = "storefront"
)

var Default = Build

func Tidy() error {
	return sh.RunV("go", "mod", "tidy")
}

func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

func Build() error {
	mg.Deps(Tidy)

	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return err
	}

	out := filepath.Join(binDir, appName+exeSuffix())
	fmt.Println("Building:", out)

	env := map[string]string{"CGO_ENABLED": "0"}
	return sh.RunWithV(env, "go", "build", "-trimpath", "-o", out, "./cmd/storefront")
}

// Test runs the unit tests. Store backends that need docker are skipped.
func Test() error {
	fmt.Println("Testing...")
	return sh.RunV("go", "test", "./...", "-short", "-count=1")
}

// Integration runs everything, including the postgres and mongo suites in testcontainers.
func Integration() error {
	fmt.Println("Testing with containers...")
	return sh.RunV("go", "test", "./...", "-count=1", "-race")
}

func Clean() error {
	return sh.Rm(binDir)
}

func exeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
