package main

import (
	"os"
	"testing"

	"github.com/alfredjeanlab/cinemap/internal/ui"
)

func TestMain(m *testing.M) {
	ui.ForceNoColor()
	os.Exit(m.Run())
}
