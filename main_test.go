package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_ExitCodes(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.json")
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"help", []string{"-h"}, 0},
		{"long help", []string{"--help"}, 0},
		{"no positionals", []string{"--config", cfg}, 2},
		{"bad radius", []string{"--config", cfg, "--radius", "0", "a.png", "a.npy"}, 2},
		{"unknown flag", []string{"--config", cfg, "--nope", "a.png", "a.npy"}, 2},
		{"missing image", []string{"--config", cfg, filepath.Join(dir, "missing.png"), filepath.Join(dir, "mask.npy")}, 1},
	}
	for _, tc := range tests {
		var stderr bytes.Buffer
		if got := run(tc.args, &stderr); got != tc.want {
			t.Fatalf("%s: exit %d want %d (stderr %q)", tc.name, got, tc.want, stderr.String())
		}
	}
}

func TestRun_UsageOnError(t *testing.T) {
	var stderr bytes.Buffer
	run([]string{"only-one.png"}, &stderr)
	if !strings.Contains(stderr.String(), "usage: dotcount") {
		t.Fatalf("usage not printed: %q", stderr.String())
	}
}
