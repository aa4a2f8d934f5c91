package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"log/slog"
)

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	want := []string{"version", "serve", "sync", "redirect", "domains"}
	for _, name := range want {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	root.SetContext(context.Background())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if _, err := root.ExecuteC(); err != nil {
		t.Fatalf("ExecuteC() error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "domainops version ") {
		t.Errorf("output = %q", out.String())
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Leveler
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := slogLevel(tt.in); got != tt.want {
			t.Errorf("slogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
