package main

import (
	"errors"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/aoc2022/rockfall"
	"github.com/kr/pretty"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "day17.ini")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDay17ConfigDefaults(t *testing.T) {
	cfg, err := loadDay17Config("")
	if err != nil {
		t.Fatal(err)
	}
	if want := defaultDay17Config(); cfg != want {
		t.Errorf("got %s", pretty.Diff(cfg, want))
	}
}

func TestLoadDay17Config(t *testing.T) {
	path := writeConfig(t, `
[run]
part1 = 10
part2 = 5000

[chamber]
capacity = 512

[cycle]
skyline_rows = 50
confirmations = 3
`)
	cfg, err := loadDay17Config(path)
	if err != nil {
		t.Fatal(err)
	}
	want := defaultDay17Config()
	want.part1 = 10
	want.part2 = 5000
	want.opts.Capacity = 512
	want.opts.SkylineRows = 50
	want.opts.Confirmations = 3
	if cfg != want {
		t.Errorf("got %s", pretty.Diff(cfg, want))
	}
}

func TestLoadDay17ConfigErrors(t *testing.T) {
	for _, text := range []string{
		"[run]\npart1 = many\n",
		"[chamber]\ncapacity = -4\n",
	} {
		if _, err := loadDay17Config(writeConfig(t, text)); err == nil {
			t.Errorf("no error for config %q", text)
		}
	}
	if _, err := loadDay17Config(filepath.Join(t.TempDir(), "missing.ini")); err == nil {
		t.Error("no error for missing config file")
	}
}

const sample = ">>><<><>><<<>><>>><<<>>><<<><<<>><>><<>>\n"

func mustParseJets(t *testing.T) *rockfall.JetSchedule {
	t.Helper()
	jets, err := rockfall.ParseJets(sample)
	if err != nil {
		t.Fatal(err)
	}
	return jets
}

func TestRunDay17(t *testing.T) {
	jets := mustParseJets(t)
	vlog := log.New(io.Discard, "", 0)
	heights, err := runDay17(jets, defaultDay17Config(), vlog)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{3068, 1514285714288}
	if len(heights) != 2 || heights[0] != want[0] || heights[1] != want[1] {
		t.Errorf("got %v; want %v", heights, want)
	}

	cfg := defaultDay17Config()
	cfg.opts.Capacity = 1
	if _, err := runDay17(jets, cfg, vlog); err == nil {
		t.Error("no error for a chamber that is too small")
	}
}

func TestParseViewCommand(t *testing.T) {
	for _, tt := range []struct {
		line string
		n    int64
		quit bool
		ok   bool
	}{
		{"", 1, false, true},
		{"  ", 1, false, true},
		{"25", 25, false, true},
		{" 3\n", 3, false, true},
		{"q", 0, true, true},
		{"quit", 0, true, true},
		{"0", 0, false, false},
		{"-2", 0, false, false},
		{"lots", 0, false, false},
	} {
		n, quit, err := parseViewCommand(tt.line)
		if ok := err == nil; ok != tt.ok || n != tt.n || quit != tt.quit {
			t.Errorf("parseViewCommand(%q): got (%d, %t, %v); want (%d, %t, ok=%t)",
				tt.line, n, quit, err, tt.n, tt.quit, tt.ok)
		}
	}
}

func TestSolveDay17Naive(t *testing.T) {
	jets := mustParseJets(t)
	vlog := log.New(io.Discard, "", 0)
	cfg := defaultDay17Config()
	cfg.part2 = 5000
	heights, err := solveDay17(jets, cfg, true, vlog)
	if err != nil {
		t.Fatal(err)
	}
	if heights[0] != 3068 {
		t.Errorf("part 1: got %d; want 3068", heights[0])
	}
}

func TestWithProfile(t *testing.T) {
	if err := withProfile("", func() error { return nil }); err != nil {
		t.Fatalf("without a profile: %s", err)
	}

	path := filepath.Join(t.TempDir(), "day17.pprof")
	errBoom := errors.New("boom")
	if err := withProfile(path, func() error { return errBoom }); err != errBoom {
		t.Fatalf("got error %v; want %v", err, errBoom)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() == 0 {
		t.Error("profile was not written after a failed run")
	}

	missing := filepath.Join(t.TempDir(), "nodir", "day17.pprof")
	ran := false
	if err := withProfile(missing, func() error { ran = true; return nil }); err == nil {
		t.Error("no error for an uncreatable profile file")
	}
	if ran {
		t.Error("ran without being able to profile")
	}
}

func TestDropRocks(t *testing.T) {
	sim, err := rockfall.New(mustParseJets(t), rockfall.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range []struct {
		n    int64
		want int64
	}{
		{1, 1},
		{2021, 3068},
		{1_000_000_000_000 - 2022, 1514285714288},
	} {
		if err := dropRocks(sim, tt.n); err != nil {
			t.Fatal(err)
		}
		if got := sim.Height(); got != tt.want {
			t.Errorf("after dropping %d more: got height %d; want %d", tt.n, got, tt.want)
		}
	}
	if err := dropRocks(sim, math.MaxInt64); err == nil {
		t.Error("no error for a drop count that overflows")
	}
	if got := sim.Steps(); got != 1_000_000_000_000 {
		t.Errorf("steps after a rejected drop: got %d; want 1000000000000", got)
	}
}
