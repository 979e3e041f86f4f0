package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/cells/model"
)

// inTempDir keeps a stray config.json in the package directory from leaking
// into the tests
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestParseArgsRandom(t *testing.T) {
	inTempDir(t)

	cmd, err := parseArgs([]string{"-delay", "0s", "-seed", "5", "random", "4", "7"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if cmd.mode != "random" || cmd.rows != 4 || cmd.cols != 7 {
		t.Fatalf("unexpected command: %+v", cmd)
	}
	if cmd.config.FrameRate != 0 || cmd.config.Seed != 5 {
		t.Fatalf("flags not applied: %+v", cmd.config)
	}
	if cmd.config.MaxGenerations != 0 {
		t.Fatalf("default run must be unbounded, got %d", cmd.config.MaxGenerations)
	}
}

func TestParseArgsFrom(t *testing.T) {
	inTempDir(t)

	cmd, err := parseArgs([]string{"from", "seed.csv"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if cmd.mode != "from" || cmd.path != "seed.csv" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestParseArgsConfigFile(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "run.json")
	if err := os.WriteFile(path, []byte(`{"max_generations": 12, "frame_rate": 0}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd, err := parseArgs([]string{"-config", path, "-max-gens", "3", "random", "2", "2"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if cmd.config.MaxGenerations != 3 {
		t.Fatalf("MaxGenerations = %d, want flag value 3", cmd.config.MaxGenerations)
	}
	if cmd.config.FrameRate != 0 {
		t.Fatalf("FrameRate = %v, want file value 0", cmd.config.FrameRate)
	}

	if _, err = parseArgs([]string{"-config", filepath.Join(dir, "missing.json"), "random", "2", "2"}, io.Discard); err == nil {
		t.Fatal("an explicit missing config file must fail")
	}
}

func TestParseArgsErrors(t *testing.T) {
	inTempDir(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no mode", nil, errHelp},
		{"help flag", []string{"-h"}, errHelp},
		{"unknown mode", []string{"glider"}, errUsage},
		{"random missing n", []string{"random", "3"}, errUsage},
		{"random not a number", []string{"random", "three", "3"}, errUsage},
		{"from missing file", []string{"from"}, errUsage},
		{"unknown flag", []string{"-nope", "random", "1", "1"}, errUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseArgs(tt.args, io.Discard)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRealMainExitCodes(t *testing.T) {
	inTempDir(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"help", nil, 0},
		{"usage", []string{"random"}, 2},
		{"too large", []string{"-height", "25", "-width", "80", "random", "1000", "1000"}, 1},
		{"not positive", []string{"-height", "25", "-width", "80", "random", "0", "5"}, 1},
		{"missing seed file", []string{"-height", "25", "-width", "80", "from", "nope.csv"}, 1},
		{"steady", []string{"-height", "25", "-width", "80", "-delay", "0s", "-density", "0", "random", "3", "3"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if got := realMain(tt.args, &stdout, &stderr); got != tt.want {
				t.Fatalf("exit code = %d, want %d (stderr %q)", got, tt.want, stderr.String())
			}
		})
	}
}

func TestRealMainReportsViolatedDimension(t *testing.T) {
	inTempDir(t)

	var stdout, stderr bytes.Buffer
	realMain([]string{"-height", "25", "-width", "80", "random", "1000", "1000"}, &stdout, &stderr)

	if !strings.Contains(stderr.String(), "m <= 25") {
		t.Fatalf("stderr %q does not name the violated dimension", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("nothing may be rendered before validation, got %q", stdout.String())
	}
}

func noScreen() (tcell.Screen, error) {
	return nil, errors.New("no terminal")
}

func TestRunFromFile(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "seed.csv")
	if err := os.WriteFile(path, []byte("1,0,0\n0,0,0\n0,0,0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd, err := parseArgs([]string{"-delay", "0s", "from", path}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	cmd.config.AliveGlyph = "#"

	var stdout bytes.Buffer
	res, err := run(context.Background(), cmd, &stdout, noScreen)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.State != model.StateSteady || res.Generations != 2 {
		t.Fatalf("result = %v after %d, want steady after 2", res.State, res.Generations)
	}

	want := "#..\n...\n...\n\n" + "...\n...\n...\n\n" + "...\n...\n...\n\n"
	if stdout.String() != want {
		t.Fatalf("output = %q, want %q", stdout.String(), want)
	}
}

func TestRunFromFileTooWide(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "seed.csv")
	if err := os.WriteFile(path, []byte("0,0,0,0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd, err := parseArgs([]string{"-width", "3", "from", path}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}

	var stdout bytes.Buffer
	_, err = run(context.Background(), cmd, &stdout, noScreen)
	var sizeErr *model.SizeError
	if !errors.As(err, &sizeErr) || sizeErr.Dim != "n" {
		t.Fatalf("err = %v, want size error on n", err)
	}
	if stdout.Len() != 0 {
		t.Fatal("nothing may be rendered for a rejected seed")
	}
}

func TestRunMalformedSeed(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "seed.csv")
	if err := os.WriteFile(path, []byte("0,1\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd, err := parseArgs([]string{"from", path}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}

	if _, err = run(context.Background(), cmd, io.Discard, noScreen); !errors.Is(err, model.ErrMalformedSeed) {
		t.Fatalf("err = %v, want ErrMalformedSeed", err)
	}
}

func TestRunScreenMode(t *testing.T) {
	inTempDir(t)

	cmd, err := parseArgs([]string{"-screen", "-delay", "0s", "-max-gens", "3", "random", "5", "5"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}

	screen := tcell.NewSimulationScreen("")
	newScreen := func() (tcell.Screen, error) { return screen, nil }

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
			}
		}
	}()

	res, err := run(context.Background(), cmd, io.Discard, newScreen)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Generations > 3 {
		t.Fatalf("ran %d generations past the limit", res.Generations)
	}
}
