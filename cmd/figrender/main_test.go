package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRunStdinToStdout(t *testing.T) {
	var out, errOut bytes.Buffer
	in := strings.NewReader("a=3,b=4,c=5\r\nsirkel r=2\n")
	if err := run(context.Background(), nil, in, &out, &errOut); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out.String(), `<g id="figure-`); n != 2 {
		t.Errorf("panels = %d, want 2", n)
	}
}

func TestRunFilesWithSummary(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "figures.txt")
	if err := os.WriteFile(in, []byte("trekant\nhei\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	render := func(out, summary string) string {
		t.Helper()
		args := []string{"-in", in, "-out", out, "-summary", summary, "-seed", "7"}
		if err := run(context.Background(), args, nil, &bytes.Buffer{}, &bytes.Buffer{}); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}

	first := render(filepath.Join(dir, "a.svg"), filepath.Join(dir, "a.json"))
	second := render(filepath.Join(dir, "b.svg"), filepath.Join(dir, "b.json"))
	if first != second {
		t.Error("same seed produced different documents")
	}

	data, err := os.ReadFile(filepath.Join(dir, "a.json"))
	if err != nil {
		t.Fatal(err)
	}
	var summary struct {
		Normalized []string         `json:"normalized"`
		Summaries  []map[string]any `json:"summaries"`
	}
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatal(err)
	}
	if len(summary.Normalized) != 2 || !strings.HasPrefix(summary.Normalized[0], "trekant a=") || summary.Normalized[1] != "hei" {
		t.Errorf("normalized = %q", summary.Normalized)
	}
	if len(summary.Summaries) != 1 || summary.Summaries[0]["type"] != "triangle" {
		t.Errorf("summaries = %v", summary.Summaries)
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	tests := [][]string{
		{"-watch", "1s"},
		{"-config", filepath.Join(t.TempDir(), "missing.yaml")},
		{"-in", filepath.Join(t.TempDir(), "missing.txt")},
		{"-nope"},
	}
	for _, args := range tests {
		if err := run(context.Background(), args, strings.NewReader("sirkel r=1"), &bytes.Buffer{}, &bytes.Buffer{}); err == nil {
			t.Errorf("run(%q) succeeded, want error", args)
		}
	}
}

func TestRunWatchRerendersOnChange(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "figures.txt")
	out := filepath.Join(dir, "figures.svg")
	if err := os.WriteFile(in, []byte("sirkel r=1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() {
		errc <- run(ctx, []string{"-in", in, "-out", out, "-watch", "10ms"}, nil, &bytes.Buffer{}, &bytes.Buffer{})
	}()

	waitForPanels(t, out, 1)
	if err := os.WriteFile(in, []byte("sirkel r=1\nkvadrat a=2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForPanels(t, out, 2)

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("run = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func waitForPanels(t *testing.T, path string, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if data, err := os.ReadFile(path); err == nil && strings.Count(string(data), `<g id="figure-`) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("%s never showed %d panels", path, want)
}
