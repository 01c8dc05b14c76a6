package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"figure-renderer/internal/common/config"
	"figure-renderer/internal/common/logging"
	"figure-renderer/internal/figures/interpret"
	"figure-renderer/internal/figures/parser"
	"figure-renderer/internal/figures/render"
)

// ============================================================
// Figure CLI
// ============================================================

type options struct {
	in, out     string
	summary     string
	configPath  string
	seed        uint64
	watch       time.Duration
	logLevel    string
	interpreter bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("figrender: %v", err)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var opts options
	fs := flag.NewFlagSet("figrender", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.in, "in", "-", "input file, one figure per line (- for stdin)")
	fs.StringVar(&opts.out, "out", "-", "SVG output file (- for stdout)")
	fs.StringVar(&opts.summary, "summary", "", "write normalized lines and summaries as JSON to this file (- for stderr)")
	fs.StringVar(&opts.configPath, "config", "", "YAML render config")
	fs.Uint64Var(&opts.seed, "seed", 0, "seed for free-text completions (0 draws a fresh seed)")
	fs.DurationVar(&opts.watch, "watch", 0, "poll the input file at this interval and re-render on change")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "debug, info, warn or error")
	fs.BoolVar(&opts.interpreter, "interpret", false, "ask the language model about unrecognised lines (needs ANTHROPIC_API_KEY)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if opts.watch > 0 && (opts.in == "-" || opts.out == "-") {
		return errors.New("-watch needs -in and -out files")
	}

	logger := logging.New("development", opts.logLevel)
	render.SetLogger(logger)

	cfg, err := config.LoadRenderFile(opts.configPath)
	if err != nil {
		return err
	}
	renderer := newRenderer(opts)

	once := func() (*render.Result, error) {
		return renderOnce(ctx, renderer, cfg, opts, stdin, stdout, stderr)
	}
	if opts.watch <= 0 {
		_, err := once()
		return err
	}

	logger.Info("figrender: watching", "file", opts.in, "interval", opts.watch)
	return watch(ctx, opts.in, opts.watch, render.NewCoalescer(once), func(res *render.Result, err error) {
		if err != nil {
			logger.Error("figrender: render failed", "error", err)
			return
		}
		logger.Info("figrender: rendered", "figures", len(res.Summaries), "failed", res.Failed())
	})
}

func newRenderer(opts options) *render.Renderer {
	var popts []parser.Option
	if opts.seed != 0 {
		popts = append(popts, parser.WithRand(rand.New(rand.NewPCG(opts.seed, opts.seed))))
	}
	ropts := []render.Option{render.WithParser(parser.New(popts...))}
	if opts.interpreter {
		ropts = append(ropts, render.WithInterpreter(
			interpret.NewAnthropicInterpreter(os.Getenv("ANTHROPIC_API_KEY"), interpret.WithModel(os.Getenv("INTERPRETER_MODEL"))),
		))
	}
	return render.NewRenderer(ropts...)
}

func renderOnce(ctx context.Context, renderer *render.Renderer, cfg render.Config, opts options, stdin io.Reader, stdout, stderr io.Writer) (*render.Result, error) {
	lines, err := readLines(opts.in, stdin)
	if err != nil {
		return nil, err
	}
	res, err := renderer.Render(ctx, cfg, lines)
	if err != nil {
		return nil, err
	}
	if err := writeOutput(opts.out, stdout, []byte(res.SVG)); err != nil {
		return nil, err
	}
	if opts.summary != "" {
		data, err := json.MarshalIndent(struct {
			Normalized any `json:"normalized"`
			Summaries  any `json:"summaries"`
		}{res.Normalized, res.Summaries}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode summary: %w", err)
		}
		if err := writeOutput(opts.summary, stderr, append(data, '\n')); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func readLines(path string, stdin io.Reader) ([]string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n"), nil
}

// writeOutput writes to std when path is "-", otherwise replaces the file
// through a temp file so watchers never see a partial document.
func writeOutput(path string, std io.Writer, data []byte) error {
	if path == "-" {
		_, err := std.Write(data)
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ============================================================
// Watch mode
// ============================================================

// watch renders once, then polls path and triggers a render whenever its
// size or modification time changes. Bursts of changes collapse into one
// follow-up render in the coalescer.
func watch(ctx context.Context, path string, every time.Duration, c *render.Coalescer[*render.Result], done func(*render.Result, error)) error {
	// Waiters outlive ctx so no render is still writing when watch returns.
	var wg sync.WaitGroup
	defer wg.Wait()
	trigger := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := c.Trigger(context.Background())
			if ctx.Err() == nil {
				done(res, err)
			}
		}()
	}

	last, _ := stamp(path)
	trigger()

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cur, err := stamp(path)
			if err != nil || cur == last {
				continue
			}
			last = cur
			trigger()
		}
	}
}

func stamp(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d/%d", info.Size(), info.ModTime().UnixNano()), nil
}
