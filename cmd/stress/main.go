package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"screen-ocr-tesseract/config"
	"screen-ocr-tesseract/ocr"
	"screen-ocr-tesseract/worker"
)

type stressOptions struct {
	n        int
	workers  int
	deadline time.Duration
	language string
	format   string
	filePath string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := &stressOptions{}
	cmd := newRootCmd(opts)
	return cmd.Execute()
}

func newRootCmd(opts *stressOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stress-ocr",
		Short:         "Stress test the OCR worker pool under back-pressure",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts)
		},
	}

	cmd.Flags().IntVar(&opts.n, "n", 50, "number of OCR jobs to submit")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "pool size (default from config, then one per CPU)")
	cmd.Flags().DurationVar(&opts.deadline, "deadline", 0, "per-job timeout (default from config)")
	cmd.Flags().StringVar(&opts.language, "lang", "", "traineddata language to recognize (default from config)")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: txt or tsv (default from config)")
	cmd.Flags().StringVar(&opts.filePath, "file", "", "PNG input file (a blank image is synthesized when omitted)")

	return cmd
}

// stressSettings are the effective run parameters once flags and config are
// merged. A zero flag defers to the config value.
type stressSettings struct {
	workers  int
	deadline time.Duration
	language string
	mode     ocr.Mode
}

func resolveSettings(opts stressOptions, cfg *config.Config) stressSettings {
	workers := opts.workers
	if workers <= 0 {
		workers = cfg.Workers
	}
	deadline := opts.deadline
	if deadline <= 0 {
		deadline = time.Duration(cfg.OCRDeadlineSec) * time.Second
	}
	mode := ocr.ModeText
	if cfg.OutputMode == config.OutputModeTSV {
		mode = ocr.ModeTSV
	}
	return stressSettings{workers: workers, deadline: deadline, language: cfg.Language, mode: mode}
}

func runWithOptions(opts stressOptions) error {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		LanguageOverride:   opts.language,
		OutputModeOverride: opts.format,
	})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	settings := resolveSettings(opts, cfg)

	imageData, err := loadInput(opts.filePath)
	if err != nil {
		return err
	}

	pool := worker.New(settings.workers)
	defer pool.Close()

	var wg sync.WaitGroup
	var okCount int32
	var droppedCount int32
	var errCount int32

	start := time.Now()
	for i := 0; i < opts.n; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), settings.deadline)
		req := ocr.Request{Image: imageData, Language: settings.language, Mode: settings.mode}
		wg.Add(1)
		submitted := pool.Submit(ctx, req, func(_ string, err error) {
			defer wg.Done()
			defer cancel()
			if err != nil {
				atomic.AddInt32(&errCount, 1)
				return
			}
			atomic.AddInt32(&okCount, 1)
		})
		if !submitted {
			wg.Done()
			cancel()
			atomic.AddInt32(&droppedCount, 1)
		}
	}
	wg.Wait()
	elapsed := time.Since(start)
	fmt.Fprintf(os.Stdout, "submitted=%d ok=%d dropped=%d err=%d elapsed=%s\n", opts.n, okCount, droppedCount, errCount, elapsed)
	return nil
}

func loadInput(path string) ([]byte, error) {
	if path == "" {
		return synthesizePNG()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return data, nil
}

func synthesizePNG() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to synthesize PNG input: %w", err)
	}
	return buf.Bytes(), nil
}
