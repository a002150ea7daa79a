package main

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"screen-ocr-tesseract/config"
	"screen-ocr-tesseract/ocr"
)

func TestNewRootCmdDefaults(t *testing.T) {
	opts := &stressOptions{}
	cmd := newRootCmd(opts)
	if err := cmd.ParseFlags([]string{}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if opts.n != 50 {
		t.Fatalf("Expected default n=50, got %d", opts.n)
	}
	if opts.workers != 0 {
		t.Fatalf("Expected default workers=0, got %d", opts.workers)
	}
	if opts.deadline != 0 {
		t.Fatalf("Expected zero default deadline so config applies, got %v", opts.deadline)
	}
	if opts.format != "" {
		t.Fatalf("Expected empty default format so config applies, got %q", opts.format)
	}
}

func TestNewRootCmdCustomFlags(t *testing.T) {
	opts := &stressOptions{}
	cmd := newRootCmd(opts)
	if err := cmd.ParseFlags([]string{"--n", "3", "--workers", "2", "--deadline", "7s", "--format", "tsv"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if opts.n != 3 {
		t.Fatalf("Expected n=3, got %d", opts.n)
	}
	if opts.workers != 2 {
		t.Fatalf("Expected workers=2, got %d", opts.workers)
	}
	if opts.deadline != 7*time.Second {
		t.Fatalf("Expected deadline=7s, got %v", opts.deadline)
	}
	if opts.format != "tsv" {
		t.Fatalf("Expected format=tsv, got %q", opts.format)
	}
}

func TestResolveSettingsFallsBackToConfig(t *testing.T) {
	cfg := &config.Config{Language: "deu", OutputMode: config.OutputModeTSV, OCRDeadlineSec: 7, Workers: 3}

	got := resolveSettings(stressOptions{}, cfg)
	if got.workers != 3 {
		t.Errorf("Expected workers=3 from config, got %d", got.workers)
	}
	if got.deadline != 7*time.Second {
		t.Errorf("Expected deadline=7s from config, got %v", got.deadline)
	}
	if got.language != "deu" {
		t.Errorf("Expected language=deu from config, got %q", got.language)
	}
	if got.mode != ocr.ModeTSV {
		t.Errorf("Expected tsv mode from config, got %q", got.mode)
	}
}

func TestResolveSettingsFlagsWin(t *testing.T) {
	cfg := &config.Config{Language: "eng", OutputMode: config.OutputModeText, OCRDeadlineSec: 20, Workers: 3}

	got := resolveSettings(stressOptions{workers: 2, deadline: time.Second}, cfg)
	if got.workers != 2 {
		t.Errorf("Expected the workers flag to win over config, got %d", got.workers)
	}
	if got.deadline != time.Second {
		t.Errorf("Expected the deadline flag to win over config, got %v", got.deadline)
	}
}

func TestWorkersEnvironmentReachesPool(t *testing.T) {
	t.Setenv("SCREEN_OCR_TESSERACT", "")
	t.Setenv("OCR_WORKERS", "3")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	got := resolveSettings(stressOptions{}, cfg)
	if got.workers != 3 {
		t.Errorf("Expected OCR_WORKERS to size the pool, got %d", got.workers)
	}
}

func TestSynthesizePNG(t *testing.T) {
	data, err := synthesizePNG()
	if err != nil {
		t.Fatalf("synthesizePNG failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Synthesized input does not decode as PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		t.Errorf("Synthesized image has degenerate bounds %v", bounds)
	}
}
