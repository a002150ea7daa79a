package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"screen-ocr-tesseract/clipboard"
	"screen-ocr-tesseract/config"
	"screen-ocr-tesseract/logutil"
	"screen-ocr-tesseract/ocr"
	"screen-ocr-tesseract/screenshot"
)

const (
	maxFileSizeMB = 10
	maxFileSize   = maxFileSizeMB * 1024 * 1024
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

type cliOptions struct {
	filePath    string
	base64Data  string
	capture     bool
	region      string
	allDisplays bool
	language    string
	format      string
	deadline    time.Duration
	jsonOutput  bool
	copyResult  bool
	verbose     bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(os.Args)
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"screen-ocr"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "screen-ocr",
		Short:         "Run tesseract OCR on PNG input",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts)
		},
	}

	cmd.Flags().StringVar(&opts.filePath, "file", "", "Path to PNG file (use '-' for stdin)")
	cmd.Flags().StringVar(&opts.base64Data, "base64", "", "Base64-encoded PNG payload")
	cmd.Flags().BoolVar(&opts.capture, "capture", false, "Capture the screen as input")
	cmd.Flags().StringVar(&opts.region, "region", "", "Screen region to capture as x,y,w,h (requires --capture)")
	cmd.Flags().BoolVar(&opts.allDisplays, "all-displays", false, "Capture every active display, not just the primary one (requires --capture)")
	cmd.Flags().StringVar(&opts.language, "lang", "", "Traineddata language to recognize (default from config)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Output format: txt or tsv (default from config)")
	cmd.Flags().DurationVar(&opts.deadline, "deadline", 0, "Recognition deadline, e.g. 30s (default from config)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&opts.copyResult, "copy", false, "Copy the result to the clipboard")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	cmd.MarkFlagsOneRequired("file", "base64", "capture")
	cmd.MarkFlagsMutuallyExclusive("file", "base64", "capture")
	cmd.MarkFlagsMutuallyExclusive("region", "all-displays")

	cmd.AddCommand(newDoctorCmd())

	return cmd
}

func newDoctorCmd() *cobra.Command {
	var language string
	cmd := &cobra.Command{
		Use:          "doctor",
		Short:        "Diagnose tesseract binary and tessdata resolution",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(language)
		},
	}
	cmd.Flags().StringVar(&language, "lang", "", "Traineddata language to probe (default from config)")
	return cmd
}

func runWithOptions(opts cliOptions) error {
	// Configure logging BEFORE any other operations.
	if opts.verbose {
		log.SetOutput(os.Stderr)
		fmt.Fprintf(os.Stderr, "[verbose] Starting screen-ocr\n")
	} else {
		log.SetOutput(io.Discard)
	}

	if opts.region != "" && !opts.capture {
		return fmt.Errorf("--region requires --capture")
	}
	if opts.allDisplays && !opts.capture {
		return fmt.Errorf("--all-displays requires --capture")
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		LanguageOverride:   opts.language,
		OutputModeOverride: opts.format,
	})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if !opts.verbose {
		logutil.Setup(cfg.EnableFileLogging)
	}

	if opts.verbose {
		fmt.Fprintf(os.Stderr, "[verbose] Config loaded: lang=%s format=%s deadline=%ds\n",
			cfg.Language, cfg.OutputMode, cfg.OCRDeadlineSec)
	}

	imageData, source, err := resolveInput(opts)
	if err != nil {
		return err
	}

	if len(imageData) == 0 {
		return fmt.Errorf("%w: input is empty", ocr.ErrDecode)
	}
	if len(imageData) > maxFileSize {
		return fmt.Errorf("input exceeds maximum size of %d MB", maxFileSizeMB)
	}
	if err := validatePNG(imageData); err != nil {
		return err
	}

	if opts.verbose {
		fmt.Fprintf(os.Stderr, "[verbose] Input from %s: %d bytes, PNG validation passed\n", source, len(imageData))
	}

	return performOCR(cfg, opts, imageData, source)
}

func resolveInput(opts cliOptions) ([]byte, string, error) {
	switch {
	case opts.base64Data != "":
		data, err := base64.StdEncoding.DecodeString(opts.base64Data)
		if err != nil {
			return nil, "", fmt.Errorf("%w: bad base64 payload: %v", ocr.ErrDecode, err)
		}
		return data, "base64", nil

	case opts.capture:
		data, err := captureScreen(opts.region, opts.allDisplays)
		if err != nil {
			return nil, "", err
		}
		return data, "screen", nil

	case opts.filePath == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return data, "-", nil

	default:
		data, err := os.ReadFile(opts.filePath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read file %s: %w", opts.filePath, err)
		}
		return data, opts.filePath, nil
	}
}

func captureScreen(regionSpec string, allDisplays bool) ([]byte, error) {
	if allDisplays {
		return screenshot.Capture()
	}

	if regionSpec == "" {
		bounds, err := screenshot.GetDisplayBounds()
		if err != nil {
			return nil, fmt.Errorf("failed to capture screen: %w", err)
		}
		return screenshot.CaptureRegion(screenshot.Region{
			X:      bounds.Min.X,
			Y:      bounds.Min.Y,
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
		})
	}

	region, err := parseRegion(regionSpec)
	if err != nil {
		return nil, err
	}
	return screenshot.CaptureRegion(region)
}

func parseRegion(spec string) (screenshot.Region, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return screenshot.Region{}, fmt.Errorf("invalid region %q: want x,y,w,h", spec)
	}
	vals := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return screenshot.Region{}, fmt.Errorf("invalid region %q: %v", spec, err)
		}
		vals[i] = n
	}
	return screenshot.Region{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

func validatePNG(data []byte) error {
	if len(data) < len(pngMagic) || !bytes.Equal(data[:len(pngMagic)], pngMagic) {
		return fmt.Errorf("%w: not a PNG file (bad magic number)", ocr.ErrDecode)
	}
	return nil
}

func performOCR(cfg *config.Config, opts cliOptions, imageData []byte, source string) error {
	deadline := opts.deadline
	if deadline <= 0 {
		deadline = time.Duration(cfg.OCRDeadlineSec) * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), deadline)
	defer cancel()

	mode := ocr.ModeText
	if cfg.OutputMode == config.OutputModeTSV {
		mode = ocr.ModeTSV
	}

	if opts.verbose {
		fmt.Fprintf(os.Stderr, "[verbose] Starting OCR via %s engine\n", ocr.EngineName)
	}

	startTime := time.Now()
	text, err := ocr.Recognize(ctx, ocr.Request{
		Image:    imageData,
		Language: cfg.Language,
		Mode:     mode,
	})
	elapsed := time.Since(startTime)

	if err != nil {
		if opts.verbose {
			fmt.Fprintf(os.Stderr, "[verbose] OCR failed after %v: %v\n", elapsed, err)
		}
		return fmt.Errorf("OCR failed: %w", err)
	}

	if opts.verbose {
		fmt.Fprintf(os.Stderr, "[verbose] OCR completed in %v, extracted %d characters\n", elapsed, len(text))
	}

	if opts.copyResult {
		if err := clipboard.Init(); err != nil {
			return fmt.Errorf("clipboard unavailable: %w", err)
		}
		if err := clipboard.Write(text); err != nil {
			return fmt.Errorf("failed to copy result to clipboard: %w", err)
		}
		if opts.verbose {
			fmt.Fprintf(os.Stderr, "[verbose] Result copied to clipboard\n")
		}
	}

	return outputResult(text, source, cfg, elapsed, opts.jsonOutput)
}

type OCRResult struct {
	Text      string  `json:"text"`
	Source    string  `json:"source"`
	Engine    string  `json:"engine"`
	Language  string  `json:"language"`
	Format    string  `json:"format"`
	Timestamp string  `json:"timestamp"`
	Duration  float64 `json:"duration_seconds"`
	CharCount int     `json:"character_count"`
}

func outputResult(text string, source string, cfg *config.Config, elapsed time.Duration, jsonOutput bool) error {
	if jsonOutput {
		result := OCRResult{
			Text:      text,
			Source:    source,
			Engine:    ocr.EngineName,
			Language:  cfg.Language,
			Format:    cfg.OutputMode,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Duration:  elapsed.Seconds(),
			CharCount: len(text),
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("failed to encode JSON output: %w", err)
		}
	} else {
		fmt.Print(text)
	}

	return nil
}

func runDoctor(language string) error {
	cfg, err := config.LoadWithOptions(config.LoadOptions{LanguageOverride: language})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	exeDir := ""
	if exe, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exe)
	}

	engineCandidates := ocr.EngineCandidates(exeDir)
	fmt.Println("Engine candidates:")
	for _, candidate := range engineCandidates {
		fmt.Printf("  %-8s %s\n", probeMark(candidate), candidate)
	}
	enginePath, engineErr := ocr.LocateEngine(engineCandidates)
	if engineErr != nil {
		fmt.Println("Engine: not found")
	} else {
		fmt.Printf("Engine: %s\n", enginePath)
	}

	dataCandidates := ocr.DataPrefixCandidates(exeDir, exeDir)
	fmt.Printf("\nTessdata candidates for %q:\n", cfg.Language)
	for _, dir := range dataCandidates {
		fmt.Printf("  %-8s %s\n", probeMark(filepath.Join(dir, cfg.Language+".traineddata")), dir)
	}
	dataPrefix, dataErr := ocr.LocateDataPrefix(cfg.Language, dataCandidates)
	if dataErr != nil {
		fmt.Println("Tessdata prefix: not found")
	} else {
		fmt.Printf("Tessdata prefix: %s\n", dataPrefix)
	}

	if engineErr != nil {
		return engineErr
	}
	return dataErr
}

func probeMark(path string) string {
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		return "found"
	}
	return "missing"
}
