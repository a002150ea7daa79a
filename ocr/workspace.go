package ocr

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

const (
	inputFileName    = "input.png"
	outputPrefixName = "output"
)

// workspace is the isolated temporary directory owned by exactly one
// invocation: staged input, output prefix, nothing shared.
type workspace struct {
	dir          string
	inputPath    string
	outputPrefix string
}

// newWorkspace allocates a fresh directory under the platform temp root.
// Uniqueness is os.MkdirTemp's job, never hand-rolled, so concurrent
// invocations cannot collide.
func newWorkspace() (*workspace, error) {
	dir, err := os.MkdirTemp("", "ocr-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	return &workspace{
		dir:          dir,
		inputPath:    filepath.Join(dir, inputFileName),
		outputPrefix: filepath.Join(dir, outputPrefixName),
	}, nil
}

// stageInput writes the image bytes to the fixed-name input file.
func (w *workspace) stageInput(data []byte) error {
	if err := os.WriteFile(w.inputPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}
	return nil
}

// destroy removes the workspace and everything in it. Best-effort and
// idempotent: failed or repeated removal is logged, never escalated.
func (w *workspace) destroy() {
	if err := os.RemoveAll(w.dir); err != nil {
		log.Printf("Warning: could not remove workspace %s: %v", w.dir, err)
	}
}
