package ocr

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode reports that an input payload is not valid image data.
	ErrDecode = errors.New("invalid image data")

	// ErrEngineNotFound reports that no usable tesseract binary exists at
	// any candidate location, bundled or system-wide.
	ErrEngineNotFound = errors.New("tesseract not bundled next to the executable and no system tesseract available")

	// ErrOutputMissing reports that the engine exited successfully but the
	// expected output file is absent or unreadable.
	ErrOutputMissing = errors.New("tesseract reported success but produced no readable output")

	// ErrEngineTimeout reports that the engine subprocess was killed after
	// exceeding the request deadline.
	ErrEngineTimeout = errors.New("tesseract timed out")
)

// DataNotFoundError reports that no candidate directory contains the
// trained-data file for the requested language.
type DataNotFoundError struct {
	Language string
}

func (e *DataNotFoundError) Error() string {
	return fmt.Sprintf("no tessdata directory contains %s.traineddata", e.Language)
}

// LaunchError reports that the engine binary was found but the subprocess
// could not be started, as opposed to running and failing.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch tesseract at %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// EngineFailedError reports that the engine ran and exited non-zero. Stderr
// is trimmed and surfaced verbatim to aid diagnosis.
type EngineFailedError struct {
	Stderr string
}

func (e *EngineFailedError) Error() string {
	return fmt.Sprintf("tesseract failed: %s", e.Stderr)
}
