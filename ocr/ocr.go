package ocr

import (
	"context"
	"fmt"
)

// Mode selects the engine's output config and the result file extension.
type Mode string

const (
	ModeText Mode = "txt"
	ModeTSV  Mode = "tsv"
)

func (m Mode) outputExtension() string { return "." + string(m) }

func (m Mode) valid() bool { return m == ModeText || m == ModeTSV }

// DefaultLanguage is used when a request does not name a language.
const DefaultLanguage = "eng"

// Request describes one recognition call.
type Request struct {
	Image    []byte // PNG bytes, required
	Language string // trained-data code, defaults to DefaultLanguage
	Mode     Mode   // defaults to ModeText
}

// Recognize runs one request end to end: stage the image in a fresh
// workspace, resolve the engine environment, run the engine, extract the
// result. Text and TSV share this single pipeline; only the mode keyword and
// output extension differ. Safe for concurrent use, since every call owns
// its own workspace and subprocess. Bound the call with a context deadline
// to cap recognition time; on expiry the engine is killed and the call
// returns ErrEngineTimeout.
func Recognize(ctx context.Context, req Request) (string, error) {
	if len(req.Image) == 0 {
		return "", fmt.Errorf("%w: empty image payload", ErrDecode)
	}
	language := req.Language
	if language == "" {
		language = DefaultLanguage
	}
	mode := req.Mode
	if mode == "" {
		mode = ModeText
	}
	if !mode.valid() {
		return "", fmt.Errorf("unsupported output mode %q", mode)
	}

	ws, err := newWorkspace()
	if err != nil {
		return "", err
	}
	defer ws.destroy()

	if err := ws.stageInput(req.Image); err != nil {
		return "", err
	}

	return runEngine(ctx, language, ws, mode)
}
