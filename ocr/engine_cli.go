//go:build !gosseract

package ocr

import (
	"context"
	"log"
)

// EngineName identifies the recognition backend compiled into this binary.
const EngineName = "tesseract"

// runEngine resolves the binary and data prefix for this call, then drives
// one subprocess invocation against the staged workspace.
func runEngine(ctx context.Context, language string, ws *workspace, mode Mode) (string, error) {
	env, err := resolveEnvironment(language)
	if err != nil {
		return "", err
	}
	log.Printf("DEBUG: resolved tesseract=%s TESSDATA_PREFIX=%s lang=%s", env.EnginePath, env.DataPrefix, env.Language)

	outcome, err := invoke(ctx, env, ws, mode)
	if err != nil {
		return "", err
	}
	return extractResult(outcome, ws.outputPrefix, mode)
}

// resolveEnvironment builds both candidate lists fresh and probes them.
// Binary and data resolution are independent: each is determined only by its
// own candidates, and either can fail regardless of the other.
func resolveEnvironment(language string) (ResolvedEnvironment, error) {
	exeDir, err := executableDir()
	if err != nil {
		return ResolvedEnvironment{}, err
	}
	enginePath, err := LocateEngine(EngineCandidates(exeDir))
	if err != nil {
		return ResolvedEnvironment{}, err
	}
	dataPrefix, err := LocateDataPrefix(language, DataPrefixCandidates(exeDir, exeDir))
	if err != nil {
		return ResolvedEnvironment{}, err
	}
	return ResolvedEnvironment{EnginePath: enginePath, DataPrefix: dataPrefix, Language: language}, nil
}
