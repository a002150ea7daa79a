//go:build gosseract

package ocr

import (
	"context"
	"errors"
	"log"

	"github.com/otiai10/gosseract/v2"
)

// EngineName identifies the recognition backend compiled into this binary.
const EngineName = "gosseract"

// runEngine drives the in-process gosseract client instead of the external
// binary. Data-prefix resolution is unchanged: a language with no trained
// data anywhere still fails fast with *DataNotFoundError. The client only
// produces plain text; TSV needs the external engine.
func runEngine(ctx context.Context, language string, ws *workspace, mode Mode) (string, error) {
	if mode != ModeText {
		return "", errors.New("tsv output requires the external tesseract engine")
	}
	exeDir, err := executableDir()
	if err != nil {
		return "", err
	}
	dataPrefix, err := LocateDataPrefix(language, DataPrefixCandidates(exeDir, exeDir))
	if err != nil {
		return "", err
	}
	log.Printf("DEBUG: resolved TESSDATA_PREFIX=%s lang=%s (in-process engine)", dataPrefix, language)

	client := gosseract.NewClient()
	if err := client.SetTessdataPrefix(dataPrefix); err != nil {
		client.Close()
		return "", err
	}
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return "", err
	}
	if err := client.SetImage(ws.inputPath); err != nil {
		client.Close()
		return "", err
	}

	// The client has no context support; run it in a sub-goroutine and let
	// the deadline win the select. The goroutine owns the client from here
	// so a timed-out call cannot close it mid-recognition.
	type result struct {
		text string
		err  error
	}
	resCh := make(chan result, 1)
	go func() {
		text, err := client.Text()
		client.Close()
		resCh <- result{text, err}
	}()
	select {
	case r := <-resCh:
		return r.text, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ErrEngineTimeout
		}
		return "", ctx.Err()
	}
}
