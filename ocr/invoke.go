package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// dpiHint is the fixed resolution hint passed to the engine, independent of
// the image's embedded metadata.
const dpiHint = "300"

// engineWaitDelay bounds how long Run may keep waiting on the engine's
// inherited pipes after the process has exited or the deadline killed it.
// Without it, any child the engine spawned holds the pipe write-ends open
// and Run blocks for as long as that child lives.
const engineWaitDelay = time.Second

// engineOutcome is the raw subprocess result, consumed once by extractResult.
type engineOutcome struct {
	exitSuccess bool
	stdout      []byte
	stderr      []byte
}

// invoke runs the engine synchronously: one subprocess per call, no pooling,
// no reuse. The resolved data prefix travels in the child environment and
// the mode keyword selects the engine's output config. A non-zero exit is
// not an invoke error; it comes back as a failed outcome for extractResult
// to interpret. A start failure is a *LaunchError. When the context deadline
// expires the subprocess is killed and the call returns ErrEngineTimeout
// within engineWaitDelay even if the engine left children behind.
func invoke(ctx context.Context, env ResolvedEnvironment, ws *workspace, mode Mode) (engineOutcome, error) {
	cmd := exec.CommandContext(ctx, env.EnginePath,
		ws.inputPath, ws.outputPrefix, "-l", env.Language, "--dpi", dpiHint, string(mode))
	cmd.Env = withDataPrefix(os.Environ(), env.DataPrefix)
	cmd.WaitDelay = engineWaitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return engineOutcome{exitSuccess: true, stdout: stdout.Bytes(), stderr: stderr.Bytes()}, nil
	}
	if ctx.Err() != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return engineOutcome{}, ErrEngineTimeout
		}
		return engineOutcome{}, ctx.Err()
	}
	// ErrWaitDelay replaces what would have been a nil error: the engine
	// exited cleanly but something it spawned kept the inherited pipes open
	// past the grace window. The result file is already on disk, so the
	// truncated diagnostics stream does not invalidate the outcome.
	if errors.Is(err, exec.ErrWaitDelay) {
		return engineOutcome{exitSuccess: true, stdout: stdout.Bytes(), stderr: stderr.Bytes()}, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return engineOutcome{exitSuccess: false, stdout: stdout.Bytes(), stderr: stderr.Bytes()}, nil
	}
	return engineOutcome{}, &LaunchError{Path: env.EnginePath, Err: err}
}

// withDataPrefix returns environ with TESSDATA_PREFIX replaced or appended.
func withDataPrefix(environ []string, prefix string) []string {
	const key = EnvDataPrefix + "="
	out := make([]string, 0, len(environ)+1)
	replaced := false
	for _, kv := range environ {
		if strings.HasPrefix(kv, key) {
			if !replaced {
				out = append(out, key+prefix)
				replaced = true
			}
			continue
		}
		out = append(out, kv)
	}
	if !replaced {
		out = append(out, key+prefix)
	}
	return out
}

// extractResult turns a consumed outcome into the recognized text. A failure
// outcome surfaces the engine's trimmed stderr. A successful exit without a
// readable output file is ErrOutputMissing, never an empty success. The
// output file is removed best-effort once read; the workspace sweep picks up
// whatever remains.
func extractResult(outcome engineOutcome, outputPrefix string, mode Mode) (string, error) {
	if !outcome.exitSuccess {
		return "", &EngineFailedError{Stderr: strings.TrimSpace(string(outcome.stderr))}
	}
	outPath := outputPrefix + mode.outputExtension()
	data, err := os.ReadFile(outPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOutputMissing, err)
	}
	_ = os.Remove(outPath)
	return string(data), nil
}
