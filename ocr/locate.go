package ocr

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Environment variables consulted on every call. Both are optional and both
// outrank bundled and system locations without being exclusive: when the
// override does not pan out, resolution continues down the list.
const (
	EnvEnginePath = "TESSERACT_PATH"
	EnvDataPrefix = "TESSDATA_PREFIX"
)

const trainedDataExt = ".traineddata"

// Conventional system install locations, most specific first.
var systemEnginePaths = []string{
	"/opt/homebrew/bin/tesseract",
	"/usr/local/bin/tesseract",
	"/usr/bin/tesseract",
}

// Conventional tessdata locations across package managers and engine
// versions, most specific first.
var systemDataPrefixes = []string{
	"/opt/homebrew/share/tessdata",
	"/usr/local/share/tessdata",
	"/usr/share/tesseract-ocr/5/tessdata",
	"/usr/share/tesseract-ocr/4.00/tessdata",
	"/usr/share/tessdata",
}

// ResolvedEnvironment is the product of successful binary and data-prefix
// resolution, immutable and scoped to a single invocation.
type ResolvedEnvironment struct {
	EnginePath string
	DataPrefix string
	Language   string
}

func engineFileName() string {
	if runtime.GOOS == "windows" {
		return "tesseract.exe"
	}
	return "tesseract"
}

// EngineCandidates returns the ordered executable locations to probe for one
// call: the binary bundled next to the executable, the TESSERACT_PATH
// override, then system installs. Rebuilt on every call; the environment may
// change between calls, so the answer is never cached.
func EngineCandidates(exeDir string) []string {
	candidates := make([]string, 0, len(systemEnginePaths)+2)
	if exeDir != "" {
		candidates = append(candidates, filepath.Join(exeDir, engineFileName()))
	}
	if p := os.Getenv(EnvEnginePath); p != "" {
		candidates = append(candidates, p)
	}
	return append(candidates, systemEnginePaths...)
}

// LocateEngine probes candidates in order and returns the first that exists
// as a regular file.
func LocateEngine(candidates []string) (string, error) {
	for _, c := range candidates {
		if isRegularFile(c) {
			return c, nil
		}
	}
	return "", ErrEngineNotFound
}

// DataPrefixCandidates returns the ordered directories that may directly
// contain trained-data files: the TESSDATA_PREFIX override as given and with
// a tessdata suffix (covering both the "prefix already ends in tessdata" and
// "prefix is the parent" conventions), the resource directory's tessdata
// plus the resources/tessdata nesting some bundlers produce, the Resources
// root beside the executable's parent directory, then system locations.
func DataPrefixCandidates(exeDir, resourceDir string) []string {
	candidates := make([]string, 0, len(systemDataPrefixes)+6)
	if p := os.Getenv(EnvDataPrefix); p != "" {
		candidates = append(candidates, p, filepath.Join(p, "tessdata"))
	}
	if resourceDir != "" {
		candidates = append(candidates,
			filepath.Join(resourceDir, "tessdata"),
			filepath.Join(resourceDir, "resources", "tessdata"),
		)
	}
	if exeDir != "" {
		resRoot := filepath.Join(filepath.Dir(exeDir), "Resources")
		candidates = append(candidates,
			filepath.Join(resRoot, "tessdata"),
			filepath.Join(resRoot, "resources", "tessdata"),
		)
	}
	return append(candidates, systemDataPrefixes...)
}

// LocateDataPrefix returns the first candidate directory holding
// <language>.traineddata. The probe is always on that file, never on
// directory existence alone: many candidate directories exist without the
// needed language installed. Exhaustion is a *DataNotFoundError; there is no
// default-directory fallback, so a missing language fails here rather than
// as an opaque engine error later.
func LocateDataPrefix(language string, candidates []string) (string, error) {
	for _, dir := range candidates {
		if isRegularFile(filepath.Join(dir, language+trainedDataExt)) {
			return dir, nil
		}
	}
	return "", &DataNotFoundError{Language: language}
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	return filepath.Dir(exe), nil
}
