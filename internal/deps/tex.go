package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// TeXBackend returns the compiler latexmk will drive for the given arguments.
func TeXBackend(args []string) string {
	backend := "pdflatex"
	for _, arg := range args {
		switch strings.TrimSpace(arg) {
		case "-xelatex", "-pdfxe":
			backend = "xelatex"
		case "-lualatex", "-pdflua":
			backend = "lualatex"
		case "-dvi", "-ps", "-pdfdvi", "-pdfps":
			backend = "latex"
		}
	}
	return backend
}

// CheckTeXBackend reports the compiler binary the typesetting engine will execute.
//
// TeX distributions install their compilers in the same directory as latexmk,
// and latexmk resolves them from PATH otherwise. This helper mirrors that order
// so doctor output matches what a render will actually run.
func CheckTeXBackend(engineCommand string, args []string) Status {
	backend := TeXBackend(args)
	result := Status{Name: backend}

	engine := strings.TrimSpace(engineCommand)
	if engine != "" {
		if resolved, err := exec.LookPath(engine); err == nil {
			candidate := filepath.Join(filepath.Dir(resolved), executableName(backend))
			if info, statErr := os.Stat(candidate); statErr == nil && isExecutable(info) {
				result.Command = candidate
				result.Path = candidate
				result.Available = true
				return result
			}
		}
	}

	if path, err := exec.LookPath(backend); err == nil {
		result.Command = path
		result.Path = path
		result.Available = true
		return result
	}

	result.Command = backend
	result.Detail = fmt.Sprintf("%s not found beside the engine or on PATH", backend)
	return result
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
