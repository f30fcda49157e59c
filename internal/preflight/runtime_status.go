package preflight

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// CheckEngineVersion runs the typesetting engine with -v and reports the first
// line of its banner.
func CheckEngineVersion(ctx context.Context, engine string) Result {
	const name = "Engine version"

	engine = strings.TrimSpace(engine)
	if engine == "" {
		return Result{Name: name, Detail: "engine not configured"}
	}
	if _, err := exec.LookPath(engine); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("binary %q not found", engine)}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	output, err := exec.CommandContext(checkCtx, engine, "-v").CombinedOutput()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s -v failed (%v)", engine, err)}
	}
	for _, line := range strings.Split(string(output), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return Result{Name: name, Passed: true, Detail: line}
		}
	}
	return Result{Name: name, Passed: true, Detail: "no version banner"}
}
