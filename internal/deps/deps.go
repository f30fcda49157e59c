package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// EngineName labels the typesetting engine in reports.
const EngineName = "Typesetting engine"

// Requirement names an executable the render pipeline invokes.
type Requirement struct {
	Name     string
	Command  string
	Optional bool
}

// Status is the outcome of resolving one Requirement.
type Status struct {
	Name      string
	Command   string
	Path      string
	Optional  bool
	Available bool
	Detail    string
}

// CheckBinaries resolves each requirement on PATH, in order.
func CheckBinaries(requirements []Requirement) []Status {
	statuses := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		statuses = append(statuses, resolve(req))
	}
	return statuses
}

// CheckEngine resolves the typesetting engine command.
func CheckEngine(command string) Status {
	return CheckBinaries([]Requirement{{Name: EngineName, Command: command}})[0]
}

func resolve(req Requirement) Status {
	status := Status{
		Name:     req.Name,
		Command:  strings.TrimSpace(req.Command),
		Optional: req.Optional,
	}
	if status.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := exec.LookPath(status.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("%s not found on PATH", status.Command)
		return status
	}
	status.Path = path
	status.Available = true
	return status
}
