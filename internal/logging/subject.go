package logging

import "strings"

// FormatSubject builds the component/coder/stage subject string used in console output.
func FormatSubject(component, coder, stage string) string {
	component = strings.TrimSpace(component)
	coder = strings.TrimSpace(coder)
	stage = strings.TrimSpace(stage)
	parts := make([]string, 0, 2)
	if component != "" {
		parts = append(parts, component)
	}
	switch {
	case coder != "" && stage != "":
		parts = append(parts, "Coder "+coder+" ("+stage+")")
	case coder != "":
		parts = append(parts, "Coder "+coder)
	case stage != "":
		parts = append(parts, stage)
	}
	return strings.Join(parts, " · ")
}
