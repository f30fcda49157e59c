package targets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"coderdist/internal/fileutil"
	"coderdist/internal/services"
)

// YAMLExt is the extension Dump enforces.
const YAMLExt = ".yml"

// Dump writes targets to path as a YAML sequence and returns the path
// written. A path without the .yml extension gets it appended.
func Dump(path string, targets []Target) (string, error) {
	if filepath.Ext(path) != YAMLExt {
		path += YAMLExt
	}
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if targets == nil {
		targets = []Target{}
	}
	if err := encoder.Encode(targets); err != nil {
		return "", fmt.Errorf("encode targets: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("encode targets: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write targets %s: %w", path, err)
	}
	return path, nil
}

// Load reads targets written by Dump. Unknown keys are rejected.
func Load(path string) ([]Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "targets", "load", path, err)
		}
		return nil, fmt.Errorf("read targets %s: %w", path, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	var targets []Target
	if err := decoder.Decode(&targets); err != nil && !errors.Is(err, io.EOF) {
		return nil, services.Wrap(services.ErrValidation, "targets", "decode", path, err)
	}
	return targets, nil
}

// FileSource serves the targets stored in a YAML file.
func FileSource(path string) (Source, error) {
	targets, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewSliceSource(targets), nil
}
