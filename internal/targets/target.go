package targets

import (
	"context"
	"fmt"
	"strings"
)

// Target is one unit of content from an upstream producer.
type Target struct {
	Title string   `yaml:"title"`
	Body  string   `yaml:"body"`
	Tags  []string `yaml:"tags"`
	Link  string   `yaml:"link,omitempty"`
}

// Source yields targets until exhausted.
type Source interface {
	HasNext() bool
	Next(ctx context.Context) (Target, error)
}

// Drain reads every remaining target from src.
func Drain(ctx context.Context, src Source) ([]Target, error) {
	var out []Target
	for src.HasNext() {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		target, err := src.Next(ctx)
		if err != nil {
			return out, fmt.Errorf("target %d: %w", len(out)+1, err)
		}
		out = append(out, target)
	}
	return out, nil
}

// SliceSource serves targets from memory.
type SliceSource struct {
	targets []Target
	pos     int
}

// NewSliceSource returns a Source over targets.
func NewSliceSource(targets []Target) *SliceSource {
	return &SliceSource{targets: targets}
}

func (s *SliceSource) HasNext() bool {
	return s.pos < len(s.targets)
}

func (s *SliceSource) Next(ctx context.Context) (Target, error) {
	if err := ctx.Err(); err != nil {
		return Target{}, err
	}
	if !s.HasNext() {
		return Target{}, ErrExhausted
	}
	target := s.targets[s.pos]
	s.pos++
	return target, nil
}

// PrimaryTag returns the first non-blank tag, or "".
func (t Target) PrimaryTag() string {
	for _, tag := range t.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			return tag
		}
	}
	return ""
}
