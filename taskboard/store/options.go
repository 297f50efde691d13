package store

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/arthur-debert/taskboard/taskboard/ids"
	"github.com/arthur-debert/taskboard/taskboard/notify"
)

// SeedPolicy decides what an empty board starts with
type SeedPolicy int

const (
	// SeedNone starts empty; renderers show EmptyStateMessage
	SeedNone SeedPolicy = iota

	// SeedExamples starts with one example task per column
	SeedExamples
)

func (p SeedPolicy) String() string {
	switch p {
	case SeedNone:
		return "none"
	case SeedExamples:
		return "examples"
	}
	return fmt.Sprintf("SeedPolicy(%d)", int(p))
}

// ParseSeedPolicy reads "none" or "examples"
func ParseSeedPolicy(s string) (SeedPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "empty":
		return SeedNone, nil
	case "examples", "example":
		return SeedExamples, nil
	}
	return SeedNone, fmt.Errorf("unknown seed policy %q: must be none or examples", s)
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for warnings and debug output
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithNotifier shares an existing notifier
func WithNotifier(n *notify.Notifier) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

// WithAllocator sets the id allocator
func WithAllocator(a *ids.Allocator) Option {
	return func(s *Store) {
		s.allocator = a
	}
}

// WithSeedPolicy sets what Initialize does with an empty board
func WithSeedPolicy(p SeedPolicy) Option {
	return func(s *Store) {
		s.seed = p
	}
}

// WithPersistRetries sets how many extra save attempts follow a failed one
func WithPersistRetries(n int) Option {
	return func(s *Store) {
		if n < 0 {
			n = 0
		}
		s.persistRetries = n
	}
}
