package cl

import (
	"errors"
	"fmt"
)

// Scope collects release functions as resources are acquired and runs them
// in reverse order on Close. Every release is attempted even when an earlier
// one fails.
type Scope struct {
	releases []release
}

type release struct {
	name string
	fn   func() error
}

// Defer registers fn to run when the scope closes.
func (s *Scope) Defer(name string, fn func() error) {
	s.releases = append(s.releases, release{name: name, fn: fn})
}

// Len reports how many releases are pending.
func (s *Scope) Len() int {
	return len(s.releases)
}

// Close runs all pending releases, newest first, and returns their joined
// errors. The scope is empty afterwards and may be reused.
func (s *Scope) Close() error {
	var errs []error
	for i := len(s.releases) - 1; i >= 0; i-- {
		r := s.releases[i]
		if err := r.fn(); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", r.name, err))
		}
	}
	s.releases = nil
	return errors.Join(errs...)
}
