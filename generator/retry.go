package generator

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
)

// ErrTransient marks a recoverable per-file condition. Errors wrapping it
// are retried according to the retry policy; everything else halts the run.
var ErrTransient = errors.New("transient fixture processing failure")

// ErrPackageAnchorNotFound indicates the fixture directory path does not
// contain the package anchor segment.
var ErrPackageAnchorNotFound = errors.New("package anchor not found in fixture directory path")

// RetryPolicy retries an operation while it fails with a transient error.
// MaxAttempts <= 0 retries without bound, matching the behavior of the
// authoring environment this tolerates.
type RetryPolicy struct {
	MaxAttempts int
}

// Do runs fn, retrying immediately as long as it returns an error wrapping
// ErrTransient. Every retry is reported, so an endless transient condition
// is visible instead of a silent busy loop.
func (p RetryPolicy) Do(description string, fn func() error) error {
	attempt := 1

	for {
		err := fn()
		if err == nil {
			return nil
		}

		if !errors.Is(err, ErrTransient) {
			return err
		}

		if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
			return fmt.Errorf("giving up on %s after %d attempts: %w", description, attempt, err)
		}

		attempt++

		color.Yellow("Retrying %s (attempt %d): %v", description, attempt, err)
	}
}
