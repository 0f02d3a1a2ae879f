package model

import "fmt"

// ErrModelUnavailable indicates that no trained classifier is loaded.
// Every inference fails with it until the process is restarted with an
// artifact in place.
type ErrModelUnavailable struct {
	Path string
	Err  error
}

func (e *ErrModelUnavailable) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("model unavailable (%s): %v", e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("model unavailable: %v", e.Err)
	}
	return "model unavailable"
}

func (e *ErrModelUnavailable) Unwrap() error { return e.Err }

// ErrInvalidArtifact indicates the artifact exists but cannot be used.
type ErrInvalidArtifact struct {
	Path string
	Err  error
}

func (e *ErrInvalidArtifact) Error() string {
	return fmt.Sprintf("invalid model artifact %s: %v", e.Path, e.Err)
}

func (e *ErrInvalidArtifact) Unwrap() error { return e.Err }
