// Package annotation defines the linguistic annotation engine consumed by
// the processor, and two implementations: an in-memory corpus of
// pre-annotated documents and a long-running annotator subprocess.
package annotation

import (
	"context"
	"errors"

	sent "github.com/revelaction/segrole/sentence"
)

var (
	// ErrEngineUnavailable is returned when an engine cannot be loaded or
	// started.
	ErrEngineUnavailable = errors.New("annotation engine unavailable")

	// ErrNotAnnotated is returned by the corpus engine for sentences it has
	// no annotation for.
	ErrNotAnnotated = errors.New("sentence not annotated")
)

// Engine tokenizes, tags, parses and finds the entities of a sentence.
type Engine interface {
	Annotate(ctx context.Context, text string) (sent.Sentence, error)
}
