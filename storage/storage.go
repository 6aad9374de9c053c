package storage

import (
	"errors"
	"time"

	"github.com/revelaction/segrole/process"
	sent "github.com/revelaction/segrole/sentence"
)

var ErrNotFound = errors.New("not found")

// DocReader defines read operations for annotated document storage
type DocReader interface {
	// List returns the metadata (Id, Title, Labels) of documents.
	// Content (Sentences) is not loaded.
	List() ([]sent.Doc, error)

	// Read returns a document by ID
	Read(id int) (sent.Doc, error)
}

// DocWriter defines write operations for document storage
type DocWriter interface {
	// Write persists a document and its sentences to storage
	Write(doc sent.Doc) error
}

// DocRepository combines read and write operations
type DocRepository interface {
	DocReader
	DocWriter
}

// Run is a processed batch of sentences.
type Run struct {
	Id string

	// Source describes the input of the run, f.ex. a file name.
	Source    string
	Created   time.Time
	Sentences int
}

// StoredResult is a Result with its place in a Run.
type StoredResult struct {
	RunId    string
	Position int
	process.Result
}

// ResultReader defines read operations for processed results
type ResultReader interface {
	// Runs returns all runs, newest first.
	Runs() ([]Run, error)

	// Results returns the results of a run in input order.
	Results(runId string) ([]process.Result, error)

	// ByVerb returns up to limit results whose triple has the verb lemma.
	ByVerb(lemma string, limit int) ([]StoredResult, error)
}

// ResultWriter defines write operations for processed results
type ResultWriter interface {
	// WriteRun persists a run and its results, in order.
	WriteRun(run Run, results []process.Result) error
}

type ResultRepository interface {
	ResultReader
	ResultWriter
}
