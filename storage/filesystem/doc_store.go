package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	sent "github.com/revelaction/segrole/sentence"
	"github.com/revelaction/segrole/storage"
)

// DocStore reads annotated docs from a directory of JSON files. Doc ids are
// the positions of the files in the directory listing.
type DocStore struct {
	docDir string

	// In-memory cache
	docs []sent.Doc
}

var _ storage.DocRepository = (*DocStore)(nil)

// NewDocStore lists the JSON files of docDir. Contents are loaded on Read or
// LoadAll.
func NewDocStore(docDir string) (*DocStore, error) {
	files, err := os.ReadDir(docDir)
	if err != nil {
		return nil, err
	}

	docs := make([]sent.Doc, 0, len(files))

	idx := 0
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}

		docs = append(docs, sent.Doc{
			Id:    idx,
			Title: file.Name(),
		})
		idx++
	}

	return &DocStore{
		docDir: docDir,
		docs:   docs,
	}, nil
}

// LoadAll preloads all docs into memory. cb, if not nil, is called before
// each doc is read.
func (h *DocStore) LoadAll(cb func(current, total int, name string)) error {
	total := len(h.docs)
	for i := range h.docs {
		if cb != nil {
			cb(i, total, h.docs[i].Title)
		}

		if err := h.load(i); err != nil {
			return err
		}
	}

	return nil
}

func (h *DocStore) load(i int) error {
	doc := &h.docs[i]
	if doc.Sentences != nil {
		return nil
	}

	fullDoc, err := ReadDoc(filepath.Join(h.docDir, doc.Title))
	if err != nil {
		return fmt.Errorf("doc %s: %w", doc.Title, err)
	}

	// Title and Id come from the listing
	doc.Sentences = fullDoc.Sentences
	doc.Labels = fullDoc.Labels
	if doc.Sentences == nil {
		doc.Sentences = []sent.Sentence{}
	}

	return nil
}

func (h *DocStore) List() ([]sent.Doc, error) {
	list := make([]sent.Doc, len(h.docs))
	for i, doc := range h.docs {
		list[i] = sent.Doc{Id: doc.Id, Title: doc.Title, Labels: doc.Labels}
	}

	return list, nil
}

func (h *DocStore) Read(id int) (sent.Doc, error) {
	if id < 0 || id >= len(h.docs) {
		return sent.Doc{}, fmt.Errorf("doc %d: %w", id, storage.ErrNotFound)
	}

	if err := h.load(id); err != nil {
		return sent.Doc{}, err
	}

	return h.docs[id], nil
}

// Library returns all docs, loading them if needed.
func (h *DocStore) Library() (sent.Library, error) {
	if err := h.LoadAll(nil); err != nil {
		return nil, err
	}

	return sent.Library(h.docs), nil
}

func (h *DocStore) Write(doc sent.Doc) error {
	return fmt.Errorf("read-only storage")
}

// ReadDoc reads a Doc JSON from the given path and unmarshals it.
func ReadDoc(path string) (sent.Doc, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("IO error: %w", err)
	}

	var doc sent.Doc
	err = json.Unmarshal(f, &doc)
	if err != nil {
		return sent.Doc{}, fmt.Errorf("JSON decoding error: %w", err)
	}

	return doc, nil
}
