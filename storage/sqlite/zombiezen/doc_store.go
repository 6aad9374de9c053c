package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sent "github.com/revelaction/segrole/sentence"
	"github.com/revelaction/segrole/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

type DocStore struct {
	pool *sqlitex.Pool
}

var _ storage.DocRepository = (*DocStore)(nil)

func NewDocStore(pool *sqlitex.Pool) *DocStore {
	return &DocStore{pool: pool}
}

func (h *DocStore) List() ([]sent.Doc, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	var docs []sent.Doc
	err = sqlitex.Execute(conn, "SELECT id, title, labels FROM docs ORDER BY id", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			docs = append(docs, sent.Doc{
				Id:     stmt.ColumnInt(0),
				Title:  stmt.ColumnText(1),
				Labels: splitLabels(stmt.ColumnText(2)),
			})
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (h *DocStore) Read(id int) (sent.Doc, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return sent.Doc{}, err
	}
	defer h.pool.Put(conn)

	doc := sent.Doc{Id: id}
	found := false

	err = sqlitex.Execute(conn, "SELECT title, labels FROM docs WHERE id = ?", &sqlitex.ExecOptions{
		Args: []any{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			doc.Title = stmt.ColumnText(0)
			doc.Labels = splitLabels(stmt.ColumnText(1))
			return nil
		},
	})
	if err != nil {
		return sent.Doc{}, err
	}
	if !found {
		return sent.Doc{}, fmt.Errorf("doc %d: %w", id, storage.ErrNotFound)
	}

	doc.Sentences = []sent.Sentence{}
	err = sqlitex.Execute(conn, "SELECT data FROM sentences WHERE doc_id = ? ORDER BY rowid", &sqlitex.ExecOptions{
		Args: []any{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			var s sent.Sentence
			if err := json.Unmarshal([]byte(stmt.ColumnText(0)), &s); err != nil {
				return fmt.Errorf("doc %d sentence %d: %w", id, len(doc.Sentences), err)
			}
			doc.Sentences = append(doc.Sentences, s)
			return nil
		},
	})
	if err != nil {
		return sent.Doc{}, err
	}

	return doc, nil
}

// Write inserts doc with a new id. The Id field of doc is ignored.
func (h *DocStore) Write(doc sent.Doc) (err error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	// Start Transaction
	defer sqlitex.Save(conn)(&err)

	err = sqlitex.Execute(conn, "INSERT INTO docs (title, labels) VALUES (?, ?)", &sqlitex.ExecOptions{
		Args: []any{doc.Title, strings.Join(doc.Labels, ",")},
	})
	if err != nil {
		return fmt.Errorf("failed to insert doc: %w", err)
	}
	docID := conn.LastInsertRowID()

	for i, s := range doc.Sentences {
		s.DocId = int(docID)
		data, marshalErr := json.Marshal(s)
		if marshalErr != nil {
			return fmt.Errorf("sentence %d: %w", i, marshalErr)
		}

		err = sqlitex.Execute(conn, "INSERT INTO sentences (doc_id, data) VALUES (?, ?)", &sqlitex.ExecOptions{
			Args: []any{docID, string(data)},
		})
		if err != nil {
			return fmt.Errorf("failed to insert sentence: %w", err)
		}
	}

	return nil
}

// Library returns all docs with their sentences.
func (h *DocStore) Library() (sent.Library, error) {
	docs, err := h.List()
	if err != nil {
		return nil, err
	}

	lib := make(sent.Library, 0, len(docs))
	for _, d := range docs {
		doc, err := h.Read(d.Id)
		if err != nil {
			return nil, err
		}
		lib = append(lib, doc)
	}

	return lib, nil
}

func splitLabels(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
