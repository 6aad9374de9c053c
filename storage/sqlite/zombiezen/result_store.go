package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/revelaction/segrole/entity"
	"github.com/revelaction/segrole/process"
	"github.com/revelaction/segrole/storage"
	"github.com/revelaction/segrole/svo"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const resultColumns = "run_id, position, sentence, subject, verb, object, logical_form, entities, error"

// ResultStore keeps processed runs. A result without triple has NULL
// subject, verb and object.
type ResultStore struct {
	pool *sqlitex.Pool
}

var _ storage.ResultRepository = (*ResultStore)(nil)

func NewResultStore(pool *sqlitex.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (h *ResultStore) WriteRun(run storage.Run, results []process.Result) (err error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	err = sqlitex.Execute(conn, "INSERT INTO runs (id, source, created, sentences) VALUES (?, ?, ?, ?)", &sqlitex.ExecOptions{
		Args: []any{run.Id, run.Source, run.Created.UnixMilli(), len(results)},
	})
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.Id, err)
	}

	for i, r := range results {
		ents, marshalErr := json.Marshal(r.Entities)
		if marshalErr != nil {
			return marshalErr
		}

		var subject, verb, object any
		if r.Triple != nil {
			subject, verb, object = r.Triple.Subject, r.Triple.Verb, r.Triple.Object
		}

		err = sqlitex.Execute(conn, "INSERT INTO results ("+resultColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", &sqlitex.ExecOptions{
			Args: []any{run.Id, i, r.Sentence, subject, verb, object, r.LogicalForm, string(ents), r.Err},
		})
		if err != nil {
			return fmt.Errorf("failed to insert result %d: %w", i, err)
		}
	}

	return nil
}

func (h *ResultStore) Runs() ([]storage.Run, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	runs := []storage.Run{}
	err = sqlitex.Execute(conn, "SELECT id, source, created, sentences FROM runs ORDER BY created DESC, rowid DESC", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			runs = append(runs, storage.Run{
				Id:        stmt.ColumnText(0),
				Source:    stmt.ColumnText(1),
				Created:   time.UnixMilli(stmt.ColumnInt64(2)),
				Sentences: stmt.ColumnInt(3),
			})
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return runs, nil
}

func (h *ResultStore) Results(runId string) ([]process.Result, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	found := false
	err = sqlitex.Execute(conn, "SELECT 1 FROM runs WHERE id = ?", &sqlitex.ExecOptions{
		Args: []any{runId},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("run %s: %w", runId, storage.ErrNotFound)
	}

	results := []process.Result{}
	err = sqlitex.Execute(conn, "SELECT "+resultColumns+" FROM results WHERE run_id = ? ORDER BY position", &sqlitex.ExecOptions{
		Args: []any{runId},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			sr, err := scanResult(stmt)
			if err != nil {
				return err
			}
			results = append(results, sr.Result)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (h *ResultStore) ByVerb(lemma string, limit int) ([]storage.StoredResult, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	if limit <= 0 {
		limit = -1 // no limit in sqlite
	}

	results := []storage.StoredResult{}
	err = sqlitex.Execute(conn, "SELECT "+resultColumns+" FROM results WHERE verb = ? ORDER BY rowid LIMIT ?", &sqlitex.ExecOptions{
		Args: []any{lemma, limit},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			sr, err := scanResult(stmt)
			if err != nil {
				return err
			}
			results = append(results, sr)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

func scanResult(stmt *sqlite.Stmt) (storage.StoredResult, error) {
	sr := storage.StoredResult{
		RunId:    stmt.ColumnText(0),
		Position: stmt.ColumnInt(1),
	}

	sr.Sentence = stmt.ColumnText(2)
	if stmt.ColumnType(4) != sqlite.TypeNull {
		sr.Triple = &svo.Triple{
			Subject: stmt.ColumnText(3),
			Verb:    stmt.ColumnText(4),
			Object:  stmt.ColumnText(5),
		}
	}
	sr.LogicalForm = stmt.ColumnText(6)
	sr.Err = stmt.ColumnText(8)

	sr.Entities = entity.Empty()
	if err := json.Unmarshal([]byte(stmt.ColumnText(7)), &sr.Entities); err != nil {
		return sr, fmt.Errorf("result %s/%d entities: %w", sr.RunId, sr.Position, err)
	}

	return sr, nil
}
