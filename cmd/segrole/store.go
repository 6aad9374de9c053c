package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/revelaction/segrole/process"
	"github.com/revelaction/segrole/storage"
	"github.com/revelaction/segrole/storage/sqlite/zombiezen"
)

// openStore opens the SQLite store, creating its tables if needed.
func (e *env) openStore() (*sqlitex.Pool, error) {
	if e.cfg.Store.Path == "" {
		return nil, errors.New("no store (set --db or SEGROLE_DB)")
	}

	return zombiezen.Open(e.cfg.Store.Path)
}

// storeRun saves results as a new run and prints its id.
func (e *env) storeRun(source string, results []process.Result) error {
	pool, err := e.openStore()
	if err != nil {
		return err
	}
	defer pool.Close()

	run := storage.Run{
		Id:        uuid.NewString(),
		Source:    source,
		Created:   time.Now(),
		Sentences: len(results),
	}

	var repo storage.ResultWriter = zombiezen.NewResultStore(pool)
	if err := repo.WriteRun(run, results); err != nil {
		return fmt.Errorf("failed to store run: %w", err)
	}

	e.logger.Info("run stored", zap.String("run", run.Id), zap.Int("sentences", run.Sentences))
	_, err = fmt.Fprintf(e.ui.Err, "run %s\n", run.Id)
	return err
}
