package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/revelaction/segrole/annotation"
	"github.com/revelaction/segrole/config"
	sent "github.com/revelaction/segrole/sentence"
	"github.com/revelaction/segrole/storage/filesystem"
	"github.com/revelaction/segrole/storage/sqlite/zombiezen"
)

// engine loads the configured annotation engine. The returned func releases
// it.
func (e *env) engine(ctx context.Context) (annotation.Engine, func(), error) {
	switch e.cfg.Engine.Kind {
	case config.EngineCommand:
		cmd, err := annotation.StartCommand(ctx, e.cfg.Engine.Command, e.ui.Err, e.logger)
		if err != nil {
			return nil, nil, err
		}

		e.logger.Info("engine started", zap.Strings("command", e.cfg.Engine.Command))
		return cmd, func() {
			if err := cmd.Close(); err != nil {
				e.logger.Warn("engine stopped with error", zap.Error(err))
				return
			}
			e.logger.Info("engine stopped")
		}, nil

	default:
		lib, err := e.library()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", annotation.ErrEngineUnavailable, err)
		}

		corpus := annotation.NewCorpus(lib)
		e.logger.Info("engine loaded", zap.Int("docs", len(lib)), zap.Int("sentences", corpus.Len()))
		return corpus, func() {}, nil
	}
}

// library reads the annotated docs of the doc path, a directory of JSON docs
// or a SQLite file. Without doc path, the docs of the store are used.
func (e *env) library() (sent.Library, error) {
	path := e.cfg.Engine.DocPath
	if path == "" {
		path = e.cfg.Store.Path
	}

	if path == "" {
		return nil, errors.New("no annotated docs (set --doc-path or SEGROLE_DOC_PATH)")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		store, err := filesystem.NewDocStore(path)
		if err != nil {
			return nil, err
		}

		return store.Library()
	}

	pool, err := zombiezen.NewPool(path)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	return zombiezen.NewDocStore(pool).Library()
}
