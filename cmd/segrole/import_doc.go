package main

import (
	"errors"
	"fmt"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/revelaction/segrole/storage"
	"github.com/revelaction/segrole/storage/filesystem"
	"github.com/revelaction/segrole/storage/sqlite/zombiezen"
)

func importCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "copy a directory of annotated JSON docs into the SQLite store",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "source `DIR` of JSON docs", Required: true},
			&cli.StringFlag{Name: "to", Usage: "destination SQLite `FILE` (default --db)"},
		},
		Action: e.importAction,
	}
}

func (e *env) importAction(c *cli.Context) error {
	from := c.String("from")
	to := e.cfg.Store.Path
	if c.IsSet("to") {
		to = c.String("to")
	}

	if to == "" {
		return errors.New("import: no destination (set --to or --db)")
	}

	src, err := filesystem.NewDocStore(from)
	if err != nil {
		return err
	}

	pool, err := zombiezen.Open(to)
	if err != nil {
		return err
	}
	defer pool.Close()

	var dst storage.DocWriter = zombiezen.NewDocStore(pool)

	fmt.Fprintf(e.ui.Out, "Reading docs from %s...\n", from)
	docs, err := src.List()
	if err != nil {
		return err
	}

	progress := uiprogress.New()
	progress.SetOut(e.ui.Err)
	bar := progress.AddBar(max(len(docs), 1)).AppendCompleted().PrependElapsed()
	progress.Start()
	defer progress.Stop()

	count := 0
	for _, docMeta := range docs {
		doc, err := src.Read(docMeta.Id)
		if err != nil {
			return fmt.Errorf("failed to read doc %s: %w", docMeta.Title, err)
		}

		if err := dst.Write(doc); err != nil {
			return fmt.Errorf("failed to write doc %s: %w", docMeta.Title, err)
		}

		e.logger.Debug("doc imported", zap.String("title", doc.Title), zap.Int("sentences", len(doc.Sentences)))
		count++
		bar.Incr()
	}

	fmt.Fprintf(e.ui.Out, "Successfully imported %d docs from %s to %s\n", count, from, to)
	return nil
}
