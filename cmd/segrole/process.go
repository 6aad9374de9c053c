package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/segrole/process"
)

func processCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "process",
		Usage:     "extract the logical form and entities of sentences",
		ArgsUsage: "[sentence...]",
		Description: "Sentences are read from the arguments, from --file (one per line) or from stdin.\n" +
			"A sentence that can not be annotated is reported and does not stop the batch.",
		Flags: append(renderFlags(),
			&cli.StringFlag{Name: "file", Usage: "read sentences from `FILE`, one per line"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "number of sentences processed in parallel"},
			&cli.BoolFlag{Name: "store", Usage: "save the run in the SQLite store (--db)"},
			&cli.BoolFlag{Name: "progress", Aliases: []string{"p"}, Usage: "show a progress bar on stderr"},
		),
		Action: e.processAction,
	}
}

func (e *env) processAction(c *cli.Context) error {
	texts, source, err := e.readSentences(c)
	if err != nil {
		return err
	}

	r, err := e.renderer(c)
	if err != nil {
		return err
	}

	engine, release, err := e.engine(c.Context)
	if err != nil {
		return err
	}
	defer release()

	workers := e.cfg.Batch.Workers
	if c.IsSet("workers") {
		workers = c.Int("workers")
	}

	opts := []process.Option{process.WithLogger(e.logger), process.WithWorkers(workers)}

	var progress *uiprogress.Progress
	if c.Bool("progress") && len(texts) > 0 {
		progress = uiprogress.New()
		progress.SetOut(e.ui.Err)
		bar := progress.AddBar(len(texts)).AppendCompleted().PrependElapsed()
		opts = append(opts, process.WithResultFunc(func(int, process.Result) {
			bar.Incr()
		}))
		progress.Start()
	}

	results, batchErr := process.New(engine, opts...).ProcessBatch(c.Context, texts)

	if progress != nil {
		progress.Stop()
	}

	if err := r.Render(results); err != nil {
		return err
	}

	if batchErr != nil {
		return fmt.Errorf("batch interrupted: %w", batchErr)
	}

	if c.Bool("store") {
		return e.storeRun(source, results)
	}

	return nil
}

// readSentences returns the input sentences and a description of their
// source.
func (e *env) readSentences(c *cli.Context) ([]string, string, error) {
	if path := c.String("file"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("IO error: %w", err)
		}
		defer f.Close()

		texts, err := readLines(f)
		return texts, path, err
	}

	if c.Args().Present() {
		return c.Args().Slice(), "args", nil
	}

	texts, err := readLines(e.ui.In)
	return texts, "stdin", err
}

// readLines returns the non blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	texts := []string{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		texts = append(texts, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}

	return texts, nil
}
