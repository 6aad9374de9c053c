package main

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/segrole/process"
	sent "github.com/revelaction/segrole/sentence"
	"github.com/revelaction/segrole/storage/filesystem"
)

func docCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "doc",
		Usage:     "extract the logical forms of a pre-annotated JSON doc",
		ArgsUsage: "<file.json>",
		Flags: append(renderFlags(),
			&cli.BoolFlag{Name: "store", Usage: "save the run in the SQLite store (--db)"},
		),
		Action: e.docAction,
	}
}

func (e *env) docAction(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return errors.New("doc: expected exactly one JSON file")
	}

	path := c.Args().First()
	doc, err := filesystem.ReadDoc(path)
	if err != nil {
		return err
	}

	r, err := e.renderer(c)
	if err != nil {
		return err
	}

	// parsed sentences need no engine
	results := processDoc(process.New(nil, process.WithLogger(e.logger)), doc)

	if err := r.Render(results); err != nil {
		return err
	}

	if c.Bool("store") {
		return e.storeRun(path, results)
	}

	return nil
}

// processDoc extracts the results of the already annotated sentences of doc.
func processDoc(p *process.Processor, doc sent.Doc) []process.Result {
	results := make([]process.Result, 0, len(doc.Sentences))
	for _, s := range doc.Sentences {
		results = append(results, p.ProcessParsed(s.String(), s))
	}

	return results
}
