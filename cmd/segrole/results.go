package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/segrole/process"
	"github.com/revelaction/segrole/storage"
	"github.com/revelaction/segrole/storage/sqlite/zombiezen"
)

func resultsCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "results",
		Usage: "list stored runs, the results of a run or the results of a verb",
		Flags: append(renderFlags(),
			&cli.StringFlag{Name: "run", Usage: "show the results of run `ID`"},
			&cli.StringFlag{Name: "verb", Usage: "show the results whose verb has `LEMMA`"},
			&cli.IntFlag{Name: "limit", Usage: "maximum number of results for --verb (0 means all)"},
		),
		Action: e.resultsAction,
	}
}

func (e *env) resultsAction(c *cli.Context) error {
	pool, err := e.openStore()
	if err != nil {
		return err
	}
	defer pool.Close()

	var repo storage.ResultReader = zombiezen.NewResultStore(pool)

	switch {
	case c.IsSet("run"):
		results, err := repo.Results(c.String("run"))
		if err != nil {
			return fmt.Errorf("run %s: %w", c.String("run"), err)
		}
		return e.render(c, results)

	case c.IsSet("verb"):
		stored, err := repo.ByVerb(c.String("verb"), c.Int("limit"))
		if err != nil {
			return err
		}

		results := make([]process.Result, 0, len(stored))
		for _, s := range stored {
			results = append(results, s.Result)
		}
		return e.render(c, results)
	}

	runs, err := repo.Runs()
	if err != nil {
		return err
	}

	for _, run := range runs {
		fmt.Fprintf(e.ui.Out, "%s  %s  %4d  %s\n", run.Id, run.Created.Format(time.DateTime), run.Sentences, run.Source)
	}

	return nil
}

func (e *env) render(c *cli.Context, results []process.Result) error {
	r, err := e.renderer(c)
	if err != nil {
		return err
	}

	return r.Render(results)
}
