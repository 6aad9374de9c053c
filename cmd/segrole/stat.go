package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/segrole/entity"
	"github.com/revelaction/segrole/process"
	"github.com/revelaction/segrole/stat"
	"github.com/revelaction/segrole/storage"
	"github.com/revelaction/segrole/storage/filesystem"
	"github.com/revelaction/segrole/storage/sqlite/zombiezen"
)

const topVerbs = 10

func statCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "stat",
		Usage:     "show statistics of a stored run or of a JSON doc",
		ArgsUsage: "[file.json]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "run", Usage: "stored run `ID`"},
		},
		Action: e.statAction,
	}
}

func (e *env) statAction(c *cli.Context) error {
	hdl := stat.NewHandler()

	switch {
	case c.IsSet("run"):
		pool, err := e.openStore()
		if err != nil {
			return err
		}
		defer pool.Close()

		var repo storage.ResultReader = zombiezen.NewResultStore(pool)
		results, err := repo.Results(c.String("run"))
		if err != nil {
			return fmt.Errorf("run %s: %w", c.String("run"), err)
		}
		hdl.Aggregate(results)

	case c.Args().Len() == 1:
		doc, err := filesystem.ReadDoc(c.Args().First())
		if err != nil {
			return err
		}

		hdl.AggregateDoc(doc)
		hdl.Aggregate(processDoc(process.New(nil, process.WithLogger(e.logger)), doc))

		stats := hdl.Get()
		fmt.Fprintf(e.ui.Out, "Num tokens %d, num tokens per sentence %d\n", stats.NumTokens, stats.TokensPerSentenceMean)

	default:
		return errors.New("stat: give --run or a JSON doc")
	}

	stats := hdl.Get()
	fmt.Fprintf(e.ui.Out, "Num sentences %d, with triple %d, failed %d\n", stats.NumSentences, stats.NumTriples, stats.NumFailed)

	ents := []string{}
	for _, b := range entity.All() {
		ents = append(ents, fmt.Sprintf("%s=%d", b, stats.Entities[b]))
	}
	fmt.Fprintf(e.ui.Out, "Entities %s\n", strings.Join(ents, " "))

	verbs := []string{}
	for _, v := range hdl.TopVerbs(topVerbs) {
		verbs = append(verbs, fmt.Sprintf("%s=%d", v.Lemma, v.Count))
	}
	fmt.Fprintf(e.ui.Out, "Top verbs %s\n", strings.Join(verbs, " "))

	return nil
}
