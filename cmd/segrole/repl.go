package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/segrole/annotation"
	"github.com/revelaction/segrole/process"
	"github.com/revelaction/segrole/repl"
)

func replCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "process sentences interactively",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "color", Usage: "colorize the logical forms"},
		},
		Action: e.replAction,
	}
}

func (e *env) replAction(c *cli.Context) error {
	engine, release, err := e.engine(c.Context)
	if err != nil {
		return err
	}
	defer release()

	var sentences []string
	if corpus, ok := engine.(*annotation.Corpus); ok {
		sentences = corpus.Sentences()
	}

	p := process.New(engine, process.WithLogger(e.logger))
	hdl := repl.NewHandler(p, sentences, e.ui.Out, e.cfg.Render.Color || c.Bool("color"))
	return hdl.Run(c.Context)
}
