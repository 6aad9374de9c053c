package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/revelaction/segrole/config"
	"github.com/revelaction/segrole/render"
)

// env is the state shared by all commands once the global flags are parsed.
type env struct {
	ui     UI
	lookup func(string) (string, bool)

	cfg    config.Config
	logger *zap.Logger
}

func newApp(ui UI, lookup func(string) (string, bool)) *cli.App {
	e := &env{ui: ui, lookup: lookup, cfg: config.Default(), logger: zap.NewNop()}

	return &cli.App{
		Name:                 "segrole",
		Usage:                "extract subject-verb-object roles and named entities from sentences",
		Writer:               ui.Out,
		ErrWriter:            ui.Err,
		Reader:               ui.In,
		HideVersion:          true,
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config `FILE` (env SEGROLE_CONFIG)"},
			&cli.StringFlag{Name: "engine", Usage: "annotation engine: corpus or command (env SEGROLE_ENGINE)"},
			&cli.StringFlag{Name: "engine-command", Usage: "annotator command line, for the command engine (env SEGROLE_ENGINE_COMMAND)"},
			&cli.StringFlag{Name: "doc-path", Aliases: []string{"d"}, Usage: "directory of annotated JSON docs or SQLite `FILE`, for the corpus engine (env SEGROLE_DOC_PATH)"},
			&cli.StringFlag{Name: "db", Usage: "SQLite store `FILE` for runs and results (env SEGROLE_DB)"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error (env SEGROLE_LOG_LEVEL)"},
		},
		Before: e.setup,
		After:  e.teardown,
		// errors are printed by main
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			processCommand(e),
			docCommand(e),
			importCommand(e),
			resultsCommand(e),
			statCommand(e),
			replCommand(e),
			versionCommand(e),
			bashCommand(e),
		},
	}
}

// setup resolves the configuration: flag over env over file over default.
func (e *env) setup(c *cli.Context) error {
	path, _ := e.lookup("SEGROLE_CONFIG")
	if c.IsSet("config") {
		path = c.String("config")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if err := cfg.ApplyEnv(e.lookup); err != nil {
		return err
	}

	if c.IsSet("engine") {
		cfg.Engine.Kind = c.String("engine")
	}

	if c.IsSet("engine-command") {
		cfg.Engine.Command = strings.Fields(c.String("engine-command"))
	}

	if c.IsSet("doc-path") {
		cfg.Engine.DocPath = c.String("doc-path")
	}

	if c.IsSet("db") {
		cfg.Store.Path = c.String("db")
	}

	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := cfg.Logging.Logger()
	if err != nil {
		return err
	}

	e.cfg = cfg
	e.logger = logger
	return nil
}

func (e *env) teardown(c *cli.Context) error {
	// Sync fails on some terminals
	_ = e.logger.Sync()
	return nil
}

// renderer returns the renderer for the --format and --color flags of c,
// falling back to the render config.
func (e *env) renderer(c *cli.Context) (render.Renderer, error) {
	format := e.cfg.Render.Format
	if c.IsSet("format") {
		format = c.String("format")
	}

	if !slices.Contains(render.SupportedFormats(), format) {
		return nil, fmt.Errorf("unknown format %q (supported: %s)", format, strings.Join(render.SupportedFormats(), ", "))
	}

	return render.New(format, e.ui.Out, e.cfg.Render.Color || c.Bool("color")), nil
}

func renderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "format", Usage: "output format: " + strings.Join(render.SupportedFormats(), ", ")},
		&cli.BoolFlag{Name: "color", Usage: "colorize the logical forms"},
	}
}
