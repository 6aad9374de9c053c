package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

var (
	BuildTag    = "dev"
	BuildCommit = "none"
)

// UI contains the input and output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := run(ctx, os.Args, ui, os.LookupEnv)
	stop()

	if err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

// run executes the command line args. lookup resolves SEGROLE_*
// environment variables.
func run(ctx context.Context, args []string, ui UI, lookup func(string) (string, bool)) error {
	return newApp(ui, lookup).RunContext(ctx, args)
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "segrole: %v\n", err)
}
