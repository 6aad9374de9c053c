package annotation

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	sent "github.com/revelaction/segrole/sentence"
	"go.uber.org/zap"
)

// Command is an Engine backed by a long-running annotator process, f.ex. a
// spaCy script. The protocol is line based: segrole writes one sentence per
// line to the process stdin and reads back one JSON encoded sentence per
// line from its stdout:
//
//	{"text": "...", "tokens": [...], "ents": [...]}
//
// or, when the annotator could not handle the sentence:
//
//	{"error": "..."}
//
// The model is loaded once by the process; calls are serialized.
type Command struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	broken error

	logger *zap.Logger
}

var _ Engine = (*Command)(nil)

type commandResponse struct {
	sent.Sentence
	Error string `json:"error,omitempty"`
}

// StartCommand starts the annotator argv. The process is killed when ctx is
// done. The stderr of the process is copied to stderr, if not nil.
func StartCommand(ctx context.Context, argv []string, stderr io.Writer, logger *zap.Logger) (*Command, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: no annotator command", ErrEngineUnavailable)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngineUnavailable, err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngineUnavailable, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEngineUnavailable, argv[0], err)
	}

	logger.Info("annotator started", zap.Strings("argv", argv), zap.Int("pid", cmd.Process.Pid))

	return &Command{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
		logger: logger,
	}, nil
}

func (c *Command) Annotate(ctx context.Context, text string) (sent.Sentence, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return sent.Sentence{}, err
	}

	if c.broken != nil {
		return sent.Sentence{}, c.broken
	}

	line := strings.ReplaceAll(text, "\n", " ") + "\n"
	if _, err := io.WriteString(c.stdin, line); err != nil {
		return sent.Sentence{}, c.fail(fmt.Errorf("write to annotator: %w", err))
	}

	data, err := c.stdout.ReadBytes('\n')
	if err != nil {
		return sent.Sentence{}, c.fail(fmt.Errorf("read from annotator: %w", err))
	}

	var resp commandResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return sent.Sentence{}, fmt.Errorf("annotator response: %w", err)
	}

	if resp.Error != "" {
		return sent.Sentence{}, fmt.Errorf("annotator: %s", resp.Error)
	}

	if resp.Text == "" {
		resp.Text = text
	}

	return resp.Sentence, nil
}

// fail marks the engine as unusable: the stream is out of sync after an IO
// error.
func (c *Command) fail(err error) error {
	c.broken = fmt.Errorf("%w: %w", ErrEngineUnavailable, err)
	c.logger.Error("annotator failed", zap.Error(err))
	return c.broken
}

// Close ends the annotator input and waits for the process to exit.
func (c *Command) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken == nil {
		c.broken = fmt.Errorf("%w: closed", ErrEngineUnavailable)
	}

	closeErr := c.stdin.Close()
	waitErr := c.cmd.Wait()
	c.logger.Info("annotator stopped", zap.Int("pid", c.cmd.Process.Pid))

	return errors.Join(closeErr, waitErr)
}
