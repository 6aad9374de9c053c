package repl

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/revelaction/segrole/process"
	"github.com/revelaction/segrole/render"
)

const (
	completionThreshold = 2

	cmdQuit = "quit"
	cmdJSON = ":json"
	cmdText = ":text"
)

var commands = []prompt.Suggest{
	{Text: cmdJSON, Description: "⚙ render results as JSON"},
	{Text: cmdText, Description: "⚙ render results as text"},
	{Text: cmdQuit, Description: "🔧 exit"},
}

type Handler struct {
	Processor *process.Processor
	Text      *render.TextRenderer
	JSON      *render.JSONRenderer

	// Sentences are offered as completions
	Sentences []string

	Out io.Writer

	isJSON bool
}

func NewHandler(p *process.Processor, sentences []string, out io.Writer, hasColor bool) *Handler {
	text := render.NewTextRenderer(out)
	text.HasColor = hasColor
	text.HasPrefix = false

	return &Handler{
		Processor: p,
		Text:      text,
		JSON:      render.NewJSONRenderer(out),
		Sentences: sentences,
		Out:       out,
	}
}

func (h *Handler) Run(ctx context.Context) error {

	fmt.Fprintln(h.Out, "🔑 Ctrl+X: Toggle prefix, Ctrl+F: next Format, :json/:text, 🔧 quit")

	history := []string{}

	for {
		in := prompt.Input("      ✍  ", h.completer,
			prompt.OptionTitle("segrole repl"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.Text.NextFormat()
					fmt.Fprintln(h.Out, "Format set to: "+h.Text.Format)
				}}),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlX,
				Fn: func(buf *prompt.Buffer) {
					h.Text.NextPrefix()
					fmt.Fprintln(h.Out, "Prefix set to "+fmt.Sprintf("%t", h.Text.HasPrefix))
				}}),
		)

		if strings.TrimSpace(in) != "" {
			history = append(history, in)
		}

		quit, err := h.Execute(ctx, in)
		if err != nil {
			return err
		}

		if quit {
			return nil
		}
	}
}

// Execute handles one line of input. It returns true when the loop should
// end.
func (h *Handler) Execute(ctx context.Context, in string) (bool, error) {
	in = strings.TrimSpace(in)

	switch in {
	case "":
		return false, nil
	case cmdQuit:
		return true, nil
	case cmdJSON:
		h.isJSON = true
		fmt.Fprintln(h.Out, "Format set to: "+render.FormatJSON)
		return false, nil
	case cmdText:
		h.isJSON = false
		fmt.Fprintln(h.Out, "Format set to: "+h.Text.Format)
		return false, nil
	}

	if err := ctx.Err(); err != nil {
		return true, err
	}

	res := h.Processor.ProcessSentence(ctx, in)
	if err := h.renderer().Render([]process.Result{res}); err != nil {
		return true, fmt.Errorf("failed to render: %w", err)
	}

	return false, nil
}

func (h *Handler) renderer() render.Renderer {
	if h.isJSON {
		return h.JSON
	}

	return h.Text
}

func (h *Handler) completer(in prompt.Document) []prompt.Suggest {
	return h.suggest(in.TextBeforeCursor())
}

func (h *Handler) suggest(befCursor string) []prompt.Suggest {
	s := []prompt.Suggest{}

	if len(befCursor) < completionThreshold {
		return s
	}

	if strings.HasPrefix(befCursor, ":") || strings.HasPrefix(cmdQuit, befCursor) {
		return prompt.FilterHasPrefix(commands, befCursor, false)
	}

	for _, text := range h.Sentences {
		if strings.HasPrefix(strings.ToLower(text), strings.ToLower(befCursor)) {
			s = append(s, prompt.Suggest{Text: text})
		}
	}

	return s
}
