package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/revelaction/segrole/entity"
	"github.com/revelaction/segrole/process"
)

const (
	Defaultformat = "all"
	FormatJSON    = "json"
)

var (
	Red       = "\033[1;31m"
	Off       = "\033[0m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
	Teal      = "\033[1;36m"
)

// Renderer writes processed sentences.
type Renderer interface {
	Render(results []process.Result) error
}

func SupportedFormats() []string {
	return []string{"all", "form", "ents", FormatJSON}
}

// New returns the Renderer for format, writing to w.
func New(format string, w io.Writer, hasColor bool) Renderer {
	if format == FormatJSON {
		return NewJSONRenderer(w)
	}

	r := NewTextRenderer(w)
	r.Format = format
	r.HasColor = hasColor
	return r
}

type TextRenderer struct {
	W io.Writer

	HasColor bool

	// HasPrefix prints the position of the sentence in the batch.
	HasPrefix bool

	// Format determines what is printed for each sentence
	//
	// all: the sentence, its logical form and entities
	// form: only the logical form
	// ents: only the entity buckets
	Format string
}

var _ Renderer = (*TextRenderer)(nil)

func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{W: w, HasPrefix: true, Format: Defaultformat}
}

func (r *TextRenderer) Render(results []process.Result) error {
	for i, res := range results {
		var err error
		switch r.Format {
		case "form":
			_, err = fmt.Fprintf(r.W, "%s%s\n", r.prefix(i), r.form(res))
		case "ents":
			_, err = fmt.Fprintf(r.W, "%s%s\n", r.prefix(i), r.entities(res.Entities))
		default:
			err = r.all(i, res)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func (r *TextRenderer) all(i int, res process.Result) error {
	text := strings.ReplaceAll(res.Sentence, "\n", " ")
	if _, err := fmt.Fprintf(r.W, "%s✍  %s\n", r.prefix(i), text); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(r.W, "   ⟶  %s\n", r.form(res)); err != nil {
		return err
	}

	if res.Entities.Len() == 0 {
		return nil
	}

	_, err := fmt.Fprintf(r.W, "   🏷  %s\n", r.entities(res.Entities))
	return err
}

// form renders the logical form, the error or a dash if no structure was
// found.
func (r *TextRenderer) form(res process.Result) string {
	if res.Err != "" {
		return r.color(Red, "error: "+res.Err)
	}

	if res.Triple == nil {
		return "-"
	}

	t := res.Triple
	return fmt.Sprintf("%s(%s, %s)", r.color(Green256, t.Verb), r.color(Yellow256, t.Subject), r.color(Teal, t.Object))
}

func (r *TextRenderer) entities(bs entity.Buckets) string {
	parts := []string{}
	for _, b := range entity.All() {
		texts := bs.Get(b)
		if len(texts) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", r.color(Grey256, b.String()), strings.Join(texts, "|")))
	}

	return strings.Join(parts, " ")
}

func (r *TextRenderer) prefix(i int) string {
	if !r.HasPrefix {
		return ""
	}

	return fmt.Sprintf("%3d ", i)
}

func (r *TextRenderer) color(c, s string) string {
	if !r.HasColor {
		return s
	}

	return c + s + Off
}

// NextFormat sets the Format option to a different text format, following
// the SupportedFormats() order.
func (r *TextRenderer) NextFormat() {
	supported := []string{}
	for _, f := range SupportedFormats() {
		if f != FormatJSON {
			supported = append(supported, f)
		}
	}

	for i, format := range supported {
		if format == r.Format {
			r.Format = supported[(i+1)%len(supported)]
			return
		}
	}

	r.Format = supported[0]
}

func (r *TextRenderer) NextPrefix() {
	// toggle
	r.HasPrefix = !r.HasPrefix
}
