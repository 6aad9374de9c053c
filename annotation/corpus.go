package annotation

import (
	"context"
	"fmt"

	sent "github.com/revelaction/segrole/sentence"
)

// Corpus is an Engine answering from already annotated documents. Sentences
// are looked up by their whitespace normalized text.
type Corpus struct {
	index map[string]sent.Sentence

	// texts keeps the indexed sentences in library order
	texts []string
}

var _ Engine = (*Corpus)(nil)

// NewCorpus indexes all sentences of lib. On duplicate texts, the first
// annotation is kept.
func NewCorpus(lib sent.Library) *Corpus {
	c := &Corpus{index: map[string]sent.Sentence{}}
	for _, doc := range lib {
		for _, s := range doc.Sentences {
			c.Add(s)
		}
	}

	return c
}

// Add indexes s. It is not safe to call Add concurrently with Annotate.
func (c *Corpus) Add(s sent.Sentence) {
	key := sent.Normalize(s.String())
	if key == "" {
		return
	}

	if _, ok := c.index[key]; ok {
		return
	}

	c.index[key] = s
	c.texts = append(c.texts, key)
}

func (c *Corpus) Annotate(ctx context.Context, text string) (sent.Sentence, error) {
	if err := ctx.Err(); err != nil {
		return sent.Sentence{}, err
	}

	s, ok := c.index[sent.Normalize(text)]
	if !ok {
		return sent.Sentence{}, fmt.Errorf("%w: %q", ErrNotAnnotated, text)
	}

	return s, nil
}

// Sentences returns the texts of all indexed sentences.
func (c *Corpus) Sentences() []string {
	return c.texts
}

func (c *Corpus) Len() int {
	return len(c.texts)
}
