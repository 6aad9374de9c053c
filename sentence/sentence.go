package sentence

import (
	"strings"
)

type Doc struct {
	Id int `json:"id"`

	Title string `json:"title"`

	Labels    []string   `json:"labels,omitempty"`
	Sentences []Sentence `json:"sentences"`
}

// Library is a collection of Doc
type Library []Doc

// Sentence is the annotation of a single sentence: its tokens in surface
// order and the entity spans found by the annotation engine.
type Sentence struct {
	Id    int `json:"id"`
	DocId int `json:"doc_id"`

	// Text is the raw sentence, if the annotation engine provides it.
	Text string `json:"text,omitempty"`

	Tokens []Token  `json:"tokens"`
	Ents   []Entity `json:"ents,omitempty"`
}

// Token represents a word of the sentence, with POS and metadata.
type Token struct {
	Id         int    `json:"id"`
	SentenceId int    `json:"sent"`
	Pos        string `json:"pos"`
	Dep        string `json:"dep"`

	// Head is the index in the sentence of the governing token. The root
	// token points to itself.
	Head int `json:"head"`

	// A string containing detailed POS data
	Tag string `json:"tag"`

	// the index of the start character of the token in the original doc (set by spacy, stanza)
	Idx int `json:"idx"`

	// The unmodified word
	Text string `json:"text"`

	// The lemma of the word
	Lemma string `json:"lemma"`

	// The index of the word in the sentence, starting at 0.
	Index int `json:"index"`
}

// Entity is a named entity span. Start and End are token indexes, End
// exclusive.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// String returns the surface text of the sentence. If the annotation carries
// no explicit text, it is rebuilt from the token character offsets.
func (s Sentence) String() string {
	if s.Text != "" {
		return s.Text
	}

	var str strings.Builder
	var lastIdx, lastLen int
	for i, token := range s.Tokens {
		l := len([]rune(token.Text))
		if i == 0 {
			str.WriteString(token.Text)
			lastIdx = token.Idx
			lastLen = l
			continue
		}

		// no offsets from the engine
		if token.Idx == 0 {
			str.WriteString(" " + token.Text)
			continue
		}

		// multi token words share both text and idx: do not render them
		// twice.
		diff := token.Idx - lastIdx
		if diff > 0 {
			if gap := diff - lastLen; gap > 0 {
				str.WriteString(strings.Repeat(" ", gap))
			}
			str.WriteString(token.Text)
		}

		lastIdx = token.Idx
		lastLen = l
	}

	return strings.ReplaceAll(str.String(), "\n", " ")
}

// Normalize collapses all whitespace runs of text into single spaces.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
