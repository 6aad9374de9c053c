package stat

import (
	"sort"

	"github.com/revelaction/segrole/entity"
	"github.com/revelaction/segrole/process"
	sent "github.com/revelaction/segrole/sentence"
)

type Handler struct {
	stats Stats
}

type Stats struct {
	NumSentences int
	NumTriples   int
	NumFailed    int

	// Entities per bucket
	Entities map[entity.Bucket]int

	// Verbs counts the verb lemmas of the triples
	Verbs map[string]int

	NumTokens             int
	TokensPerSentenceMean int
	TokensPerSentenceDis  map[int]int
}

type VerbCount struct {
	Lemma string
	Count int
}

func (h *Handler) Get() Stats {
	return h.stats
}

func NewHandler() *Handler {
	stats := Stats{
		Entities:             map[entity.Bucket]int{},
		Verbs:                map[string]int{},
		TokensPerSentenceDis: map[int]int{},
	}
	return &Handler{
		stats: stats,
	}
}

// Aggregate adds processed sentences to the stats.
func (h *Handler) Aggregate(results []process.Result) {
	for _, r := range results {
		h.stats.NumSentences++
		if r.Err != "" {
			h.stats.NumFailed++
		}

		if r.Triple != nil {
			h.stats.NumTriples++
			h.stats.Verbs[r.Triple.Verb]++
		}

		for _, b := range entity.All() {
			h.stats.Entities[b] += len(r.Entities.Get(b))
		}
	}
}

// AggregateDoc adds the token counts of the sentences of doc.
func (h *Handler) AggregateDoc(doc sent.Doc) {
	for _, sentence := range doc.Sentences {
		h.stats.NumTokens += len(sentence.Tokens)
		h.stats.TokensPerSentenceDis[len(sentence.Tokens)]++
	}

	n := 0
	for _, count := range h.stats.TokensPerSentenceDis {
		n += count
	}

	if n > 0 {
		h.stats.TokensPerSentenceMean = h.stats.NumTokens / n
	}
}

// TopVerbs returns the n most frequent verb lemmas, most frequent first.
// Ties are sorted by lemma. n <= 0 returns all.
func (h *Handler) TopVerbs(n int) []VerbCount {
	verbs := make([]VerbCount, 0, len(h.stats.Verbs))
	for lemma, count := range h.stats.Verbs {
		verbs = append(verbs, VerbCount{lemma, count})
	}

	sort.Slice(verbs, func(i, j int) bool {
		if verbs[i].Count != verbs[j].Count {
			return verbs[i].Count > verbs[j].Count
		}
		return verbs[i].Lemma < verbs[j].Lemma
	})

	if n > 0 && n < len(verbs) {
		verbs = verbs[:n]
	}

	return verbs
}
