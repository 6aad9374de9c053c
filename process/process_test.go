package process

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/revelaction/segrole/annotation"
	"github.com/revelaction/segrole/entity"
	sent "github.com/revelaction/segrole/sentence"
	"github.com/revelaction/segrole/svo"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	chasedText  = "The big cat chased the small dog in the park."
	copularText = "This is not a valid sentence."
	foundedText = "Elon Musk founded SpaceX in 2002."
	brokenText  = "Broken heads here."
	panicText   = "Engine explodes."
)

// fakeEngine answers from a map, fails for unknown sentences and panics on
// panicText.
type fakeEngine struct {
	sentences map[string]sent.Sentence

	mu    sync.Mutex
	calls int
}

func (f *fakeEngine) Annotate(ctx context.Context, text string) (sent.Sentence, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return sent.Sentence{}, err
	}

	if text == panicText {
		panic("model crashed")
	}

	s, ok := f.sentences[text]
	if !ok {
		return sent.Sentence{}, fmt.Errorf("%w: %q", annotation.ErrNotAnnotated, text)
	}

	return s, nil
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{sentences: map[string]sent.Sentence{
		chasedText: {Tokens: []sent.Token{
			{Text: "The", Lemma: "the", Pos: "DET", Dep: "det", Head: 2},
			{Text: "big", Lemma: "big", Pos: "ADJ", Dep: "amod", Head: 2},
			{Text: "cat", Lemma: "cat", Pos: "NOUN", Dep: "nsubj", Head: 3},
			{Text: "chased", Lemma: "chase", Pos: "VERB", Dep: "ROOT", Head: 3},
			{Text: "the", Lemma: "the", Pos: "DET", Dep: "det", Head: 6},
			{Text: "small", Lemma: "small", Pos: "ADJ", Dep: "amod", Head: 6},
			{Text: "dog", Lemma: "dog", Pos: "NOUN", Dep: "dobj", Head: 3},
			{Text: "in", Lemma: "in", Pos: "ADP", Dep: "prep", Head: 3},
			{Text: "the", Lemma: "the", Pos: "DET", Dep: "det", Head: 9},
			{Text: "park", Lemma: "park", Pos: "NOUN", Dep: "pobj", Head: 7},
			{Text: ".", Lemma: ".", Pos: "PUNCT", Dep: "punct", Head: 3},
		}},
		copularText: {Tokens: []sent.Token{
			{Text: "This", Lemma: "this", Pos: "PRON", Dep: "nsubj", Head: 1},
			{Text: "is", Lemma: "be", Pos: "AUX", Dep: "ROOT", Head: 1},
			{Text: "not", Lemma: "not", Pos: "PART", Dep: "neg", Head: 1},
			{Text: "a", Lemma: "a", Pos: "DET", Dep: "det", Head: 5},
			{Text: "valid", Lemma: "valid", Pos: "ADJ", Dep: "amod", Head: 5},
			{Text: "sentence", Lemma: "sentence", Pos: "NOUN", Dep: "attr", Head: 1},
			{Text: ".", Lemma: ".", Pos: "PUNCT", Dep: "punct", Head: 1},
		}},
		foundedText: {
			Tokens: []sent.Token{
				{Text: "Elon", Lemma: "Elon", Pos: "PROPN", Dep: "compound", Head: 1},
				{Text: "Musk", Lemma: "Musk", Pos: "PROPN", Dep: "nsubj", Head: 2},
				{Text: "founded", Lemma: "found", Pos: "VERB", Dep: "ROOT", Head: 2},
				{Text: "SpaceX", Lemma: "SpaceX", Pos: "PROPN", Dep: "dobj", Head: 2},
				{Text: "in", Lemma: "in", Pos: "ADP", Dep: "prep", Head: 2},
				{Text: "2002", Lemma: "2002", Pos: "NUM", Dep: "pobj", Head: 4},
				{Text: ".", Lemma: ".", Pos: "PUNCT", Dep: "punct", Head: 2},
			},
			Ents: []sent.Entity{
				{Text: "Elon Musk", Label: "PERSON", Start: 0, End: 2},
				{Text: "SpaceX", Label: "ORG", Start: 3, End: 4},
				{Text: "2002", Label: "DATE", Start: 5, End: 6},
			},
		},
		brokenText: {
			Tokens: []sent.Token{
				{Text: "Broken", Pos: "VERB", Dep: "ROOT", Head: 0},
				{Text: "heads", Pos: "NOUN", Dep: "dobj", Head: 9},
			},
			Ents: []sent.Entity{{Text: "Broken", Label: "ORG"}},
		},
	}}
}

func TestProcessSentence(t *testing.T) {
	p := New(newFakeEngine())

	got := p.ProcessSentence(context.Background(), chasedText)
	want := Result{
		Sentence:    chasedText,
		Triple:      &svo.Triple{Subject: "The big cat", Verb: "chase", Object: "the small dog"},
		LogicalForm: "chase(The big cat, the small dog)",
		Entities:    entity.Empty(),
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result (-want +got):\n%s", diff)
	}
}

func TestProcessSentenceEntities(t *testing.T) {
	p := New(newFakeEngine())

	got := p.ProcessSentence(context.Background(), foundedText)

	want := entity.Buckets{
		Person: []string{"Elon Musk"},
		Org:    []string{"SpaceX"},
		GPE:    []string{},
		Other:  []string{"2002"},
	}
	if diff := cmp.Diff(want, got.Entities); diff != "" {
		t.Errorf("entities (-want +got):\n%s", diff)
	}

	if got.LogicalForm != "found(Elon Musk, SpaceX)" {
		t.Errorf("unexpected logical form %q", got.LogicalForm)
	}
}

func TestProcessSentenceNoStructure(t *testing.T) {
	p := New(newFakeEngine())

	got := p.ProcessSentence(context.Background(), copularText)
	if got.Triple != nil || got.LogicalForm != "" {
		t.Fatalf("expected no structure, got %+v", got)
	}

	if got.Err != "" {
		t.Errorf("incomplete structure is not an error, got %q", got.Err)
	}
}

func TestProcessSentenceFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := New(newFakeEngine(), WithLogger(zap.New(core)))

	for _, text := range []string{"Unknown sentence.", panicText} {
		got := p.ProcessSentence(context.Background(), text)

		want := Result{Sentence: text, Entities: entity.Empty()}
		if diff := cmp.Diff(want, got, cmpIgnoreErr); diff != "" {
			t.Errorf("%q (-want +got):\n%s", text, diff)
		}

		if got.Err == "" {
			t.Errorf("%q: expected Err", text)
		}
	}

	if n := logs.FilterMessage("annotation failed").Len(); n != 2 {
		t.Errorf("expected 2 warnings, got %d", n)
	}
}

func TestProcessSentenceMalformedTree(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := New(newFakeEngine(), WithLogger(zap.New(core)))

	got := p.ProcessSentence(context.Background(), brokenText)
	if got.Triple != nil {
		t.Fatalf("expected no triple, got %+v", got.Triple)
	}

	if !errorsContains(got.Err, sent.ErrMalformed) {
		t.Errorf("expected malformed tree error, got %q", got.Err)
	}

	// entities do not depend on the tree
	if diff := cmp.Diff([]string{"Broken"}, got.Entities.Org); diff != "" {
		t.Errorf("ORG (-want +got):\n%s", diff)
	}

	if logs.FilterMessage("no dependency tree").Len() != 1 {
		t.Errorf("expected a warning for the malformed tree")
	}
}

func TestProcessBatchOrder(t *testing.T) {
	texts := []string{foundedText, "Unknown.", chasedText, panicText, copularText, brokenText, chasedText}

	for _, workers := range []int{1, 3, 16} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			p := New(newFakeEngine(), WithWorkers(workers))

			results, err := p.ProcessBatch(context.Background(), texts)
			if err != nil {
				t.Fatalf("ProcessBatch: %v", err)
			}

			if len(results) != len(texts) {
				t.Fatalf("expected %d results, got %d", len(texts), len(results))
			}

			for i, r := range results {
				if r.Sentence != texts[i] {
					t.Errorf("position %d: expected %q, got %q", i, texts[i], r.Sentence)
				}

				single := New(newFakeEngine()).ProcessSentence(context.Background(), texts[i])
				if diff := cmp.Diff(single, r); diff != "" {
					t.Errorf("position %d differs from ProcessSentence (-want +got):\n%s", i, diff)
				}
			}
		})
	}
}

func TestProcessBatchEmpty(t *testing.T) {
	p := New(newFakeEngine())

	results, err := p.ProcessBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}

	if results == nil || len(results) != 0 {
		t.Fatalf("expected empty results, got %#v", results)
	}
}

func TestProcessBatchResultFunc(t *testing.T) {
	var mu sync.Mutex
	seen := map[int]string{}

	p := New(newFakeEngine(), WithWorkers(4), WithResultFunc(func(i int, r Result) {
		mu.Lock()
		seen[i] = r.Sentence
		mu.Unlock()
	}))

	texts := []string{chasedText, copularText, foundedText}
	if _, err := p.ProcessBatch(context.Background(), texts); err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}

	want := map[int]string{0: chasedText, 1: copularText, 2: foundedText}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("callbacks (-want +got):\n%s", diff)
	}
}

func TestProcessBatchCanceled(t *testing.T) {
	engine := newFakeEngine()
	p := New(engine, WithWorkers(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	texts := []string{chasedText, copularText, foundedText}
	results, err := p.ProcessBatch(ctx, texts)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if len(results) != len(texts) {
		t.Fatalf("expected %d results, got %d", len(texts), len(results))
	}

	for i, r := range results {
		if r.Sentence != texts[i] || r.Err == "" || r.Triple != nil {
			t.Errorf("position %d: unexpected result %+v", i, r)
		}
	}

	if engine.calls != 0 {
		t.Errorf("no sentence should reach the engine, got %d calls", engine.calls)
	}
}

func TestProcessParsed(t *testing.T) {
	p := New(nil)

	s := newFakeEngine().sentences[chasedText]
	got := p.ProcessParsed(chasedText, s)
	if got.LogicalForm != "chase(The big cat, the small dog)" {
		t.Errorf("unexpected logical form %q", got.LogicalForm)
	}
}

var cmpIgnoreErr = cmp.FilterPath(func(p cmp.Path) bool {
	return p.Last().String() == ".Err"
}, cmp.Ignore())

func errorsContains(msg string, target error) bool {
	return strings.Contains(msg, target.Error())
}
