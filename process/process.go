// Package process turns raw sentences into subject-verb-object triples and
// entity buckets, using an annotation engine.
package process

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/revelaction/segrole/annotation"
	"github.com/revelaction/segrole/entity"
	sent "github.com/revelaction/segrole/sentence"
	"github.com/revelaction/segrole/svo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of processing one sentence. A nil Triple (and empty
// LogicalForm) means no structure was found. Err is set when the sentence
// could not be annotated.
type Result struct {
	Sentence    string         `json:"sentence"`
	Triple      *svo.Triple    `json:"triple"`
	LogicalForm string         `json:"logical_form,omitempty"`
	Entities    entity.Buckets `json:"entities"`
	Err         string         `json:"error,omitempty"`
}

// HasTriple reports whether a complete subject, verb and object were found.
func (r Result) HasTriple() bool {
	return r.Triple != nil
}

// Processor runs the annotation engine and the extraction on sentences. It
// keeps no state between sentences and is safe for concurrent use if the
// engine is.
type Processor struct {
	engine  annotation.Engine
	logger  *zap.Logger
	workers int

	onResult func(i int, r Result)
}

type Option func(*Processor)

func WithLogger(l *zap.Logger) Option {
	return func(p *Processor) {
		p.logger = l
	}
}

// WithWorkers sets the number of sentences of a batch processed in
// parallel. Values below 1 mean one worker.
func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n < 1 {
			n = 1
		}
		p.workers = n
	}
}

// WithResultFunc registers f to be called for every finished sentence of a
// batch, with the position of the sentence. f can be called from several
// goroutines.
func WithResultFunc(f func(i int, r Result)) Option {
	return func(p *Processor) {
		p.onResult = f
	}
}

func New(engine annotation.Engine, opts ...Option) *Processor {
	p := &Processor{
		engine:  engine,
		logger:  zap.NewNop(),
		workers: runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ProcessSentence annotates text and extracts its triple and entities.
// Failures are reported in the Result, never returned.
func (p *Processor) ProcessSentence(ctx context.Context, text string) Result {
	return p.process(ctx, text, p.logger)
}

func (p *Processor) process(ctx context.Context, text string, logger *zap.Logger) Result {
	s, err := p.annotate(ctx, text)
	if err != nil {
		logger.Warn("annotation failed", zap.String("sentence", text), zap.Error(err))
		return Result{
			Sentence: text,
			Entities: entity.Empty(),
			Err:      err.Error(),
		}
	}

	return p.parsed(text, s, logger)
}

// ProcessParsed extracts the triple and entities of an already annotated
// sentence.
func (p *Processor) ProcessParsed(text string, s sent.Sentence) Result {
	return p.parsed(text, s, p.logger)
}

func (p *Processor) parsed(text string, s sent.Sentence, logger *zap.Logger) Result {
	r := Result{Sentence: text}

	triple, err := locate(s)
	if err != nil {
		logger.Warn("no dependency tree", zap.String("sentence", text), zap.Error(err))
		r.Err = err.Error()
	}

	r.Triple = triple
	r.LogicalForm = svo.LogicalForm(triple)
	r.Entities = p.entities(s, logger)
	return r
}

func (p *Processor) annotate(ctx context.Context, text string) (s sent.Sentence, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("annotation engine panic: %v", rec)
		}
	}()

	return p.engine.Annotate(ctx, text)
}

func locate(s sent.Sentence) (t *svo.Triple, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			t, err = nil, fmt.Errorf("dependency traversal panic: %v", rec)
		}
	}()

	tree, err := sent.NewTree(s)
	if err != nil {
		return nil, err
	}

	return svo.Locate(tree), nil
}

func (p *Processor) entities(s sent.Sentence, logger *zap.Logger) (bs entity.Buckets) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("entity bucketing panic", zap.Any("panic", rec))
			bs = entity.Empty()
		}
	}()

	return entity.Bucketize(s.Ents)
}

// ProcessBatch processes texts, up to the configured number of workers at a
// time. The results have the order of texts. A failed sentence gives a
// Result with its Err set; it never stops the batch.
//
// If ctx is canceled, sentences not yet started are not processed and the
// context error is returned along with the results.
func (p *Processor) ProcessBatch(ctx context.Context, texts []string) ([]Result, error) {
	start := time.Now()
	results := make([]Result, len(texts))
	done := make([]bool, len(texts))

	p.logger.Debug("batch started", zap.Int("sentences", len(texts)), zap.Int("workers", p.workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, text := range texts {
		i, text := i, text
		// between sentences
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			r := p.process(gctx, text, p.logger.With(zap.Int("position", i)))
			results[i] = r
			done[i] = true
			if p.onResult != nil {
				p.onResult(i, r)
			}
			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		for i, text := range texts {
			if !done[i] {
				results[i] = Result{Sentence: text, Entities: entity.Empty(), Err: err.Error()}
			}
		}
		return results, err
	}

	found, failed := 0, 0
	for _, r := range results {
		if r.HasTriple() {
			found++
		}
		if r.Err != "" {
			failed++
		}
	}

	p.logger.Info("batch finished",
		zap.Int("sentences", len(texts)),
		zap.Int("triples", found),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)))

	return results, nil
}
