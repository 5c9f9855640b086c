package triage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/topicscan/internal/config"
	"github.com/agenthands/topicscan/internal/corpus"
	"github.com/agenthands/topicscan/internal/llm"
)

// Pipeline runs Classify-all → Categorize → Refine-relevant → Assemble over
// a corpus.
type Pipeline struct {
	Classifier *Classifier
	Refiner    *Refiner
	Logger     *zap.Logger

	ClassifyWorkers int
	RefineWorkers   int
	// FailFast aborts the run on the first model error instead of recording
	// it against the document and moving on.
	FailFast bool

	UUIDGenerator func() string
}

func NewPipeline(llmClient llm.LLMClient, cfg *config.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		Classifier:      NewClassifier(llmClient, cfg.Prompts),
		Refiner:         NewRefiner(llmClient, cfg.Prompts),
		Logger:          logger,
		ClassifyWorkers: cfg.Concurrency.Classify,
		RefineWorkers:   cfg.Concurrency.Refine,
		FailFast:        cfg.Triage.FailFast,
		UUIDGenerator: func() string {
			return uuid.New().String()
		},
	}
}

func (p *Pipeline) Run(ctx context.Context, topic string, c *corpus.Corpus) (*Report, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	if c == nil || c.Len() == 0 {
		return nil, ErrEmptyCorpus
	}

	runID := p.UUIDGenerator()
	log := p.Logger.With(zap.String("run_id", runID), zap.String("topic", topic))
	log.Info("triage started", zap.Int("documents", c.Len()))

	var (
		mu     sync.Mutex
		docErr = make(map[string]error)
	)
	record := func(id string, err error) {
		mu.Lock()
		docErr[id] = err
		mu.Unlock()
	}

	// 1. Classify every document
	docs := c.Documents()
	answers := make([]string, len(docs))
	answered := make([]bool, len(docs))

	err := p.forEach(ctx, p.ClassifyWorkers, len(docs), func(ctx context.Context, i int) error {
		doc := docs[i]
		resp, err := p.Classifier.Classify(ctx, doc, topic)
		if err != nil {
			if p.FailFast || ctx.Err() != nil {
				return err
			}
			log.Warn("classification failed, marking unparseable", zap.String("document", doc.ID), zap.Error(err))
			record(doc.ID, err)
			return nil
		}
		answers[i] = resp
		answered[i] = true
		log.Debug("classified", zap.String("document", doc.ID), zap.String("response", resp))
		return nil
	})
	if err != nil {
		return nil, err
	}

	responses := make(map[string]string, len(docs))
	for i, doc := range docs {
		if answered[i] {
			responses[doc.ID] = answers[i]
		}
	}

	// 2. Bucket the raw answers
	categorized := Categorize(c.IDs(), responses)
	for _, l := range Labels {
		log.Info("bucket", zap.String("label", string(l)), zap.Int("documents", len(categorized[l])))
	}

	// 3. Refine documents in the relevant buckets
	relevant := categorized.Relevant()
	evidence := make([]string, len(relevant))
	refined := make([]bool, len(relevant))

	err = p.forEach(ctx, p.RefineWorkers, len(relevant), func(ctx context.Context, i int) error {
		doc, _ := c.Get(relevant[i])
		resp, err := p.Refiner.Refine(ctx, doc, topic)
		if err != nil {
			if p.FailFast || ctx.Err() != nil {
				return err
			}
			log.Warn("refinement failed", zap.String("document", doc.ID), zap.Error(err))
			record(doc.ID, err)
			return nil
		}
		evidence[i] = resp
		refined[i] = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	detailed := make(map[string]string, len(relevant))
	for i, id := range relevant {
		if refined[i] {
			detailed[id] = evidence[i]
		}
	}

	// 4. Assemble
	report := Assemble(runID, topic, c.IDs(), categorized, detailed, docErr)
	log.Info("triage finished",
		zap.Int("relevant", len(relevant)),
		zap.Int("refined", len(detailed)),
		zap.Int("errors", len(docErr)))
	return report, nil
}

// forEach calls fn for 0..n-1 on at most workers goroutines. The first
// error cancels the remaining calls and is returned.
func (p *Pipeline) forEach(ctx context.Context, workers, n int, fn func(ctx context.Context, i int) error) error {
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return fn(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("triage canceled: %w", err)
	}
	return nil
}
