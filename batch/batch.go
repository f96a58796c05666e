// Package batch implements reliable bulk write operations: records are
// mapped to documents, partitioned into chunks and dispatched with
// inter-batch delays, per-document retry/fallback and aggregated
// success/error statistics.
package batch

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oginisearch/ogini-go/client"
	"github.com/oginisearch/ogini-go/config"
	"github.com/oginisearch/ogini-go/ecode"
	"github.com/oginisearch/ogini-go/logging"
	"github.com/oginisearch/ogini-go/metrics"

	"github.com/google/uuid"
)

// Mapper converts a caller's record into an indexable document
type Mapper func(record any) (client.Document, error)

// Observer receives progress notifications after each processed chunk
type Observer interface {
	OnProgress(processed, chunkSize, chunkIndex, totalChunks int)
}

// NoopObserver discards progress notifications
type NoopObserver struct{}

func (NoopObserver) OnProgress(int, int, int, int) {}

// Indexer is the slice of the core client the processor needs
type Indexer interface {
	BulkIndex(ctx context.Context, index string, docs []client.Document) (*client.BulkResponse, error)
	IndexDocument(ctx context.Context, index string, doc client.Document) error
	DeleteDocument(ctx context.Context, index, id string) error
}

// ErrorEntry is one structured failure recorded during a batch operation
type ErrorEntry struct {
	Batch      int       `json:"batch"`
	BatchSize  int       `json:"batch_size,omitempty"`
	DocumentID string    `json:"document_id,omitempty"`
	Message    string    `json:"message"`
	Status     int       `json:"status,omitempty"`
	Fallback   bool      `json:"fallback"`
	Timestamp  time.Time `json:"timestamp"`
}

// Result aggregates the outcome of one batch operation. It is built
// incrementally, finalized once and immutable thereafter.
type Result struct {
	OperationID      string        `json:"operation_id"`
	Processed        int           `json:"processed"`
	Total            int           `json:"total"`
	Errors           []ErrorEntry  `json:"errors"`
	SuccessRate      float64       `json:"success_rate"`
	BatchesProcessed int           `json:"batches_processed"`
	TotalBatches     int           `json:"total_batches"`
	Duration         time.Duration `json:"duration"`
}

// Processor executes chunked bulk operations against the core client
type Processor struct {
	mu        sync.Mutex
	cfg       config.Batch
	indexer   Indexer
	observer  Observer
	collector metrics.Collector

	operations atomic.Int64
	indexed    atomic.Int64
	deleted    atomic.Int64
	failures   atomic.Int64
}

// Option configures a Processor
type Option func(*Processor)

// WithObserver sets the progress observer
func WithObserver(o Observer) Option {
	return func(p *Processor) {
		p.observer = o
	}
}

// WithCollector sets the metrics collector
func WithCollector(c metrics.Collector) Option {
	return func(p *Processor) {
		p.collector = c
	}
}

// New creates a batch processor
func New(indexer Indexer, cfg *config.Batch, opts ...Option) *Processor {
	p := &Processor{
		cfg:       *cfg,
		indexer:   indexer,
		observer:  NoopObserver{},
		collector: metrics.NoOpCollector{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BulkIndex maps records to documents, partitions them into chunks and
// issues one bulk call per chunk. A failed chunk falls back to indexing
// each of its documents individually with retries; individual failures are
// recorded without aborting the remaining chunks.
func (p *Processor) BulkIndex(ctx context.Context, index string, records []any, mapFn Mapper) *Result {
	start := time.Now()
	cfg := p.Config()
	res := &Result{OperationID: uuid.NewString()}

	docs := make([]client.Document, 0, len(records))
	for _, record := range records {
		doc, err := mapFn(record)
		if err != nil {
			// mapper failures never reach dispatch; they are recorded
			// and excluded from the dispatch total
			res.Errors = append(res.Errors, ErrorEntry{
				Batch:     -1,
				Message:   err.Error(),
				Timestamp: time.Now(),
			})
			continue
		}
		docs = append(docs, doc)
	}
	res.Total = len(docs)

	chunks := partition(docs, cfg.BatchSize)
	res.TotalBatches = len(chunks)

	for ci, chunk := range chunks {
		if ctx.Err() != nil {
			res.Errors = append(res.Errors, ErrorEntry{
				Batch:     ci,
				BatchSize: len(chunk),
				Message:   ctx.Err().Error(),
				Timestamp: time.Now(),
			})
			break
		}

		_, err := p.indexer.BulkIndex(ctx, index, chunk)
		if err != nil {
			res.Errors = append(res.Errors, ErrorEntry{
				Batch:     ci,
				BatchSize: len(chunk),
				Message:   err.Error(),
				Status:    statusOf(err),
				Timestamp: time.Now(),
			})
			logging.Warnf(ctx, "bulk index of batch %d (%d documents) failed, falling back to individual indexing: %v", ci, len(chunk), err)

			for _, doc := range chunk {
				if ierr := p.indexWithRetry(ctx, index, doc, cfg); ierr != nil {
					res.Errors = append(res.Errors, ErrorEntry{
						Batch:      ci,
						DocumentID: doc.ID,
						Message:    ierr.Error(),
						Status:     statusOf(ierr),
						Fallback:   true,
						Timestamp:  time.Now(),
					})
					continue
				}
				res.Processed++
			}
			res.BatchesProcessed++
			continue
		}

		res.Processed += len(chunk)
		res.BatchesProcessed++
		p.observer.OnProgress(res.Processed, len(chunk), ci, len(chunks))
		if ci < len(chunks)-1 {
			if serr := sleep(ctx, cfg.Delay); serr != nil {
				break
			}
		}
	}

	p.finalize(res, start, "index")
	p.indexed.Add(int64(res.Processed))
	return res
}

// BulkDelete deletes the mapped documents chunk by chunk. Documents are
// deleted individually (the API has no bulk delete); each failed deletion
// records its own error and the rest of the chunk keeps its credit.
func (p *Processor) BulkDelete(ctx context.Context, index string, records []any, mapFn Mapper) *Result {
	start := time.Now()
	cfg := p.Config()
	res := &Result{OperationID: uuid.NewString()}

	docs := make([]client.Document, 0, len(records))
	for _, record := range records {
		doc, err := mapFn(record)
		if err != nil {
			res.Errors = append(res.Errors, ErrorEntry{
				Batch:     -1,
				Message:   err.Error(),
				Timestamp: time.Now(),
			})
			continue
		}
		docs = append(docs, doc)
	}
	res.Total = len(docs)

	chunks := partition(docs, cfg.BatchSize)
	res.TotalBatches = len(chunks)

	for ci, chunk := range chunks {
		if ctx.Err() != nil {
			res.Errors = append(res.Errors, ErrorEntry{
				Batch:     ci,
				BatchSize: len(chunk),
				Message:   ctx.Err().Error(),
				Timestamp: time.Now(),
			})
			break
		}

		for _, doc := range chunk {
			if err := p.indexer.DeleteDocument(ctx, index, doc.ID); err != nil {
				res.Errors = append(res.Errors, ErrorEntry{
					Batch:      ci,
					DocumentID: doc.ID,
					Message:    err.Error(),
					Status:     statusOf(err),
					Timestamp:  time.Now(),
				})
				continue
			}
			res.Processed++
		}

		res.BatchesProcessed++
		p.observer.OnProgress(res.Processed, len(chunk), ci, len(chunks))
		if ci < len(chunks)-1 {
			if serr := sleep(ctx, cfg.Delay); serr != nil {
				break
			}
		}
	}

	p.finalize(res, start, "delete")
	p.deleted.Add(int64(res.Processed))
	return res
}

// indexWithRetry attempts one document up to max_retry_attempts times with
// a fixed delay between attempts
func (p *Processor) indexWithRetry(ctx context.Context, index string, doc client.Document, cfg config.Batch) error {
	var err error
	for attempt := 1; attempt <= cfg.MaxRetryAttempts; attempt++ {
		if err = p.indexer.IndexDocument(ctx, index, doc); err == nil {
			return nil
		}
		if attempt < cfg.MaxRetryAttempts {
			if serr := sleep(ctx, cfg.RetryDelay); serr != nil {
				return err
			}
		}
	}
	return err
}

// finalize computes the success rate and closes the result. A zero total
// yields 100: with nothing to process there was nothing to fail.
func (p *Processor) finalize(res *Result, start time.Time, operation string) {
	if res.Total == 0 {
		res.SuccessRate = 100
	} else {
		res.SuccessRate = math.Round(float64(res.Processed)/float64(res.Total)*10000) / 100
	}
	res.Duration = time.Since(start)

	p.operations.Add(1)
	p.failures.Add(int64(len(res.Errors)))
	p.collector.BulkOperation(operation, res.Processed, len(res.Errors))
}

// partition splits docs into fixed-size chunks, preserving order
func partition(docs []client.Document, size int) [][]client.Document {
	if size < 1 {
		size = 1
	}
	var chunks [][]client.Document
	for start := 0; start < len(docs); start += size {
		end := start + size
		if end > len(docs) {
			end = len(docs)
		}
		chunks = append(chunks, docs[start:end])
	}
	return chunks
}

// statusOf extracts the HTTP status of an upstream error, if any
func statusOf(err error) int {
	var apiErr *ecode.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// sleep waits for the given duration or until the context is cancelled
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Config returns a copy of the current configuration
func (p *Processor) Config() config.Batch {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}

// ConfigPatch is a partial batch configuration; nil fields keep the
// current value.
type ConfigPatch struct {
	BatchSize        *int
	Delay            *time.Duration
	MaxRetryAttempts *int
	RetryDelay       *time.Duration
}

// UpdateConfig merges the patch shallowly into the current configuration
func (p *Processor) UpdateConfig(patch *ConfigPatch) {
	if patch == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if patch.BatchSize != nil {
		p.cfg.BatchSize = *patch.BatchSize
	}
	if patch.Delay != nil {
		p.cfg.Delay = *patch.Delay
	}
	if patch.MaxRetryAttempts != nil {
		p.cfg.MaxRetryAttempts = *patch.MaxRetryAttempts
	}
	if patch.RetryDelay != nil {
		p.cfg.RetryDelay = *patch.RetryDelay
	}
}

// Stats returns aggregate counters across all operations
func (p *Processor) Stats() map[string]int64 {
	return map[string]int64{
		"operations":        p.operations.Load(),
		"documents_indexed": p.indexed.Load(),
		"documents_deleted": p.deleted.Load(),
		"errors_recorded":   p.failures.Load(),
	}
}
