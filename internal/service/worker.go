package service

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// TaskError accumulates multiple errors produced during bulk ingestion.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

// BulkIngestor loads users and connections through the graph service with
// a bounded number of concurrent workers.
type BulkIngestor struct {
	service *GraphService
	workers int
}

// NewBulkIngestor creates a new BulkIngestor instance with the provided concurrency.
func NewBulkIngestor(service *GraphService, workers int) *BulkIngestor {
	if workers <= 0 {
		workers = 4
	}
	return &BulkIngestor{
		service: service,
		workers: workers,
	}
}

// IngestUsers adds the provided users concurrently.
func (bi *BulkIngestor) IngestUsers(ctx context.Context, users []UserInput) error {
	return bi.run(ctx, len(users), func(ctx context.Context, idx int) error {
		_, err := bi.service.AddUser(ctx, users[idx])
		return err
	})
}

// IngestConnections adds the provided connections concurrently. Users
// should be ingested first so shared interests can be derived.
func (bi *BulkIngestor) IngestConnections(ctx context.Context, conns []ConnectionInput) error {
	return bi.run(ctx, len(conns), func(ctx context.Context, idx int) error {
		_, err := bi.service.AddConnection(ctx, conns[idx])
		return err
	})
}

// run keeps going past item failures and reports them together; only
// context cancellation stops it early.
func (bi *BulkIngestor) run(ctx context.Context, total int, workerFn func(ctx context.Context, idx int) error) error {
	if total == 0 {
		return nil
	}

	var (
		mu      sync.Mutex
		taskErr TaskError
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bi.workers)

	for i := 0; i < total; i++ {
		if gctx.Err() != nil {
			break
		}
		idx := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := workerFn(gctx, idx); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				mu.Lock()
				taskErr.Errors = append(taskErr.Errors, err)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(taskErr.Errors) == 0 {
		return nil
	}
	return &taskErr
}
