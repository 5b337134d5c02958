package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"wschat/contract"
	"wschat/errors"
)

// Supervisor Own a context and a Cancel function
// Run each worker in a goroutine
// Turn panics into errors
// Resolve on the first worker to finish and cancel the others
// Shutdown properly if parent context is canceled
type Supervisor struct {
	mu      sync.Mutex
	cancel  context.CancelFunc // To stop the context
	wg      *sync.WaitGroup    // Wait for the end of goroutines
	log     *slog.Logger
	workers []contract.Worker
}

var _ contract.ISupervisor = (*Supervisor)(nil)

func NewSupervisor(log *slog.Logger) *Supervisor {
	return &Supervisor{wg: &sync.WaitGroup{}, log: log}
}

func (s *Supervisor) Add(worker ...contract.Worker) contract.ISupervisor {
	s.workers = append(s.workers, worker...)
	return s
}

// Race starts every worker and returns the result of the first one to finish.
// The losers keep running until Stop is called or the parent context ends.
// If the parent context ends first, its error is returned.
func (s *Supervisor) Race(ctx context.Context) error {
	if len(s.workers) == 0 {
		return nil
	}

	// We create a local cancellation trigger tied to the parent ctx
	// If the parent (main) cancels, we Cancel.
	// If WE call s.Stop(), only our children Cancel.
	raceCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	results := make(chan error, len(s.workers))
	for _, worker := range s.workers {
		s.start(raceCtx, worker, results)
	}

	select {
	case err := <-results:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// start runs a worker in a dedicated goroutine and reports its result.
// A panic is recovered and reported as ErrWorkerPanic.
func (s *Supervisor) start(ctx context.Context, worker contract.Worker, results chan<- error) {
	s.wg.Add(1)
	workerName := contract.GetWorkerName(worker)

	go func() {
		defer s.wg.Done()

		err := func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: %s: %v", errors.ErrWorkerPanic, workerName, r)
				}
			}()
			return worker.Run(ctx)
		}()

		if err == nil {
			s.log.Debug(fmt.Sprintf("Worker finished : %s", workerName))
		} else {
			s.log.Debug("Worker stopped", "name", workerName, "error", err)
		}
		results <- err
	}()
}

// Stop Cancel all goroutines listening channel for Ctx.Done
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Wait blocks until every started worker returned.
// A worker blocked on I/O only returns once its resource is closed.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}
