package pipeline

import (
	"context"
	"sync"
)

// LoadWorker serializes every parse and resolve phase across all open
// compilations onto one dedicated goroutine. Deeply recursive program
// structures make load phases the stack-hungry part of the pipeline;
// keeping them off request goroutines bounds that cost to a single place,
// and serializing loads is cheap next to verification. Verification never
// goes through this worker.
type LoadWorker struct {
	tasks chan loadTask
	stop  chan struct{}
	once  sync.Once
}

type loadTask struct {
	ctx  context.Context
	run  func(ctx context.Context) error
	done chan error
}

// NewLoadWorker starts the worker with the given queue depth.
func NewLoadWorker(queue int) *LoadWorker {
	if queue <= 0 {
		queue = 16
	}
	w := &LoadWorker{
		tasks: make(chan loadTask, queue),
		stop:  make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *LoadWorker) loop() {
	for {
		select {
		case task := <-w.tasks:
			// A task whose caller already gave up is skipped, not run.
			if err := task.ctx.Err(); err != nil {
				task.done <- err
				continue
			}
			task.done <- task.run(task.ctx)
		case <-w.stop:
			return
		}
	}
}

// Do runs fn on the worker and suspends the caller until it completes or
// ctx is canceled. On cancellation while queued the task is dropped by the
// worker before it ever runs.
func (w *LoadWorker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	task := loadTask{ctx: ctx, run: fn, done: make(chan error, 1)}
	select {
	case w.tasks <- task:
	case <-ctx.Done():
		return ctx.Err()
	case <-w.stop:
		return ErrCanceled
	}
	select {
	case err := <-task.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-w.stop:
		return ErrCanceled
	}
}

// Close stops the worker. Queued tasks are abandoned; their callers see
// cancellation through their own contexts.
func (w *LoadWorker) Close() {
	w.once.Do(func() { close(w.stop) })
}
