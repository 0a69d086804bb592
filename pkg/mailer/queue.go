package mailer

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrQueueFull the backlog is at capacity; the message was dropped.
	ErrQueueFull = errors.New("mail queue is full")
	// ErrQueueClosed Send after Close.
	ErrQueueClosed = errors.New("mail queue is closed")
)

// Sender delivers one message synchronously.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type mailJob struct {
	to      string
	subject string
	body    string
}

// Queue hands messages to a fixed set of workers. Send only enqueues, so a
// slow relay never holds the caller.
type Queue struct {
	next    Sender
	jobs    chan mailJob
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewQueue starts workers goroutines draining a backlog of size messages.
// Each delivery gets timeout; zero leaves it to next.
func NewQueue(next Sender, workers, size int, timeout time.Duration, logger *zap.Logger) *Queue {
	if workers < 1 {
		workers = 1
	}
	if size < 1 {
		size = 1
	}
	q := &Queue{
		next:    next,
		jobs:    make(chan mailJob, size),
		timeout: timeout,
		logger:  logger,
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.work()
	}
	return q
}

// Send enqueues the message. The error only reports whether it was accepted;
// delivery failures are logged by the worker.
func (q *Queue) Send(_ context.Context, to, subject, body string) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- mailJob{to: to, subject: subject, body: body}:
		return nil
	default:
		q.logger.Warn("mail queue full, message dropped", zap.String("to", to), zap.String("subject", subject))
		return ErrQueueFull
	}
}

// Close stops accepting messages and waits for the backlog to drain or ctx to end.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) work() {
	defer q.wg.Done()
	for job := range q.jobs {
		q.deliver(job)
	}
}

func (q *Queue) deliver(job mailJob) {
	ctx := context.Background()
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	if err := q.next.Send(ctx, job.to, job.subject, job.body); err != nil {
		q.logger.Error("mail delivery failed",
			zap.String("to", job.to),
			zap.String("subject", job.subject),
			zap.Error(err),
		)
	}
}
