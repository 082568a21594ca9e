package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// SyncJob identifies one city whose listings should be refreshed.
type SyncJob struct {
	City  string
	State string
}

// SyncQueue is an in-memory queue of pending sync jobs
type SyncQueue struct {
	jobs     chan SyncJob
	done     chan struct{}
	maxSize  int
	closed   bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []func(SyncJob) error
}

// NewSyncQueue creates a new sync queue with the specified buffer size
func NewSyncQueue(bufferSize int, logger *logrus.Logger) *SyncQueue {
	return &SyncQueue{
		jobs:     make(chan SyncJob, bufferSize),
		done:     make(chan struct{}),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func(SyncJob) error, 0),
	}
}

// Push adds a sync job to the queue
func (q *SyncQueue) Push(job SyncJob) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	q.mu.RUnlock()

	// Non-blocking send to prevent deadlocks
	select {
	case q.jobs <- job:
		q.logger.WithField("city", job.City).Debug("Pushed sync job to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler function that will be called for each job
func (q *SyncQueue) Subscribe(handler func(SyncJob) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins processing jobs in the queue
func (q *SyncQueue) Start() {
	go q.process()
}

// process handles the queue processing loop
func (q *SyncQueue) process() {
	for {
		select {
		case <-q.done:
			return
		case job := <-q.jobs:
			q.processJob(job)
		}
	}
}

// processJob sends the job to all subscribed handlers
func (q *SyncQueue) processJob(job SyncJob) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(job); err != nil {
			q.logger.WithError(err).WithField("city", job.City).Error("Handler failed to process sync job")
		}
	}
}

// Close stops the queue and prevents new jobs from being added
func (q *SyncQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.done)
	close(q.jobs)
	return nil
}

// Len returns the current number of jobs in the queue
func (q *SyncQueue) Len() int {
	return len(q.jobs)
}

// IsClosed returns whether the queue has been closed
func (q *SyncQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
