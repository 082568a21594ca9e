package scheduler

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"propaudit/server/internal/models"
	"propaudit/server/internal/queue"
)

// Syncer is the subset of the property service the scheduler needs.
type Syncer interface {
	Sync(ctx context.Context, city, state string) (*models.SyncReport, error)
}

// Scheduler enqueues periodic sync jobs for the configured cities and
// drains the queue with bounded retries. An interval of zero disables
// scheduling; the worker still runs so manually pushed jobs are served.
type Scheduler struct {
	syncer     Syncer
	queue      *queue.SyncQueue
	logger     *logrus.Logger
	stopChan   chan struct{}
	wg         sync.WaitGroup
	cities     []string
	state      string
	interval   time.Duration
	maxRetries int
	retryDelay time.Duration
	jobMutex   sync.Mutex // Ensures sequential job execution
}

// Options configures a Scheduler.
type Options struct {
	Cities          []string
	State           string
	IntervalMinutes int
	MaxRetries      int
	RetryDelaySec   int
}

// NewScheduler creates a new scheduler draining the given queue.
func NewScheduler(syncer Syncer, q *queue.SyncQueue, opts Options, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}

	s := &Scheduler{
		syncer:     syncer,
		queue:      q,
		logger:     logger,
		stopChan:   make(chan struct{}),
		cities:     opts.Cities,
		state:      opts.State,
		interval:   time.Duration(opts.IntervalMinutes) * time.Minute,
		maxRetries: opts.MaxRetries,
		retryDelay: time.Duration(opts.RetryDelaySec) * time.Second,
	}
	s.queue.Subscribe(s.runJob)
	return s
}

// Start begins the scheduled tasks
func (s *Scheduler) Start() {
	s.queue.Start()

	if s.interval <= 0 {
		s.logger.Info("Background sync disabled, queue serves manual jobs only")
		return
	}

	s.wg.Add(1)
	go s.runScheduler()
}

// runScheduler enqueues one round at startup, then one per interval.
func (s *Scheduler) runScheduler() {
	defer s.wg.Done()

	s.logger.WithField("interval", s.interval.String()).Info("Starting background sync schedule")
	s.enqueueCities()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.enqueueCities()
		}
	}
}

// enqueueCities pushes one job per configured city. A full queue drops
// the round rather than blocking the ticker.
func (s *Scheduler) enqueueCities() {
	for _, city := range s.cities {
		job := queue.SyncJob{City: city, State: s.state}
		if err := s.queue.Push(job); err != nil {
			s.logger.WithError(err).WithField("city", city).Warn("Failed to enqueue sync job")
		}
	}
}

// runJob executes one sync job with bounded retries.
func (s *Scheduler) runJob(job queue.SyncJob) error {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		report, err := s.syncer.Sync(context.Background(), job.City, job.State)
		if err == nil {
			s.logger.WithFields(logrus.Fields{
				"city":     job.City,
				"state":    job.State,
				"attempt":  attempt,
				"inserted": report.Inserted,
				"updated":  report.Updated,
				"skipped":  report.Skipped,
			}).Info("Scheduled sync completed")
			return nil
		}

		lastErr = err
		s.logger.WithError(err).WithFields(logrus.Fields{
			"city":    job.City,
			"attempt": attempt,
		}).Error("Scheduled sync failed")

		if attempt < s.maxRetries {
			select {
			case <-s.stopChan:
				return lastErr
			case <-time.After(s.retryDelay):
			}
		}
	}
	return lastErr
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
	s.queue.Close()
}
