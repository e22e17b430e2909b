package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/newswire/app/cfg"
	"github.com/lysyi3m/newswire/app/database"
	"github.com/lysyi3m/newswire/app/news"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const (
	snapshotRetention = 72 * time.Hour
	pruneInterval     = time.Hour
)

// Scheduler keeps source caches warm: every tick it enqueues a refresh
// for each registered source whose cached items have outlived the
// source TTL. Snapshot pruning piggybacks on the same loop.
type Scheduler struct {
	fetcher     Fetcher
	registry    *news.Registry
	cache       *news.Cache
	snapshots   database.SnapshotRepository
	interval    time.Duration
	workerCount int
	lastPrune   time.Time
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(fetcher Fetcher, registry *news.Registry, cache *news.Cache,
	snapshots database.SnapshotRepository) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		fetcher:     fetcher,
		registry:    registry,
		cache:       cache,
		snapshots:   snapshots,
		interval:    time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount: cfg.WorkerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueTasks() {
	ids := s.registry.IDs()
	if len(ids) == 0 {
		slog.Debug("No sources registered")
		return
	}

	for _, id := range ids {
		src, ok := s.registry.Lookup(id)
		if !ok {
			continue
		}

		if _, _, ok := s.cache.Get(id, src.TTL); ok {
			slog.Debug("Source not due for refresh yet", "source", id)
			continue
		}

		task := NewRefreshSourceTask(id, s.fetcher, s.snapshots)
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue RefreshSourceTask", "source", id, "error", err)
		}
	}

	if s.snapshots != nil && time.Since(s.lastPrune) >= pruneInterval {
		s.lastPrune = time.Now()
		if err := s.EnqueueTask(NewPruneSnapshotsTask(s.snapshots, snapshotRetention)); err != nil {
			slog.Warn("Failed to enqueue PruneSnapshotsTask", "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
