// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package querylog

import (
	"sync"
	"time"

	"grimm.is/sinkhole/internal/clock"
	"grimm.is/sinkhole/internal/logging"
)

// Service is the async writer in front of the store. Emit performs a
// non-blocking channel send and drops on overflow; a background goroutine
// flushes batches on size or timer.
type Service struct {
	store     *Store
	queue     chan Entry
	batchSize int
	interval  time.Duration
	retention time.Duration

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// ServiceConfig configures the writer.
type ServiceConfig struct {
	Store         *Store
	QueueSize     int
	FlushBatch    int
	FlushInterval time.Duration
	// Retention bounds the stored history; entries older than now minus
	// Retention are purged after each timer flush. 0 keeps everything.
	Retention time.Duration
}

// NewService creates the writer. Zero config fields get working defaults.
func NewService(cfg ServiceConfig) *Service {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 8192
	}
	batchSize := cfg.FlushBatch
	if batchSize <= 0 {
		batchSize = 1024
	}
	interval := cfg.FlushInterval
	if interval <= 0 {
		interval = time.Minute
	}
	return &Service{
		store:     cfg.Store,
		queue:     make(chan Entry, queueSize),
		batchSize: batchSize,
		interval:  interval,
		retention: cfg.Retention,
		stopCh:    make(chan struct{}),
	}
}

// Start launches the background flush goroutine.
func (s *Service) Start() {
	s.wg.Add(1)
	go s.flushLoop()
}

// Stop signals the flush loop, drains what is queued, and returns once the
// last batch is on disk.
func (s *Service) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// Emit enqueues an entry. Non-blocking; drops on overflow so the resolver
// path cannot stall behind a slow disk.
func (s *Service) Emit(e Entry) {
	select {
	case s.queue <- e:
	default:
	}
}

func (s *Service) flushLoop() {
	defer s.wg.Done()

	batch := make([]Entry, 0, s.batchSize)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case e := <-s.queue:
			batch = append(batch, e)
			if len(batch) >= s.batchSize {
				s.flush(batch)
				batch = batch[:0]
			}

		case <-ticker.C:
			if len(batch) > 0 {
				s.flush(batch)
				batch = batch[:0]
			}
			s.enforceRetention()

		case <-s.stopCh:
			s.drainAndFlush(batch)
			return
		}
	}
}

func (s *Service) drainAndFlush(batch []Entry) {
	for {
		select {
		case e := <-s.queue:
			batch = append(batch, e)
			if len(batch) >= s.batchSize {
				s.flush(batch)
				batch = batch[:0]
			}
		default:
			if len(batch) > 0 {
				s.flush(batch)
			}
			return
		}
	}
}

func (s *Service) flush(batch []Entry) {
	if n, err := s.store.InsertBatch(batch); err != nil {
		logging.Error("[QUERYLOG] flush of %d entries failed: %v", len(batch), err)
	} else if n > 0 {
		logging.Debug("[QUERYLOG] flushed entries", "count", n)
	}
}

func (s *Service) enforceRetention() {
	if s.retention <= 0 {
		return
	}
	cutoff := clock.Now().Add(-s.retention)
	if n, err := s.store.Purge(cutoff); err != nil {
		logging.Warn("[QUERYLOG] retention purge failed: %v", err)
	} else if n > 0 {
		logging.Info("[QUERYLOG] purged expired entries", "count", n)
	}
}
