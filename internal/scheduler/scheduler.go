package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/strategy"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// ErrStale is returned by RunNow when a later-started refresh published first.
var ErrStale = errors.New("refresh result superseded")

// Scheduler runs periodic refreshes and publishes their results.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Engine    *strategy.Engine
	Notifier  notifier.Sender
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics
	Publisher *Publisher
	Ctx       context.Context

	// publishMu orders publication together with its metrics, history and
	// notification, so these always follow the published sequence.
	publishMu sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, eng *strategy.Engine, n notifier.Sender, rec recorder.Recorder, m *metrics.Metrics) *Scheduler {
	logger := cron.PrintfLogger(log.Default())
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		Collector: col,
		Engine:    eng,
		Notifier:  n,
		Recorder:  rec,
		Metrics:   m,
		Publisher: NewPublisher(),
		Ctx:       ctx,
	}
}

// RegisterAll registers the refresh task.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) refreshTask() {
	if _, err := s.RunNow(s.Ctx); err != nil && !errors.Is(err, ErrStale) {
		log.Printf("[ERROR] refresh: %v", err)
	}
}

// RunNow performs one refresh: fetch, compute, classify, publish.
// Side effects (notification, recording, metrics) only follow an accepted result.
func (s *Scheduler) RunNow(ctx context.Context) (*model.Snapshot, error) {
	snap := &model.Snapshot{
		RunID:     uuid.NewString(),
		Seq:       s.Publisher.Begin(),
		StartedAt: time.Now(),
	}
	log.Printf("[INFO] refresh %s started (seq=%d)", snap.RunID, snap.Seq)

	series, err := s.Collector.Fetch(ctx)
	if err != nil {
		s.fail(snap, "fetch_error", "collect", err)
		return nil, err
	}

	computeStart := time.Now()
	ind, err := s.Collector.Compute(series)
	s.Metrics.ObserveCompute(time.Since(computeStart))
	if err != nil {
		s.fail(snap, "compute_error", "compute", err)
		return nil, err
	}

	sig, err := s.Engine.Evaluate(ind)
	if err != nil {
		s.fail(snap, "classify_error", "classify", err)
		return nil, err
	}
	snap.Indicators = ind
	snap.Signal = sig
	snap.FinishedAt = time.Now()

	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	prev, ok := s.Publisher.Publish(snap)
	if !ok {
		s.Metrics.RefreshTotal.WithLabelValues("stale").Inc()
		s.Metrics.StaleDiscarded.Inc()
		log.Printf("[WARN] refresh %s discarded: seq %d superseded", snap.RunID, snap.Seq)
		return nil, ErrStale
	}

	log.Printf("[INFO] refresh %s: %s %s (%s)", snap.RunID, ind.Series.Symbol, sig.Type, sig.Explanation)
	s.Metrics.ObserveSnapshot(snap)

	if err := s.Recorder.RecordSignal(snap); err != nil {
		log.Printf("[ERROR] record signal: %v", err)
	}
	s.notifyChange(ctx, prev, snap)
	return snap, nil
}

// notifyChange sends a message when the signal differs from the previous
// published one. The very first signal is announced only if it is not HOLD.
func (s *Scheduler) notifyChange(ctx context.Context, prev, snap *model.Snapshot) {
	var prevType model.SignalType
	if prev != nil {
		prevType = prev.Signal.Type
	}
	cur := snap.Signal.Type
	if prevType == cur || (prev == nil && cur == model.SignalHold) {
		return
	}
	if prev != nil {
		s.Metrics.SignalChanges.Inc()
	}
	s.trySend(ctx, notifier.FormatSignalChange(prevType, snap))
}

func (s *Scheduler) fail(snap *model.Snapshot, result, stage string, err error) {
	s.Metrics.RefreshTotal.WithLabelValues(result).Inc()
	log.Printf("[ERROR] refresh %s %s failed: %v", snap.RunID, stage, err)
	if recErr := s.Recorder.RecordFailure(&recorder.FailureEvent{
		RunID:  snap.RunID,
		Symbol: s.Collector.Symbol,
		Stage:  stage,
		Err:    err.Error(),
	}); recErr != nil {
		log.Printf("[ERROR] record failure: %v", recErr)
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "/signal", "/start":
		snap := s.Publisher.Latest()
		if snap == nil {
			return "No signal computed yet."
		}
		return notifier.FormatSignalReport(snap)
	case "/refresh":
		snap, err := s.RunNow(ctx)
		if errors.Is(err, ErrStale) {
			snap = s.Publisher.Latest()
		} else if err != nil {
			return fmt.Sprintf("❌ Refresh failed: %v", err)
		}
		return notifier.FormatSignalReport(snap)
	case "/history":
		records, err := s.Recorder.RecentSignals(10)
		if err != nil {
			return fmt.Sprintf("❌ History unavailable: %v", err)
		}
		return notifier.FormatHistory(records)
	default:
		return notifier.HelpText
	}
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if err := s.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
