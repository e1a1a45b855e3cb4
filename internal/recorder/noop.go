package recorder

import "SignalSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSignal(_ *model.Snapshot) error         { return nil }
func (n *NoopRecorder) RecordFailure(_ *FailureEvent) error          { return nil }
func (n *NoopRecorder) RecentSignals(_ int) ([]SignalRecord, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                 { return nil }
