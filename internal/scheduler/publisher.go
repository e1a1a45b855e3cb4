package scheduler

import (
	"sync"

	"SignalSentinel/internal/model"
)

// Publisher holds the latest accepted snapshot. Refreshes take a sequence
// number when they start; a result is accepted only if no refresh that started
// later has already been published.
type Publisher struct {
	mu        sync.RWMutex
	nextSeq   uint64
	published uint64
	latest    *model.Snapshot
}

// NewPublisher returns an empty publisher.
func NewPublisher() *Publisher { return &Publisher{} }

// Begin reserves the sequence number for a refresh that is starting now.
func (p *Publisher) Begin() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextSeq++
	return p.nextSeq
}

// Publish stores snap if it is newer than the current one. It returns the
// snapshot it replaced and whether snap was accepted.
func (p *Publisher) Publish(snap *model.Snapshot) (prev *model.Snapshot, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if snap.Seq <= p.published {
		return p.latest, false
	}
	prev = p.latest
	p.latest = snap
	p.published = snap.Seq
	return prev, true
}

// Latest returns the most recently accepted snapshot, or nil.
func (p *Publisher) Latest() *model.Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}
