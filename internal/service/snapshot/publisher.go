// Package snapshot publishes the derived feature table to concurrent
// readers.
package snapshot

import (
	"sync/atomic"

	"github.com/NeuralG/coin-trading-ai/internal/domain/models"
)

// Publisher holds the single currently-published snapshot. Publish is
// the only mutator and swaps the whole reference at once; readers never
// lock and never observe a partially built snapshot. Until the first
// publish, Current reports not-ready.
type Publisher struct {
	cur atomic.Pointer[models.Snapshot]
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

// Publish makes snap the current snapshot. The caller must not mutate
// snap afterwards.
func (p *Publisher) Publish(snap *models.Snapshot) {
	p.cur.Store(snap)
}

// Current returns the published snapshot, or false while no cycle has
// completed yet.
func (p *Publisher) Current() (*models.Snapshot, bool) {
	s := p.cur.Load()
	return s, s != nil
}
