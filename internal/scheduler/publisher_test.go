package scheduler

import (
	"testing"

	"SignalSentinel/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestPublisher_DiscardsOlderStarts(t *testing.T) {
	p := NewPublisher()
	assert.Nil(t, p.Latest())

	first := p.Begin()
	second := p.Begin()
	assert.Less(t, first, second)

	prev, ok := p.Publish(&model.Snapshot{Seq: second, RunID: "second"})
	assert.True(t, ok)
	assert.Nil(t, prev)

	prev, ok = p.Publish(&model.Snapshot{Seq: first, RunID: "first"})
	assert.False(t, ok)
	assert.Equal(t, "second", prev.RunID)
	assert.Equal(t, "second", p.Latest().RunID)

	third := p.Begin()
	prev, ok = p.Publish(&model.Snapshot{Seq: third, RunID: "third"})
	assert.True(t, ok)
	assert.Equal(t, "second", prev.RunID)
	assert.Equal(t, "third", p.Latest().RunID)
}
