package game

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tmarenko/mff-auto-sub000/internal/logger"
)

// nestingGuard re-enters the guard chain the way a guard that reads the screen does.
type nestingGuard struct{ runs atomic.Int32 }

func (*nestingGuard) Name() string { return "nesting" }

func (n *nestingGuard) Before(g *Game) {
	n.runs.Add(1)
	g.runGuards()
}

func TestRunGuards_NotReentrant(t *testing.T) {
	gd := &nestingGuard{}
	g := New(nil, nil, nil, logger.Nop(), WithGuards(gd))
	g.runGuards()
	assert.EqualValues(t, 1, gd.runs.Load())
	assert.False(t, g.guarded.Load())
}

func TestRunGuards_SharedAcrossGoroutines(t *testing.T) {
	gd := &nestingGuard{}
	g := New(nil, nil, nil, logger.Nop(), WithGuards(gd))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				g.runGuards()
			}
		}()
	}
	wg.Wait()
	assert.Positive(t, gd.runs.Load())
	assert.LessOrEqual(t, gd.runs.Load(), int32(400))
	assert.False(t, g.guarded.Load())
}
