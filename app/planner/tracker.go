package planner

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tmarenko/mff-auto-sub000/internal/queue"
)

// ItemStats is what the tracker remembers about one queue row.
type ItemStats struct {
	Mode      string
	Runs      int
	Failures  int
	Streak    int // consecutive failures
	LastErr   error
	FirstRun  time.Time
	LastRun   time.Time
	Completed int // stages played across all runs
}

// Tracker counts runs per queue row and blacklists rows that keep failing, so a broken mode
// does not eat every pass of a looping queue.
type Tracker struct {
	mu          sync.Mutex
	stats       map[string]*ItemStats
	blacklist   map[string]time.Time
	maxFailures int // consecutive failures before blacklisting (default: 3)
	now         func() time.Time

	debugFunc func(string, ...interface{})
}

func NewTracker() *Tracker {
	return &Tracker{
		stats:       make(map[string]*ItemStats),
		blacklist:   make(map[string]time.Time),
		maxFailures: 3,
		now:         time.Now,
		debugFunc:   func(string, ...interface{}) {},
	}
}

func (t *Tracker) SetDebugFunc(f func(string, ...interface{})) {
	t.debugFunc = f
}

// SetMaxFailures changes the blacklist threshold; n < 1 disables blacklisting.
func (t *Tracker) SetMaxFailures(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.maxFailures = n
}

// Rows are keyed by position and mode: the same mode may be queued twice with other kwargs.
func itemKey(i int, it queue.Item) string {
	return strconv.Itoa(i) + "_" + strings.ToUpper(it.Mode)
}

// Record stores the outcome of row i and reports whether the row is blacklisted afterwards.
func (t *Tracker) Record(i int, out queue.Outcome) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := itemKey(i, out.Item)
	now := t.now()
	s, ok := t.stats[key]
	if !ok {
		s = &ItemStats{Mode: out.Item.Mode, FirstRun: now}
		t.stats[key] = s
	}
	s.Runs++
	s.LastRun = now
	s.Completed += out.Report.Completed

	if out.Err == nil {
		s.Streak = 0
		t.debugFunc("[Tracker] %s ok: runs=%d completed=%d", key, s.Runs, s.Completed)
		return t.isBlacklisted(key)
	}
	s.Failures++
	s.Streak++
	s.LastErr = out.Err
	t.debugFunc("[Tracker] %s failed: streak=%d err=%v", key, s.Streak, out.Err)
	if t.maxFailures > 0 && s.Streak >= t.maxFailures {
		if _, done := t.blacklist[key]; !done {
			t.blacklist[key] = now
			t.debugFunc("[Tracker] Blacklisted %s", key)
		}
		return true
	}
	return t.isBlacklisted(key)
}

func (t *Tracker) isBlacklisted(key string) bool {
	_, ok := t.blacklist[key]
	return ok
}

func (t *Tracker) IsBlacklisted(i int, it queue.Item) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isBlacklisted(itemKey(i, it))
}

// Stats returns a copy of the row's counters.
func (t *Tracker) Stats(i int, it queue.Item) (ItemStats, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.stats[itemKey(i, it)]
	if !ok {
		return ItemStats{}, false
	}
	return *s, true
}

// Filter returns a copy of items with blacklisted rows unchecked. Positions are kept so
// outcomes still map to the rows the user sees.
func (t *Tracker) Filter(items []queue.Item) []queue.Item {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]queue.Item, len(items))
	for i, it := range items {
		out[i] = it
		if it.Checked && t.isBlacklisted(itemKey(i, it)) {
			out[i].Checked = false
			t.debugFunc("[Tracker] Skipping blacklisted row %d %s", i+1, it.Mode)
		}
	}
	return out
}

// Reset forgets all counters and the blacklist (call when the queue is edited).
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats = make(map[string]*ItemStats)
	t.blacklist = make(map[string]time.Time)
}

// Totals returns how many rows are tracked and blacklisted.
func (t *Tracker) Totals() (tracked int, blacklisted int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.stats), len(t.blacklist)
}
