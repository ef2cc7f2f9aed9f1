package queue_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarenko/mff-auto-sub000/internal/constants"
	"github.com/tmarenko/mff-auto-sub000/internal/game/gametest"
	"github.com/tmarenko/mff-auto-sub000/internal/mission"
	"github.com/tmarenko/mff-auto-sub000/internal/queue"
	"github.com/tmarenko/mff-auto-sub000/internal/ui"
	"github.com/tmarenko/mff-auto-sub000/internal/window"
)

type fakeRunner struct {
	runs  []mission.Definition
	opts  []mission.Options
	errs  map[string]error
	after func()
}

func (f *fakeRunner) Run(ctx context.Context, def mission.Definition, opts mission.Options) (mission.Report, error) {
	f.runs = append(f.runs, def)
	f.opts = append(f.opts, opts)
	if f.after != nil {
		f.after()
	}
	return mission.Report{Mode: def.Name, Completed: 1}, f.errs[def.Name]
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.yaml")
	store := queue.NewStore(path)

	items, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, items)

	want := []queue.Item{
		{Mode: "EPIC QUEST", Kwargs: map[string]any{"times": 2, "battle": "manual"}, Checked: true},
		{Mode: queue.WaitForDailyReset},
	}
	require.NoError(t, store.Save(want))
	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: [unterminated"), 0o644))
	_, err := queue.NewStore(path).Load()
	assert.Error(t, err)
}

func TestOrchestrator_RunsCheckedItemsInOrder(t *testing.T) {
	h := gametest.New()
	r := &fakeRunner{errs: map[string]error{"EPIC QUEST": window.ErrNoFrame}}
	o := queue.NewOrchestrator(h.Game, r, mission.DefaultRegistry())

	var seen []int
	o.OnOutcome = func(i int, _ queue.Outcome) { seen = append(seen, i) }

	outcomes, err := o.Run(context.Background(), []queue.Item{
		{Mode: "EPIC QUEST", Checked: true},
		{Mode: "LEGENDARY BATTLE", Checked: false},
		{Mode: "WORLD BOSS", Checked: true},
		{Mode: "DIMENSION MISSION", Kwargs: map[string]any{"level": 15}, Checked: true},
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.ErrorIs(t, outcomes[0].Err, window.ErrNoFrame)
	assert.ErrorIs(t, outcomes[1].Err, queue.ErrUnknownMode)
	assert.NoError(t, outcomes[2].Err)
	assert.Equal(t, []int{0, 2, 3}, seen)

	require.Len(t, r.runs, 2)
	assert.Equal(t, "DIMENSION MISSION", r.runs[1].Name)
	assert.Equal(t, 15, r.opts[1].Level)
}

func TestOrchestrator_DumpsStuckFrame(t *testing.T) {
	h := gametest.New()
	r := &fakeRunner{errs: map[string]error{"EPIC QUEST": mission.ErrStuck}}
	o := queue.NewOrchestrator(h.Game, r, mission.DefaultRegistry())
	o.DumpDir = filepath.Join(t.TempDir(), "dumps")

	_, err := o.Run(context.Background(), []queue.Item{{Mode: "EPIC QUEST", Checked: true}})
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(o.DumpDir, "epic_quest_*.png"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestOrchestrator_StopsOnCancel(t *testing.T) {
	h := gametest.New()
	ctx, cancel := context.WithCancel(context.Background())
	r := &fakeRunner{after: cancel}
	o := queue.NewOrchestrator(h.Game, r, mission.DefaultRegistry())

	outcomes, err := o.Run(ctx, []queue.Item{
		{Mode: "EPIC QUEST", Checked: true},
		{Mode: "LEGENDARY BATTLE", Checked: true},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, outcomes, 1)
	assert.Len(t, r.runs, 1)
}

func TestOrchestrator_BadKwargs(t *testing.T) {
	h := gametest.New()
	r := &fakeRunner{}
	o := queue.NewOrchestrator(h.Game, r, mission.DefaultRegistry())

	outcomes, err := o.Run(context.Background(), []queue.Item{
		{Mode: "EPIC QUEST", Kwargs: map[string]any{"times": "lots"}, Checked: true},
		{Mode: queue.WaitForEnergy, Checked: true},
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Error(t, outcomes[0].Err)
	assert.Error(t, outcomes[1].Err)
	assert.Empty(t, r.runs)
}

func TestNextDailyReset(t *testing.T) {
	before := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), queue.NextDailyReset(before))

	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC), queue.NextDailyReset(at))

	other := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("UTC+5", 5*3600))
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), queue.NextDailyReset(other))
}

func TestWaitForDailyReset(t *testing.T) {
	h := gametest.New()
	// harness clock starts at 12:00 UTC
	require.NoError(t, queue.WaitForDailyResetTime(context.Background(), h.Game))
	assert.Equal(t, time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC), h.Clock.Now())
}

func TestWaitForEnergy(t *testing.T) {
	h := gametest.New()
	h.OCR.Script(ui.EnergyCounter, "40/120", "55/120", "??", "80/120")

	start := h.Clock.Now()
	require.NoError(t, queue.WaitForEnergyLevel(context.Background(), h.Game, 80))
	assert.Equal(t, 4, h.OCR.Calls(ui.EnergyCounter))
	waited := h.Clock.Now().Sub(start)
	assert.GreaterOrEqual(t, waited, 3*constants.EnergyPollMin)
	assert.LessOrEqual(t, waited, 3*constants.EnergyPollMax)
}

func TestWaitForEnergy_AboveCap(t *testing.T) {
	h := gametest.New()
	h.SetText(ui.EnergyCounter, "40/120")
	assert.Error(t, queue.WaitForEnergyLevel(context.Background(), h.Game, 200))
}

func TestOrchestrator_WaitForEnergyItem(t *testing.T) {
	h := gametest.New()
	h.SetText(ui.EnergyCounter, "100/120")
	o := queue.NewOrchestrator(h.Game, &fakeRunner{}, mission.DefaultRegistry())

	outcomes, err := o.Run(context.Background(), []queue.Item{
		{Mode: queue.WaitForEnergy, Kwargs: map[string]any{"energy": 90}, Checked: true},
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.NoError(t, outcomes[0].Err)
}
