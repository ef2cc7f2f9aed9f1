package planner

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"

	"github.com/tmarenko/mff-auto-sub000/internal/logger"
	"github.com/tmarenko/mff-auto-sub000/internal/mission"
	"github.com/tmarenko/mff-auto-sub000/internal/queue"
)

// Deps are the services the Queue tab drives.
type Deps struct {
	Orchestrator *queue.Orchestrator
	Registry     *mission.Registry
	Store        *queue.Store
	Log          *logger.AppLogger
	LogData      binding.StringList
}

// NewQueuePanel creates the Queue tab: editor on top, rows in the middle, log at the bottom.
func NewQueuePanel(d Deps) fyne.CanvasObject {
	log := d.Log.With("planner")

	// --- Data ---
	statusData := binding.NewString()
	statusData.Set("Status: Ready")

	var mu sync.Mutex
	items, err := d.Store.Load()
	if err != nil {
		log.Error("Load queue: %v", err)
	}
	selected := -1

	runner := NewRunner(d.Orchestrator, d.Log, func(msg string) { statusData.Set(msg) })

	save := func() {
		mu.Lock()
		snapshot := append([]queue.Item(nil), items...)
		mu.Unlock()
		if err := d.Store.Save(snapshot); err != nil {
			log.Error("Save queue: %v", err)
		}
	}

	// --- Rows ---
	rows := widget.NewList(
		func() int {
			mu.Lock()
			defer mu.Unlock()
			return len(items)
		},
		func() fyne.CanvasObject {
			return container.NewHBox(widget.NewCheck("", nil), widget.NewLabel("Queue row template"))
		},
		func(id widget.ListItemID, o fyne.CanvasObject) {
			box := o.(*fyne.Container)
			check := box.Objects[0].(*widget.Check)
			label := box.Objects[1].(*widget.Label)

			mu.Lock()
			if id >= len(items) {
				mu.Unlock()
				return
			}
			it := items[id]
			mu.Unlock()

			check.OnChanged = nil
			check.SetChecked(it.Checked)
			check.OnChanged = func(on bool) {
				mu.Lock()
				if id < len(items) {
					items[id].Checked = on
				}
				mu.Unlock()
				save()
			}
			label.SetText(rowText(runner.Tracker(), id, it))
		},
	)
	rows.OnUnselected = func(widget.ListItemID) { selected = -1 }
	runner.OnRow(func(int, queue.Outcome) { fyne.Do(rows.Refresh) })

	// --- Editor ---
	modes := append(d.Registry.Names(), queue.WaitForEnergy, queue.WaitForDailyReset)
	modeSelect := widget.NewSelect(modes, nil)
	modeSelect.PlaceHolder = "Mode"
	timesEntry := widget.NewEntry()
	timesEntry.SetPlaceHolder("times (all)")
	levelEntry := widget.NewEntry()
	levelEntry.SetPlaceHolder("level (keep)")
	energyEntry := widget.NewEntry()
	energyEntry.SetPlaceHolder("energy")
	manualCheck := widget.NewCheck("Manual battle", nil)
	moveCheck := widget.NewCheck("Move around", nil)
	moveCheck.Disable()
	manualCheck.OnChanged = func(on bool) {
		if on {
			moveCheck.Enable()
		} else {
			moveCheck.SetChecked(false)
			moveCheck.Disable()
		}
	}
	bioCheck := widget.NewCheck("Farm bios", nil)

	readForm := func() Form {
		return Form{
			Times:      timesEntry.Text,
			Level:      levelEntry.Text,
			Energy:     energyEntry.Text,
			Manual:     manualCheck.Checked,
			MoveAround: moveCheck.Checked,
			BioFarming: bioCheck.Checked,
		}
	}

	edit := func(fn func([]queue.Item) []queue.Item) {
		mu.Lock()
		items = fn(items)
		mu.Unlock()
		runner.Tracker().Reset()
		save()
		rows.Refresh()
	}

	addBtn := widget.NewButton("Add", func() {
		it, err := BuildItem(modeSelect.Selected, readForm())
		if err != nil {
			log.Warn("Add row: %v", err)
			return
		}
		edit(func(cur []queue.Item) []queue.Item { return append(cur, it) })
		log.Info("Queued %s", it)
	})
	removeBtn := widget.NewButton("Remove", func() {
		i := selected
		edit(func(cur []queue.Item) []queue.Item { return Remove(cur, i) })
		rows.UnselectAll()
	})
	upBtn := widget.NewButton("Up", func() {
		var to int
		edit(func(cur []queue.Item) []queue.Item {
			var out []queue.Item
			out, to = Move(cur, selected, -1)
			return out
		})
		rows.Select(to)
	})
	downBtn := widget.NewButton("Down", func() {
		var to int
		edit(func(cur []queue.Item) []queue.Item {
			var out []queue.Item
			out, to = Move(cur, selected, 1)
			return out
		})
		rows.Select(to)
	})
	rows.OnSelected = func(id widget.ListItemID) {
		selected = id
		mu.Lock()
		if id >= len(items) {
			mu.Unlock()
			return
		}
		it := items[id]
		mu.Unlock()
		f, err := FormFor(it)
		if err != nil {
			log.Warn("Row %d: %v", id+1, err)
			return
		}
		modeSelect.SetSelected(it.Mode)
		timesEntry.SetText(f.Times)
		levelEntry.SetText(f.Level)
		energyEntry.SetText(f.Energy)
		manualCheck.SetChecked(f.Manual)
		moveCheck.SetChecked(f.MoveAround)
		bioCheck.SetChecked(f.BioFarming)
	}

	// --- Status & Logs ---
	statusLabel := widget.NewLabelWithData(statusData)
	statusLabel.TextStyle = fyne.TextStyle{Bold: true}

	logList := widget.NewListWithData(
		d.LogData,
		func() fyne.CanvasObject { return widget.NewLabel("Log entry template") },
		func(i binding.DataItem, o fyne.CanvasObject) { o.(*widget.Label).Bind(i.(binding.String)) },
	)
	d.LogData.AddListener(binding.NewDataListener(func() {
		list, _ := d.LogData.Get()
		if len(list) > 0 {
			logList.ScrollToBottom()
		}
	}))

	// --- Start / Stop ---
	startBtn := widget.NewButton("Start queue", nil)
	stopBtn := widget.NewButton("Stop", nil)
	stopBtn.Disable()
	editors := []fyne.Disableable{addBtn, removeBtn, upBtn, downBtn}

	setRunning := func(on bool) {
		for _, w := range editors {
			if on {
				w.Disable()
			} else {
				w.Enable()
			}
		}
		if on {
			startBtn.Disable()
			stopBtn.Enable()
		} else {
			stopBtn.Disable()
			startBtn.Enable()
		}
	}

	startBtn.OnTapped = func() {
		mu.Lock()
		snapshot := append([]queue.Item(nil), items...)
		mu.Unlock()
		if !runner.Start(snapshot) {
			return
		}
		setRunning(true)
		go func() {
			runner.Wait()
			fyne.Do(func() {
				setRunning(false)
				rows.Refresh()
			})
		}()
	}
	stopBtn.OnTapped = func() {
		stopBtn.Disable()
		go runner.Stop()
	}

	// --- Layout ---
	editor := container.NewVBox(
		widget.NewLabel("Queue row:"),
		modeSelect,
		container.NewGridWithColumns(3, timesEntry, levelEntry, energyEntry),
		container.NewHBox(manualCheck, moveCheck, bioCheck),
		container.NewHBox(addBtn, removeBtn, upBtn, downBtn),
	)
	controls := container.NewVBox(statusLabel, container.NewHBox(startBtn, stopBtn), widget.NewSeparator(), widget.NewLabel("Log:"))

	top := container.NewBorder(editor, controls, nil, nil, rows)
	return container.NewVSplit(top, logList)
}

func rowText(t *Tracker, i int, it queue.Item) string {
	s, ok := t.Stats(i, it)
	text := fmt.Sprintf("%d. %s", i+1, it)
	switch {
	case t.IsBlacklisted(i, it):
		return text + " (skipped: " + errText(s.LastErr) + ")"
	case ok && s.LastErr != nil && s.Streak > 0:
		return fmt.Sprintf("%s (failed %dx)", text, s.Streak)
	case ok:
		return fmt.Sprintf("%s (%d stages done)", text, s.Completed)
	}
	return text
}

func errText(err error) string {
	if err == nil {
		return "failing"
	}
	return err.Error()
}
