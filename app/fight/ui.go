package fight

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"

	"github.com/tmarenko/mff-auto-sub000/internal/game"
	"github.com/tmarenko/mff-auto-sub000/internal/logger"
)

const (
	variantAuto   = "Auto"
	variantManual = "Manual"
)

// NewBattlePanel creates the Battle tab.
func NewBattlePanel(g *game.Game, log *logger.AppLogger) fyne.CanvasObject {
	statusData := binding.NewString()
	statusData.Set("Status: Ready")
	session := NewSession(g, log, func(msg string) { statusData.Set(msg) })

	moveCheck := widget.NewCheck("Move around", nil)
	moveCheck.Disable()
	variant := widget.NewRadioGroup([]string{variantAuto, variantManual}, func(v string) {
		if v == variantManual {
			moveCheck.Enable()
			return
		}
		moveCheck.SetChecked(false)
		moveCheck.Disable()
	})
	variant.Horizontal = true
	variant.SetSelected(variantAuto)

	statusLabel := widget.NewLabelWithData(statusData)
	statusLabel.TextStyle = fyne.TextStyle{Bold: true}

	startBtn := widget.NewButton("Fight", nil)
	stopBtn := widget.NewButton("Stop", nil)
	stopBtn.Disable()

	startBtn.OnTapped = func() {
		set := Settings{Manual: variant.Selected == variantManual, MoveAround: moveCheck.Checked}
		if !session.Start(set) {
			return
		}
		startBtn.Disable()
		stopBtn.Enable()
		go func() {
			session.Wait()
			fyne.Do(func() {
				stopBtn.Disable()
				startBtn.Enable()
			})
		}()
	}
	stopBtn.OnTapped = func() {
		stopBtn.Disable()
		go session.Stop()
	}

	return container.NewVBox(
		widget.NewLabel("Start a battle in the game, then press Fight:"),
		variant,
		moveCheck,
		statusLabel,
		container.NewHBox(startBtn, stopBtn),
	)
}
