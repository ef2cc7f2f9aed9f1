package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"

	"github.com/tmarenko/mff-auto-sub000/app/fight"
	"github.com/tmarenko/mff-auto-sub000/app/planner"
	"github.com/tmarenko/mff-auto-sub000/app/tools"
	"github.com/tmarenko/mff-auto-sub000/internal/config"
	"github.com/tmarenko/mff-auto-sub000/internal/game"
	"github.com/tmarenko/mff-auto-sub000/internal/logger"
	"github.com/tmarenko/mff-auto-sub000/internal/mission"
	"github.com/tmarenko/mff-auto-sub000/internal/notifications"
	"github.com/tmarenko/mff-auto-sub000/internal/queue"
	"github.com/tmarenko/mff-auto-sub000/internal/ui"
	"github.com/tmarenko/mff-auto-sub000/internal/vision/tesseract"
	"github.com/tmarenko/mff-auto-sub000/internal/window"
	"github.com/tmarenko/mff-auto-sub000/internal/window/desktop"
)

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	myApp := app.New()
	myWindow := myApp.NewWindow("MFF Auto")
	myWindow.Resize(fyne.NewSize(520, 720))

	logData := binding.NewStringList()
	appLogger, err := logger.NewAppLogger(cfg.LogLevel, logData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	g, closeOCR, err := setup(cfg, appLogger)
	if err != nil {
		appLogger.Error("Startup: %v", err)
		os.Exit(1)
	}
	defer closeOCR()

	registry := mission.DefaultRegistry()
	sequencer := mission.NewSequencer(g, notifications.NewCloser(g))
	orchestrator := queue.NewOrchestrator(g, sequencer, registry)
	if cfg.DebugDump {
		orchestrator.DumpDir = filepath.Join(cfg.Assets.ImagesDir, "frames")
	}

	tabs := container.NewAppTabs(
		container.NewTabItem("Queue", planner.NewQueuePanel(planner.Deps{
			Orchestrator: orchestrator,
			Registry:     registry,
			Store:        queue.NewStore(cfg.Queue.File),
			Log:          appLogger,
			LogData:      logData,
		})),
		container.NewTabItem("Battle", fight.NewBattlePanel(g, appLogger)),
		container.NewTabItem("Tools", tools.NewToolsPanel(myWindow, tools.Deps{
			Game:      g,
			ImagesDir: cfg.Assets.ImagesDir,
			Log:       appLogger,
			Attach: func() error {
				return g.Window().Attach(cfg.Emulator.Window, cfg.Emulator.Child, cfg.Emulator.KeyHandle)
			},
		})),
	)
	tabs.SetTabLocation(container.TabLocationTop)

	myWindow.SetContent(tabs)
	myWindow.ShowAndRun()
}

// setup builds the catalogue, OCR and window stack. The emulator may be started later, so a
// failed attach is only logged; probes report no frame until the window shows up.
func setup(cfg *config.Config, log *logger.AppLogger) (*game.Game, func(), error) {
	cat := ui.Default(log)
	if err := cat.LoadImages(cfg.Assets.ImagesDir); err != nil {
		log.Debug("Catalogue images: %v", err)
	}
	if changed, err := cat.ApplyOverridesFile(cfg.Assets.Overrides); err != nil {
		return nil, nil, err
	} else if len(changed) > 0 {
		log.Info("Catalogue overrides applied to %d elements", len(changed))
	}
	if missing := cat.MissingImages(); len(missing) > 0 {
		log.Warn("%d templates missing from %s, their image checks never match: %s",
			len(missing), cfg.Assets.ImagesDir, strings.Join(missing, ", "))
	}

	ocr, err := tesseract.NewPool(cfg.OCR.TessdataPrefix, cfg.OCR.DigitsLanguage, log)
	if err != nil {
		return nil, nil, fmt.Errorf("tesseract: %w", err)
	}

	var backend window.Backend
	switch cfg.Emulator.Backend {
	case config.BackendDesktop:
		backend = desktop.New()
	default:
		backend, err = window.NewHWNDBackend()
		if err != nil {
			ocr.Close()
			return nil, nil, err
		}
	}
	win := window.New(backend, log)
	if err := win.Attach(cfg.Emulator.Window, cfg.Emulator.Child, cfg.Emulator.KeyHandle); err != nil {
		log.Warn("%v", err)
	}

	g := game.New(win, ocr, cat, log, game.WithGuards(game.DefaultGuards(cfg.NetworkGuard)...))
	return g, func() { ocr.Close() }, nil
}
