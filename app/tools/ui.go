// Package tools is the authoring tab: capture frames, cut templates and recalibrate rects.
package tools

import (
	"errors"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/disintegration/imaging"
	"github.com/kbinani/screenshot"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/tmarenko/mff-auto-sub000/internal/game"
	"github.com/tmarenko/mff-auto-sub000/internal/geom"
	"github.com/tmarenko/mff-auto-sub000/internal/logger"
	"github.com/tmarenko/mff-auto-sub000/internal/ui"
)

const emulatorSource = "Emulator window"

// Deps are the services the Tools tab uses.
type Deps struct {
	Game      *game.Game
	ImagesDir string
	Log       *logger.AppLogger
	// Attach re-finds the emulator window, e.g. after it was restarted.
	Attach func() error
}

// NewToolsPanel creates the UI panel for utility tools
func NewToolsPanel(win fyne.Window, d Deps) fyne.CanvasObject {
	log := d.Log.With("tools")
	cat := d.Game.Catalogue()

	// 1. Source selector: the attached emulator or a whole display
	sources := []string{emulatorSource}
	for i := 0; i < screenshot.NumActiveDisplays(); i++ {
		bounds := screenshot.GetDisplayBounds(i)
		sources = append(sources, fmt.Sprintf("Display %d (%dx%d)", i, bounds.Dx(), bounds.Dy()))
	}
	sourceSelect := widget.NewSelect(sources, nil)
	sourceSelect.SetSelected(emulatorSource)

	capture := func() (image.Image, error) {
		if sourceSelect.Selected == emulatorSource {
			if !d.Game.Window().Initialized() {
				return nil, errors.New("emulator window is not attached")
			}
			d.Game.Window().Invalidate()
			return d.Game.Capture()
		}
		var id int
		if _, err := fmt.Sscanf(sourceSelect.Selected, "Display %d", &id); err != nil {
			return nil, err
		}
		return screenshot.CaptureRect(screenshot.GetDisplayBounds(id))
	}

	infoLabel := widget.NewLabel("1. Pick a source\n2. Capture & Crop\n3. Drag over the button\n4. Save the template")
	infoLabel.Alignment = fyne.TextAlignCenter

	cropBtn := widget.NewButton("Capture & Crop", func() {
		img, err := capture()
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		showCropperWindow(img, cat, d.ImagesDir, log)
	})
	cropBtn.Importance = widget.HighImportance

	// 2. Locate: find where a catalogue image actually is on the current frame
	var withImages []string
	for _, name := range cat.Names() {
		if cat.MustGet(name).HasImage() {
			withImages = append(withImages, name)
		}
	}
	locateSelect := widget.NewSelect(withImages, nil)
	locateSelect.PlaceHolder = "Element"
	locateResult := widget.NewEntry()
	locateResult.SetPlaceHolder("located rect")
	locateBtn := widget.NewButton("Locate", func() {
		if locateSelect.Selected == "" {
			return
		}
		el := cat.MustGet(locateSelect.Selected)
		d.Game.Window().Invalidate()
		rect, ok := d.Game.LocateElement(el)
		if !ok {
			locateResult.SetText("not found")
			log.Info("%s not found near %s", el.Name, el.ImageRect)
			return
		}
		locateResult.SetText(RectLiteral(rect))
		log.Info("%s found at %s (catalogue %s)", el.Name, RectLiteral(rect), RectLiteral(el.ImageRect))
	})

	saveFrameBtn := widget.NewButton("Save frame", func() {
		path := filepath.Join(d.ImagesDir, "frames", time.Now().Format("20060102_150405")+".png")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			dialog.ShowError(err, win)
			return
		}
		if err := d.Game.Window().SaveDebugFrame(path); err != nil {
			dialog.ShowError(err, win)
			return
		}
		log.Info("Frame saved to %s", path)
	})

	attachBtn := widget.NewButton("Attach emulator", func() {
		if err := d.Attach(); err != nil {
			dialog.ShowError(err, win)
		}
	})

	openDirBtn := widget.NewButton("Open assets", func() {
		if err := openDir(d.ImagesDir); err != nil {
			log.Warn("Open %s: %v", d.ImagesDir, err)
		}
	})

	return container.NewVBox(
		widget.NewLabel("Source:"),
		container.NewBorder(nil, nil, nil, attachBtn, sourceSelect),
		widget.NewSeparator(),
		infoLabel,
		cropBtn,
		widget.NewSeparator(),
		widget.NewLabel("Recalibrate:"),
		container.NewBorder(nil, nil, nil, locateBtn, locateSelect),
		locateResult,
		widget.NewSeparator(),
		container.NewHBox(saveFrameBtn, openDirBtn),
	)
}

func openDir(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", abs)
	case "windows":
		cmd = exec.Command("explorer", abs)
	default:
		cmd = exec.Command("xdg-open", abs)
	}
	return cmd.Start()
}

func showCropperWindow(frame image.Image, cat *ui.Catalogue, dir string, log *logger.AppLogger) {
	w := fyne.CurrentApp().NewWindow("Crop template")
	w.Resize(fyne.NewSize(800, 600))

	lbl := widget.NewLabel("Drag over the target...")
	lbl.Alignment = fyne.TextAlignCenter
	rectEntry := widget.NewEntry()
	rectEntry.SetPlaceHolder("normalized rect")

	saveBtn := widget.NewButton("Save selection", nil)
	saveBtn.Disable()

	var selection image.Rectangle
	b := frame.Bounds()
	cropper := NewCropperWidget(frame, func(px image.Rectangle) {
		selection = px
		norm := geom.FromPixels(px.Sub(b.Min), b.Dx(), b.Dy())
		lbl.SetText(fmt.Sprintf("Selected %v (%dx%d px)", px, px.Dx(), px.Dy()))
		rectEntry.SetText(RectLiteral(norm))
		log.Info("Selection %s", RectLiteral(norm))
		saveBtn.Enable()
	})

	saveBtn.OnTapped = func() {
		if selection.Empty() {
			return
		}
		showSaveForm(w, imaging.Crop(frame, selection), cat, dir, log)
	}

	w.SetContent(container.NewBorder(nil, container.NewVBox(lbl, rectEntry, saveBtn), nil, nil, cropper))
	w.Show()
}

func showSaveForm(win fyne.Window, img image.Image, cat *ui.Catalogue, dir string, log *logger.AppLogger) {
	preview := canvas.NewImageFromImage(img)
	preview.FillMode = canvas.ImageFillContain
	preview.SetMinSize(fyne.NewSize(100, 100))

	nameEntry := widget.NewEntry()
	elementSelect := widget.NewSelect(cat.Names(), func(name string) {
		el := cat.MustGet(name)
		if el.ImageFile != "" {
			nameEntry.SetText(el.ImageFile)
			return
		}
		nameEntry.SetText(nextFreeName(dir, TemplateName(name)))
	})
	elementSelect.PlaceHolder = "Element (optional)"

	content := container.NewVBox(
		widget.NewLabel("Save this template?"),
		container.NewCenter(preview),
		widget.NewLabel("Element:"),
		elementSelect,
		widget.NewLabel("File name:"),
		nameEntry,
	)

	dialog.ShowCustomConfirm("Save template", "Save", "Cancel", content, func(confirm bool) {
		if !confirm {
			return
		}
		name := nameEntry.Text
		if name == "" {
			dialog.ShowError(errors.New("file name is empty"), win)
			return
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			dialog.ShowError(err, win)
			return
		}
		path := filepath.Join(dir, name)
		if err := imaging.Save(img, path); err != nil {
			dialog.ShowError(err, win)
			return
		}
		// Live reload so probes use the new template without a restart.
		if el := elementSelect.Selected; el != "" {
			if err := cat.SetImage(el, img); err != nil {
				log.Warn("Reload %s: %v", el, err)
			}
		}
		log.Info("Template saved to %s", path)
		dialog.ShowInformation("Saved", path, win)
	}, win)
}
