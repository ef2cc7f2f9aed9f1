// Command probe evaluates catalogue elements against a saved screenshot.
//
//	probe -frame shot.png -element REPEAT_BUTTON,HOME_BUTTON -locate
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vcaesar/imgo"

	"github.com/tmarenko/mff-auto-sub000/internal/config"
	"github.com/tmarenko/mff-auto-sub000/internal/constants"
	"github.com/tmarenko/mff-auto-sub000/internal/game"
	"github.com/tmarenko/mff-auto-sub000/internal/geom"
	"github.com/tmarenko/mff-auto-sub000/internal/logger"
	"github.com/tmarenko/mff-auto-sub000/internal/ui"
	"github.com/tmarenko/mff-auto-sub000/internal/vision"
	"github.com/tmarenko/mff-auto-sub000/internal/vision/tesseract"
	"github.com/tmarenko/mff-auto-sub000/internal/window"
	"github.com/tmarenko/mff-auto-sub000/internal/window/still"
)

func main() {
	framePath := flag.String("frame", "", "saved screenshot (PNG)")
	elements := flag.String("element", "", "comma separated element names; empty probes every element")
	locate := flag.Bool("locate", false, "search around image rects for the reference image")
	noOCR := flag.Bool("no-ocr", false, "skip text probes (no tesseract needed)")
	cropDir := flag.String("crops", "", "write each probed rect crop into this directory")
	flag.Parse()

	if *framePath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(*framePath, *elements, *locate, *noOCR, *cropDir); err != nil {
		fmt.Fprintf(os.Stderr, "probe: %v\n", err)
		os.Exit(1)
	}
}

func run(framePath, elements string, locate, noOCR bool, cropDir string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.NewAppLogger(cfg.LogLevel, nil)
	if err != nil {
		return err
	}

	cat := ui.Default(log)
	if err := cat.LoadImages(cfg.Assets.ImagesDir); err != nil {
		log.Debug("%v", err)
	}
	if cfg.Assets.Overrides != "" {
		if _, err := cat.ApplyOverridesFile(cfg.Assets.Overrides); err != nil {
			return err
		}
	}
	for _, name := range cat.MissingImages() {
		log.Warn("No template for %s", name)
	}

	backend, err := still.Open(framePath, log)
	if err != nil {
		return err
	}
	win := window.New(backend, log)
	if err := win.Attach(cfg.Emulator.Window, cfg.Emulator.Child, cfg.Emulator.KeyHandle); err != nil {
		return err
	}

	var ocr vision.Recognizer = noText{}
	if !noOCR {
		pool, err := tesseract.NewPool(cfg.OCR.TessdataPrefix, cfg.OCR.DigitsLanguage, log)
		if err != nil {
			return fmt.Errorf("tesseract (use -no-ocr to skip): %w", err)
		}
		defer pool.Close()
		ocr = pool
	}
	g := game.New(win, ocr, cat, log)

	names := cat.Names()
	if elements != "" {
		names = strings.Split(elements, ",")
	}
	sort.Strings(names)

	w, h, err := win.Size()
	if err != nil {
		return err
	}
	fmt.Printf("Frame %s: %dx%d, %d elements\n", framePath, w, h, len(names))

	for _, name := range names {
		el, err := cat.Get(strings.TrimSpace(name))
		if err != nil {
			fmt.Printf("%-32s %v\n", name, err)
			continue
		}
		probe(g, el, locate, noOCR)
		if cropDir != "" {
			if err := saveCrops(g, el, cropDir); err != nil {
				return err
			}
		}
	}
	return nil
}

func probe(g *game.Game, el ui.Element, locate, noOCR bool) {
	var parts []string
	if el.HasColor() {
		parts = append(parts, fmt.Sprintf("color=%v", g.IsOnScreen(el)))
	}
	if el.HasImage() {
		score, err := g.ImageSimilarity(el)
		if err != nil {
			parts = append(parts, "image error: "+err.Error())
		} else {
			parts = append(parts, fmt.Sprintf("ssim=%.3f/%.2f", score, el.SimilarityThreshold()))
		}
		if locate {
			if rect, ok := g.LocateElement(el); ok {
				parts = append(parts, "located="+rect.String())
			} else {
				parts = append(parts, "located=none")
			}
		}
	}
	if !el.TextRect.IsZero() && !noOCR {
		text := g.GetScreenText(el)
		parts = append(parts, fmt.Sprintf("text=%q", text))
		if el.Text != "" {
			parts = append(parts, fmt.Sprintf("want=%q match=%v", el.Text, vision.IsStringsSimilar(el.Text, text, constants.StringOverlap)))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "nothing to probe")
	}
	fmt.Printf("%-32s %s\n", el.Name, strings.Join(parts, "  "))
}

func saveCrops(g *game.Game, el ui.Element, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	rects := []struct {
		suffix string
		rect   geom.Rect
	}{{"text", el.TextRect}, {"image", el.ImageRect}}
	for _, r := range rects {
		if r.rect.IsZero() {
			continue
		}
		crop, err := g.Crop(r.rect)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, strings.ToLower(el.Name)+"_"+r.suffix+".png")
		if err := imgo.Save(path, crop); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	}
	return nil
}

// noText stands in for tesseract when only image and colour probes are wanted.
type noText struct{}

func (noText) Recognize(context.Context, vision.OCRRequest) (string, error) {
	return "", errors.New("ocr disabled")
}
