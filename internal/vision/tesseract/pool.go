// Package tesseract backs vision.Recognizer with two gosseract engines: one for
// free text and one trained for the game's digit font.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/tmarenko/mff-auto-sub000/internal/logger"
	"github.com/tmarenko/mff-auto-sub000/internal/vision"
)

type engine struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// Pool serializes access to each engine; requests for the same engine queue on its mutex.
type Pool struct {
	text   *engine
	digits *engine
	log    *logger.AppLogger
}

// NewPool creates both engines. digitsLanguage falls back to "eng" when empty.
func NewPool(tessdataPrefix, digitsLanguage string, log *logger.AppLogger) (*Pool, error) {
	if digitsLanguage == "" {
		digitsLanguage = "eng"
	}
	text, err := newEngine(tessdataPrefix, "eng")
	if err != nil {
		return nil, err
	}
	digits, err := newEngine(tessdataPrefix, digitsLanguage)
	if err != nil {
		text.client.Close()
		return nil, err
	}
	return &Pool{text: text, digits: digits, log: log.With("ocr")}, nil
}

func newEngine(prefix, lang string) (*engine, error) {
	client := gosseract.NewClient()
	if prefix != "" {
		if err := client.SetTessdataPrefix(prefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(lang); err != nil {
		client.Close()
		return nil, fmt.Errorf("language %s: %w", lang, err)
	}
	return &engine{client: client}, nil
}

// Recognize implements vision.Recognizer.
func (p *Pool) Recognize(ctx context.Context, req vision.OCRRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, req.Image); err != nil {
		return "", fmt.Errorf("encode %s: %w", req.Label, err)
	}

	e := p.text
	if vision.UsesDigitEngine(req.Whitelist) {
		e = p.digits
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	mode := gosseract.PSM_AUTO
	if req.Whitelist != "" {
		mode = gosseract.PSM_RAW_LINE
	}
	if err := e.client.SetPageSegMode(mode); err != nil {
		return "", err
	}
	// an empty whitelist clears the previous request's restriction
	if err := e.client.SetWhitelist(req.Whitelist); err != nil {
		return "", err
	}
	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("set image %s: %w", req.Label, err)
	}
	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr %s: %w", req.Label, err)
	}
	text = strings.TrimSpace(text)
	p.log.Debug("ocr %s -> %q", req.Label, text)
	return text, nil
}

// Close releases both engines.
func (p *Pool) Close() error {
	p.text.mu.Lock()
	defer p.text.mu.Unlock()
	p.digits.mu.Lock()
	defer p.digits.mu.Unlock()
	err1 := p.text.client.Close()
	err2 := p.digits.client.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
