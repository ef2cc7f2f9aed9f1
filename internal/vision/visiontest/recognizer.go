// Package visiontest provides an in-memory vision.Recognizer for tests.
package visiontest

import (
	"context"
	"sync"

	"github.com/tmarenko/mff-auto-sub000/internal/vision"
)

// ScriptedRecognizer answers OCR requests by element label. A label with a queued
// script returns the next entry until one remains, which then repeats.
type ScriptedRecognizer struct {
	mu      sync.Mutex
	fixed   map[string]string
	scripts map[string][]string
	calls   map[string]int
	hooks   map[string][]func(call int)
}

func NewScriptedRecognizer() *ScriptedRecognizer {
	return &ScriptedRecognizer{
		fixed:   make(map[string]string),
		scripts: make(map[string][]string),
		calls:   make(map[string]int),
		hooks:   make(map[string][]func(call int)),
	}
}

// Set makes label always read as text.
func (r *ScriptedRecognizer) Set(label, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.scripts, label)
	r.fixed[label] = text
}

// Script queues a sequence of readings for label.
func (r *ScriptedRecognizer) Script(label string, texts ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.fixed, label)
	r.scripts[label] = append([]string(nil), texts...)
}

// Clear makes label read as empty.
func (r *ScriptedRecognizer) Clear(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.fixed, label)
	delete(r.scripts, label)
}

// Calls returns how many times label was recognized.
func (r *ScriptedRecognizer) Calls(label string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[label]
}

// OnCall runs fn after every recognition of label with the 1-based call number, before the
// text is returned. Hooks may call Set or Script.
func (r *ScriptedRecognizer) OnCall(label string, fn func(call int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[label] = append(r.hooks[label], fn)
}

func (r *ScriptedRecognizer) Recognize(ctx context.Context, req vision.OCRRequest) (string, error) {
	r.mu.Lock()
	r.calls[req.Label]++
	call := r.calls[req.Label]
	hooks := r.hooks[req.Label]
	r.mu.Unlock()
	for _, fn := range hooks {
		fn(call)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.scripts[req.Label]; ok && len(s) > 0 {
		text := s[0]
		if len(s) > 1 {
			r.scripts[req.Label] = s[1:]
		}
		return text, nil
	}
	return r.fixed[req.Label], nil
}
