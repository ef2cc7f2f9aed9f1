package ui

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/disintegration/imaging"
	"gopkg.in/yaml.v3"

	"github.com/tmarenko/mff-auto-sub000/internal/logger"
)

var ErrUnknownElement = errors.New("unknown ui element")

// Catalogue maps unique names to elements. It is filled once at startup and read-only afterwards.
type Catalogue struct {
	mu       sync.RWMutex
	elements map[string]Element
	log      *logger.AppLogger
}

// NewCatalogue creates an empty catalogue.
func NewCatalogue(log *logger.AppLogger) *Catalogue {
	return &Catalogue{
		elements: make(map[string]Element),
		log:      log.With("catalogue"),
	}
}

// Default returns a catalogue holding every built-in element.
func Default(log *logger.AppLogger) *Catalogue {
	c := NewCatalogue(log)
	if err := c.Register(Elements()...); err != nil {
		panic(err)
	}
	return c
}

// Register adds elements; names must be unique.
func (c *Catalogue) Register(els ...Element) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, el := range els {
		if el.Name == "" {
			return errors.New("register: element without name")
		}
		if _, ok := c.elements[el.Name]; ok {
			return fmt.Errorf("register: duplicate element %s", el.Name)
		}
		c.elements[el.Name] = el.Copy()
	}
	return nil
}

// Get returns a copy of the named element.
func (c *Catalogue) Get(name string) (Element, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	el, ok := c.elements[name]
	if !ok {
		return Element{}, fmt.Errorf("%w: %s", ErrUnknownElement, name)
	}
	return el.Copy(), nil
}

// MustGet is Get for names compiled into the program.
func (c *Catalogue) MustGet(name string) Element {
	el, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return el
}

// Names lists every registered name in sorted order.
func (c *Catalogue) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.elements))
	for n := range c.elements {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of elements.
func (c *Catalogue) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.elements)
}

// SetImage attaches a reference image to an element, e.g. a template cut with the tools panel.
func (c *Catalogue) SetImage(name string, img image.Image) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.elements[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownElement, name)
	}
	el.Image = img
	c.elements[name] = el
	return nil
}

// LoadImages reads every element's ImageFile from dir. Missing files are collected into one error,
// the remaining elements still get their images.
func (c *Catalogue) LoadImages(dir string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var errs []error
	loaded := 0
	for name, el := range c.elements {
		if el.ImageFile == "" {
			continue
		}
		img, err := imaging.Open(filepath.Join(dir, el.ImageFile))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		el.Image = img
		c.elements[name] = el
		loaded++
	}
	c.log.Info("Loaded %d element images from %s", loaded, dir)
	return errors.Join(errs...)
}

// MissingImages lists, sorted, the elements that name a template file but have no image loaded.
// Their image predicates never match until the template is dropped into the assets directory.
func (c *Catalogue) MissingImages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for name, el := range c.elements {
		if el.ImageFile != "" && el.Image == nil {
			out = append(out, fmt.Sprintf("%s (%s)", name, el.ImageFile))
		}
	}
	sort.Strings(out)
	return out
}

// ApplyOverrides replaces elements with the YAML list read from r and returns the replaced names.
// Unknown names are added. Overridden elements keep their loaded image unless ImageFile changed.
func (c *Catalogue) ApplyOverrides(r io.Reader) ([]string, error) {
	var overrides []Element
	if err := yaml.NewDecoder(r).Decode(&overrides); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode overrides: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	var replaced []string
	for _, o := range overrides {
		if o.Name == "" {
			return replaced, errors.New("override without name")
		}
		if old, ok := c.elements[o.Name]; ok {
			if o.ImageFile == "" || o.ImageFile == old.ImageFile {
				o.ImageFile = old.ImageFile
				o.Image = old.Image
			}
			replaced = append(replaced, o.Name)
			c.log.Info("Element %s overridden", o.Name)
		}
		c.elements[o.Name] = o.Copy()
	}
	return replaced, nil
}

// ApplyOverridesFile is ApplyOverrides on a file; an empty path is a no-op.
func (c *Catalogue) ApplyOverridesFile(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return c.ApplyOverrides(f)
}
