package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/tmarenko/mff-auto-sub000/internal/geom"
)

// RectLiteral formats r the way element tables spell rects, ready to paste.
func RectLiteral(r geom.Rect) string {
	g := r.Global()
	return fmt.Sprintf("geom.R(%.4f, %.4f, %.4f, %.4f)", g.X1, g.Y1, g.X2, g.Y2)
}

// TemplateName suggests a file name for an element's reference image.
func TemplateName(element string) string {
	var b strings.Builder
	lastSep := true
	for _, r := range strings.ToLower(element) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSep = false
			continue
		}
		if !lastSep {
			b.WriteByte('_')
			lastSep = true
		}
	}
	name := strings.TrimSuffix(b.String(), "_")
	if name == "" {
		name = "template"
	}
	return name + ".png"
}

// nextFreeName returns name, or name with a numeric suffix when dir already has it.
func nextFreeName(dir, name string) string {
	if _, err := os.Stat(filepath.Join(dir, name)); os.IsNotExist(err) {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if _, err := os.Stat(filepath.Join(dir, candidate)); os.IsNotExist(err) {
			return candidate
		}
	}
}
