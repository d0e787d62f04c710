// Package ui styles terminal output.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Mode selects when output is colorized.
type Mode string

const (
	ModeAuto Mode = "auto"
	ModeOn   Mode = "on"
	ModeOff  Mode = "off"
)

// ParseMode reads a --color value.
func ParseMode(value string) (Mode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return ModeAuto, nil
	case "on", "always":
		return ModeOn, nil
	case "off", "never":
		return ModeOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// Enabled resolves the mode against f.
func (m Mode) Enabled(f *os.File) bool {
	switch m {
	case ModeOn:
		return true
	case ModeOff:
		return false
	default:
		return f != nil && term.IsTerminal(int(f.Fd())) && os.Getenv("NO_COLOR") == ""
	}
}

// Palette renders styled strings, or plain ones when disabled.
type Palette struct {
	enabled bool
}

// NewPalette returns a palette that colors output only when enabled is true.
func NewPalette(enabled bool) Palette {
	return Palette{enabled: enabled}
}

// Plain is a palette that never colors.
var Plain = Palette{}

func (p Palette) paint(s string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	if p.enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}

	return c.Sprint(s)
}

// Location renders a file@line prefix.
func (p Palette) Location(file string, line int) string {
	return p.paint(file, color.FgWhite, color.Bold) + p.paint("@", color.FgWhite) +
		p.paint(fmt.Sprint(line), color.FgWhite, color.Bold)
}

func (p Palette) Error(s string) string   { return p.paint(s, color.FgRed) }
func (p Palette) Warn(s string) string    { return p.paint(s, color.FgYellow) }
func (p Palette) Success(s string) string { return p.paint(s, color.FgGreen) }
func (p Palette) Label(s string) string   { return p.paint(s, color.FgMagenta) }
func (p Palette) Path(s string) string    { return p.paint(s, color.FgWhite) }

// DiffLine colors one line of a unified diff by its leading marker.
func (p Palette) DiffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return p.paint(line, color.Bold)
	case strings.HasPrefix(line, "+"):
		return p.paint(line, color.FgGreen)
	case strings.HasPrefix(line, "-"):
		return p.paint(line, color.FgRed)
	case strings.HasPrefix(line, "@@"):
		return p.paint(line, color.FgCyan)
	default:
		return line
	}
}

// Header formats table headers.
func (p Palette) Header(format string, args ...interface{}) string {
	return p.paint(fmt.Sprintf(format, args...), color.FgGreen, color.Underline)
}
