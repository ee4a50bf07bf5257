// Package render formats bot replies for the terminal.
package render

import (
	"os"

	"github.com/diogo/mcchat/internal/config"
)

// Glamour standard style names accepted by Options.Style
const (
	StyleDark    = "dark"
	StyleLight   = "light"
	StyleDracula = "dracula"
	StyleNoTTY   = "notty"
	StyleASCII   = "ascii"
	StyleAuto    = "auto"
)

// Options configures the markdown renderer
type Options struct {
	// Width is the word-wrap column
	Width int

	// Style is a standard glamour style name or a path to a JSON style file
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            StyleDark,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// OptionsFromConfig builds Options from the markdown section of the config.
// GLAMOUR_STYLE overrides the configured style.
func OptionsFromConfig(md config.MarkdownConfig) Options {
	opts := DefaultOptions()
	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines
	opts.TableWrap = md.TableWrap
	opts.InlineTableLinks = md.InlineTableLinks

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	return opts
}

// IsStandardStyle reports whether style names a style bundled with glamour
func IsStandardStyle(style string) bool {
	switch style {
	case StyleDark, StyleLight, StyleDracula, StyleNoTTY, StyleASCII, StyleAuto, "pink", "tokyo-night":
		return true
	default:
		return false
	}
}

// StandardStyles lists the glamour styles offered in the settings screen
func StandardStyles() []string {
	return []string{StyleAuto, StyleDark, StyleLight, StyleDracula, "tokyo-night", "pink", StyleASCII, StyleNoTTY}
}
