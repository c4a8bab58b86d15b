package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/redline/internal/annotation"
	"github.com/dshills/redline/internal/config"
)

// Glyphs drawn for zero-width annotations.
const (
	TombstoneGlyph = '⌫'
	CalloutGlyph   = '▸'
)

// Styles maps annotation kinds to terminal styles.
type Styles struct {
	Text    tcell.Style
	Insert  tcell.Style
	Delete  tcell.Style
	Comment tcell.Style
	Callout tcell.Style

	// ShowCallouts draws callout glyphs when true.
	ShowCallouts bool
}

// DefaultStyles returns the styles for the default configuration.
func DefaultStyles() Styles {
	s, err := StylesFromConfig(config.Default().Render)
	if err != nil {
		panic(err)
	}
	return s
}

// StylesFromConfig builds styles from configured colors.
func StylesFromConfig(cfg config.RenderConfig) (Styles, error) {
	insert, err := colorOrDefault(cfg.Insert)
	if err != nil {
		return Styles{}, fmt.Errorf("render.insert: %w", err)
	}
	del, err := colorOrDefault(cfg.Delete)
	if err != nil {
		return Styles{}, fmt.Errorf("render.delete: %w", err)
	}
	comment, err := colorOrDefault(cfg.Comment)
	if err != nil {
		return Styles{}, fmt.Errorf("render.comment: %w", err)
	}
	callout, err := colorOrDefault(cfg.Callout)
	if err != nil {
		return Styles{}, fmt.Errorf("render.callout: %w", err)
	}

	return Styles{
		Text:         tcell.StyleDefault,
		Insert:       tcell.StyleDefault.Foreground(insert).Underline(true),
		Delete:       tcell.StyleDefault.Foreground(del).StrikeThrough(true),
		Comment:      tcell.StyleDefault.Background(comment).Foreground(tcell.ColorBlack),
		Callout:      tcell.StyleDefault.Foreground(callout).Bold(true),
		ShowCallouts: cfg.ShowCallouts,
	}, nil
}

// MarkStyle returns the style for text covered by a mark of kind k.
func (s Styles) MarkStyle(k annotation.Kind) tcell.Style {
	switch k {
	case annotation.KindInsert:
		return s.Insert
	case annotation.KindComment:
		return s.Comment
	case annotation.KindDelete:
		return s.Delete
	default:
		return s.Text
	}
}

// ParseColor parses "#rgb" or "#rrggbb" into a true color.
func ParseColor(hex string) (tcell.Color, error) {
	hex = strings.TrimPrefix(hex, "#")

	var parts [3]string
	switch len(hex) {
	case 3:
		for i := range parts {
			parts[i] = strings.Repeat(hex[i:i+1], 2)
		}
	case 6:
		for i := range parts {
			parts[i] = hex[2*i : 2*i+2]
		}
	default:
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %s", hex)
	}

	var rgb [3]int32
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("invalid hex color: %s", hex)
		}
		rgb[i] = int32(v)
	}
	return tcell.NewRGBColor(rgb[0], rgb[1], rgb[2]), nil
}

func colorOrDefault(hex string) (tcell.Color, error) {
	if hex == "" {
		return tcell.ColorDefault, nil
	}
	return ParseColor(hex)
}
