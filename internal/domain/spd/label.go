package spd

import "fmt"

type Alignment string

const (
	AlignCenter Alignment = "center"
	AlignLeft   Alignment = "left"
	AlignRight  Alignment = "right"
)

const defaultLogoSize = 50

var (
	defaultLabelColor  = [4]int{0, 0, 0, 0}
	defaultLabelMargin = [4]int{10, 10, 20, 10}
)

// Label is the caption drawn under a rendered QR code. TextColor holds
// red, green, blue and alpha; Margin holds top, right, bottom and left.
// Nil slices and an empty Alignment fall back to the defaults.
type Label struct {
	Text      string
	TextColor []int
	Margin    []int
	Alignment Alignment
}

// LabelConfig is a validated Label.
type LabelConfig struct {
	Text      string
	TextColor [4]int
	Margin    [4]int
	Alignment Alignment
}

func NewLabelConfig(l Label) (LabelConfig, error) {
	cfg := LabelConfig{
		Text:      l.Text,
		TextColor: defaultLabelColor,
		Margin:    defaultLabelMargin,
		Alignment: l.Alignment,
	}

	if l.TextColor != nil {
		if len(l.TextColor) != 4 {
			return LabelConfig{}, fmt.Errorf("%w: text color must have exactly 4 values, got %d",
				ErrInvalidLabelConfig, len(l.TextColor))
		}
		copy(cfg.TextColor[:], l.TextColor)
	}

	if l.Margin != nil {
		if len(l.Margin) != 4 {
			return LabelConfig{}, fmt.Errorf("%w: margin must have exactly 4 values, got %d",
				ErrInvalidLabelConfig, len(l.Margin))
		}
		copy(cfg.Margin[:], l.Margin)
	}

	switch cfg.Alignment {
	case "":
		cfg.Alignment = AlignCenter
	case AlignCenter, AlignLeft, AlignRight:
	default:
		return LabelConfig{}, fmt.Errorf("%w: alignment must be %q, %q or %q, got %q",
			ErrInvalidLabelConfig, AlignCenter, AlignLeft, AlignRight, cfg.Alignment)
	}

	return cfg, nil
}

// Logo is an image placed over the center of a rendered QR code.
// Zero resize dimensions default to 50 pixels.
type Logo struct {
	Path               string
	ResizeToWidth      int
	ResizeToHeight     int
	PunchoutBackground bool
}

func (l Logo) withDefaults() Logo {
	if l.ResizeToWidth == 0 {
		l.ResizeToWidth = defaultLogoSize
	}
	if l.ResizeToHeight == 0 {
		l.ResizeToHeight = defaultLogoSize
	}
	return l
}
