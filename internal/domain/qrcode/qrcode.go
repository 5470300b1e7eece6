package qrcode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Xausdorf/qr-platba/internal/domain/spd"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrInvalidOptions    = errors.New("invalid render options")
)

type Format string

const (
	FormatPNG     Format = "png"
	FormatSVG     Format = "svg"
	FormatBinary  Format = "bin"
	FormatDataURI Format = "datauri"
	FormatHTML    Format = "html"
	FormatWebP    Format = "webp"
	FormatPDF     Format = "pdf"
	FormatEPS     Format = "eps"
)

const (
	DefaultSize   = 300
	DefaultMargin = 10
	MaxSize       = 2000
)

// ParseFormat accepts any known format name, case-insensitive; an empty
// name means PNG. Known formats may still be rejected by a Generator.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	switch f {
	case "":
		return FormatPNG, nil
	case FormatPNG, FormatSVG, FormatBinary, FormatDataURI, FormatHTML, FormatWebP, FormatPDF, FormatEPS:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

type Options struct {
	Size   int
	Margin int
	Format Format
}

func DefaultOptions() Options {
	return Options{Size: DefaultSize, Margin: DefaultMargin, Format: FormatPNG}
}

func (o Options) Validate() error {
	if o.Size <= 0 || o.Size > MaxSize {
		return fmt.Errorf("%w: size must be between 1 and %d", ErrInvalidOptions, MaxSize)
	}
	if o.Margin < 0 || o.Margin >= o.Size/2 {
		return fmt.Errorf("%w: margin must be between 0 and half the size", ErrInvalidOptions)
	}
	return nil
}

type Request struct {
	Content string
	Options Options
	Label   *spd.LabelConfig
	Logo    *spd.Logo
}

type Image struct {
	ContentType string
	Extension   string
	Data        []byte
}

type Generator interface {
	Generate(req Request) (*Image, error)
}
