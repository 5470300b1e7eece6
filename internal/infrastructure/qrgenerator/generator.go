package qrgenerator

import (
	"encoding/base64"
	"fmt"
	"html"
	"math"
	"os"
	"strings"

	qr "github.com/skip2/go-qrcode"

	"github.com/Xausdorf/qr-platba/internal/domain/qrcode"
	"github.com/Xausdorf/qr-platba/internal/domain/spd"
)

const (
	baseElementSize = 250
	baseFontSize    = 16
	filePerm        = 0o644
	maxLabelAlpha   = 127
)

// Generator renders QR codes with skip2/go-qrcode. Labels are drawn on SVG
// output only; logos are accepted but not composited.
type Generator struct {
	level qr.RecoveryLevel
}

func NewGenerator() *Generator {
	return &Generator{level: qr.Medium}
}

func (g *Generator) Generate(req qrcode.Request) (*qrcode.Image, error) {
	if err := req.Options.Validate(); err != nil {
		return nil, err
	}

	code, err := qr.New(req.Content, g.level)
	if err != nil {
		return nil, err
	}

	switch req.Options.Format {
	case qrcode.FormatPNG:
		data, err := g.png(code, req.Options)
		if err != nil {
			return nil, err
		}
		return &qrcode.Image{ContentType: "image/png", Extension: "png", Data: data}, nil
	case qrcode.FormatSVG:
		return &qrcode.Image{
			ContentType: "image/svg+xml",
			Extension:   "svg",
			Data:        []byte(svg(code, req.Options, req.Label)),
		}, nil
	case qrcode.FormatBinary:
		return &qrcode.Image{
			ContentType: "text/plain; charset=utf-8",
			Extension:   "bin",
			Data:        []byte(matrix(code)),
		}, nil
	case qrcode.FormatDataURI, qrcode.FormatHTML:
		data, err := g.png(code, req.Options)
		if err != nil {
			return nil, err
		}
		uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
		if req.Options.Format == qrcode.FormatDataURI {
			return &qrcode.Image{ContentType: "text/plain; charset=utf-8", Extension: "txt", Data: []byte(uri)}, nil
		}
		tag := fmt.Sprintf(`<img src="%s" width="%d" height="%d" alt="QR Platba" />`,
			uri, req.Options.Size, req.Options.Size)
		return &qrcode.Image{ContentType: "text/html; charset=utf-8", Extension: "html", Data: []byte(tag)}, nil
	default:
		return nil, fmt.Errorf("%w: %s", qrcode.ErrUnsupportedFormat, req.Options.Format)
	}
}

// Save renders req and writes it to filename with the format extension
// appended. It returns the written path.
func (g *Generator) Save(req qrcode.Request, filename string) (string, error) {
	img, err := g.Generate(req)
	if err != nil {
		return "", err
	}

	path := filename + "." + img.Extension
	if err := os.WriteFile(path, img.Data, filePerm); err != nil {
		return "", err
	}
	return path, nil
}

func (g *Generator) png(code *qr.QRCode, opts qrcode.Options) ([]byte, error) {
	code.DisableBorder = opts.Margin == 0
	return code.PNG(opts.Size)
}

func matrix(code *qr.QRCode) string {
	code.DisableBorder = true

	var sb strings.Builder
	for _, row := range code.Bitmap() {
		for _, black := range row {
			if black {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func svg(code *qr.QRCode, opts qrcode.Options, label *spd.LabelConfig) string {
	code.DisableBorder = true
	bitmap := code.Bitmap()
	n := len(bitmap)

	module := float64(opts.Size-2*opts.Margin) / float64(n)
	fontSize := int(math.Round(float64(opts.Size) / baseElementSize * baseFontSize))

	height := opts.Size
	if label != nil {
		height += label.Margin[0] + fontSize + label.Margin[2]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`,
		opts.Size, height, opts.Size, height,
	)
	fmt.Fprintf(&sb, `<rect width="%d" height="%d" fill="#fff"/>`, opts.Size, height)

	for y, row := range bitmap {
		for x, black := range row {
			if black {
				fmt.Fprintf(&sb, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#000"/>`,
					float64(opts.Margin)+float64(x)*module,
					float64(opts.Margin)+float64(y)*module,
					module, module,
				)
			}
		}
	}

	if label != nil {
		writeLabel(&sb, label, opts.Size, opts.Size+label.Margin[0]+fontSize, fontSize)
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

func writeLabel(sb *strings.Builder, label *spd.LabelConfig, width, baseline, fontSize int) {
	x, anchor := width/2, "middle"
	switch label.Alignment {
	case spd.AlignLeft:
		x, anchor = label.Margin[3], "start"
	case spd.AlignRight:
		x, anchor = width-label.Margin[1], "end"
	}

	c := label.TextColor
	opacity := 1 - float64(min(max(c[3], 0), maxLabelAlpha))/maxLabelAlpha

	fmt.Fprintf(sb,
		`<text x="%d" y="%d" font-family="Open Sans, sans-serif" font-size="%d" text-anchor="%s" fill="rgb(%d,%d,%d)" fill-opacity="%.2f">%s</text>`,
		x, baseline, fontSize, anchor, c[0], c[1], c[2], opacity, html.EscapeString(label.Text),
	)
}
