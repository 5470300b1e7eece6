package generateqr

//go:generate mockgen -destination=mocks/generator.go -package=mocks github.com/Xausdorf/qr-platba/internal/domain/qrcode Generator

import (
	"github.com/Xausdorf/qr-platba/internal/domain/qrcode"
	"github.com/Xausdorf/qr-platba/internal/domain/spd"
	"github.com/Xausdorf/qr-platba/internal/infrastructure/metrics"
)

type Request struct {
	Descriptor *spd.Descriptor
	Options    qrcode.Options
}

type UseCase struct {
	generator qrcode.Generator
	metrics   *metrics.Metrics
}

func NewUseCase(generator qrcode.Generator, m *metrics.Metrics) *UseCase {
	return &UseCase{
		generator: generator,
		metrics:   m,
	}
}

func (uc *UseCase) Execute(req Request) (*qrcode.Image, error) {
	return uc.render(qrcode.Request{
		Content: req.Descriptor.String(),
		Options: req.Options,
		Label:   req.Descriptor.Label(),
		Logo:    req.Descriptor.Logo(),
	})
}

// ExecuteText renders an already serialized descriptor.
func (uc *UseCase) ExecuteText(content string, opts qrcode.Options) (*qrcode.Image, error) {
	return uc.render(qrcode.Request{Content: content, Options: opts})
}

func (uc *UseCase) render(req qrcode.Request) (*qrcode.Image, error) {
	img, err := uc.generator.Generate(req)
	uc.metrics.ObserveRender(string(req.Options.Format), err)
	if err != nil {
		return nil, err
	}
	return img, nil
}
