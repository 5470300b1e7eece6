package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Xausdorf/qr-platba/internal/domain/payment"
	"github.com/Xausdorf/qr-platba/internal/domain/qrcode"
	"github.com/Xausdorf/qr-platba/internal/domain/spd"
	"github.com/Xausdorf/qr-platba/internal/usecase/generateqr"
	"github.com/Xausdorf/qr-platba/internal/usecase/issue"
)

const maxBodyBytes = 64 << 10

type Handler struct {
	generateQRUC *generateqr.UseCase
	issueUC      *issue.UseCase
	defaults     qrcode.Options
	logger       *slog.Logger
}

// NewHandler wires the handlers. issueUC may be nil, in which case the
// stored payment routes are not registered.
func NewHandler(
	generateQRUC *generateqr.UseCase,
	issueUC *issue.UseCase,
	defaults qrcode.Options,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		generateQRUC: generateQRUC,
		issueUC:      issueUC,
		defaults:     defaults,
		logger:       logger,
	}
}

type DescriptorResponse struct {
	SPD    string      `json:"spd"`
	Fields []spd.Field `json:"fields"`
}

type PaymentResponse struct {
	ID        string    `json:"id"`
	SPD       string    `json:"spd"`
	CreatedAt time.Time `json:"created_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) HandleQR(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts, err := optionsFromQuery(q, h.defaults)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	payload, err := payloadFromQuery(q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	d, err := payload.Descriptor()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	img, err := h.generateQRUC.Execute(generateqr.Request{Descriptor: d, Options: opts})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeImage(w, img)
}

func (h *Handler) HandleDescriptor(w http.ResponseWriter, r *http.Request) {
	d, err := h.decodeDescriptor(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, DescriptorResponse{SPD: d.String(), Fields: d.Fields()})
}

func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	idempotencyKey := r.Header.Get("X-Idempotency-Key")
	if idempotencyKey == "" {
		h.writeError(w, r, issue.ErrMissingIdempotencyKey)
		return
	}

	d, err := h.decodeDescriptor(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := h.issueUC.Execute(r.Context(), issue.Request{
		IdempotencyKey: idempotencyKey,
		Descriptor:     d,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	status := http.StatusCreated
	if resp.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, PaymentResponse{
		ID:        resp.ID.String(),
		SPD:       resp.Descriptor,
		CreatedAt: resp.CreatedAt,
	})
}

func (h *Handler) HandleGetPayment(w http.ResponseWriter, r *http.Request) {
	resp, err := h.findPayment(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, PaymentResponse{
		ID:        resp.ID.String(),
		SPD:       resp.Descriptor,
		CreatedAt: resp.CreatedAt,
	})
}

func (h *Handler) HandlePaymentQR(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromQuery(r.URL.Query(), h.defaults)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := h.findPayment(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	img, err := h.generateQRUC.ExecuteText(resp.Descriptor, opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeImage(w, img)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) findPayment(r *http.Request) (*issue.Response, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, payment.ErrNotFound
	}
	return h.issueUC.Get(r.Context(), id)
}

func (h *Handler) decodeDescriptor(w http.ResponseWriter, r *http.Request) (*spd.Descriptor, error) {
	var payload PaymentPayload

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: invalid json", errBadRequest)
	}

	return payload.Descriptor()
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, spd.ErrMalformedAccount),
		errors.Is(err, spd.ErrUnsupportedCurrency),
		errors.Is(err, spd.ErrFieldTooLong),
		errors.Is(err, spd.ErrInvalidField),
		errors.Is(err, spd.ErrInvalidLabelConfig),
		errors.Is(err, qrcode.ErrInvalidOptions),
		errors.Is(err, issue.ErrMissingIdempotencyKey),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, qrcode.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, payment.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeImage(w http.ResponseWriter, img *qrcode.Image) {
	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(img.Data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
