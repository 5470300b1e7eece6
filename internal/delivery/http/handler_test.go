package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	httpdelivery "github.com/Xausdorf/qr-platba/internal/delivery/http"
	"github.com/Xausdorf/qr-platba/internal/domain/payment"
	"github.com/Xausdorf/qr-platba/internal/domain/qrcode"
	"github.com/Xausdorf/qr-platba/internal/infrastructure/metrics"
	"github.com/Xausdorf/qr-platba/internal/infrastructure/qrgenerator"
	"github.com/Xausdorf/qr-platba/internal/usecase/generateqr"
	"github.com/Xausdorf/qr-platba/internal/usecase/issue"
	"github.com/Xausdorf/qr-platba/internal/usecase/issue/mocks"
)

const czkSPD = "SPD*1.0*ACC:CZ0301000000123456789012*AM:1234.56*CC:CZK*MSG:Duakritics*X-VS:2016001234"

func newServer(t *testing.T, uow payment.UnitOfWork) *httptest.Server {
	t.Helper()

	m := metrics.New()
	generateQRUC := generateqr.NewUseCase(qrgenerator.NewGenerator(), m)

	var issueUC *issue.UseCase
	if uow != nil {
		issueUC = issue.NewUseCase(uow, m)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := httpdelivery.NewHandler(generateQRUC, issueUC, qrcode.DefaultOptions(), logger)

	srv := httptest.NewServer(httpdelivery.NewRouter(h, m.Handler()))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, target, body string, header http.Header) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, target, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, target string) *http.Response {
	t.Helper()

	resp, err := http.Get(target) //nolint:noctx // test helper
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error
}

func TestHandler_HandleDescriptor(t *testing.T) {
	srv := newServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/spd", `{
		"account": "12-3456789012/0100",
		"amount": "1234.56",
		"variable_symbol": 2016001234,
		"message": "Düakrítičs"
	}`, nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body httpdelivery.DescriptorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, czkSPD, body.SPD)
	require.Len(t, body.Fields, 5)
	assert.Equal(t, "ACC", body.Fields[0].Key)
}

func TestHandler_HandleDescriptor_EUR(t *testing.T) {
	srv := newServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/spd", `{
		"account": "12-3456789012/0100",
		"amount": 1234.56,
		"variable_symbol": 2016001234,
		"message": "Düakrítičs",
		"currency": "EUR"
	}`, nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body httpdelivery.DescriptorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, strings.Replace(czkSPD, "CC:CZK", "CC:EUR", 1), body.SPD)
}

func TestHandler_HandleDescriptor_ValidationErrors(t *testing.T) {
	srv := newServer(t, nil)

	cases := map[string]string{
		"fake currency":       `{"account": "12-3456789012/0100", "currency": "FAKE"}`,
		"long specific":       `{"specific_symbol": 12345678901}`,
		"malformed account":   `{"account": "3456789012"}`,
		"account and iban":    `{"account": "12-3456789012/0100", "iban": "CZ3620100000002501301193"}`,
		"bad due date":        `{"due_date": "20.10.2026"}`,
		"bad label alignment": `{"label": {"text": "x", "alignment": "justify"}}`,
		"unknown field":       `{"acount": "12-3456789012/0100"}`,
		"broken json":         `{`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/spd", body, nil)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, decodeError(t, resp))
		})
	}
}

func TestHandler_HandleQR(t *testing.T) {
	srv := newServer(t, nil)

	q := url.Values{
		"account": {"12-3456789012/0100"},
		"amount":  {"1234.56"},
		"vs":      {"2016001234"},
		"msg":     {"Düakrítičs"},
	}

	resp := get(t, srv.URL+"/api/qr?"+q.Encode())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	q.Set("format", "svg")
	resp = get(t, srv.URL+"/api/qr?"+q.Encode())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "<svg"))
}

func TestHandler_HandleQR_Errors(t *testing.T) {
	srv := newServer(t, nil)

	cases := map[string]struct {
		query  string
		status int
	}{
		"fake currency":  {"account=12-3456789012/0100&currency=FAKE", http.StatusBadRequest},
		"bad amount":     {"amount=abc", http.StatusBadRequest},
		"bad symbol":     {"vs=12a", http.StatusBadRequest},
		"bad size":       {"size=0", http.StatusBadRequest},
		"unknown format": {"format=gif", http.StatusUnsupportedMediaType},
		"webp":           {"format=webp", http.StatusUnsupportedMediaType},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp := get(t, srv.URL+"/api/qr?"+tc.query)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestHandler_PaymentRoutesDisabledWithoutStore(t *testing.T) {
	srv := newServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/payments", `{}`, http.Header{"X-Idempotency-Key": {"k"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_HandleIssue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uow := mocks.NewMockUnitOfWork(ctrl)
	txUow := mocks.NewMockUnitOfWork(ctrl)
	repo := mocks.NewMockRepository(ctrl)

	uow.EXPECT().Payments().Return(repo)
	repo.EXPECT().FindByIdempotencyKey(gomock.Any(), "key-1").Return(nil, nil).Times(2)
	uow.EXPECT().Begin(gomock.Any()).Return(txUow, nil)
	txUow.EXPECT().Payments().Return(repo).Times(3)
	txUow.EXPECT().Rollback(gomock.Any()).Return(nil)
	txUow.EXPECT().Commit(gomock.Any()).Return(nil)
	repo.EXPECT().Lock(gomock.Any(), "key-1").Return(nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	srv := newServer(t, uow)

	resp := postJSON(t, srv.URL+"/api/payments", `{
		"account": "12-3456789012/0100",
		"amount": "1234.56",
		"variable_symbol": 2016001234,
		"message": "Düakrítičs"
	}`, http.Header{"X-Idempotency-Key": {"key-1"}})

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body httpdelivery.PaymentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, czkSPD, body.SPD)
	_, err := uuid.Parse(body.ID)
	assert.NoError(t, err)
}

func TestHandler_HandleIssue_MissingKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv := newServer(t, mocks.NewMockUnitOfWork(ctrl))

	resp := postJSON(t, srv.URL+"/api/payments", `{"account": "12-3456789012/0100"}`, nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, issue.ErrMissingIdempotencyKey.Error(), decodeError(t, resp))
}

func TestHandler_HandlePaymentQR(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uow := mocks.NewMockUnitOfWork(ctrl)
	repo := mocks.NewMockRepository(ctrl)

	id := uuid.New()
	uow.EXPECT().Payments().Return(repo).AnyTimes()
	repo.EXPECT().FindByID(gomock.Any(), id).
		Return(payment.ReconstructPayment(id, "k", czkSPD, time.Now()), nil).
		Times(2)
	repo.EXPECT().FindByID(gomock.Any(), gomock.Not(id)).Return(nil, payment.ErrNotFound)

	srv := newServer(t, uow)

	resp := get(t, srv.URL+"/api/payments/"+id.String()+"/qr?format=bin")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))

	resp = get(t, srv.URL+"/api/payments/"+id.String())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body httpdelivery.PaymentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, czkSPD, body.SPD)

	resp = get(t, srv.URL+"/api/payments/"+uuid.NewString()+"/qr")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = get(t, srv.URL+"/api/payments/not-a-uuid/qr")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_HealthAndMetrics(t *testing.T) {
	srv := newServer(t, nil)

	resp := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_ = get(t, srv.URL+"/api/qr?account=2501301193/2010")

	resp = get(t, srv.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `spd_qr_rendered_total{format="png",outcome="ok"} 1`)
}
