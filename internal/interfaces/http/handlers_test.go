package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Validade-api/internal/application/confirmation"
	"github.com/jhoicas/Validade-api/internal/application/dto"
	"github.com/jhoicas/Validade-api/internal/application/ledger"
	"github.com/jhoicas/Validade-api/internal/application/projection"
	"github.com/jhoicas/Validade-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Validade-api/internal/interfaces/http"
	"github.com/jhoicas/Validade-api/pkg/logger"
)

var fixedNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func buildApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.New()
	log := logger.Nop()
	lg := ledger.NewLedgerUseCase(store, log)
	proj := projection.NewProjectionUseCase(store, func() time.Time { return fixedNow })
	svc := confirmation.NewStockControlService(lg, proj, confirmation.NewSessionStore(10, time.Hour), log)

	app := fiber.New()
	apphttp.UseMiddleware(app, log)
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:       lg,
		Projection:   proj,
		StockControl: svc,
		JWTSecret:    testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func registerBatch(t *testing.T, app *fiber.App, auth string, expiry string, qty int64) dto.BatchResponse {
	t.Helper()
	var b dto.BatchResponse
	status := call(t, app, http.MethodPost, "/api/batches", auth, dto.RegisterBatchRequest{
		EAN: "7891000100103", Batch: "L1", ExpiryDate: expiry, Quantity: qty,
	}, &b)
	require.Equal(t, http.StatusCreated, status)
	return b
}

func TestBatches_RegistroYListado(t *testing.T) {
	app := buildApp(t)
	auth := bearer(t, testUserID)

	b := registerBatch(t, app, auth, "2024-01-01", 50)
	assert.Equal(t, "2024-01-01", b.ExpiryDate)
	assert.True(t, b.Expired)

	var list dto.BatchListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/batches", auth, nil, &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, int64(50), list.Batches[0].Quantity)

	var movs []dto.MovementResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/batches/"+b.ID+"/movements", auth, nil, &movs))
	require.Len(t, movs, 1)
	assert.Equal(t, "in", movs[0].Type)
	assert.Equal(t, int64(50), movs[0].Quantity)
	assert.Equal(t, testUserID, movs[0].CreatedBy)
}

func TestBatches_ErroresHTTP(t *testing.T) {
	app := buildApp(t)
	auth := bearer(t, testUserID)

	var e dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/batches", auth, dto.RegisterBatchRequest{
		EAN: "789", Batch: "L1", ExpiryDate: "01/01/2024", Quantity: 5,
	}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", e.Code)

	status = call(t, app, http.MethodPost, "/api/batches", auth, dto.RegisterBatchRequest{
		EAN: "789", Batch: "L1", ExpiryDate: "2024-01-01", Quantity: 0,
	}, &e)
	assert.Equal(t, http.StatusBadRequest, status)

	status = call(t, app, http.MethodGet, "/api/batches/no-existe", auth, nil, &e)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", e.Code)

	status = call(t, app, http.MethodGet, "/api/batches", "", nil, &e)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestStock_FlujoDeConfirmacion(t *testing.T) {
	app := buildApp(t)
	auth := bearer(t, testUserID)
	b := registerBatch(t, app, auth, "2030-01-01", 50)

	newQty := int64(40)
	var st dto.StockStateResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/batches/"+b.ID+"/quantity", auth,
		dto.ProposeQuantityRequest{NewQuantity: &newQty}, &st))
	assert.Equal(t, "PENDING_CONFIRMATION", st.Outcome)
	require.NotNil(t, st.Pending)
	assert.Equal(t, int64(10), st.Pending.Diff)

	var pending dto.StockStateResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/stock/pending", auth, nil, &pending))
	assert.Equal(t, "PENDING_CONFIRMATION", pending.State)

	var confirmed dto.StockStateResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/stock/pending/confirm", auth,
		dto.ConfirmPendingRequest{Reason: "sale"}, &confirmed))
	assert.Equal(t, "APPLIED", confirmed.State)
	require.NotNil(t, confirmed.Applied)
	assert.Equal(t, "sale", confirmed.Applied.MovementType)
	assert.Equal(t, int64(40), confirmed.Applied.CurrentQuantity)

	var summary dto.SummaryResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/reports/summary", auth, nil, &summary))
	assert.Equal(t, int64(40), summary.CurrentStock)
	assert.Equal(t, int64(10), summary.TotalSold)
	assert.Equal(t, "2024-06-01", summary.Today)

	var e dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/stock/pending/confirm", auth, dto.ConfirmPendingRequest{Reason: "sale"}, &e)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "NO_PENDING_CHANGE", e.Code)
}

func TestStock_CancelarYMotivoInvalido(t *testing.T) {
	app := buildApp(t)
	auth := bearer(t, testUserID)
	b := registerBatch(t, app, auth, "2030-01-01", 50)

	newQty := int64(20)
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/batches/"+b.ID+"/quantity", auth,
		dto.ProposeQuantityRequest{NewQuantity: &newQty}, nil))

	var e dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/stock/pending/confirm", auth, dto.ConfirmPendingRequest{Reason: "robo"}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", e.Code)

	var st dto.StockStateResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodDelete, "/api/stock/pending", auth, nil, &st))
	assert.Equal(t, "CANCELLED", st.State)

	var got dto.BatchResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/batches/"+b.ID, auth, nil, &got))
	assert.Equal(t, int64(50), got.Quantity)
}

func TestStock_AumentoSeAplicaDirecto(t *testing.T) {
	app := buildApp(t)
	auth := bearer(t, testUserID)
	b := registerBatch(t, app, auth, "2030-01-01", 5)

	newQty := int64(8)
	var st dto.StockStateResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/batches/"+b.ID+"/quantity", auth,
		dto.ProposeQuantityRequest{NewQuantity: &newQty}, &st))
	assert.Equal(t, "APPLIED", st.Outcome)
	assert.Equal(t, "IDLE", st.State)
	require.NotNil(t, st.Applied)
	assert.Equal(t, "in", st.Applied.MovementType)
	assert.Equal(t, int64(3), st.Applied.Quantity)
}

func TestStock_SinNuevaCantidad(t *testing.T) {
	app := buildApp(t)
	auth := bearer(t, testUserID)
	b := registerBatch(t, app, auth, "2030-01-01", 5)

	var e dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/batches/"+b.ID+"/quantity", auth, map[string]any{}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestReports_PorLoteYConciliacion(t *testing.T) {
	app := buildApp(t)
	auth := bearer(t, testUserID)
	registerBatch(t, app, auth, "2024-05-01", 20)
	registerBatch(t, app, auth, "2030-01-01", 30)

	var rep dto.BatchReportResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/reports/batches", auth, nil, &rep))
	require.Len(t, rep.Rows, 2)
	assert.Equal(t, "2024-05-01", rep.Rows[0].ExpiryDate)
	assert.Equal(t, int64(20), rep.Rows[0].ExpiredInStock)
	assert.Equal(t, int64(0), rep.Rows[1].ExpiredTotal)
	assert.Equal(t, int64(20), rep.Summary.ExpiredTotal)
	assert.Equal(t, 1, rep.Summary.ExpiredBatchesInStock)

	var expired dto.BatchListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/batches?expired_only=true", auth, nil, &expired))
	assert.Equal(t, 1, expired.Total)

	var rec dto.ReconciliationResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/reports/reconciliation", auth, nil, &rec))
	assert.True(t, rec.Consistent)
	assert.Empty(t, rec.Discrepancies)
}

func TestBatches_IDMalformadoEsNoEncontrado(t *testing.T) {
	app := buildApp(t)
	auth := bearer(t, testUserID)
	registerBatch(t, app, auth, "2030-01-01", 5)

	var e dto.ErrorResponse
	status := call(t, app, http.MethodGet, "/api/batches/abc", auth, nil, &e)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", e.Code)

	status = call(t, app, http.MethodGet, "/api/batches/abc/movements", auth, nil, &e)
	assert.Equal(t, http.StatusNotFound, status)

	qty := int64(3)
	status = call(t, app, http.MethodPost, "/api/batches/abc/quantity", auth, dto.ProposeQuantityRequest{NewQuantity: &qty}, &e)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", e.Code)
}

func TestMiddleware_PanicQuedaRegistrado(t *testing.T) {
	var out bytes.Buffer
	app := fiber.New()
	apphttp.UseMiddleware(app, logger.NewWriter(&out, "info"))
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("nil map")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "request", entry["message"])
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "/boom", entry["path"])
	assert.EqualValues(t, 500, entry["status"])
}
