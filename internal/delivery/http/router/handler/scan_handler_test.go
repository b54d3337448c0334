package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"patrol/internal/delivery/http/validator"
	"patrol/internal/domain/entity"
	"patrol/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockScanUsecase struct {
	mock.Mock
}

func (m *mockScanUsecase) Evaluate(ctx context.Context, input *usecase.ScanInput) (*usecase.ScanResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.ScanResult), args.Error(1)
}

func (m *mockScanUsecase) Reset(sessionID string) {
	m.Called(sessionID)
}

func (m *mockScanUsecase) GetGuardScans(ctx context.Context, guardID uuid.UUID, limit int) ([]*entity.Scan, error) {
	args := m.Called(ctx, guardID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Scan), args.Error(1)
}

type mockExportUsecase struct {
	mock.Mock
}

func (m *mockExportUsecase) WriteScansCSV(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx, w)

	return args.Error(0)
}

func testHandlerLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newScanContext builds an authenticated echo context the way the auth
// middleware would leave it.
func newScanContext(t *testing.T, method, path, body string, guardID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("userID", guardID)
	c.Set("userName", "Asha Patel")
	c.Set("roles", []string{"guard"})

	return c, rec
}

func TestScanHandler_Evaluate_Success(t *testing.T) {
	scanUC := &mockScanUsecase{}
	h := &ScanHandler{scanUC: scanUC, logger: testHandlerLogger()}

	guardID := uuid.New()
	result := &usecase.ScanResult{Status: usecase.ScanOutcomeSuccess, Message: "North Gate scanned"}

	scanUC.On("Evaluate", mock.Anything, mock.MatchedBy(func(input *usecase.ScanInput) bool {
		return input.GuardID == guardID &&
			input.GuardName == "Asha Patel" &&
			input.SessionID == "session-1" &&
			input.Location != nil && input.Location.Latitude == 19.0760
	})).Return(result, nil)

	body := `{"session_id":"session-1","payload":"checkpoint:` + uuid.New().String() + `","latitude":19.0760,"longitude":72.8777}`
	c, rec := newScanContext(t, http.MethodPost, "/scans", body, guardID)

	require.NoError(t, h.Evaluate(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"success"`)
}

func TestScanHandler_Evaluate_DecidedOutcomesAreOK(t *testing.T) {
	// Duplicate and invalid_checkpoint are decisions, not transport failures.
	for _, status := range []string{usecase.ScanOutcomeDuplicate, usecase.ScanOutcomeInvalidCheckpoint, usecase.ScanOutcomeError} {
		t.Run(status, func(t *testing.T) {
			scanUC := &mockScanUsecase{}
			h := &ScanHandler{scanUC: scanUC, logger: testHandlerLogger()}

			scanUC.On("Evaluate", mock.Anything, mock.Anything).
				Return(&usecase.ScanResult{Status: status}, nil)

			c, rec := newScanContext(t, http.MethodPost, "/scans", `{"payload":"whatever"}`, uuid.New())

			require.NoError(t, h.Evaluate(c))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `"status":"`+status+`"`)
		})
	}
}

func TestScanHandler_Evaluate_InFlightConflicts(t *testing.T) {
	scanUC := &mockScanUsecase{}
	h := &ScanHandler{scanUC: scanUC, logger: testHandlerLogger()}

	scanUC.On("Evaluate", mock.Anything, mock.Anything).Return(nil, usecase.ErrScanInFlight)

	c, rec := newScanContext(t, http.MethodPost, "/scans", `{"payload":"whatever"}`, uuid.New())

	require.NoError(t, h.Evaluate(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "SCAN_IN_FLIGHT")
}

func TestScanHandler_Evaluate_HalfCoordinatesRejected(t *testing.T) {
	scanUC := &mockScanUsecase{}
	h := &ScanHandler{scanUC: scanUC, logger: testHandlerLogger()}

	c, rec := newScanContext(t, http.MethodPost, "/scans", `{"payload":"whatever","latitude":19.0760}`, uuid.New())

	require.NoError(t, h.Evaluate(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	scanUC.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything)
}

func TestScanHandler_Reset_DefaultsToGuardSession(t *testing.T) {
	scanUC := &mockScanUsecase{}
	h := &ScanHandler{scanUC: scanUC, logger: testHandlerLogger()}

	guardID := uuid.New()
	scanUC.On("Reset", guardID.String()).Return()

	c, rec := newScanContext(t, http.MethodPost, "/scans/reset", `{}`, guardID)

	require.NoError(t, h.Reset(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	scanUC.AssertExpectations(t)
}

func TestScanHandler_History_OwnScans(t *testing.T) {
	scanUC := &mockScanUsecase{}
	h := &ScanHandler{scanUC: scanUC, logger: testHandlerLogger()}

	guardID := uuid.New()
	scans := []*entity.Scan{{ID: uuid.New(), GuardID: guardID, CheckpointName: "North Gate"}}
	scanUC.On("GetGuardScans", mock.Anything, guardID, defaultScanHistoryLimit).Return(scans, nil)

	c, rec := newScanContext(t, http.MethodGet, "/scans", "", guardID)

	require.NoError(t, h.History(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "North Gate")
}

func TestScanHandler_History_OtherGuardRequiresAdmin(t *testing.T) {
	scanUC := &mockScanUsecase{}
	h := &ScanHandler{scanUC: scanUC, logger: testHandlerLogger()}

	other := uuid.New()
	c, rec := newScanContext(t, http.MethodGet, "/scans?guard_id="+other.String(), "", uuid.New())

	require.NoError(t, h.History(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	scanUC.AssertNotCalled(t, "GetGuardScans", mock.Anything, mock.Anything, mock.Anything)
}

func TestScanHandler_History_AdminMayQueryAnyGuard(t *testing.T) {
	scanUC := &mockScanUsecase{}
	h := &ScanHandler{scanUC: scanUC, logger: testHandlerLogger()}

	adminID := uuid.New()
	target := uuid.New()
	scanUC.On("GetGuardScans", mock.Anything, target, defaultScanHistoryLimit).Return([]*entity.Scan{}, nil)

	c, rec := newScanContext(t, http.MethodGet, "/scans?guard_id="+target.String(), "", adminID)
	c.Set("roles", []string{"admin"})

	require.NoError(t, h.History(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	scanUC.AssertExpectations(t)
}

func TestScanHandler_Export(t *testing.T) {
	exportUC := &mockExportUsecase{}
	h := &ScanHandler{exportUC: exportUC, logger: testHandlerLogger()}

	exportUC.On("WriteScansCSV", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			w := args.Get(1).(io.Writer)
			w.Write([]byte("Guard Name,Checkpoint,Date/Time,Latitude,Longitude\n"))
		}).
		Return(nil)

	c, rec := newScanContext(t, http.MethodGet, "/scans/export", "", uuid.New())

	require.NoError(t, h.Export(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment")
	assert.Contains(t, rec.Body.String(), "Guard Name")
}

func TestScanHandler_Evaluate_ResultShape(t *testing.T) {
	scanUC := &mockScanUsecase{}
	h := &ScanHandler{scanUC: scanUC, logger: testHandlerLogger()}

	distance := 150.0
	allowed := 100.0
	scanUC.On("Evaluate", mock.Anything, mock.Anything).Return(&usecase.ScanResult{
		Status:              usecase.ScanOutcomeLocationWarning,
		Message:             "North Gate scanned 150 m from the checkpoint (allowed 100 m)",
		DistanceMeters:      &distance,
		AllowedRadiusMeters: &allowed,
	}, nil)

	c, rec := newScanContext(t, http.MethodPost, "/scans", `{"payload":"whatever"}`, uuid.New())

	require.NoError(t, h.Evaluate(c))

	var envelope struct {
		Data usecase.ScanResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, usecase.ScanOutcomeLocationWarning, envelope.Data.Status)
	require.NotNil(t, envelope.Data.DistanceMeters)
	assert.Equal(t, 150.0, *envelope.Data.DistanceMeters)
}
