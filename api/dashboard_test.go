package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/domain"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/render"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/service/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDashboardUseCase is a mock implementation of dashboard.DashboardUseCase
type MockDashboardUseCase struct {
	mock.Mock
}

func (m *MockDashboardUseCase) Options() dashboard.Options {
	args := m.Called()
	return args.Get(0).(dashboard.Options)
}

func (m *MockDashboardUseCase) Apply(ctx context.Context, sessionID string, sel dashboard.Selection) (*render.Bundle, error) {
	args := m.Called(ctx, sessionID, sel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*render.Bundle), args.Error(1)
}

func (m *MockDashboardUseCase) TablePage(sessionID string, page int) (*dashboard.TablePage, error) {
	args := m.Called(sessionID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.TablePage), args.Error(1)
}

func (m *MockDashboardUseCase) State(sessionID string) dashboard.ApplyState {
	args := m.Called(sessionID)
	return args.Get(0).(dashboard.ApplyState)
}

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

const applyBody = `{"departure_cities":["Москва"],"arrival_cities":["Санкт-Петербург"],"start_date":"2016-03-01","end_date":"2016-03-02"}`

var applySelection = dashboard.Selection{
	DepartureCities: []string{"Москва"},
	ArrivalCities:   []string{"Санкт-Петербург"},
	StartDate:       "2016-03-01",
	EndDate:         "2016-03-02",
}

func TestDashboardHandler_options(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)
	c, w := newTestContext("GET", "/api/options", "")

	mockService.On("Options").Return(dashboard.Options{Cities: []string{"Казань", "Москва"}})

	handler.options(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var got dashboard.Options
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []string{"Казань", "Москва"}, got.Cities)
	mockService.AssertExpectations(t)
}

func TestDashboardHandler_apply(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)
	c, w := newTestContext("POST", "/api/apply", applyBody)
	c.Request.Header.Set(SessionHeader, "session-1")

	mockService.On("Apply", mock.Anything, "session-1", applySelection).
		Return(&render.Bundle{State: render.StateRendered, Rows: 2}, nil)

	handler.apply(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "session-1", w.Header().Get(SessionHeader))
	var got render.Bundle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, render.StateRendered, got.State)
	assert.Equal(t, 2, got.Rows)
	mockService.AssertExpectations(t)
}

func TestDashboardHandler_apply_SendsFirstTablePage(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)
	c, w := newTestContext("POST", "/api/apply", applyBody)
	c.Request.Header.Set(SessionHeader, "s")

	rows := make([]domain.EnrichedFlight, 65)
	for i := range rows {
		rows[i] = domain.EnrichedFlight{FlightID: int64(i), CoefSeats: 0.5}
	}
	bundle := &render.Bundle{State: render.StateRendered, Rows: 65, Table: render.Table(rows)}
	mockService.On("Apply", mock.Anything, "s", applySelection).Return(bundle, nil)

	handler.apply(c)

	require.Equal(t, http.StatusOK, w.Code)
	var got render.Bundle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.NotNil(t, got.Table)
	assert.Len(t, got.Table.Records, 30)
	assert.Equal(t, int64(29), got.Table.Records[29].FlightID)
	assert.Equal(t, 65, got.Table.TotalRows)
	assert.Equal(t, 3, got.Table.PageCount)
	assert.Len(t, bundle.Table.Records, 65)
}

func TestDashboardHandler_apply_GeneratesSession(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)
	c, w := newTestContext("POST", "/api/apply", applyBody)

	mockService.On("Apply", mock.Anything, mock.AnythingOfType("string"), applySelection).
		Return(render.Empty(dashboard.MessageNoData, ""), nil)

	handler.apply(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Header().Get(SessionHeader), 36)
}

func TestDashboardHandler_apply_InvalidRangeIsEmptyState(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)
	body := `{"departure_cities":["Москва"],"arrival_cities":["Казань"],"start_date":"2016-03-02","end_date":"2016-03-01"}`
	c, w := newTestContext("POST", "/api/apply", body)
	c.Request.Header.Set(SessionHeader, "s")

	mockService.On("Apply", mock.Anything, "s", mock.Anything).
		Return(render.Empty(dashboard.MessageInvalidInput, "invalid date_range"), nil)

	handler.apply(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var got render.Bundle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, render.StateEmpty, got.State)
	assert.Equal(t, "invalid date_range", got.Hint)
}

func TestDashboardHandler_apply_Superseded(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)
	c, w := newTestContext("POST", "/api/apply", applyBody)
	c.Request.Header.Set(SessionHeader, "s")

	mockService.On("Apply", mock.Anything, "s", applySelection).Return(nil, dashboard.ErrSuperseded)

	handler.apply(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDashboardHandler_apply_BadBody(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)
	c, w := newTestContext("POST", "/api/apply", "{")

	handler.apply(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboardHandler_table(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)
	c, w := newTestContext("GET", "/api/table?page=1", "")
	c.Request.Header.Set(SessionHeader, "s")

	mockService.On("TablePage", "s", 1).Return(&dashboard.TablePage{Page: 1, PageCount: 2, PageSize: 30}, nil)

	handler.table(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestDashboardHandler_table_Errors(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService)

	c, w := newTestContext("GET", "/api/table", "")
	handler.table(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newTestContext("GET", "/api/table?page=x", "")
	c.Request.Header.Set(SessionHeader, "s")
	handler.table(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.On("TablePage", "s", 0).Return(nil, dashboard.ErrNoTable)
	c, w = newTestContext("GET", "/api/table", "")
	c.Request.Header.Set(SessionHeader, "s")
	handler.table(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardHandler_Register(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewDashboardHandler(mockService).Register(router.Group("/api"))

	mockService.On("State", "s").Return(dashboard.StateRendered)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/state", nil)
	req.Header.Set(SessionHeader, "s")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"state":"rendered"}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
