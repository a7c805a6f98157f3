package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Eusa190/FIXITY-CRI/internal/config"
	"github.com/Eusa190/FIXITY-CRI/internal/locations"
	"github.com/Eusa190/FIXITY-CRI/internal/models"
	"github.com/Eusa190/FIXITY-CRI/internal/service"
	"github.com/Eusa190/FIXITY-CRI/internal/service/mocks"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var apiKeyHeader = map[string]string{"X-API-Key": "test-api-key"}

// fakeLimiter запоминает ключи и отвечает заданным результатом
type fakeLimiter struct {
	allowed    bool
	retryAfter time.Duration
	err        error
	keys       []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	f.keys = append(f.keys, key)
	return f.allowed, f.retryAfter, f.err
}

// newTestHandler создает новый экземпляр Handler с мокированным сервисом
func newTestHandler(t *testing.T) (*Handler, *mocks.MockIssueService, *gin.Engine) {
	return newTestHandlerWithLimiter(t, nil)
}

func newTestHandlerWithLimiter(t *testing.T, limiter ReportLimiter) (*Handler, *mocks.MockIssueService, *gin.Engine) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockIssueService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		APIKeys: []string{"test-api-key"},
	}

	handler := NewHandler(mockService, limiter, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return handler, mockService, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validCreateRequest() CreateIssueRequest {
	return CreateIssueRequest{
		Title:           "Pothole near school gate",
		Category:        models.CategoryPothole,
		SeverityLevel:   models.SeverityHigh,
		LocationContext: models.ContextSchool,
		District:        "Khordha",
		Block:           "Jatni",
	}
}

func TestCreateIssue_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	issueID := uuid.New()
	reporterID := uuid.New()
	reqBody := validCreateRequest()
	reqBody.ReporterID = reporterID.String()

	mockService.EXPECT().
		CreateIssue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, issue *models.Issue) error {
			require.NotNil(t, issue.ReporterID)
			assert.Equal(t, reporterID, *issue.ReporterID)
			assert.Equal(t, "Jatni", issue.Block)
			issue.ID = issueID
			issue.Status = models.StatusPending
			issue.SeverityScore = 12.75
			return nil
		}).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/issues", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp IssueResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, issueID, resp.ID)
	assert.Equal(t, "Pending", resp.Status)
	assert.Equal(t, 12.75, resp.SeverityScore)
}

func TestCreateIssue_InvalidJSON(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().CreateIssue(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "POST", "/api/v1/issues", bytes.NewBufferString(`{"title": "test"`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestCreateIssue_ValidationError(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	reqBody := validCreateRequest()
	reqBody.Title = "" // Отсутствует Title

	mockService.EXPECT().CreateIssue(gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/issues", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Title' failed on the 'required' tag")
}

func TestCreateIssue_InvalidSeverity(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	reqBody := validCreateRequest()
	reqBody.SeverityLevel = "critical"

	mockService.EXPECT().CreateIssue(gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/issues", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "'SeverityLevel' failed on the 'oneof' tag")
}

func TestCreateIssue_ServiceError(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().
		CreateIssue(gomock.Any(), gomock.Any()).
		Return(errors.New("failed to create issue in service")).
		Times(1)

	bodyBytes, _ := json.Marshal(validCreateRequest())
	w := makeRequest(router, "POST", "/api/v1/issues", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestCreateIssue_RateLimited(t *testing.T) {
	limiter := &fakeLimiter{allowed: false, retryAfter: 90 * time.Second}
	_, mockService, router := newTestHandlerWithLimiter(t, limiter)

	mockService.EXPECT().CreateIssue(gomock.Any(), gomock.Any()).Times(0)

	reporterID := uuid.New()
	reqBody := validCreateRequest()
	reqBody.ReporterID = reporterID.String()
	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/issues", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"retry_after":90`)
	assert.Equal(t, []string{"reporter:" + reporterID.String()}, limiter.keys)
}

func TestCreateIssue_RateLimitKeyIgnoresHeader(t *testing.T) {
	limiter := &fakeLimiter{allowed: true}
	_, mockService, router := newTestHandlerWithLimiter(t, limiter)
	reporterID := uuid.New()
	reqBody := validCreateRequest()
	reqBody.ReporterID = reporterID.String()

	// Тело должно дойти до хендлера после чтения в middleware
	mockService.EXPECT().
		CreateIssue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, issue *models.Issue) error {
			require.NotNil(t, issue.ReporterID)
			assert.Equal(t, reporterID, *issue.ReporterID)
			assert.Equal(t, reqBody.Title, issue.Title)
			return nil
		}).Times(2)

	for _, header := range []string{"rotated-1", "rotated-2"} {
		bodyBytes, _ := json.Marshal(reqBody)
		w := makeRequest(router, "POST", "/api/v1/issues", bytes.NewBuffer(bodyBytes), map[string]string{"X-Reporter-ID": header})
		assert.Equal(t, http.StatusCreated, w.Code)
	}

	want := "reporter:" + reporterID.String()
	assert.Equal(t, []string{want, want}, limiter.keys)
}

func TestCreateIssue_RateLimitMalformedBodyUsesClientIP(t *testing.T) {
	limiter := &fakeLimiter{allowed: true}
	_, mockService, router := newTestHandlerWithLimiter(t, limiter)

	mockService.EXPECT().CreateIssue(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/v1/issues", bytes.NewBufferString(`{"reporter_id": `))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, limiter.keys, 1)
	assert.Contains(t, limiter.keys[0], "ip:")
}

func TestCreateIssue_RateLimitFallsBackToClientIP(t *testing.T) {
	limiter := &fakeLimiter{allowed: true}
	_, mockService, router := newTestHandlerWithLimiter(t, limiter)

	mockService.EXPECT().CreateIssue(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	bodyBytes, _ := json.Marshal(validCreateRequest())
	w := makeRequest(router, "POST", "/api/v1/issues", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, limiter.keys, 1)
	assert.Contains(t, limiter.keys[0], "ip:")
}

func TestCreateIssue_RateLimiterError(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	_, mockService, router := newTestHandlerWithLimiter(t, limiter)

	mockService.EXPECT().CreateIssue(gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(validCreateRequest())
	w := makeRequest(router, "POST", "/api/v1/issues", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetIssue_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	issueID := uuid.New()
	expectedIssue := &models.Issue{
		ID:            issueID,
		Title:         "Retrieved Issue",
		Status:        models.StatusInProgress,
		SeverityScore: 15,
	}

	mockService.EXPECT().GetIssue(gomock.Any(), issueID).Return(expectedIssue, nil).Times(1)

	w := makeRequest(router, "GET", fmt.Sprintf("/api/v1/issues/%s", issueID.String()), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IssueResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, issueID, resp.ID)
	assert.Equal(t, "In Progress", resp.Status)
}

func TestGetIssue_InvalidID(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().GetIssue(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "GET", "/api/v1/issues/invalid-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid issue ID")
}

func TestGetIssue_NotFound(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	issueID := uuid.New()
	serviceError := fmt.Errorf("service: could not get issue: %w", service.ErrIssueNotFound)

	mockService.EXPECT().GetIssue(gomock.Any(), issueID).Return(nil, serviceError).Times(1)

	w := makeRequest(router, "GET", fmt.Sprintf("/api/v1/issues/%s", issueID.String()), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "issue not found")
}

func TestGetIssue_ServiceError(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	issueID := uuid.New()

	mockService.EXPECT().GetIssue(gomock.Any(), issueID).Return(nil, errors.New("database error")).Times(1)

	w := makeRequest(router, "GET", fmt.Sprintf("/api/v1/issues/%s", issueID.String()), nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListIssues_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	expectedIssues := []*models.Issue{
		{ID: uuid.New(), Title: "Issue 1", Status: models.StatusPending},
		{ID: uuid.New(), Title: "Issue 2", Status: models.StatusResolved},
	}

	mockService.EXPECT().ListIssues(gomock.Any(), 2, 10).Return(expectedIssues, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/issues?page=2&pageSize=10", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []IssueResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, expectedIssues[0].Title, resp[0].Title)
}

func TestListIssues_DefaultPagination(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().ListIssues(gomock.Any(), 1, 50).Return([]*models.Issue{}, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/issues", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListIssues_ServiceError(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().ListIssues(gomock.Any(), 1, 50).Return(nil, errors.New("failed to list issues")).Times(1)

	w := makeRequest(router, "GET", "/api/v1/issues", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestListReporterIssues_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	reporterID := uuid.New()

	mockService.EXPECT().
		ListReporterIssues(gomock.Any(), reporterID).
		Return([]*models.Issue{{ID: uuid.New(), ReporterID: &reporterID}}, nil).
		Times(1)

	w := makeRequest(router, "GET", fmt.Sprintf("/api/v1/reporters/%s/issues", reporterID), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), reporterID.String())
}

func TestListReporterIssues_InvalidID(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().ListReporterIssues(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/reporters/nope/issues", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid reporter ID")
}

func TestUpdateIssueStatus_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	issueID := uuid.New()
	resolvedAt := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	mockService.EXPECT().
		UpdateStatus(gomock.Any(), issueID, models.StatusResolved).
		Return(&models.Issue{ID: issueID, Status: models.StatusResolved, ResolvedAt: &resolvedAt}, nil).
		Times(1)

	bodyBytes, _ := json.Marshal(UpdateStatusRequest{Status: "Resolved"})
	w := makeRequest(router, "PATCH", fmt.Sprintf("/api/v1/issues/%s/status", issueID), bytes.NewBuffer(bodyBytes), apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IssueResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0.0, resp.SeverityScore)
	require.NotNil(t, resp.ResolvedAt)
	assert.True(t, resolvedAt.Equal(*resp.ResolvedAt))
}

func TestUpdateIssueStatus_InProgress(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	issueID := uuid.New()

	mockService.EXPECT().
		UpdateStatus(gomock.Any(), issueID, models.StatusInProgress).
		Return(&models.Issue{ID: issueID, Status: models.StatusInProgress}, nil).
		Times(1)

	w := makeRequest(router, "PATCH", fmt.Sprintf("/api/v1/issues/%s/status", issueID), bytes.NewBufferString(`{"status":"In Progress"}`), apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateIssueStatus_InvalidStatus(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "PATCH", fmt.Sprintf("/api/v1/issues/%s/status", uuid.New()), bytes.NewBufferString(`{"status":"Closed"}`), apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "'Status' failed on the 'oneof' tag")
}

func TestUpdateIssueStatus_NotFound(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	issueID := uuid.New()
	serviceError := fmt.Errorf("service: issue with id %s not found for update: %w", issueID, service.ErrIssueNotFound)

	mockService.EXPECT().UpdateStatus(gomock.Any(), issueID, models.StatusResolved).Return(nil, serviceError).Times(1)

	w := makeRequest(router, "PATCH", fmt.Sprintf("/api/v1/issues/%s/status", issueID), bytes.NewBufferString(`{"status":"Resolved"}`), apiKeyHeader)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "issue not found")
}

func TestUpdateIssueStatus_ServiceError(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	issueID := uuid.New()

	mockService.EXPECT().UpdateStatus(gomock.Any(), issueID, models.StatusPending).Return(nil, errors.New("deadlock")).Times(1)

	w := makeRequest(router, "PATCH", fmt.Sprintf("/api/v1/issues/%s/status", issueID), bytes.NewBufferString(`{"status":"Pending"}`), apiKeyHeader)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "failed to update issue status")
}

func TestUpdateIssueStatus_RequiresAPIKey(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "PATCH", fmt.Sprintf("/api/v1/issues/%s/status", uuid.New()), bytes.NewBufferString(`{"status":"Resolved"}`))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListAuthorityIssues_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	expected := []*models.Issue{
		{ID: uuid.New(), Block: "Jatni", SeverityScore: 15},
		{ID: uuid.New(), Block: "Jatni", SeverityScore: 2},
	}

	mockService.EXPECT().ListAuthorityIssues(gomock.Any(), "Jatni").Return(expected, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/authority/blocks/Jatni/issues", nil, apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []IssueResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, 15.0, resp[0].SeverityScore)
}

func TestListAuthorityIssues_RequiresAPIKey(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().ListAuthorityIssues(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/authority/blocks/Jatni/issues", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "API key required")
}

func TestListAuthorityIssues_ServiceError(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().ListAuthorityIssues(gomock.Any(), "Jatni").Return(nil, errors.New("boom")).Times(1)

	w := makeRequest(router, "GET", "/api/v1/authority/blocks/Jatni/issues", nil, apiKeyHeader)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetDistrictRisk_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	lat, lng := 20.17, 85.70
	expected := []models.BlockRisk{
		{Block: "Jatni", CRI: 85, Color: "red", Latitude: &lat, Longitude: &lng, IssueCount: 3},
		{Block: "Tangi", CRI: 0, Color: "green"},
	}

	mockService.EXPECT().GetDistrictRisk(gomock.Any(), "Khordha").Return(expected, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/cri/Khordha", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{"block":"Jatni","cri":85,"color":"red","lat":20.17,"lng":85.7,"issue_count":3},
		{"block":"Tangi","cri":0,"color":"green","issue_count":0}
	]`, w.Body.String())
}

func TestGetDistrictRisk_ServiceError(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().GetDistrictRisk(gomock.Any(), "Khordha").Return(nil, errors.New("boom")).Times(1)

	w := makeRequest(router, "GET", "/api/v1/cri/Khordha", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetAnalytics_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	expected := &models.Analytics{
		Summary: models.Summary{CRIScore: 75, HighRiskCount: 2, AvgResolution: "2.0 hours", RepeatRate: "50%"},
		Pillars: []models.PillarRisk{{Name: "Infrastructure", Risk: 75, Percent: 100}},
		Trend:   models.Trend{Labels: []string{"Fri"}, Values: []int{75}},
		Hotspots: []models.Hotspot{
			{Area: "Jatni", CRI: 75, DominantRisk: "Pothole", Duration: "2h"},
		},
		Distribution: map[string]int{"Pothole": 2},
	}

	mockService.EXPECT().GetAnalytics(gomock.Any(), "Jatni").Return(expected, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/analytics?block=Jatni", nil, apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.Analytics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, *expected, resp)
	assert.Contains(t, w.Body.String(), `"avg_res_time":"2.0 hours"`)
}

func TestGetAnalytics_GlobalScope(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().GetAnalytics(gomock.Any(), "").Return(&models.Analytics{}, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/analytics", nil, apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetAnalytics_RequiresAPIKey(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().GetAnalytics(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/analytics", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetLocations_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	hierarchy := locations.Hierarchy{"Odisha": {"Khordha": {"Jatni", "Tangi"}}}

	mockService.EXPECT().GetLocations().Return(hierarchy).Times(1)

	w := makeRequest(router, "GET", "/api/v1/locations", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"Odisha":{"Khordha":["Jatni","Tangi"]}}`, w.Body.String())
}

func TestHealthCheck_Success(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestAPIKeyAuthMiddleware_Success(t *testing.T) {
	// Создаем Gin-роутер и добавляем middleware
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		APIKeys: []string{"valid-key"},
	}

	router.Use(APIKeyAuthMiddleware(cfg, logger))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := makeRequest(router, "GET", "/test", nil, map[string]string{"Authorization": "Bearer valid-key"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyAuthMiddleware_InvalidKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		APIKeys: []string{"valid-key"},
	}

	router.Use(APIKeyAuthMiddleware(cfg, logger))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := makeRequest(router, "GET", "/test", nil, map[string]string{"X-API-Key": "invalid-key"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API key")
}
