package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"workshop/internal/domain"
	"workshop/internal/engine/coordinator"
	"workshop/internal/middleware"
)

type stubEngine struct {
	result    domain.RecommendationResult
	layout    domain.Layout
	status    domain.ImageStatus
	err       error
	lastReq   domain.ConfigurationRequest
	lastJobID string
}

func (s *stubEngine) RequestRecommendation(_ context.Context, req domain.ConfigurationRequest) (domain.RecommendationResult, error) {
	s.lastReq = req
	return s.result, s.err
}

func (s *stubEngine) RequestLayoutOnly(_ context.Context, req domain.ConfigurationRequest) (domain.Layout, error) {
	s.lastReq = req
	return s.layout, s.err
}

func (s *stubEngine) CheckImageJob(_ context.Context, jobID string) (domain.ImageStatus, error) {
	s.lastJobID = jobID
	return s.status, s.err
}

type stubRepo struct {
	created   []domain.RecommendationResult
	createErr error
	stored    map[string]domain.StoredRecommendation
	page      []domain.StoredRecommendation
	total     int
	lastLimit int
	lastOff   int
}

func (s *stubRepo) Create(_ context.Context, rec domain.RecommendationResult) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, rec)
	return nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*domain.StoredRecommendation, error) {
	rec, ok := s.stored[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (s *stubRepo) ListByUser(_ context.Context, _ string, limit, offset int) ([]domain.StoredRecommendation, int, error) {
	s.lastLimit, s.lastOff = limit, offset
	return s.page, s.total, nil
}

func (s *stubRepo) ListPendingImages(context.Context, int) ([]domain.PendingImage, error) {
	return nil, nil
}

func (s *stubRepo) UpdateImage(context.Context, string, domain.ImageJobState, string) error {
	return nil
}

func newTestRouter(app *App) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.I18N("es", func(string) (string, error) { return "MX", nil }))
	r.Post("/v1/recommendations", app.CreateRecommendation)
	r.Get("/v1/recommendations/{id}", app.GetRecommendation)
	r.Get("/v1/users/{user_id}/recommendations", app.ListUserRecommendations)
	r.Post("/v1/layouts", app.CreateLayout)
	r.Get("/v1/images/{job_id}", app.ImageStatus)
	r.Get("/v1/healthz", app.Health)
	return r
}

const kitchenBody = `{
	"user_id": "u-1",
	"dimensions": {"length": 300, "width": 60, "height": 240, "unit": "cm"},
	"material": ["wood", "marble"],
	"color": "white",
	"style": "rustic",
	"furniture_type": "kitchen",
	"specification": {"door_count": 4, "drawer_count": 2}
}`

func decodeError(t *testing.T, body *bytes.Buffer) errorBody {
	t.Helper()
	var payload map[string]errorBody
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return payload["error"]
}

func TestCreateRecommendationPersistsResult(t *testing.T) {
	engine := &stubEngine{result: domain.RecommendationResult{ID: "rec-1", Source: domain.SourceLocal, Text: "summary"}}
	repo := &stubRepo{}
	app := NewApp(engine, repo, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/v1/recommendations", strings.NewReader(kitchenBody))
	req.RemoteAddr = "201.141.0.1:1234"
	rr := httptest.NewRecorder()
	newTestRouter(app).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if engine.lastReq.Locale != "es" {
		t.Fatalf("locale = %q, want es from context", engine.lastReq.Locale)
	}
	if got := engine.lastReq.Material.Values(); len(got) != 2 {
		t.Fatalf("material values = %v", got)
	}
	if len(repo.created) != 1 || repo.created[0].Country != "MX" {
		t.Fatalf("created = %+v", repo.created)
	}
	var result domain.RecommendationResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.ID != "rec-1" || result.Country != "MX" {
		t.Fatalf("result = %+v", result)
	}
}

func TestCreateRecommendationSurvivesStorageFailure(t *testing.T) {
	engine := &stubEngine{result: domain.RecommendationResult{ID: "rec-2"}}
	app := NewApp(engine, &stubRepo{createErr: errors.New("db down")}, zerolog.Nop())

	rr := httptest.NewRecorder()
	newTestRouter(app).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/recommendations", strings.NewReader(kitchenBody)))
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestCreateRecommendationErrors(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantErr  string
		fields   int
	}{
		{name: "malformed json", body: `{`, wantCode: http.StatusBadRequest, wantErr: "bad_request"},
		{
			name: "validation",
			body: kitchenBody,
			err: &domain.ValidationError{Fields: []domain.FieldError{
				{Field: "style", Message: "is required"},
				{Field: "dimensions.length", Message: "must be a positive number"},
			}},
			wantCode: http.StatusBadRequest,
			wantErr:  "validation_failed",
			fields:   2,
		},
		{name: "unit", body: kitchenBody, err: &domain.UnitConversionError{Unit: "ft"}, wantCode: http.StatusBadRequest, wantErr: "invalid_unit", fields: 1},
		{name: "internal", body: kitchenBody, err: fmt.Errorf("boom"), wantCode: http.StatusInternalServerError, wantErr: "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := NewApp(&stubEngine{err: tc.err}, nil, zerolog.Nop())
			rr := httptest.NewRecorder()
			newTestRouter(app).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/recommendations", strings.NewReader(tc.body)))
			if rr.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantCode)
			}
			body := decodeError(t, rr.Body)
			if body.Code != tc.wantErr || len(body.Fields) != tc.fields {
				t.Fatalf("error = %+v", body)
			}
			if tc.name == "internal" && strings.Contains(body.Message, "boom") {
				t.Fatalf("internal error leaked: %q", body.Message)
			}
		})
	}
}

func TestGetRecommendation(t *testing.T) {
	repo := &stubRepo{stored: map[string]domain.StoredRecommendation{
		"rec-1": {RecommendationResult: domain.RecommendationResult{ID: "rec-1"}, ImageState: domain.ImageJobDone, ImageURL: "http://x/img.webp"},
	}}
	router := newTestRouter(NewApp(&stubEngine{}, repo, zerolog.Nop()))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/recommendations/rec-1", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"image_url":"http://x/img.webp"`) {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/recommendations/missing", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d", rr.Code)
	}
}

func TestPersistenceDisabled(t *testing.T) {
	router := newTestRouter(NewApp(&stubEngine{}, nil, zerolog.Nop()))
	for _, path := range []string{"/v1/recommendations/rec-1", "/v1/users/u-1/recommendations"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s status = %d", path, rr.Code)
		}
	}
}

func TestListUserRecommendationsPaging(t *testing.T) {
	repo := &stubRepo{total: 0}
	router := newTestRouter(NewApp(&stubEngine{}, repo, zerolog.Nop()))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/users/u-1/recommendations?limit=500&offset=-3", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if repo.lastLimit != defaultPageSize || repo.lastOff != 0 {
		t.Fatalf("limit=%d offset=%d", repo.lastLimit, repo.lastOff)
	}
	var page recommendationPage
	if err := json.NewDecoder(rr.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Items == nil || len(page.Items) != 0 {
		t.Fatalf("items = %#v, want empty list", page.Items)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/users/u-1/recommendations?limit=5&offset=10", nil))
	if repo.lastLimit != 5 || repo.lastOff != 10 {
		t.Fatalf("limit=%d offset=%d", repo.lastLimit, repo.lastOff)
	}
}

func TestCreateLayout(t *testing.T) {
	engine := &stubEngine{layout: domain.Layout{ShapeFamily: domain.ShapeComponentSet}}
	rr := httptest.NewRecorder()
	newTestRouter(NewApp(engine, nil, zerolog.Nop())).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/layouts", strings.NewReader(kitchenBody)))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"shape_family":"component_set"`) {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
}

func TestImageStatus(t *testing.T) {
	cases := []struct {
		name     string
		status   domain.ImageStatus
		err      error
		wantCode int
	}{
		{name: "done", status: domain.ImageStatus{JobID: "job-1", State: domain.ImageJobDone, Done: true}, wantCode: http.StatusOK},
		{name: "unknown", err: &domain.JobNotFoundError{JobID: "job-1"}, wantCode: http.StatusNotFound},
		{name: "disabled", err: coordinator.ErrImagesDisabled, wantCode: http.StatusServiceUnavailable},
		{name: "provider", err: domain.NewProviderError("stablehorde", "status", errors.New("timeout")), wantCode: http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := &stubEngine{status: tc.status, err: tc.err}
			rr := httptest.NewRecorder()
			newTestRouter(NewApp(engine, nil, zerolog.Nop())).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/images/job-1", nil))
			if rr.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantCode)
			}
			if engine.lastJobID != "job-1" {
				t.Fatalf("job id = %q", engine.lastJobID)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(NewApp(&stubEngine{}, &stubRepo{}, zerolog.Nop())).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"persistence":true`) {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
}

func TestOpenAPIDocuments(t *testing.T) {
	app := NewApp(&stubEngine{}, nil, zerolog.Nop())
	rr := httptest.NewRecorder()
	app.OpenAPIJSON(rr, httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil))
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("status = %d, content type = %q", rr.Code, rr.Header().Get("Content-Type"))
	}
	if !strings.Contains(rr.Body.String(), `"openapi"`) {
		t.Fatalf("unexpected body: %.80s", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	app.OpenAPIDocs(rr, httptest.NewRequest(http.MethodHead, "/v1/docs", nil))
	if rr.Code != http.StatusOK || rr.Body.Len() != 0 {
		t.Fatalf("HEAD status = %d, body length = %d", rr.Code, rr.Body.Len())
	}
	if rr.Header().Get("Cache-Control") == "" {
		t.Fatalf("missing Cache-Control")
	}
}
