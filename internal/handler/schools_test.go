package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/parentbridge/parent-assistant/internal/model"
	"github.com/parentbridge/parent-assistant/internal/service"
	"github.com/parentbridge/parent-assistant/internal/store/memory"
	"github.com/parentbridge/parent-assistant/pkg/logger"
)

func newSchoolRouter(schools []model.School) chi.Router {
	log := logger.NewNop()
	svc := service.NewSchoolService(memory.NewSchoolStore(schools), log)
	h := NewSchoolHandler(svc, log)

	r := chi.NewRouter()
	r.Get("/api/schools", h.List)
	r.Get("/api/schools/nearby", h.Nearby)
	return r
}

func getSchools(t *testing.T, r chi.Router, path string) (*httptest.ResponseRecorder, model.ListSchoolsResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp model.ListSchoolsResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return rec, resp
}

func TestListSchools(t *testing.T) {
	r := newSchoolRouter([]model.School{
		{ID: "s1", Name: "Downtown Magnet", Location: model.NewGeoPoint(-118.25, 34.05)},
		{ID: "s2", Name: "Valley Continuation", Location: model.NewGeoPoint(-118.45, 34.19)},
	})

	rec, resp := getSchools(t, r, "/api/schools")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}
}

func TestNearbySchoolsClosestFirst(t *testing.T) {
	// Query point is downtown LA; s1 is ~1km away, s2 is across the
	// valley, s3 is outside the radius entirely.
	r := newSchoolRouter([]model.School{
		{ID: "s2", Name: "Valley Continuation", Location: model.NewGeoPoint(-118.45, 34.19)},
		{ID: "s1", Name: "Downtown Magnet", Location: model.NewGeoPoint(-118.25, 34.05)},
		{ID: "s3", Name: "Harbor Academy", Location: model.NewGeoPoint(-118.29, 33.74)},
	})

	rec, resp := getSchools(t, r, "/api/schools/nearby?lng=-118.24&lat=34.05&max_distance=30000")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2 (got %+v)", resp.Total, resp.Schools)
	}
	if resp.Schools[0].ID != "s1" {
		t.Errorf("closest school = %q, want s1", resp.Schools[0].ID)
	}
}

func TestNearbyRequiresCoordinates(t *testing.T) {
	r := newSchoolRouter(nil)

	for _, path := range []string{
		"/api/schools/nearby",
		"/api/schools/nearby?lng=-118.24",
		"/api/schools/nearby?lng=abc&lat=34.05",
		"/api/schools/nearby?lng=-118.24&lat=34.05&max_distance=-5",
	} {
		rec, _ := getSchools(t, r, path)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}

func TestNearbyRejectsOutOfRangeCoordinates(t *testing.T) {
	r := newSchoolRouter(nil)

	rec, _ := getSchools(t, r, "/api/schools/nearby?lng=-200&lat=34.05")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
