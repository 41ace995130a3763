package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, source Source) *Handler {
	t.Helper()
	svc := newTestService(source)
	require.NoError(t, svc.Load(context.Background()))
	return NewHandler(HandlerConfig{Service: svc, PageSize: 2})
}

func TestCoursesEndpointFiltersAndPaginates(t *testing.T) {
	handler := newTestHandler(t, &stubSource{courses: testCourses, tutors: testTutors})

	req := httptest.NewRequest(http.MethodGet, "/courses?page=1&limit=2", nil)
	rec := httptest.NewRecorder()
	handler.Courses(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "3", rec.Header().Get("X-Total-Count"))

	var body struct {
		Data       []Course `json:"data"`
		Pagination struct {
			Page       int `json:"page"`
			PerPage    int `json:"per_page"`
			TotalItems int `json:"total_items"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	require.Equal(t, 3, body.Pagination.TotalItems)
}

func TestCoursesEndpointQueryAndLevel(t *testing.T) {
	handler := newTestHandler(t, &stubSource{courses: testCourses, tutors: testTutors})

	req := httptest.NewRequest(http.MethodGet, "/courses?q=french&level=intermediate", nil)
	rec := httptest.NewRecorder()
	handler.Courses(rec, req)

	var body struct {
		Data []Course `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	require.Equal(t, int64(3), body.Data[0].ID)
}

func TestTutorsEndpointFilters(t *testing.T) {
	handler := newTestHandler(t, &stubSource{courses: testCourses, tutors: testTutors})

	req := httptest.NewRequest(http.MethodGet, "/tutors?language=spanish&minExperience=2", nil)
	rec := httptest.NewRecorder()
	handler.Tutors(rec, req)

	require.Equal(t, "1", rec.Header().Get("X-Total-Count"))
	var body struct {
		Data []Tutor `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	require.Equal(t, "Ana", body.Data[0].Name)
}

func TestLanguagesEndpoint(t *testing.T) {
	handler := newTestHandler(t, &stubSource{courses: testCourses, tutors: testTutors})

	rec := httptest.NewRecorder()
	handler.Languages(rec, httptest.NewRequest(http.MethodGet, "/languages", nil))

	var body struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, []string{"English", "French", "Spanish"}, body.Data)
}

func TestReloadEndpointFailureReturnsUpstream(t *testing.T) {
	source := &stubSource{courses: testCourses, tutors: testTutors}
	handler := newTestHandler(t, source)

	source.tutorErr = errors.New("school api down")
	rec := httptest.NewRecorder()
	handler.Reload(rec, httptest.NewRequest(http.MethodPost, "/catalog/reload", nil))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "UPSTREAM", body.Error.Code)
}
