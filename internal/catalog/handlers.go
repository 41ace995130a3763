package catalog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/noah-isme/backend-lingua/internal/common"
)

// Handler exposes the public catalog endpoints.
type Handler struct {
	service  *Service
	pageSize int
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service  *Service
	PageSize int
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	pageSize := cfg.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	return &Handler{service: cfg.Service, pageSize: pageSize}
}

// Courses handles GET /api/v1/courses with filters and pagination.
func (h *Handler) Courses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	level := Level(strings.TrimSpace(r.URL.Query().Get("level")))
	filtered := FilterCourses(h.service.Snapshot().Courses(), query, level)

	page, perPage := common.ParsePagination(r, h.pageSize)
	items := common.PageSlice(filtered, page, perPage)

	w.Header().Set("X-Total-Count", strconv.Itoa(len(filtered)))
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: len(filtered)},
	})
}

// Tutors handles GET /api/v1/tutors with filters.
func (h *Handler) Tutors(w http.ResponseWriter, r *http.Request) {
	language := r.URL.Query().Get("language")
	minExperience := common.AtoiDefault(r.URL.Query().Get("minExperience"), 0)
	filtered := FilterTutors(h.service.Snapshot().Tutors(), language, minExperience)

	w.Header().Set("X-Total-Count", strconv.Itoa(len(filtered)))
	common.JSON(w, http.StatusOK, map[string]any{"data": filtered})
}

// Languages handles GET /api/v1/languages.
func (h *Handler) Languages(w http.ResponseWriter, r *http.Request) {
	langs := Languages(h.service.Snapshot().Tutors())
	common.JSON(w, http.StatusOK, map[string]any{"data": langs})
}

// Reload handles POST /api/v1/catalog/reload. A failed reload keeps the
// previous snapshot serving.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Load(r.Context()); err != nil {
		common.WriteError(w, common.Upstream("catalog reload failed", err))
		return
	}
	snap := h.service.Snapshot()
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"courses":   len(snap.Courses()),
			"tutors":    len(snap.Tutors()),
			"loaded_at": snap.LoadedAt(),
		},
	})
}
