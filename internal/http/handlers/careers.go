package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cownect/cownect-backend/internal/http/response"
	"github.com/cownect/cownect-backend/internal/modules/careers/catalog"
	"github.com/cownect/cownect-backend/internal/platform/logger"
)

type CareerHandler struct {
	log     *logger.Logger
	catalog *catalog.Catalog
}

func NewCareerHandler(log *logger.Logger, cat *catalog.Catalog) *CareerHandler {
	return &CareerHandler{log: log.With("handler", "CareerHandler"), catalog: cat}
}

// GET /api/careers
func (h *CareerHandler) ListCareers(c *gin.Context) {
	defs := h.catalog.All()
	if category := strings.ToLower(strings.TrimSpace(c.Query("category"))); category != "" {
		defs = h.catalog.ByCategory(category)
	}
	if defs == nil {
		defs = []catalog.CareerDefinition{}
	}
	response.RespondOK(c, gin.H{
		"version":    h.catalog.Version(),
		"categories": h.catalog.Categories(),
		"careers":    defs,
	})
}

// GET /api/careers/:name
//
// Names may contain a slash ("AR/VR Developer"); clients escape it and the router
// matches on the raw path.
func (h *CareerHandler) GetCareer(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	def, ok := h.catalog.Lookup(name)
	if !ok {
		response.RespondError(c, http.StatusNotFound, "career_not_found", nil)
		return
	}
	response.RespondOK(c, gin.H{"career": def})
}
