package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learnhub-service/internal/services"
	"github.com/SAP-F-2025/learnhub-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
	export  services.ExportService
}

func NewDashboardHandler(service services.DashboardService, export services.ExportService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		export:      export,
	}
}

// ===== DASHBOARD ENDPOINTS =====

// GetAdminStats returns platform-wide statistics
// @Summary Admin dashboard
// @Description Role counts, content totals and monthly trends. Malformed records are skipped and counted.
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.AdminStats
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /dashboard/admin [get]
func (h *DashboardHandler) GetAdminStats(c *gin.Context) {
	h.LogRequest(c, "Getting admin dashboard")

	stats, err := h.service.Admin(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetTeacherStats returns the caller's content statistics. Admins may pass
// teacher_id to view another teacher.
// @Summary Teacher dashboard
// @Tags dashboard
// @Produce json
// @Param teacher_id query string false "Teacher ID (admins only)"
// @Success 200 {object} models.TeacherStats
// @Router /dashboard/teacher [get]
func (h *DashboardHandler) GetTeacherStats(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	teacherID := actor.ID
	if requested := c.Query("teacher_id"); requested != "" && actor.IsAdmin() {
		teacherID = requested
	}

	stats, err := h.service.Teacher(c.Request.Context(), teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetLearnerHome returns the caller's home feed
// @Summary Learner home
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.LearnerHome
// @Router /dashboard/learner [get]
func (h *DashboardHandler) GetLearnerHome(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	home, err := h.service.Learner(c.Request.Context(), actor.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, home)
}

// Export downloads users or videos as an XLSX workbook
// @Summary Export entity
// @Tags dashboard
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param entity path string true "users or videos"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse "Unknown entity"
// @Router /dashboard/export/{entity} [get]
func (h *DashboardHandler) Export(c *gin.Context) {
	entity := c.Param("entity")
	h.LogRequest(c, "Exporting entity", "entity", entity)

	var buf bytes.Buffer
	if err := h.export.Export(c.Request.Context(), entity, &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("%s-%s.xlsx", entity, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
