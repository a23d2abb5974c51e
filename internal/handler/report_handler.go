package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dropout-api/internal/dto"
	"github.com/noah-isme/dropout-api/internal/models"
	"github.com/noah-isme/dropout-api/internal/service"
	appErrors "github.com/noah-isme/dropout-api/pkg/errors"
	"github.com/noah-isme/dropout-api/pkg/response"
)

// ReportViewer serves aggregated dashboard views.
type ReportViewer interface {
	View(ctx context.Context, scope models.ReportScope, token string) (*dto.ReportViewResponse, bool, error)
}

// ReportExporter generates documents and lists export history.
type ReportExporter interface {
	Export(ctx context.Context, scope models.ReportScope, createdBy string) (*service.ExportResult, error)
	History(ctx context.Context, schoolID string, limit int) ([]models.ExportRecord, error)
}

// ReportHandler exposes the report view and export endpoints.
type ReportHandler struct {
	reports ReportViewer
	exports ReportExporter
}

// NewReportHandler constructs handler.
func NewReportHandler(reports ReportViewer, exports ReportExporter) *ReportHandler {
	return &ReportHandler{reports: reports, exports: exports}
}

func scopeFromRequest(c *gin.Context) (models.ReportScope, error) {
	kind := models.ReportKind(c.DefaultQuery("type", string(models.ReportKindOverall)))
	if !kind.Valid() {
		return models.ReportScope{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report type %q", kind))
	}
	scope := models.ReportScope{
		SchoolID:   c.Param("schoolId"),
		Kind:       kind,
		CourseID:   c.DefaultQuery("courseId", models.ScopeAllCourses),
		TimePeriod: c.Query("period"),
	}
	if scope.SchoolID == "" {
		return models.ReportScope{}, appErrors.Clone(appErrors.ErrValidation, "schoolId required")
	}
	return scope, nil
}

// GetReport serves the aggregated report view for a school.
func (h *ReportHandler) GetReport(c *gin.Context) {
	scope, err := scopeFromRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if claims := claimsFromContext(c); claims != nil && claims.SchoolID != "" && claims.SchoolID != scope.SchoolID {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "school mismatch"))
		return
	}

	view, fromCache, err := h.reports.View(c.Request.Context(), scope, tokenFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	source := "upstream"
	if fromCache {
		source = "cache"
	}
	response.JSON(c, http.StatusOK, view, map[string]interface{}{"source": source})
}

// ExportReport generates and returns the PDF document for the current scope.
// Without a cached report nothing is generated and the request yields 204.
func (h *ReportHandler) ExportReport(c *gin.Context) {
	scope, err := scopeFromRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	claims := claimsFromContext(c)
	if claims != nil && claims.SchoolID != "" && claims.SchoolID != scope.SchoolID {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "school mismatch"))
		return
	}

	createdBy := ""
	if claims != nil {
		createdBy = claims.UserID
	}

	result, err := h.exports.Export(c.Request.Context(), scope, createdBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Skipped {
		response.NoContent(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, "application/pdf", result.Data)
}

// ListExports returns recent export history rows for the school.
func (h *ReportHandler) ListExports(c *gin.Context) {
	schoolID := c.Param("schoolId")
	if schoolID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "schoolId required"))
		return
	}

	if claims := claimsFromContext(c); claims != nil && claims.SchoolID != "" && claims.SchoolID != schoolID {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "school mismatch"))
		return
	}

	records, err := h.exports.History(c.Request.Context(), schoolID, 20)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}
