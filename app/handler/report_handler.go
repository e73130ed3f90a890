package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"podreport/internal/service"
	"podreport/pkg/constants"
	"podreport/pkg/logger"
	"podreport/pkg/report"

	"github.com/gin-gonic/gin"
)

const jsonContentType = "application/json; charset=utf-8"

// ReportHandler exposes the aggregation reports over HTTP
type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// GetProjectReport returns the full hierarchical report for one project
// GET /api/v1/reports/projects/:project_id
func (h *ReportHandler) GetProjectReport(c *gin.Context) {
	params, err := parseScopeParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	params.ProjectIDs = []string{c.Param("project_id")}

	h.render(c, service.ViewTree, params)
}

// ListProjectReports returns hierarchical reports for all scoped projects
// GET /api/v1/reports/projects
func (h *ReportHandler) ListProjectReports(c *gin.Context) {
	params, err := parseScopeParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	h.render(c, service.ViewProjects, params)
}

// ListTrainerReports returns the flat per-trainer table
// GET /api/v1/reports/trainers
func (h *ReportHandler) ListTrainerReports(c *gin.Context) {
	params, err := parseScopeParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	h.render(c, service.ViewTrainers, params)
}

// ListPodLeadReports returns the flat per-POD-lead rollup table
// GET /api/v1/reports/podleads
func (h *ReportHandler) ListPodLeadReports(c *gin.Context) {
	params, err := parseScopeParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	h.render(c, service.ViewPodLeads, params)
}

// ListTaskReports returns per-task detail rows for the scope
// GET /api/v1/reports/tasks
func (h *ReportHandler) ListTaskReports(c *gin.Context) {
	params, err := parseScopeParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	h.render(c, service.ViewTasks, params)
}

// InvalidateCache drops every cached report payload
// POST /api/v1/reports/cache/invalidate
func (h *ReportHandler) InvalidateCache(c *gin.Context) {
	if err := h.svc.InvalidateCache(c.Request.Context()); err != nil {
		logger.ErrorCtx(c.Request.Context(), "cache invalidation failed: %v", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *ReportHandler) render(c *gin.Context, view string, params report.Params) {
	payload, err := h.svc.RenderView(c.Request.Context(), view, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, jsonContentType, payload)
}

// parseScopeParams reads the common query parameters shared by every
// report endpoint. Dates use YYYY-MM-DD and are inclusive.
func parseScopeParams(c *gin.Context) (report.Params, error) {
	var params report.Params

	if raw := c.Query("project_ids"); raw != "" {
		params.ProjectIDs = strings.Split(raw, ",")
	}
	params.Trainer = c.Query("trainer")
	params.Reviewer = c.Query("reviewer")

	if raw := c.Query("date_from"); raw != "" {
		t, err := time.Parse(constants.DateLayout, raw)
		if err != nil {
			return params, invalidDateErr("date_from", raw)
		}
		params.From = &t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, err := time.Parse(constants.DateLayout, raw)
		if err != nil {
			return params, invalidDateErr("date_to", raw)
		}
		params.To = &t
	}
	if raw := c.Query("min_score"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, fmt.Errorf("%w: min_score must be a number, got %q", report.ErrInvalidScope, raw)
		}
		params.MinScore = &v
	}

	return params, nil
}

func invalidDateErr(field, raw string) error {
	return fmt.Errorf("%w: %s must be %s, got %q", report.ErrInvalidScope, field, constants.DateLayout, raw)
}

// respondError maps service errors to a closed set of HTTP error codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, report.ErrInvalidScope):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_scope", "message": err.Error()})
	case errors.Is(err, report.ErrUnknownProject):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown_project", "message": err.Error()})
	case errors.Is(err, service.ErrUpstream), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream_unavailable", "message": err.Error()})
	default:
		logger.ErrorCtx(c.Request.Context(), "unhandled report error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": "internal error"})
	}
}
