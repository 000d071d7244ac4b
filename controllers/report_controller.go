package controllers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/blogem/loan-approval/charts"
	"github.com/blogem/loan-approval/logging"
	"github.com/blogem/loan-approval/models"
	"github.com/blogem/loan-approval/services"
	"github.com/blogem/loan-approval/userctx"
)

// ReportController handles the dashboard, ledger views and export
type ReportController struct {
	services *services.Services
	logger   *logging.Logger
}

// NewReportController creates a new report controller
func NewReportController(services *services.Services, logger *logging.Logger) *ReportController {
	return &ReportController{
		services: services,
		logger:   logger.Named("report"),
	}
}

// scope returns the username the dashboard is restricted to: the requester
// when ?mine=1 is given and someone is signed in, otherwise everyone
func scope(r *http.Request) string {
	if r.URL.Query().Get("mine") == "1" {
		return userctx.GetUsername(r.Context())
	}
	return ""
}

// Dashboard handles GET /dashboard
func (c *ReportController) Dashboard(w http.ResponseWriter, r *http.Request) {
	username := scope(r)
	report := c.services.Report.Summary(r.Context(), username)

	page := newPageData(r, "Dashboard", "dashboard", report)
	if username != "" {
		page.Query = "?mine=1"
	}
	renderTemplate(w, "dashboard", "dashboard.html", page)
}

// DecisionsChart handles GET /dashboard/decisions.svg
func (c *ReportController) DecisionsChart(w http.ResponseWriter, r *http.Request) {
	c.chart(w, r, charts.DecisionPie)
}

// IncomeChart handles GET /dashboard/income.svg
func (c *ReportController) IncomeChart(w http.ResponseWriter, r *http.Request) {
	c.chart(w, r, charts.IncomeHistogram)
}

func (c *ReportController) chart(w http.ResponseWriter, r *http.Request, render func(io.Writer, *models.Report) error) {
	report := c.services.Report.Summary(r.Context(), scope(r))

	var buf bytes.Buffer
	if err := render(&buf, report); err != nil {
		c.logger.Error("Failed to render chart", zap.Error(err))
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// Predictions handles GET /predictions
func (c *ReportController) Predictions(w http.ResponseWriter, r *http.Request) {
	c.table(w, r, "", "Predictions", "predictions")
}

// History handles GET /history
func (c *ReportController) History(w http.ResponseWriter, r *http.Request) {
	c.table(w, r, userctx.GetUsername(r.Context()), "My applications", "history")
}

func (c *ReportController) table(w http.ResponseWriter, r *http.Request, username, title, currentPage string) {
	table, err := c.services.Report.Table(r.Context(), username)
	if err != nil {
		c.logger.Error("Failed to load ledger", zap.Error(err))
		renderError(w, r, http.StatusInternalServerError, "Error loading predictions: "+err.Error())
		return
	}
	renderTemplate(w, currentPage, "predictions.html", newPageData(r, title, currentPage, table))
}

// Download handles GET /download
func (c *ReportController) Download(w http.ResponseWriter, r *http.Request) {
	rc, err := c.services.Report.Export(r.Context())
	if errors.Is(err, models.ErrNotFound) {
		http.Error(w, models.NoPredictionsMessage, http.StatusNotFound)
		return
	}
	if err != nil {
		c.logger.Error("Failed to open ledger for download", zap.Error(err))
		http.Error(w, "Failed to read predictions", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="predictions.csv"`)
	if _, err := io.Copy(w, rc); err != nil {
		c.logger.Warn("Download interrupted", zap.Error(err))
	}
}
