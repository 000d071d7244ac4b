package controllers

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/blogem/loan-approval/authenticator"
	"github.com/blogem/loan-approval/logging"
	"github.com/blogem/loan-approval/services"
	"github.com/blogem/loan-approval/templates"
	"github.com/blogem/loan-approval/userctx"
)

// pageData is the value every page template is executed with
type pageData struct {
	Title       string
	CurrentPage string
	Error       string
	Success     string
	Username    string
	// Query is appended to chart URLs so images follow the page filter
	Query string
	Data  interface{}
}

func newPageData(r *http.Request, title, currentPage string, data interface{}) pageData {
	return pageData{
		Title:       title,
		CurrentPage: currentPage,
		Username:    userctx.GetUsername(r.Context()),
		Data:        data,
	}
}

// renderTemplate creates a template set and renders it with the provided data
func renderTemplate(w http.ResponseWriter, templateName string, pageTemplate string, data interface{}) error {
	return renderTemplateWithStatus(w, http.StatusOK, templateName, pageTemplate, data)
}

// renderTemplateWithStatus creates a template set and renders it with the provided data and status code
func renderTemplateWithStatus(w http.ResponseWriter, statusCode int, templateName string, pageTemplate string, data interface{}) error {
	// Create a new template set with only the templates we need
	tmpl := template.New(templateName)
	tmpl.Funcs(template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	})

	// Parse layout and page template
	if _, err := tmpl.ParseFS(templates.FS, "layout.html", pageTemplate); err != nil {
		http.Error(w, "Failed to parse template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}

	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	return nil
}

// renderError renders the error page with the given status
func renderError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	page := newPageData(r, http.StatusText(statusCode), "", nil)
	page.Error = message
	renderTemplateWithStatus(w, statusCode, "error", "error.html", page)
}

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// Controllers holds all controller instances
type Controllers struct {
	Auth    *AuthController
	Home    *HomeController
	Predict *PredictController
	Report  *ReportController
}

// NewControllers creates and initializes all controller instances.
// sso may be nil when single sign-on is not configured.
func NewControllers(services *services.Services, sso authenticator.Provider, logger *logging.Logger) *Controllers {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Controllers{
		Auth:    NewAuthController(services, sso, logger),
		Home:    NewHomeController(services),
		Predict: NewPredictController(services, logger),
		Report:  NewReportController(services, logger),
	}
}
