package controllers

import (
	"net/http"

	"github.com/blogem/loan-approval/services"
)

// HomeController handles the landing page and health check
type HomeController struct {
	services *services.Services
}

// NewHomeController creates a new home controller
func NewHomeController(services *services.Services) *HomeController {
	return &HomeController{services: services}
}

// Index handles GET /
func (c *HomeController) Index(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Strategy string
	}{
		Strategy: c.services.Prediction.Strategy(),
	}
	renderTemplate(w, "home", "home.html", newPageData(r, "Loan Approval", "home", data))
}

// Health handles GET /health
func (c *HomeController) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "loan-approval"})
}
