package controllers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/blogem/loan-approval/logging"
	"github.com/blogem/loan-approval/models"
	"github.com/blogem/loan-approval/services"
)

// formFieldNames lists every form input read from a submission
var formFieldNames = append([]string{
	models.FieldApplicantName,
	models.FieldDateOfBirth,
	models.FieldAge,
	models.FieldOccupation,
	models.FieldFeedback,
}, models.UnderwritingFieldNames()...)

// formData is rendered by predict.html
type formData struct {
	Fields []models.Field
	Values map[string]string
	Errors []string
}

// resultData is rendered by result.html
type resultData struct {
	Decision models.Decision
	Record   *models.LedgerRecord
	Recorded string
}

// PredictController handles the application form and decisions
type PredictController struct {
	services *services.Services
	logger   *logging.Logger
}

// NewPredictController creates a new predict controller
func NewPredictController(services *services.Services, logger *logging.Logger) *PredictController {
	return &PredictController{
		services: services,
		logger:   logger.Named("predict"),
	}
}

// Form handles GET /predict
func (c *PredictController) Form(w http.ResponseWriter, r *http.Request) {
	data := formData{Fields: models.UnderwritingFields, Values: map[string]string{}}
	renderTemplate(w, "predict", "predict.html", newPageData(r, "Loan application", "predict", data))
}

// Submit handles POST /predict
func (c *PredictController) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderError(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}

	values := make(map[string]string, len(formFieldNames))
	for _, name := range formFieldNames {
		if _, ok := r.PostForm[name]; ok {
			values[name] = r.PostForm.Get(name)
		}
	}

	result, err := c.services.Prediction.Predict(r.Context(), values)

	var verr *models.ValidationError
	switch {
	case err == nil:
		renderTemplate(w, "result", "result.html", newPageData(r, "Decision", "predict", newResultData(result)))

	case result == nil || errors.Is(err, models.ErrStorage):
		c.logger.Error("Prediction failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Prediction failed: " + err.Error()})

	case errors.As(err, &verr):
		page := newPageData(r, "Loan application", "predict", formData{
			Fields: models.UnderwritingFields,
			Values: values,
			Errors: []string{verr.Error()},
		})
		if result.Record != nil {
			page.Success = "The submission was recorded as " + string(models.Invalid) + "."
		}
		renderTemplateWithStatus(w, http.StatusBadRequest, "predict", "predict.html", page)

	case errors.Is(err, models.ErrComputation):
		renderTemplateWithStatus(w, http.StatusUnprocessableEntity, "result", "result.html",
			newPageData(r, "Decision", "predict", newResultData(result)))

	default:
		c.logger.Error("Prediction failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Prediction failed: " + err.Error()})
	}
}

func newResultData(result *services.PredictionResult) resultData {
	data := resultData{Decision: result.Decision, Record: result.Record}
	if result.Record != nil {
		data.Recorded = models.FormatDateTime(result.Record.Timestamp)
	}
	return data
}
