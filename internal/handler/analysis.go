package handler

import (
	"net/http"
	"strings"

	"github.com/VarunShelke/accessible-med-tracker/internal/apierror"
	"github.com/VarunShelke/accessible-med-tracker/internal/dto"
	"github.com/VarunShelke/accessible-med-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalysisHandler struct{ svc service.AnalysisService }

func NewAnalysisHandler(svc service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

// Analyze handles POST /v1/analysis — one transcribed utterance in, zero or
// more structured intents out. Missing text is a client error and never
// reaches the model; extraction failure after retries is a server error.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON in request body"))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Missing text attribute in request body"))
		return
	}

	resp, err := h.svc.Analyze(c.Request.Context(), req.Text)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
