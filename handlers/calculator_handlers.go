package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"estimator-backend/calculator"
	"estimator-backend/models"
	"estimator-backend/repository"
	"estimator-backend/services"
	"estimator-backend/storage"
	"estimator-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgCalculatorNotFound = "Calculator configuration not found"

// activeCalculator loads the active calculator or writes the error response.
func activeCalculator(c *gin.Context, store storage.CalculatorStore, logger *zap.Logger) (*calculator.Calculator, bool) {
	calc, err := store.ActiveCalculator(c.Request.Context())
	if errors.Is(err, storage.ErrNoActiveCalculator) {
		utils.ErrorResponse(c, http.StatusNotFound, msgCalculatorNotFound)
		return nil, false
	}
	if err != nil {
		logger.Error("load active calculator", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch calculator configuration")
		return nil, false
	}
	return calc, true
}

// GetCalculator godoc
// @Summary      Get the active calculator configuration
// @Tags         calculator
// @Produce      json
// @Success      200  {object}  calculator.Calculator
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/calculator [get]
func GetCalculator(store storage.CalculatorStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		calc, ok := activeCalculator(c, store, logger)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, calc)
	}
}

// GetCalculatorSteps godoc
// @Summary      List the steps visible for the current selections
// @Tags         calculator
// @Accept       json
// @Produce      json
// @Param        body  body      models.StepsRequest  false  "Current selections"
// @Success      200   {object}  models.StepsResponse
// @Failure      404   {object}  models.ErrorResponse
// @Router       /api/calculator/steps [post]
func GetCalculatorSteps(store storage.CalculatorStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.StepsRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}

		calc, ok := activeCalculator(c, store, logger)
		if !ok {
			return
		}

		steps := calculator.VisibleSteps(calc, req.CurrentSelections)
		c.JSON(http.StatusOK, models.StepsResponse{
			Steps:       steps,
			TotalSteps:  len(steps),
			CurrentStep: req.CurrentSelections.Int(calculator.FieldCurrentStep),
		})
	}
}

// CalculatePrice godoc
// @Summary      Price a set of selections
// @Tags         calculator
// @Accept       json
// @Produce      json
// @Param        body  body      models.CalculateRequest  true  "Selections"
// @Success      200   {object}  calculator.PriceResult
// @Failure      400   {object}  models.ErrorResponse
// @Failure      404   {object}  models.ErrorResponse
// @Router       /api/calculator/calculate [post]
func CalculatePrice(store storage.CalculatorStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CalculateRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Selections == nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Selections are required")
			return
		}

		calc, ok := activeCalculator(c, store, logger)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, calculator.Calculate(calc, req.Selections))
	}
}

// QuotePDF godoc
// @Summary      Download a priced quote as PDF
// @Tags         calculator
// @Accept       json
// @Produce      application/pdf
// @Param        body  body      models.QuoteRequest  true  "Selections and optional contact"
// @Success      200   {file}    file  "PDF document"
// @Failure      400   {object}  models.ErrorResponse
// @Failure      404   {object}  models.ErrorResponse
// @Router       /api/calculator/quote/pdf [post]
func QuotePDF(store storage.CalculatorStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.QuoteRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Selections == nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Selections are required")
			return
		}

		calc, ok := activeCalculator(c, store, logger)
		if !ok {
			return
		}

		reference := repository.GenerateQuoteReference()
		doc := services.QuoteDocument{
			Reference: reference,
			Title:     calc.Title,
			Contact:   req.ContactInfo,
			Result:    calculator.Calculate(calc, req.Selections),
			IssuedAt:  time.Now(),
		}

		var buf bytes.Buffer
		if err := services.WriteQuotePDF(&buf, doc); err != nil {
			logger.Error("render quote pdf", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to generate quote PDF")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="quote-`+reference+`.pdf"`)
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	}
}
