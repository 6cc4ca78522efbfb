package handlers

import (
	"errors"
	"net/http"

	"estimator-backend/calculator"
	"estimator-backend/models"
	"estimator-backend/repository"
	"estimator-backend/storage"
	"estimator-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// saveRevision validates calc and stores it as the next version of the
// active calculator.
func saveRevision(c *gin.Context, store storage.CalculatorStore, logger *zap.Logger, calc *calculator.Calculator, previous string) (*calculator.Calculator, bool) {
	if err := calc.Validate(); err != nil {
		utils.ValidationErrorResponse(c, "Invalid calculator configuration", err)
		return nil, false
	}
	if calc.Version == "" || calc.Version == previous {
		calc.Version = repository.NextVersion(previous)
	}
	calc.IsActive = true

	saved, err := store.SaveCalculator(c.Request.Context(), calc)
	if err != nil {
		logger.Error("save calculator", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to update calculator configuration")
		return nil, false
	}
	logger.Info("calculator updated",
		zap.String("id", saved.ID),
		zap.String("version", saved.Version),
		zap.String("admin", adminName(c)),
	)
	return saved, true
}

func adminName(c *gin.Context) string {
	return currentAdmin(c).Username
}

// UpdateCalculator godoc
// @Summary      Replace the active calculator configuration
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      calculator.Calculator  true  "Calculator"
// @Success      200   {object}  models.CalculatorUpdateResponse
// @Failure      400   {object}  models.ErrorResponse
// @Failure      401   {object}  models.ErrorResponse
// @Router       /api/admin/calculator [put]
func UpdateCalculator(store storage.CalculatorStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var calc calculator.Calculator
		if err := c.ShouldBindJSON(&calc); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}

		previous := ""
		current, err := store.ActiveCalculator(c.Request.Context())
		switch {
		case err == nil:
			calc.ID = current.ID
			previous = current.Version
		case !errors.Is(err, storage.ErrNoActiveCalculator):
			logger.Error("load active calculator", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to update calculator configuration")
			return
		}

		saved, ok := saveRevision(c, store, logger, &calc, previous)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, models.CalculatorUpdateResponse{
			Message:    "Calculator updated successfully",
			Calculator: saved,
		})
	}
}

func pricingOf(calc *calculator.Calculator) models.PricingResponse {
	return models.PricingResponse{
		BasePrice:     calc.BasePrice,
		Currency:      calc.CurrencyCode(),
		PricingRules:  calc.PricingRules,
		PricingConfig: calc.PricingConfig,
	}
}

// GetPricing godoc
// @Summary      Get the pricing rules of the active calculator
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.PricingResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/admin/pricing [get]
func GetPricing(store storage.CalculatorStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		calc, ok := activeCalculator(c, store, logger)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, pricingOf(calc))
	}
}

// UpdatePricing godoc
// @Summary      Replace base price, pricing rules or pricing config
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      models.PricingUpdateRequest  true  "Sections to replace"
// @Success      200   {object}  models.PricingUpdateResponse
// @Failure      400   {object}  models.ErrorResponse
// @Failure      404   {object}  models.ErrorResponse
// @Router       /api/admin/pricing [put]
func UpdatePricing(store storage.CalculatorStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.PricingUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}

		calc, ok := activeCalculator(c, store, logger)
		if !ok {
			return
		}
		if req.BasePrice != nil {
			calc.BasePrice = *req.BasePrice
		}
		if req.PricingRules != nil {
			calc.PricingRules = *req.PricingRules
		}
		if req.PricingConfig != nil {
			calc.PricingConfig = *req.PricingConfig
		}

		saved, ok := saveRevision(c, store, logger, calc, calc.Version)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, models.PricingUpdateResponse{
			Message:         "Pricing configuration updated successfully",
			PricingResponse: pricingOf(saved),
		})
	}
}

// UpdatePricingRule godoc
// @Summary      Replace one pricing rule table
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        ruleType  path      string                   true  "Rule table, e.g. featureCosts"
// @Param        body      body      models.RuleTableRequest  true  "New table"
// @Success      200       {object}  map[string]interface{}
// @Failure      400       {object}  models.ErrorResponse
// @Failure      404       {object}  models.ErrorResponse
// @Router       /api/admin/pricing/{ruleType} [put]
func UpdatePricingRule(store storage.CalculatorStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ruleType := c.Param("ruleType")
		category, known := calculator.ParseRuleCategory(ruleType)
		if !known {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid rule type")
			return
		}

		var req models.RuleTableRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Rules are required")
			return
		}

		calc, ok := activeCalculator(c, store, logger)
		if !ok {
			return
		}
		calc.PricingRules.SetTable(category, req.Rules)

		saved, ok := saveRevision(c, store, logger, calc, calc.Version)
		if !ok {
			return
		}
		table := saved.PricingRules.Table(category)
		if table == nil {
			table = calculator.RuleTable{}
		}
		c.JSON(http.StatusOK, gin.H{
			"message": ruleType + " updated successfully",
			ruleType:  table,
		})
	}
}

// SeedCalculator godoc
// @Summary      Seed the calculator when none is configured
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.SeedResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /api/admin/seed-calculator [post]
func SeedCalculator(store storage.CalculatorStore, logger *zap.Logger, seed []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		calc, seeded, err := repository.SeedIfEmpty(c.Request.Context(), store, seed, repository.FormatAuto)
		if err != nil {
			logger.Error("seed calculator", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to seed calculator")
			return
		}

		message := "Calculator already exists"
		if seeded {
			message = "Calculator seeded successfully!"
		}
		c.JSON(http.StatusOK, models.SeedResponse{Message: message, StepCount: len(calc.Steps)})
	}
}
