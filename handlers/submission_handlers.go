package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"estimator-backend/calculator"
	"estimator-backend/models"
	"estimator-backend/services"
	"estimator-backend/storage"
	"estimator-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// QuoteNotifier delivers quote e-mails for a new submission.
type QuoteNotifier interface {
	SendQuoteEmails(data models.QuoteEmailData) error
}

// SubmissionOptions carries the settings the submission handlers share.
type SubmissionOptions struct {
	PublicBaseURL string
	SupportEmail  string
	Notifier      QuoteNotifier
}

func loadSubmission(c *gin.Context, store storage.SubmissionStore, logger *zap.Logger) (*models.CalculatorSubmission, bool) {
	sub, err := store.GetSubmission(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrSubmissionNotFound) {
		utils.ErrorResponse(c, http.StatusNotFound, "Calculator submission not found")
		return nil, false
	}
	if err != nil {
		logger.Error("load submission", zap.String("id", c.Param("id")), zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch calculator submission")
		return nil, false
	}
	return sub, true
}

// CreateSubmission godoc
// @Summary      Submit final selections for a quote
// @Description  The price is recomputed from the active calculator; any client-side result is ignored.
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        body  body      models.CreateSubmissionRequest  true  "Selections and contact"
// @Success      201   {object}  models.CalculatorSubmission
// @Failure      400   {object}  models.ErrorResponse
// @Failure      404   {object}  models.ErrorResponse
// @Router       /api/calculator-submissions [post]
func CreateSubmission(store storage.Store, logger *zap.Logger, opts SubmissionOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateSubmissionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			if req.Selections == nil {
				utils.ErrorResponse(c, http.StatusBadRequest, "Selections are required")
				return
			}
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}

		calc, ok := activeCalculator(c, store, logger)
		if !ok {
			return
		}

		sub := &models.CalculatorSubmission{
			Selections:  req.Selections,
			Result:      calculator.Calculate(calc, req.Selections),
			ContactInfo: req.ContactInfo,
			CreatedAt:   time.Now().UTC(),
		}
		if err := store.CreateSubmission(c.Request.Context(), sub); err != nil {
			logger.Error("create submission", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to save calculator submission")
			return
		}

		if opts.Notifier != nil {
			data := services.BuildQuoteEmailData(sub, opts.PublicBaseURL, opts.SupportEmail)
			go notifyQuote(opts.Notifier, data, logger)
		}

		c.JSON(http.StatusCreated, sub)
	}
}

func notifyQuote(n QuoteNotifier, data models.QuoteEmailData, logger *zap.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic sending quote e-mail", zap.Any("panic", r))
		}
	}()
	if err := n.SendQuoteEmails(data); err != nil {
		logger.Warn("quote e-mail failed", zap.String("submission_id", data.SubmissionID), zap.Error(err))
	}
}

// ListSubmissions godoc
// @Summary      List calculator submissions, newest first
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size (default 50, max 500)"
// @Param        offset  query     int  false  "Rows to skip"
// @Success      200     {object}  models.SubmissionListResponse
// @Router       /api/calculator-submissions [get]
func ListSubmissions(store storage.SubmissionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		opts := storage.ListOptions{Limit: limit, Offset: offset}.Normalize()

		subs, total, err := store.ListSubmissions(c.Request.Context(), opts)
		if err != nil {
			logger.Error("list submissions", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch calculator submissions")
			return
		}
		if subs == nil {
			subs = []models.CalculatorSubmission{}
		}
		c.JSON(http.StatusOK, models.SubmissionListResponse{
			Submissions: subs,
			Total:       total,
			Limit:       opts.Limit,
			Offset:      opts.Offset,
		})
	}
}

// GetSubmission godoc
// @Summary      Get one calculator submission
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Submission ID"
// @Success      200  {object}  models.CalculatorSubmission
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/calculator-submissions/{id} [get]
func GetSubmission(store storage.SubmissionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, ok := loadSubmission(c, store, logger)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, sub)
	}
}

// DeleteSubmission godoc
// @Summary      Delete a calculator submission
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Submission ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/calculator-submissions/{id} [delete]
func DeleteSubmission(store storage.SubmissionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := store.DeleteSubmission(c.Request.Context(), c.Param("id"))
		if errors.Is(err, storage.ErrSubmissionNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Calculator submission not found")
			return
		}
		if err != nil {
			logger.Error("delete submission", zap.String("id", c.Param("id")), zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete calculator submission")
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Calculator submission deleted successfully"})
	}
}

// SubmissionQRCode godoc
// @Summary      QR badge for a submission
// @Tags         submissions
// @Produce      image/jpeg
// @Param        id   path      string  true  "Submission ID"
// @Success      200  {file}    file    "JPEG image"
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/calculator-submissions/{id}/qr [get]
func SubmissionQRCode(store storage.SubmissionStore, logger *zap.Logger, baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, ok := loadSubmission(c, store, logger)
		if !ok {
			return
		}
		img, err := services.RenderSubmissionBadge(sub, baseURL)
		if err != nil {
			logger.Error("render qr badge", zap.String("id", sub.ID), zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "QR code generation failed")
			return
		}
		c.Data(http.StatusOK, "image/jpeg", img)
	}
}

// SubmissionPDF godoc
// @Summary      Quote PDF for a stored submission
// @Tags         submissions
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path      string  true  "Submission ID"
// @Success      200  {file}    file    "PDF document"
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/calculator-submissions/{id}/pdf [get]
func SubmissionPDF(store storage.Store, logger *zap.Logger, baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, ok := loadSubmission(c, store, logger)
		if !ok {
			return
		}

		title := ""
		if calc, err := store.ActiveCalculator(c.Request.Context()); err == nil {
			title = calc.Title
		}

		var buf bytes.Buffer
		if err := services.WriteQuotePDF(&buf, services.SubmissionQuoteDocument(sub, title, baseURL)); err != nil {
			logger.Error("render submission pdf", zap.String("id", sub.ID), zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to generate quote PDF")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="quote-`+sub.ID+`.pdf"`)
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	}
}

// ExportSubmissions godoc
// @Summary      Export all submissions as an Excel workbook
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}  file  "XLSX workbook"
// @Router       /api/admin/calculator-submissions/export [get]
func ExportSubmissions(store storage.SubmissionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var all []models.CalculatorSubmission
		for offset := 0; ; offset += storage.MaxListLimit {
			page, total, err := store.ListSubmissions(c.Request.Context(), storage.ListOptions{Limit: storage.MaxListLimit, Offset: offset})
			if err != nil {
				logger.Error("export submissions", zap.Error(err))
				utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to export calculator submissions")
				return
			}
			all = append(all, page...)
			if len(page) == 0 || int64(len(all)) >= total {
				break
			}
		}

		var buf bytes.Buffer
		if err := services.WriteSubmissionsWorkbook(&buf, all); err != nil {
			logger.Error("write submissions workbook", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to export calculator submissions")
			return
		}
		filename := "calculator-submissions-" + time.Now().Format("20060102") + ".xlsx"
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	}
}
