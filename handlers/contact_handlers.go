package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"estimator-backend/models"
	"estimator-backend/storage"
	"estimator-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// contactForm returns the active form, saving the default on first use.
func contactForm(ctx context.Context, store storage.ContactStore) (*models.ContactForm, error) {
	form, err := store.ActiveContactForm(ctx)
	if errors.Is(err, storage.ErrNoContactForm) {
		def := models.DefaultContactForm()
		return store.SaveContactForm(ctx, &def)
	}
	return form, err
}

// GetContactForm godoc
// @Summary      Active contact form configuration
// @Tags         contact
// @Produce      json
// @Success      200  {object}  models.ContactForm
// @Router       /api/contact-form [get]
func GetContactForm(store storage.ContactStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := contactForm(c.Request.Context(), store)
		if err != nil {
			logger.Error("load contact form", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch contact form")
			return
		}
		c.JSON(http.StatusOK, form)
	}
}

// UpdateContactForm godoc
// @Summary      Update the contact form
// @Description  Only the fields present in the body change.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      models.ContactFormUpdateRequest  true  "Fields to change"
// @Success      200   {object}  models.ContactForm
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/contact-form [put]
func UpdateContactForm(store storage.ContactStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ContactFormUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}

		form, err := contactForm(c.Request.Context(), store)
		if err != nil {
			logger.Error("load contact form", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to update contact form")
			return
		}
		req.Apply(form)

		saved, err := store.SaveContactForm(c.Request.Context(), form)
		if err != nil {
			logger.Error("save contact form", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to update contact form")
			return
		}
		logger.Info("contact form updated", zap.String("id", saved.ID), zap.String("by", adminName(c)))
		c.JSON(http.StatusOK, saved)
	}
}

// CreateContactSubmission godoc
// @Summary      Send a contact message
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body      models.ContactSubmission  true  "Message"
// @Success      201   {object}  models.ContactSubmission
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/contact-submissions [post]
func CreateContactSubmission(store storage.ContactStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ContactSubmission
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "A name and a valid email are required")
			return
		}

		sub := &models.ContactSubmission{
			Name:          strings.TrimSpace(req.Name),
			Company:       req.Company,
			Goal:          req.Goal,
			Date:          req.Date,
			Budget:        req.Budget,
			Email:         strings.TrimSpace(req.Email),
			Details:       req.Details,
			PrivacyPolicy: req.PrivacyPolicy,
			CreatedAt:     time.Now().UTC(),
		}
		if err := store.CreateContactSubmission(c.Request.Context(), sub); err != nil {
			logger.Error("create contact submission", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to save contact submission")
			return
		}
		logger.Info("contact submission received", zap.String("id", sub.ID))
		c.JSON(http.StatusCreated, sub)
	}
}

// ListContactSubmissions godoc
// @Summary      List contact messages, newest first
// @Tags         contact
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size (default 50, max 500)"
// @Param        offset  query     int  false  "Rows to skip"
// @Success      200     {object}  models.ContactSubmissionListResponse
// @Router       /api/contact-submissions [get]
func ListContactSubmissions(store storage.ContactStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		opts := storage.ListOptions{Limit: limit, Offset: offset}.Normalize()

		subs, total, err := store.ListContactSubmissions(c.Request.Context(), opts)
		if err != nil {
			logger.Error("list contact submissions", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch contact submissions")
			return
		}
		if subs == nil {
			subs = []models.ContactSubmission{}
		}
		c.JSON(http.StatusOK, models.ContactSubmissionListResponse{
			Submissions: subs,
			Total:       total,
			Limit:       opts.Limit,
			Offset:      opts.Offset,
		})
	}
}

// DeleteContactSubmission godoc
// @Summary      Delete a contact message
// @Tags         contact
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Contact submission ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/contact-submissions/{id} [delete]
func DeleteContactSubmission(store storage.ContactStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := store.DeleteContactSubmission(c.Request.Context(), c.Param("id"))
		if errors.Is(err, storage.ErrContactSubmissionNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Contact submission not found")
			return
		}
		if err != nil {
			logger.Error("delete contact submission", zap.String("id", c.Param("id")), zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete contact submission")
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Contact submission deleted successfully"})
	}
}
