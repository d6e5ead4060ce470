package handlers

import (
	"backend/models"
	"backend/services"
	"backend/utils"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

// validTemplateTypes is the closed set of template slots the mailer knows.
var validTemplateTypes = map[string]bool{
	"rfq_invitation": true,
	"rfq_reminder":   true,
	"notification":   true,
}

// CreateEmailTemplateHandler creates a new email template
// @Summary Create email template
// @Description Create a new email template; setting it default unsets the previous default of the same type
// @Tags Email Templates
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param template body models.EmailTemplate true "Email template data"
// @Success 201 {object} models.EmailTemplate
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/email-templates [post]
func CreateEmailTemplateHandler(db *sql.DB, emails *services.EmailService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}

		var request models.EmailTemplate
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		if !validTemplateTypes[request.TemplateType] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template type"})
			return
		}
		if err := emails.ValidateTemplate(request.Subject); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subject template", "details": err.Error()})
			return
		}
		if err := emails.ValidateTemplate(request.Body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body template", "details": err.Error()})
			return
		}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}
		defer tx.Rollback()

		// Only one default per template type
		if request.IsDefault {
			_, err = tx.Exec("UPDATE email_templates SET is_default = false WHERE template_type = $1", request.TemplateType)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update existing defaults"})
				return
			}
		}

		ctx, cancel := utils.GetFastQueryContext(c.Request.Context())
		defer cancel()

		now := time.Now()
		err = tx.QueryRowContext(ctx, `
			INSERT INTO email_templates (name, subject, body, template_type, is_default, is_active, cc, bcc, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, true, $6, $7, $8, $9, $9)
			RETURNING id`,
			request.Name, request.Subject, request.Body, request.TemplateType,
			request.IsDefault, pq.Array(request.CC), pq.Array(request.BCC), actor.ID, now,
		).Scan(&request.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create template", "details": err.Error()})
			return
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
			return
		}

		request.IsActive = true
		request.CreatedBy = &actor.ID
		request.CreatedAt = now
		request.UpdatedAt = now
		c.JSON(http.StatusCreated, request)
	}
}

// ListEmailTemplatesHandler lists email templates
// @Summary List email templates
// @Description List active email templates, optionally filtered by type
// @Tags Email Templates
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param type query string false "Template type"
// @Success 200 {array} models.EmailTemplate
// @Router /api/email-templates [get]
func ListEmailTemplatesHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c, db); !ok {
			return
		}

		query := `
			SELECT id, name, subject, body, template_type, is_default, is_active, cc, bcc, created_at, updated_at
			FROM email_templates WHERE is_active = true`
		args := []any{}
		if templateType := c.Query("type"); templateType != "" {
			query += " AND template_type = $1"
			args = append(args, templateType)
		}
		query += " ORDER BY template_type, is_default DESC, name"

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()

		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list templates", "details": err.Error()})
			return
		}
		defer rows.Close()

		templates := []models.EmailTemplate{}
		for rows.Next() {
			var t models.EmailTemplate
			err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &t.TemplateType,
				&t.IsDefault, &t.IsActive, &t.CC, &t.BCC, &t.CreatedAt, &t.UpdatedAt)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan template", "details": err.Error()})
				return
			}
			templates = append(templates, t)
		}

		c.JSON(http.StatusOK, gin.H{"count": len(templates), "templates": templates})
	}
}

// PreviewEmailTemplateHandler renders a template with sample data
// @Summary Preview email template
// @Description Render a template body to plain text with sample variable values
// @Tags Email Templates
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body object true "Template body to preview"
// @Success 200 {object} object
// @Failure 400 {object} models.ErrorResponse
// @Router /api/email-templates/preview [post]
func PreviewEmailTemplateHandler(db *sql.DB, emails *services.EmailService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c, db); !ok {
			return
		}

		var request struct {
			Body string `json:"body" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}
		if err := emails.ValidateTemplate(request.Body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template", "details": err.Error()})
			return
		}

		sample := models.EmailData{
			VendorName:         "Sample Vendor Pvt Ltd",
			ContactPerson:      "A. Sharma",
			Email:              "vendor@example.com",
			CompanyName:        "Sample Company",
			RFQNumber:          "RFQ-2025-0001",
			SubmissionDeadline: "30 Sep 2025",
			ItemCount:          "3",
			PaymentTerms:       "Net 30",
			DeliveryTerms:      "FOB factory",
			SupportEmail:       "support@example.com",
		}
		c.JSON(http.StatusOK, gin.H{"preview": emails.PreviewEmailAsText(request.Body, sample)})
	}
}

// EmailTemplateVariablesHandler lists the supported template variables
// @Summary List template variables
// @Description List the variables available for substitution in email templates
// @Tags Email Templates
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {array} models.EmailTemplateVariable
// @Router /api/email-templates/variables [get]
func EmailTemplateVariablesHandler(db *sql.DB, emails *services.EmailService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c, db); !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"variables": emails.GetAvailableVariables()})
	}
}
