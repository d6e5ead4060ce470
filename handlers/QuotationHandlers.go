package handlers

import (
	"backend/models"
	"backend/services"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

// IngestInboundEmailHandler records an inbound vendor email as a quotation
// @Summary Ingest inbound vendor email
// @Description Bind an inbound email to a quotation response; a repeated message id returns the existing response flagged duplicate
// @Tags Quotations
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "RFQ ID"
// @Param vendor_id path int true "Vendor ID"
// @Param request body models.InboundEmail true "Inbound email payload"
// @Success 200 {object} services.IngestResult
// @Success 201 {object} services.IngestResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/rfqs/{id}/vendors/{vendor_id}/inbound-email [post]
func IngestInboundEmailHandler(db *sql.DB, svc *services.ReconciliationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		rfqID, ok := pathID(c, "id")
		if !ok {
			return
		}
		vendorID, ok := pathID(c, "vendor_id")
		if !ok {
			return
		}

		var mail models.InboundEmail
		if err := c.ShouldBindJSON(&mail); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid input", Details: err.Error()})
			return
		}

		result, err := svc.IngestInboundEmail(c.Request.Context(), actor, rfqID, vendorID, mail)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		status := http.StatusCreated
		if result.Duplicate {
			status = http.StatusOK
		}
		c.JSON(status, result)
	}
}

// ListPendingQuotationsHandler lists responses awaiting review
// @Summary List pending quotation responses
// @Description List quotation responses in pending_review for the actor's company
// @Tags Quotations
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} models.PendingResponsesResponse
// @Router /api/quotations/pending [get]
func ListPendingQuotationsHandler(db *sql.DB, svc *services.ReconciliationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}

		responses, err := svc.ListPending(c.Request.Context(), actor)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PendingResponsesResponse{
			Count:     len(responses),
			Responses: responses,
		})
	}
}

// MarkQuotationReviewedHandler marks a response as reviewed
// @Summary Mark quotation reviewed
// @Description Move a quotation response from pending_review to reviewed
// @Tags Quotations
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Quotation response ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/quotations/{id}/review [post]
func MarkQuotationReviewedHandler(db *sql.DB, svc *services.ReconciliationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		if err := svc.MarkReviewed(c.Request.Context(), actor, id); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Quotation marked as reviewed", ID: id})
	}
}

// SetQuotationStatusHandler changes a response's commercial status
// @Summary Set quotation status
// @Description Set a quotation response to under_review, rejected or withdrawn
// @Tags Quotations
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Quotation response ID"
// @Param request body object true "Status payload"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/quotations/{id}/status [put]
func SetQuotationStatusHandler(db *sql.DB, svc *services.ReconciliationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid input", Details: err.Error()})
			return
		}

		if err := svc.SetQuotationStatus(c.Request.Context(), actor, id, models.QuotationStatus(req.Status)); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Quotation status updated", ID: id})
	}
}

// RunDedupSweepHandler runs the duplicate-quotation cleanup for the company
// @Summary Run quotation dedup sweep
// @Description Group responses by (rfq, vendor, message id), keep the earliest row per group and delete the rest
// @Tags Quotations
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} models.DedupSweepSummary
// @Failure 403 {object} models.ErrorResponse
// @Router /api/quotations/dedup-sweep [post]
func RunDedupSweepHandler(db *sql.DB, svc *services.ReconciliationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		summary, err := svc.RunDedupSweep(c.Request.Context(), actor, actor.CompanyID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}
