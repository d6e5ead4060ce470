package handlers

import (
	"backend/models"
	"backend/services"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateRequisitionHandler creates a purchase requisition in draft
// @Summary Create purchase requisition
// @Description Create a new purchase requisition in draft status with an allocated PR number
// @Tags Requisitions
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body models.RequisitionRequest true "Requisition payload"
// @Success 201 {object} models.PurchaseRequisition
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/requisitions [post]
func CreateRequisitionHandler(db *sql.DB, svc *services.RequisitionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}

		var req models.RequisitionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid input", Details: err.Error()})
			return
		}

		pr, err := svc.Create(c.Request.Context(), actor, req)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, pr)
	}
}

// UpdateRequisitionHandler updates a draft purchase requisition
// @Summary Update purchase requisition
// @Description Replace a draft requisition's fields and line items; non-draft requisitions are immutable
// @Tags Requisitions
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Requisition ID"
// @Param request body models.RequisitionRequest true "Requisition payload"
// @Success 200 {object} models.PurchaseRequisition
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/requisitions/{id} [put]
func UpdateRequisitionHandler(db *sql.DB, svc *services.RequisitionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var req models.RequisitionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid input", Details: err.Error()})
			return
		}

		pr, err := svc.Update(c.Request.Context(), actor, id, req)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, pr)
	}
}

// GetRequisitionHandler returns one purchase requisition
// @Summary Get purchase requisition
// @Description Retrieve a single requisition with its line items
// @Tags Requisitions
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Requisition ID"
// @Success 200 {object} models.PurchaseRequisition
// @Failure 404 {object} models.ErrorResponse
// @Router /api/requisitions/{id} [get]
func GetRequisitionHandler(db *sql.DB, svc *services.RequisitionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		pr, err := svc.Get(c.Request.Context(), actor, id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, pr)
	}
}

// ListRequisitionsHandler lists the company's purchase requisitions
// @Summary List purchase requisitions
// @Description List requisitions for the actor's company, optionally filtered by status
// @Tags Requisitions
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param status query string false "Filter by status"
// @Success 200 {array} models.PurchaseRequisition
// @Failure 400 {object} models.ErrorResponse
// @Router /api/requisitions [get]
func ListRequisitionsHandler(db *sql.DB, svc *services.RequisitionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}

		var status models.RequisitionStatus
		if raw := c.Query("status"); raw != "" {
			parsed, ok := models.ParseRequisitionStatus(raw)
			if !ok {
				c.JSON(http.StatusBadRequest, models.ErrorResponse{
					Error: "Unknown status " + raw,
					Field: "status",
				})
				return
			}
			status = parsed
		}

		prs, err := svc.List(c.Request.Context(), actor, status)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(prs), "requisitions": prs})
	}
}

// SubmitRequisitionHandler submits a draft requisition for approval
// @Summary Submit purchase requisition
// @Description Move a draft requisition to submitted and notify approvers
// @Tags Requisitions
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Requisition ID"
// @Success 200 {object} models.PurchaseRequisition
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/requisitions/{id}/submit [post]
func SubmitRequisitionHandler(db *sql.DB, svc *services.RequisitionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		pr, err := svc.Submit(c.Request.Context(), actor, id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, pr)
	}
}

// DecideRequisitionHandler approves or rejects a submitted requisition
// @Summary Decide purchase requisition
// @Description Approve or reject a submitted requisition; rejection requires a reason
// @Tags Requisitions
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Requisition ID"
// @Param request body models.RequisitionDecisionRequest true "Decision payload"
// @Success 200 {object} models.PurchaseRequisition
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/requisitions/{id}/decision [post]
func DecideRequisitionHandler(db *sql.DB, svc *services.RequisitionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var req models.RequisitionDecisionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid input", Details: err.Error()})
			return
		}

		pr, err := svc.Decide(c.Request.Context(), actor, id, req.Approved, req.Reason)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, pr)
	}
}

// ConvertRequisitionHandler converts an approved requisition into an RFQ
// @Summary Convert requisition to RFQ
// @Description Create an RFQ from an approved requisition with copied line items and vendor invitations
// @Tags Requisitions
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Requisition ID"
// @Param request body models.ConvertToRFQRequest true "Conversion payload"
// @Success 201 {object} models.RFQ
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/requisitions/{id}/convert [post]
func ConvertRequisitionHandler(db *sql.DB, svc *services.RequisitionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		var req models.ConvertToRFQRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid input", Details: err.Error()})
			return
		}

		rfq, err := svc.ConvertToRFQ(c.Request.Context(), actor, id, req)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, rfq)
	}
}
