package handlers

import (
	"backend/models"
	"backend/services"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CompareQuotationsHandler returns the side-by-side comparison for an RFQ
// @Summary Compare quotations
// @Description Build the per-item price matrix and the overall vendor ranking for an RFQ
// @Tags Comparison
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "RFQ ID"
// @Success 200 {object} models.ComparisonResult
// @Failure 404 {object} models.ErrorResponse
// @Router /api/rfqs/{id}/comparison [get]
func CompareQuotationsHandler(db *sql.DB, svc *services.ComparisonService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		result, err := svc.Compare(c.Request.Context(), actor, id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// RecordSelectionsHandler records vendor selections for an RFQ
// @Summary Record vendor selections
// @Description Persist one immutable decision row per selected (item, vendor) pair
// @Tags Comparison
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "RFQ ID"
// @Param request body []models.VendorSelectionInput true "Selections payload"
// @Success 201 {array} models.ComparisonDecision
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/rfqs/{id}/selections [post]
func RecordSelectionsHandler(db *sql.DB, svc *services.ComparisonService) gin.HandlerFunc {
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
			Selections []models.VendorSelectionInput `json:"selections" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid input", Details: err.Error()})
			return
		}

		decisions, err := svc.RecordSelections(c.Request.Context(), actor, id, req.Selections)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"count": len(decisions), "decisions": decisions})
	}
}

// ListSelectionsHandler lists recorded vendor selections for an RFQ
// @Summary List vendor selections
// @Description List the decision rows recorded against an RFQ
// @Tags Comparison
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "RFQ ID"
// @Success 200 {array} models.ComparisonDecision
// @Failure 404 {object} models.ErrorResponse
// @Router /api/rfqs/{id}/selections [get]
func ListSelectionsHandler(db *sql.DB, svc *services.ComparisonService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		decisions, err := svc.Selections(c.Request.Context(), actor, id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(decisions), "decisions": decisions})
	}
}

// ExportComparisonHandler downloads the comparison as an Excel workbook
// @Summary Export comparison workbook
// @Description Render the item matrix and overall ranking as a two-sheet xlsx file
// @Tags Comparison
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param Authorization header string true "Bearer token"
// @Param id path int true "RFQ ID"
// @Success 200 {file} binary
// @Failure 404 {object} models.ErrorResponse
// @Router /api/rfqs/{id}/comparison/export [get]
func ExportComparisonHandler(db *sql.DB, svc *services.ExportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		workbook, err := svc.ComparisonWorkbook(c.Request.Context(), actor, id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=comparison.xlsx")
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
	}
}
