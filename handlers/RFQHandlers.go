package handlers

import (
	"backend/services"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetRFQHandler returns one RFQ
// @Summary Get RFQ
// @Description Retrieve a single RFQ with line items and vendor invitations
// @Tags RFQs
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "RFQ ID"
// @Success 200 {object} models.RFQ
// @Failure 404 {object} models.ErrorResponse
// @Router /api/rfqs/{id} [get]
func GetRFQHandler(db *sql.DB, svc *services.RFQService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		rfq, err := svc.Get(c.Request.Context(), actor, id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, rfq)
	}
}

// ListRFQsHandler lists the company's RFQs
// @Summary List RFQs
// @Description List RFQs for the actor's company
// @Tags RFQs
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {array} models.RFQ
// @Router /api/rfqs [get]
func ListRFQsHandler(db *sql.DB, svc *services.RFQService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}

		rfqs, err := svc.List(c.Request.Context(), actor)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(rfqs), "rfqs": rfqs})
	}
}

// SendRFQHandler dispatches RFQ invitations to vendors
// @Summary Send RFQ
// @Description Email every invited vendor and move the RFQ to sent; per-vendor failures are reported, not fatal
// @Tags RFQs
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "RFQ ID"
// @Success 200 {object} models.RFQSendResult
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/rfqs/{id}/send [post]
func SendRFQHandler(db *sql.DB, svc *services.RFQService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		result, err := svc.Send(c.Request.Context(), actor, id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// CloseRFQHandler closes a sent RFQ
// @Summary Close RFQ
// @Description Move a sent RFQ to closed; no further quotations are accepted
// @Tags RFQs
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "RFQ ID"
// @Success 200 {object} models.RFQ
// @Failure 409 {object} models.ErrorResponse
// @Router /api/rfqs/{id}/close [post]
func CloseRFQHandler(db *sql.DB, svc *services.RFQService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		rfq, err := svc.Close(c.Request.Context(), actor, id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, rfq)
	}
}

// CancelRFQHandler cancels an open or sent RFQ
// @Summary Cancel RFQ
// @Description Move an open or sent RFQ to cancelled
// @Tags RFQs
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "RFQ ID"
// @Success 200 {object} models.RFQ
// @Failure 409 {object} models.ErrorResponse
// @Router /api/rfqs/{id}/cancel [post]
func CancelRFQHandler(db *sql.DB, svc *services.RFQService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		rfq, err := svc.Cancel(c.Request.Context(), actor, id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, rfq)
	}
}

// AwardRFQHandler awards a closed RFQ
// @Summary Award RFQ
// @Description Move a closed RFQ to awarded
// @Tags RFQs
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "RFQ ID"
// @Success 200 {object} models.RFQ
// @Failure 409 {object} models.ErrorResponse
// @Router /api/rfqs/{id}/award [post]
func AwardRFQHandler(db *sql.DB, svc *services.RFQService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		rfq, err := svc.Award(c.Request.Context(), actor, id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, rfq)
	}
}

// RFQDispatchHistoryHandler returns the email audit trail for an RFQ
// @Summary RFQ dispatch history
// @Description List the append-only inbound and outbound email log for an RFQ
// @Tags RFQs
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "RFQ ID"
// @Success 200 {array} models.EmailDispatchLog
// @Failure 404 {object} models.ErrorResponse
// @Router /api/rfqs/{id}/dispatch-history [get]
func RFQDispatchHistoryHandler(db *sql.DB, svc *services.RFQService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		logs, err := svc.DispatchHistory(c.Request.Context(), actor, id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(logs), "dispatch_log": logs})
	}
}

// RFQPDFHandler renders the printable RFQ document
// @Summary Download RFQ PDF
// @Description Render the RFQ as a PDF with an embedded QR code
// @Tags RFQs
// @Produce application/pdf
// @Param Authorization header string true "Bearer token"
// @Param id path int true "RFQ ID"
// @Success 200 {file} binary
// @Failure 404 {object} models.ErrorResponse
// @Router /api/rfqs/{id}/pdf [get]
func RFQPDFHandler(db *sql.DB, svc *services.PDFService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		pdf, err := svc.RenderRFQ(c.Request.Context(), actor, id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=rfq.pdf")
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}
