package handlers

import (
	"backend/models"
	"backend/repository"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateVendorHandler creates a vendor
// @Summary Create vendor
// @Description Register a new vendor under the actor's company
// @Tags Vendors
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body models.Vendor true "Vendor payload"
// @Success 201 {object} models.Vendor
// @Failure 400 {object} models.ErrorResponse
// @Router /api/vendors [post]
func CreateVendorHandler(db *sql.DB, store repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}

		var vendor models.Vendor
		if err := c.ShouldBindJSON(&vendor); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid input", Details: err.Error()})
			return
		}
		if vendor.Name == "" || vendor.Email == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Vendor name and email are required"})
			return
		}

		vendor.ID = 0
		vendor.CompanyID = actor.CompanyID
		vendor.IsActive = true
		if err := store.Vendors().Create(c.Request.Context(), &vendor); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create vendor", Details: err.Error()})
			return
		}
		c.JSON(http.StatusCreated, vendor)
	}
}

// GetVendorHandler returns one vendor
// @Summary Get vendor
// @Description Retrieve a vendor in the actor's company
// @Tags Vendors
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Vendor ID"
// @Success 200 {object} models.Vendor
// @Failure 404 {object} models.ErrorResponse
// @Router /api/vendors/{id} [get]
func GetVendorHandler(db *sql.DB, store repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		vendor, err := store.Vendors().GetByID(c.Request.Context(), id)
		if err != nil || vendor.CompanyID != actor.CompanyID {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Vendor not found"})
			return
		}
		c.JSON(http.StatusOK, vendor)
	}
}

// ListVendorsHandler lists the company's vendors
// @Summary List vendors
// @Description List vendors for the actor's company
// @Tags Vendors
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {array} models.Vendor
// @Router /api/vendors [get]
func ListVendorsHandler(db *sql.DB, store repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}

		vendors, err := store.Vendors().ListByCompany(c.Request.Context(), actor.CompanyID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list vendors", Details: err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(vendors), "vendors": vendors})
	}
}

// UpdateVendorHandler updates a vendor
// @Summary Update vendor
// @Description Update vendor master data in the actor's company
// @Tags Vendors
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Vendor ID"
// @Param request body models.Vendor true "Vendor payload"
// @Success 200 {object} models.Vendor
// @Failure 404 {object} models.ErrorResponse
// @Router /api/vendors/{id} [put]
func UpdateVendorHandler(db *sql.DB, store repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		existing, err := store.Vendors().GetByID(c.Request.Context(), id)
		if err != nil || existing.CompanyID != actor.CompanyID {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Vendor not found"})
			return
		}

		var input models.Vendor
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid input", Details: err.Error()})
			return
		}

		existing.Name = input.Name
		existing.Email = input.Email
		existing.Phone = input.Phone
		existing.Address = input.Address
		existing.GSTNumber = input.GSTNumber
		existing.ContactPerson = input.ContactPerson
		existing.Rating = input.Rating
		existing.IsActive = input.IsActive
		if err := store.Vendors().Update(c.Request.Context(), existing); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update vendor", Details: err.Error()})
			return
		}
		c.JSON(http.StatusOK, existing)
	}
}
