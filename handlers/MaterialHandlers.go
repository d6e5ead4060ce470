package handlers

import (
	"backend/models"
	"backend/repository"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateMaterialHandler creates a material
// @Summary Create material
// @Description Register a new material under the actor's company
// @Tags Materials
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body models.Material true "Material payload"
// @Success 201 {object} models.Material
// @Failure 400 {object} models.ErrorResponse
// @Router /api/materials [post]
func CreateMaterialHandler(db *sql.DB, store repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}

		var material models.Material
		if err := c.ShouldBindJSON(&material); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid input", Details: err.Error()})
			return
		}
		if material.ItemCode == "" || material.Name == "" || material.Unit == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Item code, name and unit are required"})
			return
		}

		material.ID = 0
		material.CompanyID = actor.CompanyID
		if err := store.Materials().Create(c.Request.Context(), &material); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create material", Details: err.Error()})
			return
		}
		c.JSON(http.StatusCreated, material)
	}
}

// GetMaterialHandler returns one material
// @Summary Get material
// @Description Retrieve a material in the actor's company
// @Tags Materials
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Material ID"
// @Success 200 {object} models.Material
// @Failure 404 {object} models.ErrorResponse
// @Router /api/materials/{id} [get]
func GetMaterialHandler(db *sql.DB, store repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		material, err := store.Materials().GetByID(c.Request.Context(), id)
		if err != nil || material.CompanyID != actor.CompanyID {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Material not found"})
			return
		}
		c.JSON(http.StatusOK, material)
	}
}

// ListMaterialsHandler lists the company's materials
// @Summary List materials
// @Description List materials for the actor's company
// @Tags Materials
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {array} models.Material
// @Router /api/materials [get]
func ListMaterialsHandler(db *sql.DB, store repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}

		materials, err := store.Materials().ListByCompany(c.Request.Context(), actor.CompanyID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list materials", Details: err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(materials), "materials": materials})
	}
}
