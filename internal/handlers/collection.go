// internal/handlers/collection.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/shopworks/storefront/internal/services"
	"github.com/shopworks/storefront/internal/utils"
)

type CollectionHandler struct {
	catalogService *services.CatalogService
}

func NewCollectionHandler(catalogService *services.CatalogService) *CollectionHandler {
	return &CollectionHandler{catalogService: catalogService}
}

// GET /collections
func (h *CollectionHandler) GetCollections(c *gin.Context) {
	collections, err := h.catalogService.ListCollections()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"collections": collections,
	})
}

// GET /collections/:id
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	collection, err := h.catalogService.GetCollection(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"collection": collection,
	})
}

// POST /collections
func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	var req services.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid input", err.Error())
		return
	}

	collection, err := h.catalogService.CreateCollection(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"collection": collection,
	})
}

// PUT /collections/:id
func (h *CollectionHandler) UpdateCollection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid input", err.Error())
		return
	}

	collection, err := h.catalogService.UpdateCollection(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"collection": collection,
	})
}

// DELETE /collections/:id
func (h *CollectionHandler) DeleteCollection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCollection(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
