package controllers

import (
	"net/http"

	"github.com/devleo10/dishly/services"
	"github.com/gin-gonic/gin"
)

// CatalogController serves the public restaurant and menu reads.
type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

func (cc *CatalogController) ListRestaurants(c *gin.Context) {
	restaurants, err := cc.catalog.ListRestaurants(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurants": restaurants})
}

func (cc *CatalogController) GetRestaurant(c *gin.Context) {
	id, ok := parseID(c, "id", "restaurant")
	if !ok {
		return
	}

	restaurant, err := cc.catalog.GetRestaurant(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

func (cc *CatalogController) ListMenuItems(c *gin.Context) {
	id, ok := parseID(c, "id", "restaurant")
	if !ok {
		return
	}

	items, err := cc.catalog.ListMenuItems(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menuItems": items})
}

func (cc *CatalogController) GetMenuItem(c *gin.Context) {
	id, ok := parseID(c, "id", "menu item")
	if !ok {
		return
	}

	item, err := cc.catalog.GetMenuItem(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menuItem": item})
}
