package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"ecofinds/models"
	"ecofinds/services"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productSvc *services.ProductService
}

func NewProductController(productSvc *services.ProductService) *ProductController {
	return &ProductController{productSvc: productSvc}
}

func listCacheKey(limit int) string {
	return fmt.Sprintf("ecofinds:products_list_l%d", limit)
}

func invalidateListCache() {
	if models.RedisClient == nil {
		return
	}
	ctx := context.Background()
	iter := models.RedisClient.Scan(ctx, 0, "ecofinds:products_list_*", 0).Iterator()
	for iter.Next(ctx) {
		models.RedisClient.Del(ctx, iter.Val())
	}
}

// List godoc
// @Summary Browse listings
// @Description Approved listings, filtered by category and/or title search
// @Tags Products
// @Produce json
// @Param category query string false "Category filter"
// @Param search query string false "Title search"
// @Param limit query int false "Max results" default(20)
// @Success 200 {object} models.Response
// @Router /products [get]
func (ctrl *ProductController) List(c *gin.Context) {
	category := c.Query("category")
	search := c.Query("search")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	// Only the unfiltered front page is worth caching.
	cacheable := category == "" && search == "" && models.RedisClient != nil
	cacheKey := listCacheKey(limit)

	if cacheable {
		cached, err := models.RedisClient.Get(c.Request.Context(), cacheKey).Result()
		if err == nil {
			c.Data(200, "application/json", []byte(cached))
			return
		}
	}

	products, err := ctrl.productSvc.List(c.Request.Context(), category, search, limit)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to retrieve products"})
		return
	}

	response := gin.H{"success": true, "message": "Products retrieved", "data": products}

	if cacheable {
		jsonData, _ := json.Marshal(response)
		models.RedisClient.Set(c.Request.Context(), cacheKey, string(jsonData), 5*time.Minute)
	}

	c.JSON(200, response)
}

// GetByID godoc
// @Summary Get listing by ID
// @Description Listing details with owner summary and resolved image
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (ctrl *ProductController) GetByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	product, err := ctrl.productSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to retrieve product"})
		return
	}
	if product == nil {
		c.JSON(404, gin.H{"success": false, "message": "Product not found", "data": nil})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Product retrieved", "data": product})
}

// GetMyProducts godoc
// @Summary My listings
// @Description All of the caller's listings, any approval state, newest first
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /me/products [get]
func (ctrl *ProductController) GetMyProducts(c *gin.Context) {
	userID := c.GetInt("user_id")

	products, err := ctrl.productSvc.GetMyProducts(c.Request.Context(), userID)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to retrieve products"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Products retrieved", "data": products})
}

// Create godoc
// @Summary Create listing
// @Description Create a listing owned by the caller
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateProductRequest true "Listing"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /products [post]
func (ctrl *ProductController) Create(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	product, err := ctrl.productSvc.Create(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, services.ErrAuthRequired) {
			c.JSON(401, gin.H{"success": false, "message": "Must be authenticated to create products"})
			return
		}
		c.JSON(400, gin.H{"success": false, "message": err.Error()})
		return
	}

	invalidateListCache()

	c.JSON(201, gin.H{"success": true, "message": "Product created successfully", "data": product})
}

// Update godoc
// @Summary Update listing
// @Description Partial update of the caller's own listing
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body models.UpdateProductRequest true "Fields to change"
// @Success 200 {object} models.Response
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [patch]
func (ctrl *ProductController) Update(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, _ := strconv.Atoi(c.Param("id"))

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	product, err := ctrl.productSvc.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAuthRequired):
			c.JSON(401, gin.H{"success": false, "message": "Must be authenticated"})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(404, gin.H{"success": false, "message": "Product not found"})
		case errors.Is(err, services.ErrNotAuthorized):
			c.JSON(403, gin.H{"success": false, "message": "Not authorized"})
		default:
			c.JSON(400, gin.H{"success": false, "message": err.Error()})
		}
		return
	}

	invalidateListCache()

	c.JSON(200, gin.H{"success": true, "message": "Product updated successfully", "data": product})
}

// Delete godoc
// @Summary Delete listing
// @Description Delete the caller's own listing
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [delete]
func (ctrl *ProductController) Delete(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, _ := strconv.Atoi(c.Param("id"))

	if err := ctrl.productSvc.Delete(c.Request.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, services.ErrAuthRequired):
			c.JSON(401, gin.H{"success": false, "message": "Must be authenticated"})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(404, gin.H{"success": false, "message": "Product not found"})
		case errors.Is(err, services.ErrNotAuthorized):
			c.JSON(403, gin.H{"success": false, "message": "Not authorized"})
		default:
			c.JSON(500, gin.H{"success": false, "message": "Failed to delete product"})
		}
		return
	}

	invalidateListCache()

	c.JSON(200, gin.H{"success": true, "message": "Product deleted permanently"})
}
