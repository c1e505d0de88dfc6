package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/http/middleware"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/models"
	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/store"
	apperrors "github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/pkg/errors"
)

type ProductHandler struct {
	Store  *store.Store
	Logger *slog.Logger
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.Store.Products(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	product, err := h.Store.ProductByID(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": product})
}

type createProductReq struct {
	Name  string  `json:"name" binding:"required"`
	Type  string  `json:"type"`
	Price float64 `json:"price" binding:"required,gt=0"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	userID := middleware.MustUserID(c)

	var req createProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product := models.Product{
		Name:    req.Name,
		Type:    req.Type,
		Price:   req.Price,
		OwnerID: userID,
	}
	if err := h.Store.CreateProduct(c.Request.Context(), &product); err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": product})
}

type updateProductReq struct {
	Name  *string  `json:"name"`
	Type  *string  `json:"type"`
	Price *float64 `json:"price" binding:"omitempty,gt=0"`
}

func (h *ProductHandler) Update(c *gin.Context) {
	userID := middleware.MustUserID(c)
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req updateProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.Store.UpdateProduct(c.Request.Context(), id, userID, store.ProductUpdate{
		Name:  req.Name,
		Type:  req.Type,
		Price: req.Price,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	userID := middleware.MustUserID(c)
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.Store.DeleteProduct(c.Request.Context(), id, userID); err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

// paramID parses the :id path parameter, answering 404 on garbage since no
// resource can have a non-numeric id.
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		fail(c, nil, apperrors.NotFound("not found"))
		return 0, false
	}
	return uint(id), true
}
