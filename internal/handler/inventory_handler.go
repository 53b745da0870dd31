package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bitfantasy/nimo-inventory/internal/repository"
	"github.com/bitfantasy/nimo-inventory/internal/service"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	svc *service.InventoryService
}

func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

func (h *InventoryHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.InventoryListParams{
		CompanyID: c.Query("company_id"),
		Page:      page,
		Size:      size,
	}
	items, total, err := h.svc.List(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": items, "total": total, "page": page, "size": size}})
}

func (h *InventoryHandler) GetByProduct(c *gin.Context) {
	inv, err := h.svc.GetByProduct(c.Param("productId"))
	if err != nil {
		if errors.Is(err, service.ErrInventoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": "inventory record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": inv})
}

func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req service.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	inv, err := h.svc.Adjust(req)
	if err != nil {
		if errors.Is(err, service.ErrInventoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": "inventory record not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": inv})
}
