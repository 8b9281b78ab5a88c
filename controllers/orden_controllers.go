package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/elbuensabor/restaurante-api/models"
	"github.com/elbuensabor/restaurante-api/services"
	"github.com/elbuensabor/restaurante-api/utils"
)

type OrdenController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewOrdenController(db *gorm.DB, orders *services.OrderService) *OrdenController {
	return &OrdenController{DB: db, Orders: orders}
}

// CreateQuickOrder places an order without authentication; this is the
// QR web menu path. Body: {mesa, items:[{menu_item_id, cantidad}]}.
func (oc *OrdenController) CreateQuickOrder(c *gin.Context) {
	var input services.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.CreateOrder(&input)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Quick order #%d created for %q, total %s",
		order.ID, order.Mesa, utils.FormatCurrency(order.Total))

	utils.RespondJSON(c, http.StatusCreated, "Orden creada", order)
}

// CreateOrder places an order on behalf of the authenticated staff
// member (mobile app path).
func (oc *OrdenController) CreateOrder(c *gin.Context) {
	var input services.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if userID, ok := c.Get("user_id"); ok {
		if id, ok := userID.(uint); ok {
			input.UserID = &id
		}
	}

	order, err := oc.Orders.CreateOrder(&input)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Orden creada", order)
}

// GetOrdersByMesa lists the orders bound to one destination.
func (oc *OrdenController) GetOrdersByMesa(c *gin.Context) {
	mesa := c.Param("mesa")
	if mesa == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("mesa requerida"))
		return
	}

	orders, err := oc.Orders.GetOrdersByMesa(mesa)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ordenes de la mesa", orders)
}

// GetOrderByID returns one order with its items.
func (oc *OrdenController) GetOrderByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("orden_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("id de orden invalido"))
		return
	}

	order, err := oc.Orders.GetOrderByID(uint(id))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Detalle de orden", order)
}

// CloseMesa settles every active order on a destination.
// Body: {metodo_pago}.
func (oc *OrdenController) CloseMesa(c *gin.Context) {
	mesa := c.Param("mesa")

	var input struct {
		MetodoPago string `json:"metodo_pago" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := oc.Orders.CloseMesa(mesa, input.MetodoPago)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Mesa %q closed: %d orders, total %s",
		mesa, len(result.Orders), utils.FormatCurrency(result.Total))

	utils.RespondJSON(c, http.StatusOK, "Mesa cerrada", result)
}

// UpdateOrderStatus moves an order through its lifecycle.
// Body: {estado}.
func (oc *OrdenController) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("orden_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("id de orden invalido"))
		return
	}

	var input struct {
		Estado string `json:"estado" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.UpdateStatus(uint(id), input.Estado)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Estado actualizado", order)
}

// DeleteOrder (admin). Items go with the order.
func (oc *OrdenController) DeleteOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("orden_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("id de orden invalido"))
		return
	}

	err = oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("orden_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, id).Error
	})
	if err != nil {
		utils.RespondAppError(c, utils.ErrStoreUnavailable)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Orden eliminada", gin.H{"orden_id": id})
}
