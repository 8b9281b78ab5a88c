package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/elbuensabor/restaurante-api/models"
	"github.com/elbuensabor/restaurante-api/utils"
)

type MesaController struct {
	DB *gorm.DB

	// MenuURL is the public web-menu address encoded in table QR codes.
	MenuURL string
}

func NewMesaController(db *gorm.DB, menuURL string) *MesaController {
	return &MesaController{DB: db, MenuURL: menuURL}
}

// GetMesas lists all tables.
func (mc *MesaController) GetMesas(c *gin.Context) {
	var mesas []models.Mesa
	if err := mc.DB.Order("numero").Find(&mesas).Error; err != nil {
		utils.RespondAppError(c, utils.ErrStoreUnavailable)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Mesas", mesas)
}

// CreateMesa (admin).
func (mc *MesaController) CreateMesa(c *gin.Context) {
	var input struct {
		Numero    int    `json:"numero" binding:"required"`
		Capacidad int    `json:"capacidad"`
		Ubicacion string `json:"ubicacion"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	mesa := models.Mesa{
		Numero:     input.Numero,
		Capacidad:  input.Capacidad,
		Ubicacion:  input.Ubicacion,
		Disponible: true,
	}
	if mesa.Capacidad == 0 {
		mesa.Capacidad = 4
	}

	if err := mc.DB.Create(&mesa).Error; err != nil {
		utils.RespondAppError(c, utils.ErrStoreConstraint)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Mesa creada", mesa)
}

// UpdateMesa (admin) toggles availability or edits capacity/location.
func (mc *MesaController) UpdateMesa(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("mesa_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("id de mesa invalido"))
		return
	}

	var mesa models.Mesa
	if err := mc.DB.First(&mesa, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("mesa no encontrada"))
		return
	}

	var input struct {
		Capacidad  *int    `json:"capacidad"`
		Ubicacion  *string `json:"ubicacion"`
		Disponible *bool   `json:"disponible"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if input.Capacidad != nil {
		mesa.Capacidad = *input.Capacidad
	}
	if input.Ubicacion != nil {
		mesa.Ubicacion = *input.Ubicacion
	}
	if input.Disponible != nil {
		mesa.Disponible = *input.Disponible
	}

	if err := mc.DB.Save(&mesa).Error; err != nil {
		utils.RespondAppError(c, utils.ErrStoreConstraint)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Mesa actualizada", mesa)
}

// DeleteMesa (admin).
func (mc *MesaController) DeleteMesa(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("mesa_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("id de mesa invalido"))
		return
	}

	if err := mc.DB.Delete(&models.Mesa{}, id).Error; err != nil {
		utils.RespondAppError(c, utils.ErrStoreUnavailable)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Mesa eliminada", gin.H{"mesa_id": id})
}

// GetMesaQR renders the QR code that takes a seated guest to the web
// menu for that table.
func (mc *MesaController) GetMesaQR(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("mesa_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("id de mesa invalido"))
		return
	}

	var mesa models.Mesa
	if err := mc.DB.First(&mesa, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("mesa no encontrada"))
		return
	}

	target := fmt.Sprintf("%s?mesa=%d", mc.MenuURL, mesa.Numero)
	png, err := qrcode.Encode(target, qrcode.Medium, 256)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
