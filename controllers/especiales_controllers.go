package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/elbuensabor/restaurante-api/models"
	"github.com/elbuensabor/restaurante-api/utils"
)

type EspecialesController struct {
	DB *gorm.DB
}

func NewEspecialesController(db *gorm.DB) *EspecialesController {
	return &EspecialesController{DB: db}
}

type especialInput struct {
	menuItemInput
	// fecha_fin as YYYY-MM-DD; empty clears the expiry.
	FechaFin string `json:"fecha_fin"`
}

func (in *especialInput) applySpecial(item *models.SpecialItem) error {
	var base models.MenuItem
	if err := in.menuItemInput.apply(&base); err != nil {
		return err
	}

	item.CategoriaID = base.CategoriaID
	item.Nombre = base.Nombre
	item.Precio = base.Precio
	item.Descripcion = base.Descripcion
	item.Disponible = base.Disponible
	item.Vegetariano = base.Vegetariano
	item.Picante = base.Picante
	item.Vegano = base.Vegano
	item.SinGluten = base.SinGluten
	item.TiempoPreparacion = base.TiempoPreparacion
	item.Ingredientes = base.Ingredientes
	item.Calorias = base.Calorias
	item.ImagenThumbnail = base.ImagenThumbnail
	item.ImagenMedium = base.ImagenMedium
	item.ImagenLarge = base.ImagenLarge
	item.ImagenFilename = base.ImagenFilename
	item.ImagenMetadata = base.ImagenMetadata

	if in.FechaFin == "" {
		item.FechaFin = nil
		return nil
	}
	fin, err := time.ParseInLocation("2006-01-02", in.FechaFin, time.Local)
	if err != nil {
		return errors.New("fecha_fin debe ser YYYY-MM-DD")
	}
	item.FechaFin = &fin
	return nil
}

// CreateEspecial (admin).
func (ec *EspecialesController) CreateEspecial(c *gin.Context) {
	var input especialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var categoria models.Category
	if err := ec.DB.First(&categoria, input.CategoriaID).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("categoria inexistente"))
		return
	}

	var item models.SpecialItem
	if err := input.applySpecial(&item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := ec.DB.Create(&item).Error; err != nil {
		utils.RespondAppError(c, utils.ErrStoreConstraint)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Plato especial creado", item)
}

// UpdateEspecial (admin).
func (ec *EspecialesController) UpdateEspecial(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("id invalido"))
		return
	}

	var item models.SpecialItem
	if err := ec.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("plato especial no encontrado"))
		return
	}

	var input especialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := input.applySpecial(&item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := ec.DB.Save(&item).Error; err != nil {
		utils.RespondAppError(c, utils.ErrStoreConstraint)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Plato especial actualizado", item)
}

// DeleteEspecial (admin).
func (ec *EspecialesController) DeleteEspecial(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("id invalido"))
		return
	}

	if err := ec.DB.Delete(&models.SpecialItem{}, id).Error; err != nil {
		utils.RespondAppError(c, utils.ErrStoreUnavailable)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Plato especial eliminado", gin.H{"item_id": id})
}
