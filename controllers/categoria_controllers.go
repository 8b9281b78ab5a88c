package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/elbuensabor/restaurante-api/models"
	"github.com/elbuensabor/restaurante-api/utils"
)

type CategoriaController struct {
	DB *gorm.DB
}

func NewCategoriaController(db *gorm.DB) *CategoriaController {
	return &CategoriaController{DB: db}
}

// GetCategorias lists active categories.
func (cc *CategoriaController) GetCategorias(c *gin.Context) {
	var categorias []models.Category
	if err := cc.DB.Where("activo = ?", true).Order("nombre").Find(&categorias).Error; err != nil {
		utils.RespondAppError(c, utils.ErrStoreUnavailable)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Categorias activas", categorias)
}

// CreateCategoria (admin).
func (cc *CategoriaController) CreateCategoria(c *gin.Context) {
	var input struct {
		Nombre      string `json:"nombre" binding:"required"`
		Descripcion string `json:"descripcion"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	categoria := models.Category{
		Nombre:      input.Nombre,
		Descripcion: input.Descripcion,
		Activo:      true,
	}
	if err := cc.DB.Create(&categoria).Error; err != nil {
		utils.RespondAppError(c, utils.ErrStoreConstraint)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Categoria creada", categoria)
}

// UpdateCategoria (admin). Also the soft-disable path via activo.
func (cc *CategoriaController) UpdateCategoria(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("cat_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("id de categoria invalido"))
		return
	}

	var categoria models.Category
	if err := cc.DB.First(&categoria, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("categoria no encontrada"))
		return
	}

	var input struct {
		Nombre      *string `json:"nombre"`
		Descripcion *string `json:"descripcion"`
		Activo      *bool   `json:"activo"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if input.Nombre != nil {
		categoria.Nombre = *input.Nombre
	}
	if input.Descripcion != nil {
		categoria.Descripcion = *input.Descripcion
	}
	if input.Activo != nil {
		categoria.Activo = *input.Activo
	}

	if err := cc.DB.Save(&categoria).Error; err != nil {
		utils.RespondAppError(c, utils.ErrStoreConstraint)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Categoria actualizada", categoria)
}

// DeleteCategoria (admin) refuses while items still reference the
// category; disable via activo instead.
func (cc *CategoriaController) DeleteCategoria(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("cat_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("id de categoria invalido"))
		return
	}

	var count int64
	cc.DB.Model(&models.MenuItem{}).Where("categoria_id = ?", id).Count(&count)
	var specials int64
	cc.DB.Model(&models.SpecialItem{}).Where("categoria_id = ?", id).Count(&specials)
	if count+specials > 0 {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("la categoria tiene items asociados; desactivela en su lugar"))
		return
	}

	if err := cc.DB.Delete(&models.Category{}, id).Error; err != nil {
		utils.RespondAppError(c, utils.ErrStoreUnavailable)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Categoria eliminada", gin.H{"cat_id": id})
}
