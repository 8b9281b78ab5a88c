package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/elbuensabor/restaurante-api/models"
	"github.com/elbuensabor/restaurante-api/services"
	"github.com/elbuensabor/restaurante-api/utils"
)

type MenuController struct {
	DB      *gorm.DB
	Catalog *services.CatalogService
}

func NewMenuController(db *gorm.DB, catalog *services.CatalogService) *MenuController {
	return &MenuController{DB: db, Catalog: catalog}
}

// GetMenu returns the unified catalog. Query filters: categoria_id,
// vegetariano, picante.
func (mc *MenuController) GetMenu(c *gin.Context) {
	filter, err := parseCatalogFilter(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	entries, err := mc.Catalog.ListCatalog(filter)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu", entries)
}

// GetMenuWeb returns the grouped web-menu shape for the QR client.
func (mc *MenuController) GetMenuWeb(c *gin.Context) {
	grouped, err := mc.Catalog.ListCatalogGrouped()
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu web", grouped)
}

// GetEspeciales returns only the current special items.
func (mc *MenuController) GetEspeciales(c *gin.Context) {
	specials, err := mc.Catalog.ListSpecials()
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Platos especiales", specials)
}

// GetMenuItemByID resolves a catalog entry from either table.
func (mc *MenuController) GetMenuItemByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("id invalido"))
		return
	}

	entry, err := mc.Catalog.GetEntryByID(uint(id))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Detalle de item", entry)
}

// menuItemInput is shared by the create/update admin endpoints. Image
// URLs come from a prior call to the upload endpoint.
type menuItemInput struct {
	CategoriaID       uint                   `json:"categoria_id" binding:"required"`
	Nombre            string                 `json:"nombre" binding:"required"`
	Precio            float64                `json:"precio" binding:"required,gt=0"`
	Descripcion       string                 `json:"descripcion"`
	Disponible        *bool                  `json:"disponible"`
	Vegetariano       bool                   `json:"vegetariano"`
	Picante           bool                   `json:"picante"`
	Vegano            bool                   `json:"vegano"`
	SinGluten         bool                   `json:"sin_gluten"`
	TiempoPreparacion int                    `json:"tiempo_preparacion"`
	Ingredientes      string                 `json:"ingredientes"`
	Calorias          *int                   `json:"calorias"`
	ImagenThumbnail   *string                `json:"imagen_thumbnail"`
	ImagenMedium      *string                `json:"imagen_medium"`
	ImagenLarge       *string                `json:"imagen_large"`
	ImagenFilename    *string                `json:"imagen_filename"`
	ImagenMetadata    map[string]interface{} `json:"imagen_metadata"`
}

func (in *menuItemInput) apply(item *models.MenuItem) error {
	item.CategoriaID = in.CategoriaID
	item.Nombre = in.Nombre
	item.Precio = in.Precio
	item.Descripcion = in.Descripcion
	if in.Disponible != nil {
		item.Disponible = *in.Disponible
	} else {
		item.Disponible = true
	}
	item.Vegetariano = in.Vegetariano
	item.Picante = in.Picante
	item.Vegano = in.Vegano
	item.SinGluten = in.SinGluten
	item.TiempoPreparacion = in.TiempoPreparacion
	item.Ingredientes = in.Ingredientes
	item.Calorias = in.Calorias
	item.ImagenThumbnail = in.ImagenThumbnail
	item.ImagenMedium = in.ImagenMedium
	item.ImagenLarge = in.ImagenLarge
	item.ImagenFilename = in.ImagenFilename
	if in.ImagenMetadata != nil {
		meta, err := metadataJSON(in.ImagenMetadata)
		if err != nil {
			return err
		}
		item.ImagenMetadata = meta
	}
	return nil
}

// CreateMenuItem (admin).
func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var input menuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var categoria models.Category
	if err := mc.DB.First(&categoria, input.CategoriaID).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("categoria inexistente"))
		return
	}

	var item models.MenuItem
	if err := input.apply(&item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondAppError(c, utils.ErrStoreConstraint)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Item de menu creado", item)
}

// UpdateMenuItem (admin).
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("id invalido"))
		return
	}

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("item no encontrado"))
		return
	}

	var input menuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := input.apply(&item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondAppError(c, utils.ErrStoreConstraint)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item actualizado", item)
}

// DeleteMenuItem (admin). Historical order items keep their price
// snapshots; only the catalog row goes away.
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("id invalido"))
		return
	}

	if err := mc.DB.Delete(&models.MenuItem{}, id).Error; err != nil {
		utils.RespondAppError(c, utils.ErrStoreUnavailable)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item eliminado", gin.H{"item_id": id})
}

func parseCatalogFilter(c *gin.Context) (*services.CatalogFilter, error) {
	filter := &services.CatalogFilter{}
	hasAny := false

	if v := c.Query("categoria_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, errors.New("categoria_id invalido")
		}
		cid := uint(id)
		filter.CategoriaID = &cid
		hasAny = true
	}
	if v := c.Query("vegetariano"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("vegetariano invalido")
		}
		filter.Vegetariano = &b
		hasAny = true
	}
	if v := c.Query("picante"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("picante invalido")
		}
		filter.Picante = &b
		hasAny = true
	}

	if !hasAny {
		return nil, nil
	}
	return filter, nil
}

func metadataJSON(meta map[string]interface{}) (datatypes.JSON, error) {
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
