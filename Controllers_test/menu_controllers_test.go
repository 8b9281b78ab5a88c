package Controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/elbuensabor/restaurante-api/controllers"
	"github.com/elbuensabor/restaurante-api/services"
)

func setupMenuRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	menuCtrl := controllers.NewMenuController(db, services.NewCatalogService(db))
	router.GET("/menu", menuCtrl.GetMenu)
	router.GET("/menu/web", menuCtrl.GetMenuWeb)
	router.GET("/menu/:item_id", menuCtrl.GetMenuItemByID)
	router.GET("/platos-especiales", menuCtrl.GetEspeciales)
	return router
}

func TestGetMenuUnified(t *testing.T) {
	db := setupTestDB(t)
	seedMenu(t, db)
	router := setupMenuRouter(db)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/menu", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 4)

	especiales := 0
	for _, e := range resp.Data {
		if e["es_especial"] == true {
			especiales++
		}
	}
	assert.Equal(t, 1, especiales)
}

func TestGetMenuFiltered(t *testing.T) {
	db := setupTestDB(t)
	seedMenu(t, db)
	router := setupMenuRouter(db)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/menu?vegetariano=true", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	for _, e := range resp.Data {
		assert.Equal(t, true, e["vegetariano"])
	}

	// Malformed filter values are rejected, not ignored.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/menu?vegetariano=quizas", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMenuWebGrouped(t *testing.T) {
	db := setupTestDB(t)
	seedMenu(t, db)
	router := setupMenuRouter(db)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/menu/web", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Categorias []struct {
				Nombre string                   `json:"nombre"`
				Items  []map[string]interface{} `json:"items"`
			} `json:"categorias"`
			PlatosEspeciales []map[string]interface{} `json:"platos_especiales"`
			TotalItems       int                      `json:"total_items"`
			TotalCategorias  int                      `json:"total_categorias"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 4, resp.Data.TotalItems)
	assert.Equal(t, 2, resp.Data.TotalCategorias)
	assert.Len(t, resp.Data.PlatosEspeciales, 1)
	for _, cat := range resp.Data.Categorias {
		assert.NotEmpty(t, cat.Items)
	}
}

func TestGetMenuItemByID(t *testing.T) {
	db := setupTestDB(t)
	seedMenu(t, db)
	router := setupMenuRouter(db)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/menu/101", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Cazuela del dia", resp.Data["nombre"])
	assert.Equal(t, true, resp.Data["es_especial"])

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/menu/9999", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetEspeciales(t *testing.T) {
	db := setupTestDB(t)
	seedMenu(t, db)
	router := setupMenuRouter(db)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/platos-especiales", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Cazuela del dia", resp.Data[0]["nombre"])
}
