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
	"github.com/elbuensabor/restaurante-api/middlewares"
	"github.com/elbuensabor/restaurante-api/models"
	"github.com/elbuensabor/restaurante-api/services"
)

func setupReporteRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	reporteCtrl := controllers.NewReporteController(db, services.NewReportService(db))

	reportes := router.Group("/reportes")
	reportes.Use(middlewares.AuthMiddleware(), middlewares.RequireRole())
	{
		reportes.GET("/ventas", reporteCtrl.GetVentas)
		reportes.GET("/ventas/export", reporteCtrl.ExportVentas)
		reportes.GET("/productos-populares", reporteCtrl.GetProductosPopulares)
		reportes.GET("/mesas", reporteCtrl.GetMesas)
		reportes.GET("/dashboard", reporteCtrl.GetDashboard)
		reportes.GET("/ventas-periodo", reporteCtrl.GetVentasPorPeriodo)
	}
	return router
}

// seedDeliveredOrders places two delivered orders through the order
// pipeline so the reports have real join rows to chew on.
func seedDeliveredOrders(t *testing.T, db *gorm.DB) {
	t.Helper()
	orders := services.NewOrderService(db, services.NewCatalogService(db), true)

	for _, in := range []services.OrderInput{
		{Mesa: "mesa_1", Items: []services.CartLine{{MenuItemID: 1, Cantidad: 2}}}, // 5000
		{Mesa: "mesa_2", Items: []services.CartLine{{MenuItemID: 3, Cantidad: 1}}}, // 1500
	} {
		o, err := orders.CreateOrder(&in)
		require.NoError(t, err)
		require.NoError(t, db.Model(&models.Order{}).
			Where("id = ?", o.ID).
			Update("estado", models.EstadoEntregada).Error)
	}
}

func getWithToken(router *gin.Engine, url, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestReportesRequireAdmin(t *testing.T) {
	db := setupTestDB(t)
	seedMenu(t, db)
	router := setupReporteRouter(db)

	w := getWithToken(router, "/reportes/ventas", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = getWithToken(router, "/reportes/ventas", tokenFor(t, 2, "mesero"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = getWithToken(router, "/reportes/ventas", tokenFor(t, 1, "admin"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetVentasEndpoint(t *testing.T) {
	db := setupTestDB(t)
	seedMenu(t, db)
	seedDeliveredOrders(t, db)
	router := setupReporteRouter(db)
	admin := tokenFor(t, 1, "admin")

	w := getWithToken(router, "/reportes/ventas", admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Ventas       []map[string]interface{} `json:"ventas"`
			Estadisticas struct {
				TotalVentas float64 `json:"total_ventas"`
				NumOrdenes  int     `json:"num_ordenes"`
			} `json:"estadisticas"`
			Meta struct {
				TotalRegistros int `json:"total_registros"`
			} `json:"meta"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Ventas, 2)
	assert.Equal(t, 6500.0, resp.Data.Estadisticas.TotalVentas)
	assert.Equal(t, 2, resp.Data.Estadisticas.NumOrdenes)
	assert.Equal(t, 2, resp.Data.Meta.TotalRegistros)

	// Pagination slices the detail but not the stats.
	w = getWithToken(router, "/reportes/ventas?limit=1", admin)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Ventas, 1)
	assert.Equal(t, 6500.0, resp.Data.Estadisticas.TotalVentas)

	// Bad dates are a 400.
	w = getWithToken(router, "/reportes/ventas?fecha_inicio=ayer", admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportVentasEndpoint(t *testing.T) {
	db := setupTestDB(t)
	seedMenu(t, db)
	seedDeliveredOrders(t, db)
	router := setupReporteRouter(db)
	admin := tokenFor(t, 1, "admin")

	w := getWithToken(router, "/reportes/ventas/export?formato=csv", admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ventas.csv")
	assert.Contains(t, w.Body.String(), "Hamburguesa")

	w = getWithToken(router, "/reportes/ventas/export?formato=xlsx", admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardEndpoint(t *testing.T) {
	db := setupTestDB(t)
	seedMenu(t, db)
	seedDeliveredOrders(t, db)
	router := setupReporteRouter(db)

	w := getWithToken(router, "/reportes/dashboard", tokenFor(t, 1, "admin"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Estadisticas struct {
				OrdenesHoy int     `json:"ordenes_hoy"`
				VentasHoy  float64 `json:"ventas_hoy"`
			} `json:"estadisticas"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Estadisticas.OrdenesHoy)
	assert.Equal(t, 6500.0, resp.Data.Estadisticas.VentasHoy)
}

func TestVentasPorPeriodoEndpoint(t *testing.T) {
	db := setupTestDB(t)
	seedMenu(t, db)
	seedDeliveredOrders(t, db)
	router := setupReporteRouter(db)
	admin := tokenFor(t, 1, "admin")

	w := getWithToken(router, "/reportes/ventas-periodo?periodo=dia", admin)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Periodos []map[string]interface{} `json:"periodos"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Periodos, 1)

	w = getWithToken(router, "/reportes/ventas-periodo?periodo=quincena", admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
