package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/elbuensabor/restaurante-api/config"
	"github.com/elbuensabor/restaurante-api/controllers"
	"github.com/elbuensabor/restaurante-api/middlewares"
	"github.com/elbuensabor/restaurante-api/services"
)

// SetupRouter wires services, controllers and the route table around
// the injected pool.
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(300, 60).RateLimit())

	catalogSvc := services.NewCatalogService(db)
	orderSvc := services.NewOrderService(db, catalogSvc, cfg.App.StrictTransitions)
	reportSvc := services.NewReportService(db)
	imageSvc := services.NewImageService(cfg.Upload.Dir, cfg.App.BaseURL, cfg.Upload.MaxSizeBytes, cfg.Upload.AllowedMIME)

	userCtrl := controllers.NewUserController(db)
	categoriaCtrl := controllers.NewCategoriaController(db)
	menuCtrl := controllers.NewMenuController(db, catalogSvc)
	especialesCtrl := controllers.NewEspecialesController(db)
	mesaCtrl := controllers.NewMesaController(db, cfg.App.BaseURL+"/api/menu/web")
	ordenCtrl := controllers.NewOrdenController(db, orderSvc)
	reporteCtrl := controllers.NewReporteController(db, reportSvc)
	uploadCtrl := controllers.NewUploadController(imageSvc)

	// Uploaded images are served statically.
	r.Static("/uploads", "public/uploads")

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------

	auth := api.Group("/auth")
	auth.Use(middlewares.NewStrictRateLimiter())
	{
		auth.POST("/register", userCtrl.Register)
		auth.POST("/login", userCtrl.Login)
	}

	// Catalog browsing (QR web menu and mobile app, no auth)
	api.GET("/categorias", categoriaCtrl.GetCategorias)
	api.GET("/menu", menuCtrl.GetMenu)
	api.GET("/menu/web", menuCtrl.GetMenuWeb)
	api.GET("/menu/:item_id", menuCtrl.GetMenuItemByID)
	api.GET("/platos-especiales", menuCtrl.GetEspeciales)
	api.GET("/mesas", mesaCtrl.GetMesas)
	api.GET("/mesas/:mesa_id/qr", mesaCtrl.GetMesaQR)

	// Quick ordering from the web menu, no auth
	api.POST("/ordenes/quick", ordenCtrl.CreateQuickOrder)
	api.GET("/ordenes/mesa/:mesa", ordenCtrl.GetOrdersByMesa)
	api.POST("/ordenes/mesa/:mesa/cerrar", ordenCtrl.CloseMesa)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------

	authed := api.Group("/")
	authed.Use(middlewares.AuthMiddleware())
	{
		authed.GET("/auth/profile", userCtrl.GetProfile)

		// ORDERS (mesero/cocina)
		authed.POST("/ordenes", middlewares.RequireRole("mesero"), ordenCtrl.CreateOrder)
		authed.GET("/ordenes/:orden_id", middlewares.RequireRole("mesero", "cocina"), ordenCtrl.GetOrderByID)
		authed.PATCH("/ordenes/:orden_id/estado", middlewares.RequireRole("mesero", "cocina"), ordenCtrl.UpdateOrderStatus)
		authed.DELETE("/ordenes/:orden_id", middlewares.RequireRole(), ordenCtrl.DeleteOrder)

		// CATALOG ADMIN
		admin := authed.Group("/admin")
		admin.Use(middlewares.RequireRole())
		{
			admin.POST("/categorias", categoriaCtrl.CreateCategoria)
			admin.PATCH("/categorias/:cat_id", categoriaCtrl.UpdateCategoria)
			admin.DELETE("/categorias/:cat_id", categoriaCtrl.DeleteCategoria)

			admin.POST("/menu", menuCtrl.CreateMenuItem)
			admin.PATCH("/menu/:item_id", menuCtrl.UpdateMenuItem)
			admin.DELETE("/menu/:item_id", menuCtrl.DeleteMenuItem)

			admin.POST("/platos-especiales", especialesCtrl.CreateEspecial)
			admin.PATCH("/platos-especiales/:item_id", especialesCtrl.UpdateEspecial)
			admin.DELETE("/platos-especiales/:item_id", especialesCtrl.DeleteEspecial)

			admin.POST("/mesas", mesaCtrl.CreateMesa)
			admin.PATCH("/mesas/:mesa_id", mesaCtrl.UpdateMesa)
			admin.DELETE("/mesas/:mesa_id", mesaCtrl.DeleteMesa)
		}

		// REPORTS (admin)
		reportes := authed.Group("/reportes")
		reportes.Use(middlewares.RequireRole())
		{
			reportes.GET("/ventas", reporteCtrl.GetVentas)
			reportes.GET("/ventas/export", reporteCtrl.ExportVentas)
			reportes.GET("/productos-populares", reporteCtrl.GetProductosPopulares)
			reportes.GET("/mesas", reporteCtrl.GetMesas)
			reportes.GET("/dashboard", reporteCtrl.GetDashboard)
			reportes.GET("/ventas-periodo", reporteCtrl.GetVentasPorPeriodo)
			reportes.GET("/ventas-periodo/chart", reporteCtrl.GetVentasChart)
		}

		// UPLOADS (admin)
		authed.POST("/upload/image", middlewares.RequireRole(), uploadCtrl.UploadImage)
	}

	return r
}
