package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/elbuensabor/restaurante-api/config"
	"github.com/elbuensabor/restaurante-api/models"
	"github.com/elbuensabor/restaurante-api/router"
	"github.com/elbuensabor/restaurante-api/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.InitLogger("development")
		utils.ErrorLogger.Fatalf("Error cargando configuracion: %v", err)
	}

	utils.InitLogger(cfg.App.Environment)
	utils.InitJWT(cfg.App.JWTSecret)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Error conectando a la base de datos: %v", err)
	}

	if err := autoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Error en la migracion: %v", err)
	}

	r := router.SetupRouter(db, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Servidor escuchando en el puerto %s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatalf("Error en el servidor: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.InfoLogger.Println("Apagando servidor...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Printf("Apagado forzado: %v", err)
	}
	if err := config.CloseDB(db); err != nil {
		utils.ErrorLogger.Printf("Error cerrando el pool: %v", err)
	}
	utils.InfoLogger.Println("Servidor detenido")
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.MenuItem{},
		&models.SpecialItem{},
		&models.Mesa{},
		&models.Order{},
		&models.OrderItem{},
	)
}
