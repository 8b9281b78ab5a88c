package Controllers_test

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/elbuensabor/restaurante-api/models"
	"github.com/elbuensabor/restaurante-api/utils"
)

var ctrlDBCounter int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger("test")
	utils.InitJWT("secreto-de-prueba")

	dsn := fmt.Sprintf("file:ctrl%d?mode=memory&cache=shared", atomic.AddInt64(&ctrlDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.MenuItem{},
		&models.SpecialItem{},
		&models.Mesa{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// seedMenu loads two categories, three regular items and one special.
func seedMenu(t *testing.T, db *gorm.DB) {
	t.Helper()

	comidas := models.Category{Nombre: "Comidas", Activo: true}
	bebidas := models.Category{Nombre: "Bebidas", Activo: true}
	for _, c := range []*models.Category{&comidas, &bebidas} {
		if err := db.Create(c).Error; err != nil {
			t.Fatalf("seeding category: %v", err)
		}
	}

	items := []models.MenuItem{
		{ID: 1, CategoriaID: comidas.ID, Nombre: "Hamburguesa", Precio: 2500, Picante: true, Disponible: true},
		{ID: 2, CategoriaID: comidas.ID, Nombre: "Ensalada", Precio: 1800, Vegetariano: true, Disponible: true},
		{ID: 3, CategoriaID: bebidas.ID, Nombre: "Cerveza", Precio: 1500, Disponible: true},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("seeding item: %v", err)
		}
	}

	semana := time.Now().AddDate(0, 0, 7)
	special := models.SpecialItem{
		ID: 101, CategoriaID: comidas.ID, Nombre: "Cazuela del dia",
		Precio: 3200, Vegetariano: true, Disponible: true, FechaFin: &semana,
	}
	if err := db.Create(&special).Error; err != nil {
		t.Fatalf("seeding special: %v", err)
	}
}

func tokenFor(t *testing.T, userID uint, role string) string {
	t.Helper()
	token, err := utils.GenerateToken(userID, role)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return token
}
