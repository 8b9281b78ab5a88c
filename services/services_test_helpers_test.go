package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/elbuensabor/restaurante-api/models"
	"github.com/elbuensabor/restaurante-api/utils"
)

var testDBCounter int64

// openTestDB gives each test its own in-memory database. The DSN name
// must be unique per test or the shared cache bleeds seed data across
// tests in the package.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger("test")

	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
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
		t.Fatalf("migrating: %v", err)
	}
	return db
}

// seedCatalog loads a small two-category catalog:
//
//	menu_items:        1 Hamburguesa $2500 (picante)     [Comidas]
//	                   2 Ensalada    $1800 (vegetariano) [Comidas]
//	                   3 Cerveza     $1500               [Bebidas]
//	                   4 Agotado     $1000, disponible=false
//	                   5 Oculto      $1000, category inactive
//	platos_especiales: 101 Cazuela del dia $3200 (vegetariano), sin fecha_fin
//	                   102 Vencido        $2000, expired yesterday
//	                   103 Promo semana   $2900, expires in a week
//
// Entries 4, 5 and 102 must never surface in the catalog.
func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()

	comidas := models.Category{Nombre: "Comidas", Activo: true}
	bebidas := models.Category{Nombre: "Bebidas", Activo: true}
	postres := models.Category{Nombre: "Postres", Activo: true} // stays empty
	cerrada := models.Category{Nombre: "Cerrada", Activo: true}
	for _, c := range []*models.Category{&comidas, &bebidas, &postres, &cerrada} {
		if err := db.Create(c).Error; err != nil {
			t.Fatalf("seeding category %s: %v", c.Nombre, err)
		}
	}
	// Zero-value bools fall back to column defaults on insert, so the
	// inactive flag has to be set with an explicit update.
	if err := db.Model(&cerrada).Update("activo", false).Error; err != nil {
		t.Fatalf("deactivating category: %v", err)
	}

	items := []models.MenuItem{
		{ID: 1, CategoriaID: comidas.ID, Nombre: "Hamburguesa", Precio: 2500, Picante: true, Disponible: true},
		{ID: 2, CategoriaID: comidas.ID, Nombre: "Ensalada", Precio: 1800, Vegetariano: true, Disponible: true},
		{ID: 3, CategoriaID: bebidas.ID, Nombre: "Cerveza", Precio: 1500, Disponible: true},
		{ID: 4, CategoriaID: comidas.ID, Nombre: "Agotado", Precio: 1000, Disponible: true},
		{ID: 5, CategoriaID: cerrada.ID, Nombre: "Oculto", Precio: 1000, Disponible: true},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("seeding menu item %s: %v", items[i].Nombre, err)
		}
	}
	if err := db.Model(&models.MenuItem{}).Where("id = ?", 4).Update("disponible", false).Error; err != nil {
		t.Fatalf("marking item unavailable: %v", err)
	}

	ayer := time.Now().AddDate(0, 0, -1)
	semana := time.Now().AddDate(0, 0, 7)
	specials := []models.SpecialItem{
		{ID: 101, CategoriaID: comidas.ID, Nombre: "Cazuela del dia", Precio: 3200, Vegetariano: true, Disponible: true},
		{ID: 102, CategoriaID: comidas.ID, Nombre: "Vencido", Precio: 2000, Disponible: true, FechaFin: &ayer},
		{ID: 103, CategoriaID: comidas.ID, Nombre: "Promo semana", Precio: 2900, Disponible: true, FechaFin: &semana},
	}
	for i := range specials {
		if err := db.Create(&specials[i]).Error; err != nil {
			t.Fatalf("seeding special %s: %v", specials[i].Nombre, err)
		}
	}
}

func entryNames(entries []models.CatalogEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Nombre)
	}
	return names
}
