package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elbuensabor/restaurante-api/models"
	"github.com/elbuensabor/restaurante-api/utils"
)

func TestListCatalogMergesBothTables(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	svc := NewCatalogService(db)

	entries, err := svc.ListCatalog(nil)
	require.NoError(t, err)

	names := entryNames(entries)
	assert.ElementsMatch(t,
		[]string{"Hamburguesa", "Ensalada", "Cerveza", "Cazuela del dia", "Promo semana"},
		names)

	// Unavailable, expired and inactive-category entries never surface.
	assert.NotContains(t, names, "Agotado")
	assert.NotContains(t, names, "Vencido")
	assert.NotContains(t, names, "Oculto")

	especiales := 0
	for _, e := range entries {
		if e.EsEspecial {
			especiales++
			assert.NotZero(t, e.ID)
		}
	}
	assert.Equal(t, 2, especiales)
}

func TestListCatalogOrdering(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	svc := NewCatalogService(db)

	entries, err := svc.ListCatalog(nil)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	// Category name first, then item name.
	assert.Equal(t, []string{"Cerveza", "Cazuela del dia", "Ensalada", "Hamburguesa", "Promo semana"},
		entryNames(entries))
}

func TestListCatalogFilterAppliesToBothHalves(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	svc := NewCatalogService(db)

	veg := true
	entries, err := svc.ListCatalog(&CatalogFilter{Vegetariano: &veg})
	require.NoError(t, err)

	// One regular item and one special qualify; the filter must not
	// leak non-vegetarian rows from either table.
	assert.ElementsMatch(t, []string{"Ensalada", "Cazuela del dia"}, entryNames(entries))
}

func TestListCatalogCategoriaFilter(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	svc := NewCatalogService(db)

	var comidas models.Category
	require.NoError(t, db.Where("nombre = ?", "Comidas").First(&comidas).Error)

	entries, err := svc.ListCatalog(&CatalogFilter{CategoriaID: &comidas.ID})
	require.NoError(t, err)

	// Regular items and specials of the category both survive; the
	// other category's rows do not.
	assert.ElementsMatch(t,
		[]string{"Hamburguesa", "Ensalada", "Cazuela del dia", "Promo semana"},
		entryNames(entries))
	for _, e := range entries {
		assert.Equal(t, comidas.ID, e.CategoriaID)
	}
}

func TestListCatalogCarriesSpecialEndDate(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	svc := NewCatalogService(db)

	entries, err := svc.ListCatalog(nil)
	require.NoError(t, err)

	byName := map[string]models.CatalogEntry{}
	for _, e := range entries {
		byName[e.Nombre] = e
	}

	promo, ok := byName["Promo semana"]
	require.True(t, ok)
	require.NotNil(t, promo.FechaFin)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), *promo.FechaFin, 24*time.Hour)

	assert.Nil(t, byName["Cazuela del dia"].FechaFin)
	assert.Nil(t, byName["Hamburguesa"].FechaFin)
}

func TestListCatalogFilterIsSubset(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	svc := NewCatalogService(db)

	all, err := svc.ListCatalog(nil)
	require.NoError(t, err)

	picante := true
	filtered, err := svc.ListCatalog(&CatalogFilter{Picante: &picante})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(filtered), len(all))
	for _, e := range filtered {
		assert.True(t, e.Picante)
		assert.Contains(t, entryNames(all), e.Nombre)
	}
}

func TestListCatalogCombinedFilters(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	svc := NewCatalogService(db)

	veg, picante := true, true
	entries, err := svc.ListCatalog(&CatalogFilter{Vegetariano: &veg, Picante: &picante})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListCatalogGrouped(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	svc := NewCatalogService(db)

	grouped, err := svc.ListCatalogGrouped()
	require.NoError(t, err)

	assert.Equal(t, 5, grouped.TotalItems)
	assert.Equal(t, 2, grouped.TotalCategorias)

	catNames := []string{}
	for _, cat := range grouped.Categorias {
		catNames = append(catNames, cat.Nombre)
		assert.NotEmpty(t, cat.Items, "categoria %s sin items", cat.Nombre)
	}
	// Postres has no items and must be omitted entirely.
	assert.ElementsMatch(t, []string{"Comidas", "Bebidas"}, catNames)

	// The specials come back flat as well as inside their category.
	assert.ElementsMatch(t, []string{"Cazuela del dia", "Promo semana"},
		entryNames(grouped.PlatosEspeciales))
}

func TestListSpecialsExcludesExpired(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	svc := NewCatalogService(db)

	specials, err := svc.ListSpecials()
	require.NoError(t, err)

	names := entryNames(specials)
	assert.ElementsMatch(t, []string{"Cazuela del dia", "Promo semana"}, names)
	for _, e := range specials {
		assert.True(t, e.EsEspecial)
	}
}

func TestGetEntryByID(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	svc := NewCatalogService(db)

	entry, err := svc.GetEntryByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Hamburguesa", entry.Nombre)
	assert.Equal(t, 2500.0, entry.Precio)
	assert.False(t, entry.EsEspecial)
	assert.Equal(t, "Comidas", entry.CategoriaNombre)

	entry, err = svc.GetEntryByID(101)
	require.NoError(t, err)
	assert.Equal(t, "Cazuela del dia", entry.Nombre)
	assert.True(t, entry.EsEspecial)

	_, err = svc.GetEntryByID(9999)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestGetEntryByIDIgnoresAvailability(t *testing.T) {
	db := openTestDB(t)
	seedCatalog(t, db)
	svc := NewCatalogService(db)

	// Item 4 is out of the catalog listing but still resolvable, so
	// historical order lines keep a name.
	entry, err := svc.GetEntryByID(4)
	require.NoError(t, err)
	assert.Equal(t, "Agotado", entry.Nombre)
}
