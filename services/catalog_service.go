package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/elbuensabor/restaurante-api/models"
	"github.com/elbuensabor/restaurante-api/utils"
)

// CatalogService presents menu_items and platos_especiales as one
// orderable catalog.
type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

// CatalogFilter holds the optional facet filters. Nil means "don't
// filter on this facet".
type CatalogFilter struct {
	CategoriaID *uint
	Vegetariano *bool
	Picante     *bool
}

// GroupedCatalog is the web-menu shape: items grouped by category plus
// the specials pulled out flat.
type GroupedCatalog struct {
	Categorias       []models.CatalogCategory `json:"categorias"`
	PlatosEspeciales []models.CatalogEntry    `json:"platos_especiales"`
	TotalItems       int                      `json:"total_items"`
	TotalCategorias  int                      `json:"total_categorias"`
}

const catalogColumns = `%s.id, %s.nombre, %s.precio, %s.categoria_id, c.nombre AS categoria_nombre,
	%s.descripcion, %s.vegetariano, %s.picante, %s.vegano, %s.sin_gluten,
	%s.tiempo_preparacion, %s.imagen_thumbnail, %s.imagen_medium`

func selectColumns(alias string) string {
	n := strings.Count(catalogColumns, "%s")
	args := make([]interface{}, n)
	for i := range args {
		args[i] = alias
	}
	return fmt.Sprintf(catalogColumns, args...)
}

// catalogRow is the scan target of the UNION. The end date comes back
// as text because a compound SELECT strips the column's declared type,
// which leaves the sqlite driver unable to hand gorm a time.Time.
type catalogRow struct {
	models.CatalogEntry
	FechaFinText sql.NullString
}

// ListCatalog returns every currently orderable entry from both item
// tables, tagged with es_especial and ordered by category then name.
// Each supplied filter is applied identically to both halves of the
// union; the filter clause is built once so the halves cannot drift.
// The ORDER BY uses ordinals (categoria_nombre, nombre) because both
// halves expose two source columns named nombre and sqlite refuses the
// ambiguous name on a compound SELECT.
func (s *CatalogService) ListCatalog(filter *CatalogFilter) ([]models.CatalogEntry, error) {
	filterSQL, filterArgs := buildCatalogFilter(filter)
	today := startOfDay(time.Now())

	query := fmt.Sprintf(`
		SELECT %s, ? AS es_especial, NULL AS fecha_fin_text
		FROM menu_items m
		JOIN categorias c ON c.id = m.categoria_id
		WHERE m.disponible = ? AND c.activo = ?%s
		UNION ALL
		SELECT %s, ? AS es_especial, pe.fecha_fin AS fecha_fin_text
		FROM platos_especiales pe
		JOIN categorias c ON c.id = pe.categoria_id
		WHERE pe.disponible = ? AND c.activo = ?
		  AND (pe.fecha_fin IS NULL OR pe.fecha_fin >= ?)%s
		ORDER BY 5, 2`,
		selectColumns("m"), strings.ReplaceAll(filterSQL, "@@", "m"),
		selectColumns("pe"), strings.ReplaceAll(filterSQL, "@@", "pe"),
	)

	args := []interface{}{false, true, true}
	args = append(args, filterArgs...)
	args = append(args, true, true, true, today)
	args = append(args, filterArgs...)

	var rows []catalogRow
	if err := s.DB.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("consultando catalogo: %w", utils.ErrStoreUnavailable)
	}

	entries := make([]models.CatalogEntry, 0, len(rows))
	for _, r := range rows {
		entry := r.CatalogEntry
		if r.FechaFinText.Valid {
			entry.FechaFin = parseStoreTime(r.FechaFinText.String)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// parseStoreTime decodes the timestamp formats the postgres and sqlite
// drivers emit for an untyped column.
func parseStoreTime(s string) *time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t
		}
	}
	return nil
}

// buildCatalogFilter renders the optional facets as a WHERE fragment
// with "@@" standing in for the table alias.
func buildCatalogFilter(filter *CatalogFilter) (string, []interface{}) {
	if filter == nil {
		return "", nil
	}

	var sb strings.Builder
	var args []interface{}

	if filter.CategoriaID != nil {
		sb.WriteString(" AND @@.categoria_id = ?")
		args = append(args, *filter.CategoriaID)
	}
	if filter.Vegetariano != nil {
		sb.WriteString(" AND @@.vegetariano = ?")
		args = append(args, *filter.Vegetariano)
	}
	if filter.Picante != nil {
		sb.WriteString(" AND @@.picante = ?")
		args = append(args, *filter.Picante)
	}
	return sb.String(), args
}

// ListCatalogGrouped reshapes the unfiltered catalog for the web menu:
// regular items grouped by category (empty categories omitted), the
// specials additionally returned flat.
func (s *CatalogService) ListCatalogGrouped() (*GroupedCatalog, error) {
	entries, err := s.ListCatalog(nil)
	if err != nil {
		return nil, err
	}

	grouped := &GroupedCatalog{
		Categorias:       []models.CatalogCategory{},
		PlatosEspeciales: []models.CatalogEntry{},
		TotalItems:       len(entries),
	}

	index := map[uint]int{}
	for _, e := range entries {
		if e.EsEspecial {
			grouped.PlatosEspeciales = append(grouped.PlatosEspeciales, e)
		}
		i, ok := index[e.CategoriaID]
		if !ok {
			grouped.Categorias = append(grouped.Categorias, models.CatalogCategory{
				ID:     e.CategoriaID,
				Nombre: e.CategoriaNombre,
			})
			i = len(grouped.Categorias) - 1
			index[e.CategoriaID] = i
		}
		grouped.Categorias[i].Items = append(grouped.Categorias[i].Items, e)
	}

	grouped.TotalCategorias = len(grouped.Categorias)
	return grouped, nil
}

// ListSpecials returns only the currently valid special items.
func (s *CatalogService) ListSpecials() ([]models.CatalogEntry, error) {
	entries, err := s.ListCatalog(nil)
	if err != nil {
		return nil, err
	}
	specials := []models.CatalogEntry{}
	for _, e := range entries {
		if e.EsEspecial {
			specials = append(specials, e)
		}
	}
	return specials, nil
}

// GetEntryByID resolves a catalog id, looking at menu_items first and
// platos_especiales second. Lookup is by id only; availability does not
// gate it, so historical references still resolve.
func (s *CatalogService) GetEntryByID(id uint) (*models.CatalogEntry, error) {
	var item models.MenuItem
	err := s.DB.Preload("Categoria").First(&item, id).Error
	if err == nil {
		return menuItemEntry(&item), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("buscando item %d: %w", id, utils.ErrStoreUnavailable)
	}

	var special models.SpecialItem
	err = s.DB.Preload("Categoria").First(&special, id).Error
	if err == nil {
		return specialItemEntry(&special), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("buscando especial %d: %w", id, utils.ErrStoreUnavailable)
	}

	return nil, fmt.Errorf("item %d: %w", id, utils.ErrNotFound)
}

func menuItemEntry(m *models.MenuItem) *models.CatalogEntry {
	return &models.CatalogEntry{
		ID:                m.ID,
		Nombre:            m.Nombre,
		Precio:            m.Precio,
		CategoriaID:       m.CategoriaID,
		CategoriaNombre:   m.Categoria.Nombre,
		Descripcion:       m.Descripcion,
		Vegetariano:       m.Vegetariano,
		Picante:           m.Picante,
		Vegano:            m.Vegano,
		SinGluten:         m.SinGluten,
		TiempoPreparacion: m.TiempoPreparacion,
		ImagenThumbnail:   m.ImagenThumbnail,
		ImagenMedium:      m.ImagenMedium,
		EsEspecial:        false,
	}
}

func specialItemEntry(p *models.SpecialItem) *models.CatalogEntry {
	return &models.CatalogEntry{
		ID:                p.ID,
		Nombre:            p.Nombre,
		Precio:            p.Precio,
		CategoriaID:       p.CategoriaID,
		CategoriaNombre:   p.Categoria.Nombre,
		Descripcion:       p.Descripcion,
		Vegetariano:       p.Vegetariano,
		Picante:           p.Picante,
		Vegano:            p.Vegano,
		SinGluten:         p.SinGluten,
		TiempoPreparacion: p.TiempoPreparacion,
		ImagenThumbnail:   p.ImagenThumbnail,
		ImagenMedium:      p.ImagenMedium,
		EsEspecial:        true,
		FechaFin:          p.FechaFin,
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
