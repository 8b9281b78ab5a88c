package models

import "time"

// CatalogEntry is the query-time union of MenuItem and SpecialItem
// rows, tagged with EsEspecial. It is never persisted; it is the scan
// target of the catalog UNION query.
type CatalogEntry struct {
	ID                uint       `json:"id"`
	Nombre            string     `json:"nombre"`
	Precio            float64    `json:"precio"`
	CategoriaID       uint       `json:"categoria_id"`
	CategoriaNombre   string     `json:"categoria_nombre"`
	Descripcion       string     `json:"descripcion"`
	Vegetariano       bool       `json:"vegetariano"`
	Picante           bool       `json:"picante"`
	Vegano            bool       `json:"vegano"`
	SinGluten         bool       `json:"sin_gluten"`
	TiempoPreparacion int        `json:"tiempo_preparacion"`
	ImagenThumbnail   *string    `json:"imagen_thumbnail,omitempty"`
	ImagenMedium      *string    `json:"imagen_medium,omitempty"`
	EsEspecial        bool       `json:"es_especial"`
	FechaFin          *time.Time `json:"fecha_fin,omitempty"`
}

/// CatalogCategory is the grouped web-menu shape: a category with its
// qualifying items. Categories with no items are never emitted.
type CatalogCategory struct {
	ID     uint           `json:"id"`
	Nombre string         `json:"nombre"`
	Items  []CatalogEntry `json:"items"`
}
