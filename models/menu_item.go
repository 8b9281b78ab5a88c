package models

import (
	"time"

	"gorm.io/datatypes"
)

type MenuItem struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	CategoriaID uint     `gorm:"not null;index" json:"categoria_id"`
	Categoria   Category `gorm:"foreignKey:CategoriaID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"categoria,omitempty"`

	Nombre      string  `gorm:"type:varchar(255);not null" json:"nombre"`
	Precio      float64 `gorm:"type:decimal(10,2);not null" json:"precio"`
	Descripcion string  `gorm:"type:text" json:"descripcion"`
	Disponible  bool    `gorm:"not null;default:true" json:"disponible"`

	Vegetariano bool `gorm:"not null;default:false" json:"vegetariano"`
	Picante     bool `gorm:"not null;default:false" json:"picante"`
	Vegano      bool `gorm:"not null;default:false" json:"vegano"`
	SinGluten   bool `gorm:"not null;default:false" json:"sin_gluten"`

	TiempoPreparacion int    `gorm:"default:0" json:"tiempo_preparacion"`
	Ingredientes      string `gorm:"type:text" json:"ingredientes"`
	Calorias          *int   `json:"calorias,omitempty"`

	ImagenThumbnail *string        `gorm:"type:varchar(255)" json:"imagen_thumbnail,omitempty"`
	ImagenMedium    *string        `gorm:"type:varchar(255)" json:"imagen_medium,omitempty"`
	ImagenLarge     *string        `gorm:"type:varchar(255)" json:"imagen_large,omitempty"`
	ImagenFilename  *string        `gorm:"type:varchar(255)" json:"imagen_filename,omitempty"`
	ImagenMetadata  datatypes.JSON `json:"imagen_metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}
