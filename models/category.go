package models

import "time"

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Nombre      string    `gorm:"type:varchar(100);unique;not null" json:"nombre"`
	Descripcion string    `gorm:"type:text" json:"descripcion"`
	Activo      bool      `gorm:"not null;default:true" json:"activo"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Category) TableName() string {
	return "categorias"
}
