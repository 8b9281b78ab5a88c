package models

import "time"

type Mesa struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Numero     int       `gorm:"unique;not null" json:"numero"`
	Capacidad  int       `gorm:"not null;default:4" json:"capacidad"`
	Ubicacion  string    `gorm:"type:varchar(100)" json:"ubicacion"`
	Disponible bool      `gorm:"not null;default:true" json:"disponible"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Mesa) TableName() string {
	return "mesas"
}
