package models

import "time"

type OrderItem struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	OrdenID uint  `gorm:"not null;index" json:"orden_id"`
	Orden   Order `gorm:"foreignKey:OrdenID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	// MenuItemID references a catalog entry by id. The schema does not
	// record which of the two catalog tables the id came from.
	MenuItemID uint `gorm:"not null" json:"menu_item_id"`

	Cantidad int `gorm:"not null" json:"cantidad"`

	// PrecioUnitario is the price snapshot taken at order creation.
	// It is never recomputed from the catalog afterwards.
	PrecioUnitario float64 `gorm:"type:decimal(10,2);not null" json:"precio_unitario"`

	InstruccionesEspeciales string `gorm:"type:text" json:"instrucciones_especiales"`

	// NombreProducto is filled from the catalog when the item is read
	// back; not stored.
	NombreProducto string `gorm:"-" json:"nombre_producto,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (OrderItem) TableName() string {
	return "orden_items"
}
