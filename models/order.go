package models

import "time"

// Order lifecycle states.
const (
	EstadoPendiente     = "pendiente"
	EstadoConfirmada    = "confirmada"
	EstadoEnPreparacion = "en_preparacion"
	EstadoLista         = "lista"
	EstadoEntregada     = "entregada"
	EstadoCancelada     = "cancelada"
)

// Order kinds.
const (
	TipoMesa     = "mesa"
	TipoDelivery = "delivery"
	TipoRetiro   = "retiro"
)

// EstadosActivos are the non-terminal states; only these qualify for
// closing a mesa.
var EstadosActivos = []string{
	EstadoPendiente,
	EstadoConfirmada,
	EstadoEnPreparacion,
	EstadoLista,
}

// transiciones is the order status transition table. Cancellation is
// reachable from every non-terminal state.
var transiciones = map[string][]string{
	EstadoPendiente:     {EstadoConfirmada, EstadoCancelada},
	EstadoConfirmada:    {EstadoEnPreparacion, EstadoCancelada},
	EstadoEnPreparacion: {EstadoLista, EstadoCancelada},
	EstadoLista:         {EstadoEntregada, EstadoCancelada},
	EstadoEntregada:     {},
	EstadoCancelada:     {},
}

// TransitionAllowed reports whether from → to is a legal lifecycle step.
func TransitionAllowed(from, to string) bool {
	for _, next := range transiciones[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsValidEstado reports whether s names a known order state.
func IsValidEstado(s string) bool {
	_, ok := transiciones[s]
	return ok
}

type Order struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID *uint `gorm:"index" json:"user_id,omitempty"`
	User   *User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`

	// Mesa is the destination label: a table name for dine-in, an
	// address for delivery, empty for pickup.
	Mesa       string  `gorm:"type:varchar(100);not null;index" json:"mesa"`
	Total      float64 `gorm:"type:decimal(10,2);not null;default:0.00" json:"total"`
	Estado     string  `gorm:"type:varchar(20);not null;default:'pendiente';index" json:"estado"`
	TipoOrden  string  `gorm:"type:varchar(20);not null;default:'mesa'" json:"tipo_orden"`
	MetodoPago string  `gorm:"type:varchar(30)" json:"metodo_pago"`
	Notas      string  `gorm:"type:text" json:"notas"`

	Items []OrderItem `gorm:"foreignKey:OrdenID" json:"items"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Order) TableName() string {
	return "ordenes"
}
