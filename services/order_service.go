package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/elbuensabor/restaurante-api/models"
	"github.com/elbuensabor/restaurante-api/utils"
)

// OrderService turns carts into persisted orders and manages the order
// lifecycle. All multi-row writes run inside a single transaction.
type OrderService struct {
	DB      *gorm.DB
	Catalog *CatalogService

	// StrictTransitions rejects status changes outside the lifecycle
	// table when set.
	StrictTransitions bool
}

func NewOrderService(db *gorm.DB, catalog *CatalogService, strict bool) *OrderService {
	return &OrderService{DB: db, Catalog: catalog, StrictTransitions: strict}
}

// CartLine is one requested item in an incoming order.
type CartLine struct {
	MenuItemID    uint   `json:"menu_item_id" binding:"required"`
	Cantidad      int    `json:"cantidad" binding:"required"`
	Instrucciones string `json:"instrucciones,omitempty"`
}

// OrderInput is the cart plus its destination.
type OrderInput struct {
	Mesa       string     `json:"mesa"`
	TipoOrden  string     `json:"tipo_orden"`
	MetodoPago string     `json:"metodo_pago"`
	Notas      string     `json:"notas"`
	UserID     *uint      `json:"-"`
	Items      []CartLine `json:"items" binding:"required"`
}

// CloseResult reports the orders settled by CloseMesa and their sum.
type CloseResult struct {
	Orders []models.Order `json:"orders"`
	Total  float64        `json:"total"`
}

// CreateOrder resolves every cart line against the catalog, computes
// the total, and persists the order and its items atomically. Any
// unresolvable line aborts the whole operation before the first write;
// unit prices are snapshotted onto the items at this moment and never
// recomputed.
func (s *OrderService) CreateOrder(input *OrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("la orden no tiene items: %w", utils.ErrValidation)
	}
	if input.Mesa == "" && input.TipoOrden != models.TipoRetiro {
		return nil, fmt.Errorf("mesa o direccion requerida: %w", utils.ErrValidation)
	}

	tipo := input.TipoOrden
	if tipo == "" {
		tipo = models.TipoMesa
	}

	// Resolve prices up front so nothing is written for a bad cart.
	type resolvedLine struct {
		line   CartLine
		precio float64
		nombre string
	}
	resolved := make([]resolvedLine, 0, len(input.Items))
	var total float64

	for _, line := range input.Items {
		if line.Cantidad < 1 {
			return nil, fmt.Errorf("cantidad invalida para item %d: %w", line.MenuItemID, utils.ErrValidation)
		}
		entry, err := s.Catalog.GetEntryByID(line.MenuItemID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return nil, &utils.InvalidItemError{ItemID: line.MenuItemID}
			}
			return nil, err
		}
		resolved = append(resolved, resolvedLine{line: line, precio: entry.Precio, nombre: entry.Nombre})
		total += entry.Precio * float64(line.Cantidad)
	}

	order := models.Order{
		UserID:     input.UserID,
		Mesa:       input.Mesa,
		Total:      total,
		Estado:     models.EstadoPendiente,
		TipoOrden:  tipo,
		MetodoPago: input.MetodoPago,
		Notas:      input.Notas,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for _, r := range resolved {
			item := models.OrderItem{
				OrdenID:                 order.ID,
				MenuItemID:              r.line.MenuItemID,
				Cantidad:                r.line.Cantidad,
				PrecioUnitario:          r.precio,
				InstruccionesEspeciales: r.line.Instrucciones,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			item.NombreProducto = r.nombre
			order.Items = append(order.Items, item)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("guardando orden: %w", utils.ErrStoreUnavailable)
	}

	return &order, nil
}

// GetOrdersByMesa lists the orders bound to a destination, newest
// first, items included.
func (s *OrderService) GetOrdersByMesa(mesa string) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.Preload("Items").
		Where("mesa = ?", mesa).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("consultando ordenes de %q: %w", mesa, utils.ErrStoreUnavailable)
	}
	s.fillProductNames(orders)
	return orders, nil
}

// GetOrderByID returns one order with items.
func (s *OrderService) GetOrderByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := s.DB.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("orden %d: %w", id, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("consultando orden %d: %w", id, utils.ErrStoreUnavailable)
	}
	orders := []models.Order{order}
	s.fillProductNames(orders)
	return &orders[0], nil
}

// CloseMesa settles every active order on a destination: all of them
// move to entregada with the payment method stamped, in one
// transaction. No qualifying orders is a valid empty result.
func (s *OrderService) CloseMesa(mesa, metodoPago string) (*CloseResult, error) {
	result := &CloseResult{Orders: []models.Order{}}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var orders []models.Order
		if err := tx.Preload("Items").
			Where("mesa = ? AND estado IN ?", mesa, models.EstadosActivos).
			Find(&orders).Error; err != nil {
			return err
		}

		for i := range orders {
			orders[i].Estado = models.EstadoEntregada
			orders[i].MetodoPago = metodoPago
			if err := tx.Model(&models.Order{}).
				Where("id = ?", orders[i].ID).
				Updates(map[string]interface{}{
					"estado":      models.EstadoEntregada,
					"metodo_pago": metodoPago,
				}).Error; err != nil {
				return err
			}
			result.Total += orders[i].Total
		}

		result.Orders = orders
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cerrando mesa %q: %w", mesa, utils.ErrStoreUnavailable)
	}

	s.fillProductNames(result.Orders)
	return result, nil
}

// UpdateStatus moves an order to a new state, enforcing the lifecycle
// table unless strict mode is off.
func (s *OrderService) UpdateStatus(id uint, estado string) (*models.Order, error) {
	if !models.IsValidEstado(estado) {
		return nil, fmt.Errorf("estado desconocido %q: %w", estado, utils.ErrValidation)
	}

	order, err := s.GetOrderByID(id)
	if err != nil {
		return nil, err
	}

	if s.StrictTransitions && !models.TransitionAllowed(order.Estado, estado) {
		return nil, fmt.Errorf("transicion %s -> %s no permitida: %w", order.Estado, estado, utils.ErrValidation)
	}

	if err := s.DB.Model(order).Update("estado", estado).Error; err != nil {
		return nil, fmt.Errorf("actualizando orden %d: %w", id, utils.ErrStoreUnavailable)
	}
	order.Estado = estado
	return order, nil
}

// fillProductNames resolves display names for order items from both
// catalog tables in two queries.
func (s *OrderService) fillProductNames(orders []models.Order) {
	ids := map[uint]struct{}{}
	for i := range orders {
		for j := range orders[i].Items {
			ids[orders[i].Items[j].MenuItemID] = struct{}{}
		}
	}
	if len(ids) == 0 {
		return
	}

	idList := make([]uint, 0, len(ids))
	for id := range ids {
		idList = append(idList, id)
	}

	names := map[uint]string{}
	var rows []struct {
		ID     uint
		Nombre string
	}
	if err := s.DB.Model(&models.SpecialItem{}).Select("id, nombre").Where("id IN ?", idList).Find(&rows).Error; err == nil {
		for _, r := range rows {
			names[r.ID] = r.Nombre
		}
	}
	rows = rows[:0]
	// menu_items wins on id collision, matching lookup order.
	if err := s.DB.Model(&models.MenuItem{}).Select("id, nombre").Where("id IN ?", idList).Find(&rows).Error; err == nil {
		for _, r := range rows {
			names[r.ID] = r.Nombre
		}
	}

	for i := range orders {
		for j := range orders[i].Items {
			orders[i].Items[j].NombreProducto = names[orders[i].Items[j].MenuItemID]
		}
	}
}
