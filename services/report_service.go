package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/elbuensabor/restaurante-api/models"
	"github.com/elbuensabor/restaurante-api/utils"
)

// ReportService runs read-only analytical queries over delivered
// orders. It never mutates state and never caches; every call computes
// fresh from the store.
type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

// SalesFilter narrows the sales report. Zero values mean "no filter".
type SalesFilter struct {
	FechaInicio *time.Time
	FechaFin    *time.Time
	Mesa        string
	Producto    string // item name substring, case-insensitive
	Categoria   string // exact category name
	Limit       int
	Offset      int
}

type SalesOrderItem struct {
	Producto       string  `json:"producto"`
	Categoria      string  `json:"categoria"`
	Cantidad       int     `json:"cantidad"`
	PrecioUnitario float64 `json:"precio_unitario"`
	EsEspecial     bool    `json:"es_especial"`
}

// SalesOrder is one delivered order with its line items regrouped from
// the flat join rows.
type SalesOrder struct {
	ID         uint             `json:"id"`
	Mesa       string           `json:"mesa"`
	Total      float64          `json:"total"`
	MetodoPago string           `json:"metodo_pago"`
	CreatedAt  time.Time        `json:"fecha"`
	Items      []SalesOrderItem `json:"items"`
}

type SalesStats struct {
	TotalVentas   float64 `json:"total_ventas"`
	TotalCantidad int     `json:"total_cantidad"`
	NumOrdenes    int     `json:"num_ordenes"`
	PromedioOrden float64 `json:"promedio_orden"`
}

type ReportMeta struct {
	Limit          int `json:"limit"`
	Offset         int `json:"offset"`
	TotalRegistros int `json:"total_registros"`
}

type SalesReport struct {
	Ventas       []SalesOrder `json:"ventas"`
	Estadisticas SalesStats   `json:"estadisticas"`
	Meta         ReportMeta   `json:"meta"`
}

// salesRow is the flat scan target of the report join.
type salesRow struct {
	OrdenID        uint
	Mesa           string
	Total          float64
	MetodoPago     string
	CreatedAt      time.Time
	Cantidad       int
	PrecioUnitario float64
	Producto       string
	Categoria      string
	EsEspecial     bool
}

const salesJoin = `
	FROM ordenes o
	JOIN orden_items oi ON oi.orden_id = o.id
	JOIN (
		SELECT id, nombre, categoria_id, ? AS es_especial FROM menu_items
		UNION ALL
		SELECT id, nombre, categoria_id, ? FROM platos_especiales
	) ci ON ci.id = oi.menu_item_id
	LEFT JOIN categorias c ON c.id = ci.categoria_id
	WHERE o.estado = ?`

// Sales builds the sales report: flat rows from the four-way join,
// regrouped into one record per order. The estadisticas block is
// computed over the whole filtered set; Limit/Offset only slice the
// ventas detail afterwards, so pagination never changes the totals.
func (s *ReportService) Sales(filter *SalesFilter) (*SalesReport, error) {
	if filter == nil {
		filter = &SalesFilter{}
	}

	query := `SELECT o.id AS orden_id, o.mesa, o.total, o.metodo_pago, o.created_at,
		oi.cantidad, oi.precio_unitario,
		ci.nombre AS producto, c.nombre AS categoria, ci.es_especial` + salesJoin
	args := []interface{}{false, true, models.EstadoEntregada}

	if filter.FechaInicio != nil {
		query += " AND o.created_at >= ?"
		args = append(args, *filter.FechaInicio)
	}
	if filter.FechaFin != nil {
		// inclusive end date
		query += " AND o.created_at < ?"
		args = append(args, startOfDay(*filter.FechaFin).AddDate(0, 0, 1))
	}
	if filter.Mesa != "" {
		query += " AND o.mesa = ?"
		args = append(args, filter.Mesa)
	}
	if filter.Producto != "" {
		query += " AND LOWER(ci.nombre) LIKE ?"
		args = append(args, "%"+strings.ToLower(filter.Producto)+"%")
	}
	if filter.Categoria != "" {
		query += " AND c.nombre = ?"
		args = append(args, filter.Categoria)
	}
	query += " ORDER BY o.created_at DESC, o.id DESC, oi.id ASC"

	var rows []salesRow
	if err := s.DB.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("reporte de ventas: %w", utils.ErrStoreUnavailable)
	}

	report := &SalesReport{Ventas: []SalesOrder{}}
	index := map[uint]int{}
	for _, r := range rows {
		i, ok := index[r.OrdenID]
		if !ok {
			report.Ventas = append(report.Ventas, SalesOrder{
				ID:         r.OrdenID,
				Mesa:       r.Mesa,
				Total:      r.Total,
				MetodoPago: r.MetodoPago,
				CreatedAt:  r.CreatedAt,
			})
			i = len(report.Ventas) - 1
			index[r.OrdenID] = i

			report.Estadisticas.TotalVentas += r.Total
			report.Estadisticas.NumOrdenes++
		}
		report.Ventas[i].Items = append(report.Ventas[i].Items, SalesOrderItem{
			Producto:       r.Producto,
			Categoria:      r.Categoria,
			Cantidad:       r.Cantidad,
			PrecioUnitario: r.PrecioUnitario,
			EsEspecial:     r.EsEspecial,
		})
		report.Estadisticas.TotalCantidad += r.Cantidad
	}
	if report.Estadisticas.NumOrdenes > 0 {
		report.Estadisticas.PromedioOrden = report.Estadisticas.TotalVentas / float64(report.Estadisticas.NumOrdenes)
	}

	report.Meta = ReportMeta{
		Limit:          filter.Limit,
		Offset:         filter.Offset,
		TotalRegistros: len(report.Ventas),
	}

	// Paginate the detail only, after the stats are in.
	if filter.Offset > 0 {
		if filter.Offset >= len(report.Ventas) {
			report.Ventas = []SalesOrder{}
		} else {
			report.Ventas = report.Ventas[filter.Offset:]
		}
	}
	if filter.Limit > 0 && filter.Limit < len(report.Ventas) {
		report.Ventas = report.Ventas[:filter.Limit]
	}

	return report, nil
}

// PopularItem is one best-seller row.
type PopularItem struct {
	ID            uint    `json:"id"`
	Producto      string  `json:"producto"`
	CantidadTotal int     `json:"cantidad_total"`
	Ingresos      float64 `json:"ingresos"`
	NumOrdenes    int     `json:"num_ordenes"`
}

// PopularItems ranks delivered items by quantity sold. Quantity ties
// break by revenue, then id, so output is deterministic.
func (s *ReportService) PopularItems(desde, hasta *time.Time, limit int) ([]PopularItem, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT oi.menu_item_id AS id, ci.nombre AS producto,
		SUM(oi.cantidad) AS cantidad_total,
		SUM(oi.cantidad * oi.precio_unitario) AS ingresos,
		COUNT(DISTINCT o.id) AS num_ordenes` + salesJoin
	args := []interface{}{false, true, models.EstadoEntregada}

	if desde != nil {
		query += " AND o.created_at >= ?"
		args = append(args, *desde)
	}
	if hasta != nil {
		query += " AND o.created_at < ?"
		args = append(args, startOfDay(*hasta).AddDate(0, 0, 1))
	}
	query += ` GROUP BY oi.menu_item_id, ci.nombre
		ORDER BY cantidad_total DESC, ingresos DESC, id ASC
		LIMIT ?`
	args = append(args, limit)

	var items []PopularItem
	if err := s.DB.Raw(query, args...).Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("productos populares: %w", utils.ErrStoreUnavailable)
	}
	if items == nil {
		items = []PopularItem{}
	}
	return items, nil
}

// MesaStats is the per-destination revenue summary.
type MesaStats struct {
	Mesa       string  `json:"mesa"`
	NumOrdenes int     `json:"num_ordenes"`
	Ingresos   float64 `json:"ingresos"`
	Promedio   float64 `json:"promedio"`
	NumItems   int     `json:"num_items"`
	Clientes   int     `json:"clientes"`
}

// Mesas groups delivered orders by destination, revenue descending.
func (s *ReportService) Mesas(desde, hasta *time.Time) ([]MesaStats, error) {
	query := `SELECT o.mesa,
		COUNT(o.id) AS num_ordenes,
		SUM(o.total) AS ingresos,
		AVG(o.total) AS promedio,
		COALESCE(SUM(ic.cnt), 0) AS num_items,
		COUNT(DISTINCT o.user_id) AS clientes
	FROM ordenes o
	LEFT JOIN (
		SELECT orden_id, SUM(cantidad) AS cnt FROM orden_items GROUP BY orden_id
	) ic ON ic.orden_id = o.id
	WHERE o.estado = ?`
	args := []interface{}{models.EstadoEntregada}

	if desde != nil {
		query += " AND o.created_at >= ?"
		args = append(args, *desde)
	}
	if hasta != nil {
		query += " AND o.created_at < ?"
		args = append(args, startOfDay(*hasta).AddDate(0, 0, 1))
	}
	query += " GROUP BY o.mesa ORDER BY ingresos DESC"

	var stats []MesaStats
	if err := s.DB.Raw(query, args...).Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("reporte por mesa: %w", utils.ErrStoreUnavailable)
	}
	if stats == nil {
		stats = []MesaStats{}
	}
	return stats, nil
}

// DashboardStats is the fixed bundle of same-day and month-to-date
// figures.
type DashboardStats struct {
	OrdenesHoy        int     `json:"ordenes_hoy"`
	VentasHoy         float64 `json:"ventas_hoy"`
	PromedioHoy       float64 `json:"promedio_hoy"`
	OrdenesMes        int     `json:"ordenes_mes"`
	VentasMes         float64 `json:"ventas_mes"`
	OrdenesPendientes int     `json:"ordenes_pendientes"`
	ProductoTopHoy    string  `json:"producto_top_hoy"`
	ItemsDisponibles  int     `json:"items_disponibles"`
}

// Dashboard computes all sub-aggregates against one notion of "today"
// and "start of month" fixed at call entry, so the figures cannot skew
// across a midnight boundary mid-call. The sub-queries are independent
// reads and run concurrently against the pool.
func (s *ReportService) Dashboard() (*DashboardStats, error) {
	now := time.Now()
	hoy := startOfDay(now)
	mes := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := &DashboardStats{}
	var g errgroup.Group

	g.Go(func() error {
		var r struct {
			N int
			T float64
		}
		err := s.DB.Raw(
			"SELECT COUNT(id) AS n, COALESCE(SUM(total), 0) AS t FROM ordenes WHERE estado = ? AND created_at >= ?",
			models.EstadoEntregada, hoy).Scan(&r).Error
		if err != nil {
			return err
		}
		stats.OrdenesHoy = r.N
		stats.VentasHoy = r.T
		if r.N > 0 {
			stats.PromedioHoy = r.T / float64(r.N)
		}
		return nil
	})

	g.Go(func() error {
		var r struct {
			N int
			T float64
		}
		err := s.DB.Raw(
			"SELECT COUNT(id) AS n, COALESCE(SUM(total), 0) AS t FROM ordenes WHERE estado = ? AND created_at >= ?",
			models.EstadoEntregada, mes).Scan(&r).Error
		if err != nil {
			return err
		}
		stats.OrdenesMes = r.N
		stats.VentasMes = r.T
		return nil
	})

	g.Go(func() error {
		var n int64
		err := s.DB.Model(&models.Order{}).
			Where("estado = ?", models.EstadoPendiente).
			Count(&n).Error
		stats.OrdenesPendientes = int(n)
		return err
	})

	g.Go(func() error {
		top, err := s.PopularItems(&hoy, nil, 1)
		if err != nil {
			return err
		}
		if len(top) > 0 {
			stats.ProductoTopHoy = top[0].Producto
		}
		return nil
	})

	g.Go(func() error {
		var n int
		err := s.DB.Raw(`SELECT
			(SELECT COUNT(m.id) FROM menu_items m
				JOIN categorias c ON c.id = m.categoria_id
				WHERE m.disponible = ? AND c.activo = ?) +
			(SELECT COUNT(pe.id) FROM platos_especiales pe
				JOIN categorias c ON c.id = pe.categoria_id
				WHERE pe.disponible = ? AND c.activo = ?
				  AND (pe.fecha_fin IS NULL OR pe.fecha_fin >= ?)) AS n`,
			true, true, true, true, hoy).Scan(&n).Error
		stats.ItemsDisponibles = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard: %w", utils.ErrStoreUnavailable)
	}
	return stats, nil
}

// PeriodBucket is one time window of the sales series.
type PeriodBucket struct {
	Periodo    string  `json:"periodo"`
	NumOrdenes int     `json:"num_ordenes"`
	Ingresos   float64 `json:"ingresos"`
	Promedio   float64 `json:"promedio"`
}

// Period bucket names accepted by SalesByPeriod.
const (
	PeriodoHora   = "hora"
	PeriodoDia    = "dia"
	PeriodoSemana = "semana"
	PeriodoMes    = "mes"
)

// SalesByPeriod buckets delivered orders from the trailing 30 days,
// newest bucket first, at most 30 buckets. Bucketing happens in Go so
// the query stays portable across the postgres and sqlite drivers.
func (s *ReportService) SalesByPeriod(bucket string) ([]PeriodBucket, error) {
	switch bucket {
	case PeriodoHora, PeriodoDia, PeriodoSemana, PeriodoMes:
	case "":
		bucket = PeriodoDia
	default:
		return nil, fmt.Errorf("periodo desconocido %q: %w", bucket, utils.ErrValidation)
	}

	desde := time.Now().AddDate(0, 0, -30)
	var rows []struct {
		CreatedAt time.Time
		Total     float64
	}
	err := s.DB.Model(&models.Order{}).
		Select("created_at, total").
		Where("estado = ? AND created_at >= ?", models.EstadoEntregada, desde).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("ventas por periodo: %w", utils.ErrStoreUnavailable)
	}

	agg := map[string]*PeriodBucket{}
	for _, r := range rows {
		key := bucketKey(r.CreatedAt, bucket)
		b, ok := agg[key]
		if !ok {
			b = &PeriodBucket{Periodo: key}
			agg[key] = b
		}
		b.NumOrdenes++
		b.Ingresos += r.Total
	}

	buckets := make([]PeriodBucket, 0, len(agg))
	for _, b := range agg {
		b.Promedio = b.Ingresos / float64(b.NumOrdenes)
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Periodo > buckets[j].Periodo
	})
	if len(buckets) > 30 {
		buckets = buckets[:30]
	}
	return buckets, nil
}

func bucketKey(t time.Time, bucket string) string {
	switch bucket {
	case PeriodoHora:
		return t.Format("2006-01-02 15:00")
	case PeriodoSemana:
		// key by the Monday the week starts on
		offset := (int(t.Weekday()) + 6) % 7
		return startOfDay(t).AddDate(0, 0, -offset).Format("2006-01-02")
	case PeriodoMes:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}
