package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/elbuensabor/restaurante-api/services"
	"github.com/elbuensabor/restaurante-api/utils"
)

type ReporteController struct {
	DB      *gorm.DB
	Reports *services.ReportService
}

func NewReporteController(db *gorm.DB, reports *services.ReportService) *ReporteController {
	return &ReporteController{DB: db, Reports: reports}
}

// GetVentas is the sales report. Query filters: fecha_inicio,
// fecha_fin, mesa, producto, categoria, limit, offset.
func (rc *ReporteController) GetVentas(c *gin.Context) {
	filter, err := parseSalesFilter(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	report, err := rc.Reports.Sales(filter)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reporte de ventas", report)
}

// GetProductosPopulares returns best sellers. Query: fecha_inicio,
// fecha_fin, limit.
func (rc *ReporteController) GetProductosPopulares(c *gin.Context) {
	desde, hasta, err := parseDateRange(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	limit := 10
	if v := c.Query("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("limit invalido"))
			return
		}
	}

	items, err := rc.Reports.PopularItems(desde, hasta, limit)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Productos populares", gin.H{"productos": items})
}

// GetMesas is the per-destination revenue report.
func (rc *ReporteController) GetMesas(c *gin.Context) {
	desde, hasta, err := parseDateRange(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	stats, err := rc.Reports.Mesas(desde, hasta)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reporte por mesa", gin.H{"mesas": stats})
}

// GetDashboard returns the same-day / month-to-date bundle.
func (rc *ReporteController) GetDashboard(c *gin.Context) {
	stats, err := rc.Reports.Dashboard()
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard", gin.H{"estadisticas": stats})
}

// GetVentasPorPeriodo buckets the trailing 30 days. Query: periodo
// (hora|dia|semana|mes).
func (rc *ReporteController) GetVentasPorPeriodo(c *gin.Context) {
	buckets, err := rc.Reports.SalesByPeriod(c.Query("periodo"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Ventas por periodo", gin.H{"periodos": buckets})
}

// ExportVentas streams the full filtered report in the requested
// format (json, csv, pdf).
func (rc *ReporteController) ExportVentas(c *gin.Context) {
	filter, err := parseSalesFilter(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := rc.Reports.ExportSales(filter, c.Query("formato"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// GetVentasChart renders the period series as a PNG.
func (rc *ReporteController) GetVentasChart(c *gin.Context) {
	png, err := rc.Reports.PeriodChart(c.Query("periodo"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func parseSalesFilter(c *gin.Context) (*services.SalesFilter, error) {
	filter := &services.SalesFilter{
		Mesa:      c.Query("mesa"),
		Producto:  c.Query("producto"),
		Categoria: c.Query("categoria"),
	}

	var err error
	desde, hasta, err := parseDateRange(c)
	if err != nil {
		return nil, err
	}
	filter.FechaInicio = desde
	filter.FechaFin = hasta

	if v := c.Query("limit"); v != "" {
		filter.Limit, err = strconv.Atoi(v)
		if err != nil || filter.Limit < 0 {
			return nil, errors.New("limit invalido")
		}
	}
	if v := c.Query("offset"); v != "" {
		filter.Offset, err = strconv.Atoi(v)
		if err != nil || filter.Offset < 0 {
			return nil, errors.New("offset invalido")
		}
	}

	return filter, nil
}

func parseDateRange(c *gin.Context) (*time.Time, *time.Time, error) {
	var desde, hasta *time.Time

	if v := c.Query("fecha_inicio"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return nil, nil, errors.New("fecha_inicio debe ser YYYY-MM-DD")
		}
		desde = &t
	}
	if v := c.Query("fecha_fin"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return nil, nil, errors.New("fecha_fin debe ser YYYY-MM-DD")
		}
		hasta = &t
	}

	return desde, hasta, nil
}
