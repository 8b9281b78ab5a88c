package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/elbuensabor/restaurante-api/utils"
)

// Export formats.
const (
	FormatoJSON = "json"
	FormatoCSV  = "csv"
	FormatoPDF  = "pdf"
)

// ExportResult carries the serialized report plus what the HTTP layer
// needs to hand it back.
type ExportResult struct {
	Data        []byte
	ContentType string
	Filename    string
}

// ExportSales serializes the full (unpaginated) sales report. The
// tabular formats explode one row per (order, item) pair with the
// order total repeated on every line.
func (s *ReportService) ExportSales(filter *SalesFilter, formato string) (*ExportResult, error) {
	// Exports always cover the whole filtered set. Work on a copy so
	// the caller's pagination survives.
	f := SalesFilter{}
	if filter != nil {
		f = *filter
	}
	f.Limit = 0
	f.Offset = 0

	report, err := s.Sales(&f)
	if err != nil {
		return nil, err
	}

	switch formato {
	case FormatoJSON, "":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, err
		}
		return &ExportResult{Data: data, ContentType: "application/json", Filename: "ventas.json"}, nil
	case FormatoCSV:
		return exportCSV(report)
	case FormatoPDF:
		return exportPDF(report)
	default:
		return nil, fmt.Errorf("formato desconocido %q: %w", formato, utils.ErrValidation)
	}
}

var exportHeader = []string{"orden_id", "fecha", "mesa", "metodo_pago", "producto", "categoria", "cantidad", "precio_unitario", "subtotal", "total_orden"}

func exportRows(report *SalesReport) [][]string {
	rows := make([][]string, 0, len(report.Ventas))
	for _, v := range report.Ventas {
		for _, it := range v.Items {
			rows = append(rows, []string{
				strconv.FormatUint(uint64(v.ID), 10),
				v.CreatedAt.Format("2006-01-02 15:04"),
				v.Mesa,
				v.MetodoPago,
				it.Producto,
				it.Categoria,
				strconv.Itoa(it.Cantidad),
				fmt.Sprintf("%.2f", it.PrecioUnitario),
				fmt.Sprintf("%.2f", it.PrecioUnitario*float64(it.Cantidad)),
				fmt.Sprintf("%.2f", v.Total),
			})
		}
	}
	return rows
}

func exportCSV(report *SalesReport) (*ExportResult, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, row := range exportRows(report) {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return &ExportResult{Data: buf.Bytes(), ContentType: "text/csv", Filename: "ventas.csv"}, nil
}

func exportPDF(report *SalesReport) (*ExportResult, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Reporte de ventas")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Ordenes: %d   Total: %s   Promedio: %s",
		report.Estadisticas.NumOrdenes,
		utils.FormatCurrency(report.Estadisticas.TotalVentas),
		utils.FormatCurrency(report.Estadisticas.PromedioOrden)))
	pdf.Ln(10)

	widths := []float64{18, 30, 28, 25, 55, 30, 18, 25, 25, 25}

	pdf.SetFont("Helvetica", "B", 8)
	for i, h := range exportHeader {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, row := range exportRows(report) {
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return &ExportResult{Data: buf.Bytes(), ContentType: "application/pdf", Filename: "ventas.pdf"}, nil
}

// PeriodChart renders the sales-by-period series as a PNG bar chart.
func (s *ReportService) PeriodChart(bucket string) ([]byte, error) {
	buckets, err := s.SalesByPeriod(bucket)
	if err != nil {
		return nil, err
	}
	if len(buckets) == 0 {
		return nil, fmt.Errorf("sin ventas en el periodo: %w", utils.ErrNotFound)
	}

	// oldest to newest, left to right
	bars := make([]chart.Value, 0, len(buckets))
	var peak float64
	for i := len(buckets) - 1; i >= 0; i-- {
		if buckets[i].Ingresos > peak {
			peak = buckets[i].Ingresos
		}
		bars = append(bars, chart.Value{
			Value: buckets[i].Ingresos,
			Label: buckets[i].Periodo,
		})
	}
	if peak <= 0 {
		peak = 1
	}

	// An explicit range keeps the renderer happy when every bucket
	// holds the same value.
	graph := chart.BarChart{
		Title:    "Ventas por periodo",
		Height:   400,
		BarWidth: 24,
		Bars:     bars,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: peak * 1.1},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
