// Package export writes the derived tables to an xlsx workbook.
package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/pivolan/spotviz/analysis"
	"github.com/pivolan/spotviz/classify"
	"github.com/pivolan/spotviz/domain/models"
	"github.com/pivolan/spotviz/geo"
	"github.com/pivolan/spotviz/grouping"
)

const (
	SheetCountries = "countries"
	SheetClusters  = "clusters"
	SheetSummary   = "summary"
)

type Workbook struct {
	f      *excelize.File
	sheets int
	styles map[models.ColorToken]int
}

func New() *Workbook {
	return &Workbook{f: excelize.NewFile(), styles: make(map[models.ColorToken]int)}
}

// sheet creates name. The first call renames the default sheet.
func (w *Workbook) sheet(name string) error {
	w.sheets++
	if w.sheets == 1 {
		return w.f.SetSheetName(w.f.GetSheetName(0), name)
	}
	_, err := w.f.NewSheet(name)
	return err
}

// fill returns a solid fill style for color, creating it once.
func (w *Workbook) fill(color models.ColorToken) (int, error) {
	if id, ok := w.styles[color]; ok {
		return id, nil
	}
	font := string(classify.TextColor(color))
	id, err := w.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{string(color)}},
		Font: &excelize.Font{Color: font},
	})
	if err != nil {
		return 0, err
	}
	w.styles[color] = id
	return id, nil
}

func (w *Workbook) row(sheet string, n int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	return w.f.SetSheetRow(sheet, cell, &values)
}

func (w *Workbook) styleCell(sheet string, col, row int, color models.ColorToken) error {
	if _, err := classify.ParseColor(color); err != nil {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	id, err := w.fill(color)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, cell, cell, id)
}

// Countries writes one row per (year, country) with its song count, filled
// with the classifier color of that count.
func (w *Workbook) Countries(table *grouping.YearTable, c classify.Classifier) error {
	if err := w.sheet(SheetCountries); err != nil {
		return err
	}
	if err := w.row(SheetCountries, 1, []interface{}{"year", "alpha2", "country", "songs", "color"}); err != nil {
		return err
	}
	years := append([]int(nil), table.Years...)
	sort.Ints(years)
	n := 2
	for _, y := range years {
		for _, kc := range analysis.CountryTotals(table, y) {
			color := c.Classify(float64(kc.Count))
			name := geo.ByAlpha2(kc.Key).Name
			if err := w.row(SheetCountries, n, []interface{}{y, kc.Key, name, kc.Count, string(color)}); err != nil {
				return err
			}
			if err := w.styleCell(SheetCountries, 4, n, color); err != nil {
				return err
			}
			n++
		}
	}
	return w.f.SetPanes(SheetCountries, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

// Clusters writes the heatmap grid: clusters as rows, features as columns,
// every mean filled with its heat color.
func (w *Workbook) Clusters(p *analysis.ClusterProfile) error {
	cells, err := p.Heatmap()
	if err != nil {
		return err
	}
	if err := w.sheet(SheetClusters); err != nil {
		return err
	}
	header := []interface{}{"cluster"}
	col := make(map[string]int, len(analysis.HeatmapFeatures))
	for i, f := range analysis.HeatmapFeatures {
		header = append(header, f)
		col[f] = i + 2
	}
	if err := w.row(SheetClusters, 1, header); err != nil {
		return err
	}
	rowOf := make(map[string]int, len(p.Clusters))
	for i, name := range p.Clusters {
		rowOf[name] = i + 2
		if err := w.row(SheetClusters, i+2, []interface{}{name}); err != nil {
			return err
		}
	}
	for _, c := range cells {
		cell, err := excelize.CoordinatesToCellName(col[c.Feature], rowOf[c.Cluster])
		if err != nil {
			return err
		}
		if err := w.f.SetCellValue(SheetClusters, cell, c.Value); err != nil {
			return err
		}
		if err := w.styleCell(SheetClusters, col[c.Feature], rowOf[c.Cluster], c.Color); err != nil {
			return err
		}
	}
	return w.f.SetColWidth(SheetClusters, "A", "A", 24)
}

// Summary writes the descriptive statistics of the numeric fields.
func (w *Workbook) Summary(stats []*analysis.NumberStats) error {
	if err := w.sheet(SheetSummary); err != nil {
		return err
	}
	header := []interface{}{"field", "count", "average", "median", "min", "max", "iqr", "outliers"}
	for _, q := range analysis.QuantileLevels {
		header = append(header, fmt.Sprintf("p%02.0f", q*100))
	}
	if err := w.row(SheetSummary, 1, header); err != nil {
		return err
	}
	for i, s := range stats {
		values := []interface{}{s.Field, s.Count, s.Average, s.Median, s.Min, s.Max, s.IQR, s.Outliers}
		for _, q := range analysis.QuantileLevels {
			values = append(values, s.Quantiles[q])
		}
		if err := w.row(SheetSummary, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workbook) Write(out io.Writer) error {
	return w.f.Write(out)
}

func (w *Workbook) SaveAs(path string) error {
	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func (w *Workbook) Close() error {
	return w.f.Close()
}
