package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pivolan/spotviz/analysis"
	"github.com/pivolan/spotviz/domain/models"
	"github.com/pivolan/spotviz/geo"
)

// GenerateTable renders the numeric summary, one row per field.
func GenerateTable(stats []*analysis.NumberStats) string {
	t := table.NewWriter()
	header := table.Row{"FieldName", "Count", "Avg", "Min", "Max", "Median"}
	for _, q := range analysis.QuantileLevels {
		header = append(header, fmt.Sprintf("Q%g", q))
	}
	header = append(header, "IQR", "Outliers")
	t.AppendHeader(header)

	for _, s := range stats {
		row := table.Row{s.Field, s.Count, s.Average, s.Min, s.Max, s.Median}
		for _, q := range analysis.QuantileLevels {
			row = append(row, s.Quantiles[q])
		}
		row = append(row, s.IQR, s.Outliers)
		t.AppendRow(row)
	}
	t.SetStyle(table.StyleDefault)
	return t.Render()
}

// GenerateTableMarkdown is GenerateTable for pasting into documents.
func GenerateTableMarkdown(stats []*analysis.NumberStats) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Field", "Count", "Avg", "Median", "Min", "Max"})
	for _, s := range stats {
		t.AppendRow(table.Row{s.Field, s.Count, s.Average, s.Median, s.Min, s.Max})
	}
	return t.RenderMarkdown()
}

// GenerateCountryTable lists the song count and map color of every country
// for one year.
func GenerateCountryTable(year int, cells []models.CountryCell) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("Songs per country, %d", year))
	t.AppendHeader(table.Row{"Alpha2", "Country", "Songs", "Color"})
	total := 0
	for _, c := range cells {
		if c.Count == 0 {
			continue
		}
		t.AppendRow(table.Row{c.Alpha2, c.Name, c.Count, string(c.Color)})
		total += c.Count
	}
	t.AppendFooter(table.Row{"", "Total", total, ""})
	t.SortBy([]table.SortBy{{Name: "Songs", Mode: table.DscNumeric}, {Name: "Alpha2", Mode: table.Asc}})
	t.SetStyle(table.StyleLight)
	return t.Render()
}

// GenerateSongsTable lists the songs of one country in display order.
func GenerateSongsTable(alpha2 string, year int, songs []models.Song, kind models.DatasetKind) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%s %d", geo.ByAlpha2(alpha2).Name, year))
	rankHeader := "Rank"
	if kind == models.KindWorldwide {
		rankHeader = "Popularity"
	}
	t.AppendHeader(table.Row{"#", rankHeader, "Name", "Artists"})
	for i, s := range songs {
		rank := s.DailyRank
		if kind == models.KindWorldwide {
			rank = s.Popularity
		}
		t.AppendRow(table.Row{i + 1, rank, s.Name, s.Artists})
	}
	t.SetStyle(table.StyleLight)
	return t.Render()
}

// GenerateKeyCountTable renders counted keys such as genres.
func GenerateKeyCountTable(title, keyName string, counts []analysis.KeyCount) string {
	t := table.NewWriter()
	t.SetTitle(title)
	t.AppendHeader(table.Row{keyName, "Songs"})
	for _, kc := range counts {
		t.AppendRow(table.Row{kc.Key, kc.Count})
	}
	t.SetStyle(table.StyleLight)
	return t.Render()
}

// GenerateClusterTable renders the per-cluster feature means.
func GenerateClusterTable(p *analysis.ClusterProfile) string {
	t := table.NewWriter()
	header := table.Row{"Cluster"}
	for _, f := range analysis.HeatmapFeatures {
		header = append(header, f)
	}
	t.AppendHeader(header)
	for _, c := range p.Clusters {
		row := table.Row{c}
		for _, f := range analysis.HeatmapFeatures {
			if v, ok := p.Means[c][f]; ok {
				row = append(row, strconv.FormatFloat(v, 'f', 3, 64))
			} else {
				row = append(row, "")
			}
		}
		t.AppendRow(row)
	}
	t.SetStyle(table.StyleLight)
	return t.Render()
}

// GenerateTrendsCSV writes one row per year with the mean of every variable.
// Missing means are left empty.
func GenerateTrendsCSV(points []analysis.TrendPoint, variables []string) (string, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(append([]string{"year"}, variables...)); err != nil {
		return "", err
	}
	for _, p := range points {
		record := []string{strconv.Itoa(p.Year)}
		for _, v := range variables {
			if m, ok := p.Means[v]; ok {
				record = append(record, strconv.FormatFloat(m, 'f', -1, 64))
			} else {
				record = append(record, "")
			}
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}
