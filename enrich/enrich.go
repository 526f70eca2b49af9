// Package enrich fills the country column of a chart CSV with the origin
// country of its artists, looked up on MusicBrainz.
package enrich

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/schollz/progressbar/v3"

	"github.com/pivolan/spotviz/geo"
)

const (
	ArtistsField = "artists"
	CountryField = "country"
	// reportListLimit caps the artist lists printed in the report.
	reportListLimit = 50
)

type Stats struct {
	Total    int
	Kept     int
	Found    int
	NotFound int
	Errors   int

	NotFoundArtists []string
	ErrorArtists    []string
}

func (s *Stats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Found) / float64(s.Total) * 100
}

type Enricher struct {
	Lookup Lookup
	// Progress receives the progress bar; nil hides it.
	Progress io.Writer
}

// Run copies the CSV from in to out. Rows with a country are kept as they
// are, others get the looked-up country or UNKNOWN. The country column is
// appended when the input has none.
func (e *Enricher) Run(ctx context.Context, in io.Reader, out io.Writer) (*Stats, error) {
	r := csv.NewReader(in)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv: no header")
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	artistIdx, countryIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case ArtistsField:
			artistIdx = i
		case CountryField:
			countryIdx = i
		}
	}
	if artistIdx < 0 {
		return nil, fmt.Errorf("read csv: no %q column", ArtistsField)
	}
	if countryIdx < 0 {
		header = append(header, CountryField)
		countryIdx = len(header) - 1
	}

	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return nil, err
	}

	rows := records[1:]
	stats := &Stats{Total: len(rows)}
	bar := e.newBar(len(rows))
	for _, row := range rows {
		for len(row) <= countryIdx {
			row = append(row, "")
		}
		if strings.TrimSpace(row[countryIdx]) != "" {
			stats.Kept++
		} else {
			var artists string
			if artistIdx < len(row) {
				artists = row[artistIdx]
			}
			m, err := e.Lookup.ArtistCountry(ctx, artists)
			if err != nil {
				w.Flush()
				return stats, fmt.Errorf("lookup %q: %w", artists, err)
			}
			stats.Errors += len(m.Failed)
			stats.ErrorArtists = append(stats.ErrorArtists, m.Failed...)
			if m.Country != "" {
				row[countryIdx] = m.Country
				stats.Found++
			} else {
				row[countryIdx] = geo.UnknownCode
				stats.NotFound++
				stats.NotFoundArtists = append(stats.NotFoundArtists, artists)
			}
		}
		if err := w.Write(row); err != nil {
			return stats, err
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	w.Flush()
	return stats, w.Error()
}

func (e *Enricher) newBar(total int) *progressbar.ProgressBar {
	if e.Progress == nil {
		return progressbar.NewOptions(total, progressbar.OptionSetVisibility(false))
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(e.Progress),
		progressbar.OptionSetDescription("enriching"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
}

// EnrichFile runs the enricher from inPath into outPath and writes the report
// to reportPath when it is not empty.
func (e *Enricher) EnrichFile(ctx context.Context, inPath, outPath, reportPath string) (*Stats, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	out, err := os.Create(outPath)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	start := time.Now()
	stats, err := e.Run(ctx, in, out)
	if err != nil {
		return stats, err
	}
	end := time.Now()
	log.Printf("enriched %s: %d found, %d not found, %d errors", inPath, stats.Found, stats.NotFound, stats.Errors)

	if reportPath == "" {
		return stats, nil
	}
	report := Report(stats, start, end, inPath, outPath)
	if err := os.WriteFile(reportPath, []byte(report), 0644); err != nil {
		return stats, fmt.Errorf("write report: %w", err)
	}
	return stats, nil
}

// Report renders the run statistics and the unmatched artists as text.
func Report(s *Stats, start, end time.Time, inPath, outPath string) string {
	t := table.NewWriter()
	t.SetTitle("Enrichment report")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Start", start.Format("2006-01-02 15:04:05")},
		{"End", end.Format("2006-01-02 15:04:05")},
		{"Duration", end.Sub(start).Round(time.Second).String()},
		{"Input", inPath},
		{"Output", outPath},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Rows", s.Total},
		{"Already set", s.Kept},
		{"Found", fmt.Sprintf("%d (%.1f%%)", s.Found, s.SuccessRate())},
		{"Not found", s.NotFound},
		{"Errors", s.Errors},
	})
	t.SetStyle(table.StyleLight)

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")
	writeList(&b, "Artists without country", s.NotFoundArtists)
	writeList(&b, "Artists with errors", s.ErrorArtists)
	return b.String()
}

func writeList(b *strings.Builder, title string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s (%d):\n", title, len(names))
	for i, n := range names {
		if i == reportListLimit {
			fmt.Fprintf(b, "  ... and %d more\n", len(names)-reportListLimit)
			break
		}
		fmt.Fprintf(b, "  - %s\n", n)
	}
}
