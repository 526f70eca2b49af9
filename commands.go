package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pivolan/spotviz/analysis"
	"github.com/pivolan/spotviz/charts"
	"github.com/pivolan/spotviz/classify"
	"github.com/pivolan/spotviz/config"
	"github.com/pivolan/spotviz/dataset"
	"github.com/pivolan/spotviz/enrich"
	"github.com/pivolan/spotviz/export"
	"github.com/pivolan/spotviz/geo"
	"github.com/pivolan/spotviz/plot"
	"github.com/pivolan/spotviz/viewstate"
)

const uploadMaxAge = 2 * time.Hour

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "spotviz",
		Short:        "Spotify chart maps, cluster profiles, trends and genres",
		SilenceUsage: true,
	}
	appFor := func() *app { return newApp(config.GetConfig()) }
	root.AddCommand(
		newMapCmd(appFor),
		newSongsCmd(appFor),
		newClustersCmd(appFor),
		newTrendsCmd(appFor),
		newGenresCmd(appFor),
		newSummaryCmd(appFor),
		newExportCmd(appFor),
		newEnrichCmd(),
		newServeCmd(appFor),
	)
	return root
}

// writeOutput renders into dir/name, creating dir when needed.
func writeOutput(dir, name string, render func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := render(f); err != nil {
		f.Close()
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return path, f.Close()
}

func writePNGFile(dir, name string, png []byte) (string, error) {
	return writeOutput(dir, name, func(w io.Writer) error {
		_, err := w.Write(png)
		return err
	})
}

// yearFlag picks the --year value, or the dataset default when unset.
func yearFlag(ds config.Dataset, year int) int {
	if year == 0 {
		return ds.DefaultYear
	}
	return ds.ClampYear(year)
}

func newMapCmd(appFor func() *app) *cobra.Command {
	var key string
	var year int
	var png bool
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Color the world map by song count for one year",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFor()
			ds, err := a.dataset(key)
			if err != nil {
				return err
			}
			year = yearFlag(ds, year)
			snap, err := a.snapshot(cmd.Context(), viewstate.State{}.WithDataset(ds.Key, year))
			if err != nil {
				return err
			}
			features, err := a.worldFeatures()
			if err != nil {
				return err
			}
			cells := analysis.CountryCells(features, snap.Table, year, snap.Classifier)
			fmt.Fprintln(cmd.OutOrStdout(), GenerateCountryTable(year, cells))

			title := fmt.Sprintf("%s %d", ds.Label, year)
			path, err := writeOutput(a.cfg.OutDir, fmt.Sprintf("map_%s_%d.html", ds.Key, year), func(w io.Writer) error {
				return charts.Map(w, title, cells, classify.Levels(snap.Classifier))
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "map written to", path)

			if png {
				bars, err := plot.DrawPlotBar(plot.CountryBars(analysis.CountryTotals(snap.Table, year), snap.Classifier, title))
				if err != nil {
					return err
				}
				path, err := writePNGFile(a.cfg.OutDir, fmt.Sprintf("countries_%s_%d.png", ds.Key, year), bars)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "bars written to", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&key, "dataset", "d", "", "catalog dataset key (default: catalog default)")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "year to show (default: dataset default)")
	cmd.Flags().BoolVar(&png, "png", false, "also render a PNG bar chart of the counts")
	return cmd
}

func newSongsCmd(appFor func() *app) *cobra.Command {
	var key, country string
	var year int
	var history bool
	cmd := &cobra.Command{
		Use:   "songs",
		Short: "List the songs of one country and year",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFor()
			ds, err := a.dataset(key)
			if err != nil {
				return err
			}
			year = yearFlag(ds, year)
			snap, err := a.snapshot(cmd.Context(), viewstate.State{}.WithDataset(ds.Key, year))
			if err != nil {
				return err
			}
			country = strings.ToUpper(country)
			songs := analysis.CountrySongs(snap.Table, year, country, ds.Kind)
			fmt.Fprintln(cmd.OutOrStdout(), GenerateSongsTable(country, year, songs, ds.Kind))
			fmt.Fprintf(cmd.OutOrStdout(), "years with data: %v\n", analysis.YearsWithData(snap.Table, country))

			if history {
				counts := analysis.YearCounts(snap.Table, country)
				png, err := plot.DrawPlotBar(plot.NewDataYearsForGraph(counts, "songs", country+" per year"))
				if err != nil {
					return err
				}
				path, err := writePNGFile(a.cfg.OutDir, fmt.Sprintf("years_%s_%s.png", ds.Key, country), png)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "history written to", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&key, "dataset", "d", "", "catalog dataset key")
	cmd.Flags().StringVarP(&country, "country", "c", "", "two-letter country code")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "year (default: dataset default)")
	cmd.Flags().BoolVar(&history, "history", false, "render a PNG of the song count per year")
	_ = cmd.MarkFlagRequired("country")
	return cmd
}

func newClustersCmd(appFor func() *app) *cobra.Command {
	var key, cluster string
	cmd := &cobra.Command{
		Use:   "clusters",
		Short: "Render the cluster heatmap, radar, scatter and streamgraph pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFor()
			ds, err := a.dataset(key)
			if err != nil {
				return err
			}
			t, err := a.table(cmd.Context(), ds)
			if err != nil {
				return err
			}
			state := viewstate.State{}.WithDataset(ds.Key, ds.DefaultYear).WithCluster(cluster)
			var radar []string
			if state.Cluster != "" {
				radar = append(radar, state.Cluster)
			}
			p := analysis.Profile(t.Rows)
			fmt.Fprintln(cmd.OutOrStdout(), GenerateClusterTable(p))

			cells, err := p.Heatmap()
			if err != nil {
				return err
			}
			palette := classify.ClusterPalette()
			pages := map[string]func(io.Writer) error{
				"clusters_heatmap.html": func(w io.Writer) error { return charts.Heatmap(w, p.Clusters, cells) },
				"clusters_radar.html":   func(w io.Writer) error { return charts.Radar(w, p, palette, radar...) },
				"clusters_scatter.html": func(w io.Writer) error {
					return charts.Scatter(w, analysis.Scatter(t.Rows, palette), palette)
				},
				"clusters_stream.html": func(w io.Writer) error {
					return charts.Stream(w, analysis.Stream(t.Rows, palette), palette)
				},
			}
			for name, render := range pages {
				path, err := writeOutput(a.cfg.OutDir, name, render)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "written", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&key, "dataset", "d", clusteredKey, "catalog dataset key")
	cmd.Flags().StringVar(&cluster, "cluster", "", "only draw this cluster on the radar page")
	return cmd
}

func newTrendsCmd(appFor func() *app) *cobra.Command {
	var key, vars string
	var asCSV bool
	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Plot the yearly mean of audio features",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFor()
			ds, err := a.dataset(key)
			if err != nil {
				return err
			}
			t, err := a.table(cmd.Context(), ds)
			if err != nil {
				return err
			}
			points := analysis.Trends(t.Rows)
			state := viewstate.State{}.WithDataset(ds.Key, ds.DefaultYear).WithFeatures(selectedVariables(vars)...)
			selected := state.Features
			if asCSV {
				out, err := GenerateTrendsCSV(points, selected)
				if err != nil {
					return err
				}
				_, err = io.WriteString(cmd.OutOrStdout(), out)
				return err
			}

			colors := classify.NewOrdinal(classify.Tableau10, analysis.TrendVariables...)
			series := make([]*analysis.TrendSeries, 0, len(selected))
			for _, v := range selected {
				s := analysis.Series(points, v)
				fmt.Fprintln(cmd.OutOrStdout(), s.Description())
				series = append(series, s)
			}
			path, err := writeOutput(a.cfg.OutDir, "trends.html", func(w io.Writer) error {
				return charts.Trends(w, points, selected, colors)
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "written", path)

			png, err := plot.DrawTrendLines(series, colors)
			if err != nil {
				log.Printf("trends png skipped: %v", err)
				return nil
			}
			path, err = writePNGFile(a.cfg.OutDir, "trends.png", png)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "written", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&key, "dataset", "d", trendsKey, "catalog dataset key")
	cmd.Flags().StringVar(&vars, "vars", analysis.DefaultTrend, "comma separated audio variables")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "print the yearly means as CSV instead of rendering")
	return cmd
}

func newGenresCmd(appFor func() *app) *cobra.Command {
	var key string
	var year int
	cmd := &cobra.Command{
		Use:   "genres",
		Short: "Count songs per genre for one year",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFor()
			ds, err := a.dataset(key)
			if err != nil {
				return err
			}
			t, err := a.table(cmd.Context(), ds)
			if err != nil {
				return err
			}
			year = yearFlag(ds, year)
			counts := analysis.GenreCounts(t.Rows, ds, year)
			fmt.Fprintln(cmd.OutOrStdout(), GenerateKeyCountTable(fmt.Sprintf("Genres %d", year), "Genre", counts))

			colors := classify.NewOrdinal(classify.Set2)
			path, err := writeOutput(a.cfg.OutDir, fmt.Sprintf("genres_%d.html", year), func(w io.Writer) error {
				return charts.GenrePie(w, year, counts, colors)
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "written", path)

			png, err := plot.DrawGenrePie(year, counts, colors)
			if err != nil {
				log.Printf("genres png skipped: %v", err)
				return nil
			}
			path, err = writePNGFile(a.cfg.OutDir, fmt.Sprintf("genres_%d.png", year), png)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "written", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&key, "dataset", "d", genresKey, "catalog dataset key")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "year (default: dataset default)")
	return cmd
}

func newSummaryCmd(appFor func() *app) *cobra.Command {
	var key, file, field string
	var markdown bool
	var bins int
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Describe the numeric columns of a dataset or CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFor()
			var t *dataset.Table
			var err error
			if file != "" {
				t, err = dataset.LoadFile(file)
			} else {
				var ds config.Dataset
				if ds, err = a.dataset(key); err == nil {
					t, err = a.table(cmd.Context(), ds)
				}
			}
			if err != nil {
				return err
			}
			stats := analysis.Summary(t.Rows, t.NumericFields())
			if markdown {
				fmt.Fprintln(cmd.OutOrStdout(), GenerateTableMarkdown(stats))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), GenerateTable(stats))
			}
			if field == "" {
				return nil
			}
			png, err := plot.DrawPlotBar(plot.Histogram(field, analysis.FieldValues(t.Rows, field), bins))
			if err != nil {
				return fmt.Errorf("histogram of %s: %w", field, err)
			}
			path, err := writePNGFile(a.cfg.OutDir, "histogram_"+field+".png", png)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "written", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&key, "dataset", "d", "", "catalog dataset key")
	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV or archive to describe instead of a dataset")
	cmd.Flags().StringVar(&field, "field", "", "render a histogram of this numeric field")
	cmd.Flags().IntVar(&bins, "bins", 20, "histogram bins")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "print a markdown table")
	return cmd
}

func newExportCmd(appFor func() *app) *cobra.Command {
	var key, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write country counts, cluster means and statistics to xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFor()
			ds, err := a.dataset(key)
			if err != nil {
				return err
			}
			snap, err := a.snapshot(cmd.Context(), viewstate.State{}.WithDataset(ds.Key, ds.DefaultYear))
			if err != nil {
				return err
			}
			wb := export.New()
			defer wb.Close()
			if err := wb.Countries(snap.Table, snap.Classifier); err != nil {
				return err
			}

			clusteredDS, err := a.dataset(clusteredKey)
			if err != nil {
				return err
			}
			clustered, err := a.table(cmd.Context(), clusteredDS)
			if err != nil {
				log.Printf("export: clusters skipped: %v", err)
			} else {
				if err := wb.Clusters(analysis.Profile(clustered.Rows)); err != nil {
					return err
				}
				if err := wb.Summary(analysis.Summary(clustered.Rows, clustered.NumericFields())); err != nil {
					return err
				}
			}
			if out == "" {
				if err := os.MkdirAll(a.cfg.OutDir, 0755); err != nil {
					return err
				}
				out = filepath.Join(a.cfg.OutDir, "spotviz.xlsx")
			}
			if err := wb.SaveAs(out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "written", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&key, "dataset", "d", "", "catalog dataset for the country sheet")
	cmd.Flags().StringVarP(&out, "out", "o", "", "xlsx path (default: OUT_DIR/spotviz.xlsx)")
	return cmd
}

func newEnrichCmd() *cobra.Command {
	var in, out, report string
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Fill the country column of a chart CSV from MusicBrainz",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()
			e := &enrich.Enricher{
				Lookup:   enrich.NewClient(cfg.MusicBrainz, cfg.UserAgent, cfg.RateLimit),
				Progress: cmd.ErrOrStderr(),
			}
			stats, err := e.EnrichFile(cmd.Context(), in, out, report)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d found, %d not found (marked %s), %d errors\n",
				stats.Found, stats.NotFound, geo.UnknownCode, stats.Errors)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "input CSV")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output CSV")
	cmd.Flags().StringVar(&report, "report", "", "optional report file")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newServeCmd(appFor func() *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive pages over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFor()
			if addr == "" {
				addr = a.cfg.Addr
			}
			s := newServer(a)

			ds, err := a.dataset("")
			if err != nil {
				return err
			}
			initial := viewstate.State{}.WithDataset(ds.Key, ds.DefaultYear)
			go s.load(s.store.Begin(initial), initial)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go func() {
				ticker := time.NewTicker(time.Minute)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if _, err := removeOldFiles(s.uploadDir, time.Now().Add(-uploadMaxAge)); err != nil {
							log.Printf("cleanup %s: %v", s.uploadDir, err)
						}
					}
				}
			}()

			log.Printf("listen on: http://localhost%s", addr)
			return http.ListenAndServe(addr, s.routes())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: HTTP_ADDR)")
	return cmd
}
