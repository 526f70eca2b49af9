package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/pivolan/spotviz/analysis"
	"github.com/pivolan/spotviz/charts"
	"github.com/pivolan/spotviz/classify"
	"github.com/pivolan/spotviz/config"
	"github.com/pivolan/spotviz/dataset"
	"github.com/pivolan/spotviz/plot"
	"github.com/pivolan/spotviz/viewstate"
)

const (
	clusteredKey = "clustered"
	trendsKey    = "trends"
	genresKey    = "genres"
	loadTimeout  = 2 * time.Minute
)

type server struct {
	app   *app
	store *viewstate.Store
	// uploadDir receives files posted to /upload.
	uploadDir string
}

func newServer(a *app) *server {
	return &server{app: a, store: viewstate.NewStore(), uploadDir: filepath.Join(a.cfg.OutDir, "uploads")}
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/map", s.handleMap)
	mux.HandleFunc("/clusters", s.handleClusters)
	mux.HandleFunc("/trends", s.handleTrends)
	mux.HandleFunc("/genres", s.handleGenres)
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/colors", s.handleColors)
	mux.HandleFunc("/api/songs", s.handleSongs)
	mux.HandleFunc("/png/countries", s.handleCountriesPNG)
	mux.HandleFunc("/upload", s.handleUpload)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json: %v", err)
	}
}

func writePNG(w http.ResponseWriter, png []byte, err error) {
	if errors.Is(err, plot.ErrNoData) || errors.Is(err, plot.ErrNotEnoughPoints) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Error rendering chart", http.StatusInternalServerError)
		log.Printf("render png: %v", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func queryInt(r *http.Request, name string, def int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil {
		return v
	}
	return def
}

type stateResponse struct {
	State    *viewstate.State `json:"state,omitempty"`
	Loading  bool             `json:"loading"`
	Token    string           `json:"token,omitempty"`
	Datasets []string         `json:"datasets"`
}

// applySelection lays the posted cluster, vars and toggle fields over st.
// Fields that were not posted leave the selection as it is.
func applySelection(r *http.Request, st viewstate.State) viewstate.State {
	if _, ok := r.PostForm["cluster"]; ok {
		st = st.WithCluster(r.PostForm.Get("cluster"))
	}
	if _, ok := r.PostForm["vars"]; ok {
		st = st.WithFeatures(selectedVariables(r.PostForm.Get("vars"))...)
	}
	if v := r.PostForm.Get("toggle"); v != "" {
		for _, known := range analysis.TrendVariables {
			if v == known {
				st = st.ToggleFeature(v)
				break
			}
		}
	}
	return st
}

// handleState reports the selection on GET. POST changes it: dataset, year,
// cluster, vars (comma separated trend variables) and toggle (one variable).
// On the loaded dataset the change applies at once; a different dataset
// starts an asynchronous load and answers 202 with its token.
func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	resp := stateResponse{Datasets: s.app.cfg.Catalog.Keys()}
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		cur := s.store.Current()
		key := r.PostForm.Get("dataset")
		if key == "" && cur != nil {
			key = cur.State.Dataset
		}
		ds, err := s.app.dataset(key)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		year, yearErr := strconv.Atoi(r.PostForm.Get("year"))
		if cur != nil && cur.State.Dataset == ds.Key && !s.store.Loading() {
			s.store.Select(func(st viewstate.State) viewstate.State {
				if yearErr == nil {
					st = st.WithYear(ds.ClampYear(year))
				}
				return applySelection(r, st)
			})
			break
		}
		if yearErr != nil {
			year = ds.DefaultYear
		}
		var base viewstate.State
		if cur != nil {
			base = cur.State
		}
		next := applySelection(r, base.WithDataset(ds.Key, ds.ClampYear(year)))
		tok := s.store.Begin(next)
		go s.load(tok, next)
		resp.Token = string(tok)
		resp.Loading = true
		writeJSON(w, http.StatusAccepted, resp)
		return
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if cur := s.store.Current(); cur != nil {
		st := cur.State
		resp.State = &st
	}
	resp.Loading = s.store.Loading()
	writeJSON(w, http.StatusOK, resp)
}

// load builds the snapshot for state and installs it unless a newer request
// was made meanwhile. A failed load keeps the previous view.
func (s *server) load(tok viewstate.Token, state viewstate.State) {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	snap, err := s.app.snapshot(ctx, state)
	if err != nil {
		s.store.Fail(tok)
		log.Printf("load of %q failed, keeping previous view: %v", state.Dataset, err)
		return
	}
	if err := s.store.Complete(tok, snap); err != nil {
		log.Printf("load of %q discarded: %v", state.Dataset, err)
	}
}

// selection is the installed view state, the zero State before the first load.
func (s *server) selection() viewstate.State {
	if snap := s.store.Current(); snap != nil {
		return snap.State
	}
	return viewstate.State{}
}

// current returns the installed snapshot, answering 503 when there is none.
func (s *server) current(w http.ResponseWriter) *viewstate.Snapshot {
	snap := s.store.Current()
	if snap == nil {
		http.Error(w, "no dataset loaded yet", http.StatusServiceUnavailable)
	}
	return snap
}

// handleColors maps every map feature id to its fill for the current view.
func (s *server) handleColors(w http.ResponseWriter, r *http.Request) {
	snap := s.current(w)
	if snap == nil {
		return
	}
	features, err := s.app.worldFeatures()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	colors := make(map[string]string, len(features))
	for _, f := range features {
		colors[strconv.Itoa(f.ID)] = string(snap.CountryColor(f.ID))
	}
	writeJSON(w, http.StatusOK, colors)
}

func (s *server) handleMap(w http.ResponseWriter, r *http.Request) {
	snap := s.current(w)
	if snap == nil {
		return
	}
	features, err := s.app.worldFeatures()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	ds, err := s.app.dataset(snap.State.Dataset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	cells := analysis.CountryCells(features, snap.Table, snap.State.Year, snap.Classifier)
	title := fmt.Sprintf("%s %d", ds.Label, snap.State.Year)
	if err := charts.Map(w, title, cells, classify.Levels(snap.Classifier)); err != nil {
		log.Printf("render map: %v", err)
	}
}

func (s *server) handleSongs(w http.ResponseWriter, r *http.Request) {
	snap := s.current(w)
	if snap == nil {
		return
	}
	ds, err := s.app.dataset(snap.State.Dataset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	country := strings.ToUpper(r.URL.Query().Get("country"))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"country": country,
		"year":    snap.State.Year,
		"years":   analysis.YearsWithData(snap.Table, country),
		"songs":   analysis.CountrySongs(snap.Table, snap.State.Year, country, ds.Kind),
	})
}

func (s *server) handleCountriesPNG(w http.ResponseWriter, r *http.Request) {
	snap := s.current(w)
	if snap == nil {
		return
	}
	totals := analysis.CountryTotals(snap.Table, snap.State.Year)
	title := fmt.Sprintf("%s %d", snap.State.Dataset, snap.State.Year)
	png, err := plot.DrawPlotBar(plot.CountryBars(totals, snap.Classifier, title))
	writePNG(w, png, err)
}

// tableFor loads the dataset named by the "dataset" query parameter, or def.
func (s *server) tableFor(w http.ResponseWriter, r *http.Request, def string) (config.Dataset, *dataset.Table, bool) {
	key := r.URL.Query().Get("dataset")
	if key == "" {
		key = def
	}
	ds, err := s.app.dataset(key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return ds, nil, false
	}
	t, err := s.app.table(r.Context(), ds)
	if err != nil {
		http.Error(w, "Error loading dataset", http.StatusInternalServerError)
		log.Printf("load %s: %v", ds.Key, err)
		return ds, nil, false
	}
	return ds, t, true
}

func (s *server) handleClusters(w http.ResponseWriter, r *http.Request) {
	_, t, ok := s.tableFor(w, r, clusteredKey)
	if !ok {
		return
	}
	palette := classify.ClusterPalette()
	var err error
	switch r.URL.Query().Get("view") {
	case "", "heatmap":
		p := analysis.Profile(t.Rows)
		cells, herr := p.Heatmap()
		if herr != nil {
			http.Error(w, herr.Error(), http.StatusInternalServerError)
			return
		}
		err = charts.Heatmap(w, p.Clusters, cells)
	case "radar":
		state := s.selection()
		if c := r.URL.Query().Get("cluster"); c != "" {
			state = state.WithCluster(c)
		}
		var selected []string
		if state.Cluster != "" {
			selected = append(selected, state.Cluster)
		}
		err = charts.Radar(w, analysis.Profile(t.Rows), palette, selected...)
	case "scatter":
		err = charts.Scatter(w, analysis.Scatter(t.Rows, palette), palette)
	case "stream":
		err = charts.Stream(w, analysis.Stream(t.Rows, palette), palette)
	default:
		http.Error(w, "unknown view", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Printf("render clusters: %v", err)
	}
}

// selectedVariables reads the comma separated "vars" parameter, keeping only
// known trend variables.
func selectedVariables(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		v = strings.TrimSpace(v)
		for _, known := range analysis.TrendVariables {
			if v == known {
				out = append(out, v)
				break
			}
		}
	}
	if len(out) == 0 {
		out = []string{analysis.DefaultTrend}
	}
	return out
}

func (s *server) handleTrends(w http.ResponseWriter, r *http.Request) {
	_, t, ok := s.tableFor(w, r, trendsKey)
	if !ok {
		return
	}
	points := analysis.Trends(t.Rows)
	state := s.selection()
	if raw := r.URL.Query().Get("vars"); raw != "" {
		state = state.WithFeatures(selectedVariables(raw)...)
	}
	vars := selectedVariables(strings.Join(state.Features, ","))
	colors := classify.NewOrdinal(classify.Tableau10, analysis.TrendVariables...)

	switch r.URL.Query().Get("format") {
	case "png":
		series := make([]*analysis.TrendSeries, 0, len(vars))
		for _, v := range vars {
			series = append(series, analysis.Series(points, v))
		}
		png, err := plot.DrawTrendLines(series, colors)
		writePNG(w, png, err)
	case "csv":
		out, err := GenerateTrendsCSV(points, vars)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		io.WriteString(w, out)
	default:
		if err := charts.Trends(w, points, vars, colors); err != nil {
			log.Printf("render trends: %v", err)
		}
	}
}

func (s *server) handleGenres(w http.ResponseWriter, r *http.Request) {
	ds, t, ok := s.tableFor(w, r, genresKey)
	if !ok {
		return
	}
	year := ds.ClampYear(queryInt(r, "year", ds.DefaultYear))
	counts := analysis.GenreCounts(t.Rows, ds, year)
	colors := classify.NewOrdinal(classify.Set2)
	if r.URL.Query().Get("format") == "png" {
		png, err := plot.DrawGenrePie(year, counts, colors)
		writePNG(w, png, err)
		return
	}
	if err := charts.GenrePie(w, year, counts, colors); err != nil {
		log.Printf("render genres: %v", err)
	}
}

// handleUpload stores a posted CSV under its own id and answers with the
// numeric summary of its columns.
func (s *server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Error uploading file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	id := uuid.NewV4().String()
	dir := filepath.Join(s.uploadDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		http.Error(w, "Error saving file", http.StatusInternalServerError)
		return
	}
	filePath := filepath.Join(dir, filepath.Base(header.Filename))
	dst, err := os.Create(filePath)
	if err != nil {
		http.Error(w, "Error saving file", http.StatusInternalServerError)
		return
	}
	_, err = io.Copy(dst, file)
	dst.Close()
	if err != nil {
		http.Error(w, "Error saving file", http.StatusInternalServerError)
		return
	}

	t, err := dataset.LoadFile(filePath)
	if err != nil {
		http.Error(w, "Error reading file: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%s: %d rows\n", id, len(t.Rows))
	io.WriteString(w, GenerateTable(analysis.Summary(t.Rows, t.NumericFields())))
}
