package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pivolan/spotviz/analysis"
	"github.com/pivolan/spotviz/classify"
	"github.com/pivolan/spotviz/config"
	"github.com/pivolan/spotviz/domain/models"
)

func buildWorkbook(t *testing.T) *Workbook {
	best, err := config.DefaultCatalog().Get("bestsongs")
	require.NoError(t, err)
	rows := []models.Row{
		{"country": "FR", "year": 2010.0},
		{"country": "FR", "year": 2010.0},
		{"country": "FR", "year": 2010.0},
		{"country": "US", "year": 2011.0},
	}
	c, err := classify.SongCountConfig().Build()
	require.NoError(t, err)

	w := New()
	require.NoError(t, w.Countries(analysis.YearTable(rows, best), c))

	clustered := []models.Row{
		{"cluster_name": "Hip-Hop / Urban", "energy": 0.8},
		{"cluster_name": "Mellow & Acoustic", "energy": 0.2},
	}
	require.NoError(t, w.Clusters(analysis.Profile(clustered)))
	require.NoError(t, w.Summary(analysis.Summary(clustered, []string{"energy"})))
	return w
}

func TestWorkbookSheets(t *testing.T) {
	w := buildWorkbook(t)
	defer w.Close()
	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{SheetCountries, SheetClusters, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetCountries)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"year", "alpha2", "country", "songs", "color"}, rows[0])
	assert.Equal(t, []string{"2010", "FR", "France", "3", "#d9c2ff"}, rows[1])
	assert.Equal(t, []string{"2011", "US", "United States", "1", "#f5edff"}, rows[2])

	style, err := f.GetCellStyle(SheetCountries, "D2")
	require.NoError(t, err)
	assert.NotZero(t, style)

	rows, err = f.GetRows(SheetClusters)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "energy", rows[0][2])
	assert.Equal(t, "Hip-Hop / Urban", rows[1][0])
	assert.Equal(t, "0.8", rows[1][2])

	rows, err = f.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "p01", rows[0][8])
	assert.Equal(t, "energy", rows[1][0])
}

func TestSaveAs(t *testing.T) {
	w := buildWorkbook(t)
	defer w.Close()
	path := filepath.Join(t.TempDir(), "spotviz.xlsx")
	require.NoError(t, w.SaveAs(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 3)
}
