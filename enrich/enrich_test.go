package enrich

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *int32) {
	var busy int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "json", r.URL.Query().Get("fmt"))
		switch strings.TrimPrefix(r.URL.Query().Get("query"), "artist:") {
		case "Lady Gaga":
			fmt.Fprint(w, `{"artists":[{"name":"Lady Gaga","country":"US"}]}`)
		case "Area Artist":
			fmt.Fprint(w, `{"artists":[{"name":"Area Artist","area":{"iso-3166-1-codes":["FR"]}}]}`)
		case "Begin":
			fmt.Fprint(w, `{"artists":[{"name":"Begin","begin-area":{"iso-3166-1-codes":["GB"]}}]}`)
		case "Busy":
			if atomic.AddInt32(&busy, 1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			fmt.Fprint(w, `{"artists":[{"name":"Busy","country":"SE"}]}`)
		case "Broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			fmt.Fprint(w, `{"artists":[]}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &busy
}

func testClient(url string) *Client {
	c := NewClient(url+"/", "test-agent", 0)
	c.RetryDelay = time.Millisecond
	return c
}

func TestArtistCountry(t *testing.T) {
	srv, busy := newTestServer(t)
	c := testClient(srv.URL)
	ctx := context.Background()

	m, err := c.ArtistCountry(ctx, "Nobody, Lady Gaga")
	require.NoError(t, err)
	assert.Equal(t, "US", m.Country)
	assert.Equal(t, "Lady Gaga", m.Artist)

	m, err = c.ArtistCountry(ctx, "Area Artist")
	require.NoError(t, err)
	assert.Equal(t, "FR", m.Country)

	m, err = c.ArtistCountry(ctx, "Begin")
	require.NoError(t, err)
	assert.Equal(t, "GB", m.Country)

	m, err = c.ArtistCountry(ctx, "Busy")
	require.NoError(t, err)
	assert.Equal(t, "SE", m.Country)
	assert.Equal(t, int32(2), atomic.LoadInt32(busy))

	m, err = c.ArtistCountry(ctx, "Broken, Nobody")
	require.NoError(t, err)
	assert.Empty(t, m.Country)
	assert.Equal(t, []string{"Broken"}, m.Failed)
	assert.Equal(t, "Nobody", m.Artist)
}

func TestArtistCountryGivesUpWhenUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	c := testClient(srv.URL)
	c.MaxRetries = 1

	m, err := c.ArtistCountry(context.Background(), "Anyone")
	require.NoError(t, err)
	assert.Equal(t, []string{"Anyone"}, m.Failed)
}

func TestSplitArtists(t *testing.T) {
	assert.Equal(t, []string{"Lady Gaga", "Bruno Mars"}, SplitArtists(" Lady Gaga ,Bruno Mars,"))
	assert.Empty(t, SplitArtists("  "))
}

func TestRun(t *testing.T) {
	srv, _ := newTestServer(t)
	e := &Enricher{Lookup: testClient(srv.URL)}

	in := "\ufeffname,artists,country\n" +
		"a,\"Nobody, Lady Gaga\",\n" +
		"b,Someone,FR\n" +
		"c,Nobody,\n" +
		"d,\"Broken, Area Artist\",\n" +
		"e,,\n"
	var out bytes.Buffer
	stats, err := e.Run(context.Background(), strings.NewReader(in), &out)
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.Kept)
	assert.Equal(t, 2, stats.Found)
	assert.Equal(t, 2, stats.NotFound)
	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, []string{"Broken"}, stats.ErrorArtists)
	assert.InDelta(t, 40.0, stats.SuccessRate(), 1e-9)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "name,artists,country", lines[0])
	assert.Equal(t, `a,"Nobody, Lady Gaga",US`, lines[1])
	assert.Equal(t, "b,Someone,FR", lines[2])
	assert.Equal(t, "c,Nobody,UNKNOWN", lines[3])
	assert.Equal(t, `d,"Broken, Area Artist",FR`, lines[4])
	assert.Equal(t, "e,,UNKNOWN", lines[5])

	report := Report(stats, time.Now(), time.Now(), "in.csv", "out.csv")
	assert.Contains(t, report, "Artists without country (2)")
	assert.Contains(t, report, "2 (40.0%)")
}

func TestRunAddsCountryColumn(t *testing.T) {
	srv, _ := newTestServer(t)
	e := &Enricher{Lookup: testClient(srv.URL)}
	var out bytes.Buffer
	_, err := e.Run(context.Background(), strings.NewReader("artists\nLady Gaga\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "artists,country\nLady Gaga,US\n", out.String())

	_, err = e.Run(context.Background(), strings.NewReader("name\nx\n"), &out)
	assert.Error(t, err)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(40 * time.Millisecond)
	ctx := context.Background()
	start := time.Now()
	require.NoError(t, rl.Wait(ctx))
	require.NoError(t, rl.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, rl.Wait(cancelled), context.Canceled)
}
