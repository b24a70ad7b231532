package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxesser1776/mcf-dashboard/internal/config"
	"github.com/maxesser1776/mcf-dashboard/internal/timeseries"
)

func newTestClient(url string) *Client {
	return NewClient(&config.YahooConfig{BaseURL: url, Timeout: 5})
}

func TestClient_DailyCloses_PrefersAdjClose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v8/finance/chart/GC=F", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		_, _ = w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[1704067200,1704153600,1704240000],
			"indicators":{
				"quote":[{"close":[2000.0,2010.0,2020.0]}],
				"adjclose":[{"adjclose":[2001.0,null,2021.0]}]
			}
		}],"error":null}}`))
	}))
	defer server.Close()

	s, err := newTestClient(server.URL).DailyCloses(context.Background(), "GC=F", "Gold", timeseries.Date(2024, time.January, 1))
	require.NoError(t, err)

	assert.Equal(t, "Gold", s.Name())
	require.Equal(t, 2, s.Len(), "null candles are skipped")
	assert.Equal(t, 2001.0, s.Points()[0].Value)
	assert.Equal(t, 2021.0, s.Points()[1].Value)
	assert.Equal(t, timeseries.Date(2024, time.January, 1), s.Points()[0].Date)
}

func TestClient_DailyCloses_FallsBackToClose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[1704067200],
			"indicators":{"quote":[{"close":[15.5]}]}
		}],"error":null}}`))
	}))
	defer server.Close()

	s, err := newTestClient(server.URL).DailyCloses(context.Background(), "^VIX", "", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "^VIX", s.Name())
	assert.Equal(t, 15.5, s.Points()[0].Value)
}

func TestClient_DailyCloses_SymbolNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).DailyCloses(context.Background(), "NOPE", "", time.Time{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClient_DailyCloses_EmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).DailyCloses(context.Background(), "GC=F", "", time.Time{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}
