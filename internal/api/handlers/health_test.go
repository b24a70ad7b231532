package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxesser1776/mcf-dashboard/internal/store"
)

func healthRouter(st *store.CSVStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", NewHealthHandler(st).Check)
	return router
}

func TestHealthDegradedWithNoFiles(t *testing.T) {
	st := store.NewCSVStore(t.TempDir())
	w := doRequest(healthRouter(st), "/health")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	require.Len(t, body.Topics, 9)
	assert.False(t, body.Topics["yield_curve"].Present)
}

func TestHealthOKWithProcessedFiles(t *testing.T) {
	st := store.NewCSVStore(t.TempDir())
	_, err := st.Save("yield_curve", sampleFrame(t, 3))
	require.NoError(t, err)

	w := doRequest(healthRouter(st), "/health")

	require.Equal(t, http.StatusOK, w.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)

	yc := body.Topics["yield_curve"]
	assert.True(t, yc.Present)
	require.NotNil(t, yc.UpdatedAt)
	assert.Greater(t, yc.SizeBytes, int64(0))
	assert.False(t, body.Topics["fed_liquidity"].Present)
}
