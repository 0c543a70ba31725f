package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndicatorHandler_GetMovingAverages(t *testing.T) {
	router := newTestRouter(newTestHandlers(t, nil))

	w := performRequest(router, "/indicators?index_name=nifty%2050&period=3")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "NIFTY 50", body["index_name"])
	assert.Equal(t, float64(3), body["period"])

	sma := body["sma"].([]interface{})
	require.Len(t, sma, 3)
	first := sma[0].(map[string]interface{})
	assert.Equal(t, "2024-01-03T00:00:00", first["date"])
	assert.Equal(t, float64(102), first["value"])
	assert.Len(t, body["ema"], 3)
}

func TestIndicatorHandler_DefaultPeriod(t *testing.T) {
	router := newTestRouter(newTestHandlers(t, nil))

	w := performRequest(router, "/indicators?index_name=NIFTY%2050")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), decodeBody(t, w)["period"])
}

func TestIndicatorHandler_NotFound(t *testing.T) {
	router := newTestRouter(newTestHandlers(t, nil))

	w := performRequest(router, "/indicators?index_name=SENSEX")
	assert.JSONEq(t, `{"sma":[],"ema":[],"message":"No data found for this index"}`, w.Body.String())
}

func TestIndicatorHandler_Faults(t *testing.T) {
	router := newTestRouter(newTestHandlers(t, nil))

	w := performRequest(router, "/indicators?index_name=NIFTY%2050&period=x")
	assert.Contains(t, decodeBody(t, w)["error"], "invalid period")

	w = performRequest(router, "/indicators?index_name=NIFTY%2050&period=0")
	assert.Contains(t, decodeBody(t, w)["error"], "must be positive")
}
