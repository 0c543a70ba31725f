package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/irfndi/indexcast/internal/cache"
	"github.com/irfndi/indexcast/internal/config"
	"github.com/irfndi/indexcast/internal/dataset"
	"github.com/irfndi/indexcast/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Build("test", &dataset.Table{
		Header: []string{"index_name", "index_date", "closing_index_value", "change_percent"},
		Rows: [][]string{
			{"NIFTY 50", "01-01-2024", "100", "0.5"},
			{"NIFTY 50", "02-01-2024", "102", "2.0"},
			{"NIFTY 50", "03-01-2024", "104", "1.96"},
			{"NIFTY 50", "04-01-2024", "106", "-"},
			{"NIFTY 50", "05-01-2024", "108", "1.89"},
			{"Nifty Bank", "05-01-2024", "47000", ""},
		},
	})
	require.NoError(t, err)
	return ds
}

func setupTestCache(t *testing.T) (*miniredis.Miniredis, *cache.ResponseCache) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() {
		client.Close()
		s.Close()
	})
	return s, cache.NewResponseCache(client, time.Minute, "test", nil)
}

type testHandlers struct {
	index      *IndexHandler
	forecast   *ForecastHandler
	indicators *IndicatorHandler
}

func newTestHandlers(t *testing.T, responseCache *cache.ResponseCache) testHandlers {
	t.Helper()
	ds := newTestDataset(t)
	return testHandlers{
		index: NewIndexHandler(ds, services.NewHistoryService(ds, nil), responseCache, nil),
		forecast: NewForecastHandler(
			services.NewForecastService(ds, config.ForecastConfig{DefaultHorizon: 7, MaxHorizon: 365}, nil),
			responseCache, nil),
		indicators: NewIndicatorHandler(
			services.NewIndicatorService(ds, config.IndicatorsConfig{DefaultPeriod: 3, MaxPeriod: 50}, nil),
			responseCache, nil),
	}
}

func newTestRouter(h testHandlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/indices", h.index.GetIndices)
	router.GET("/history", h.index.GetHistory)
	router.GET("/predict", h.forecast.GetPrediction)
	router.GET("/indicators", h.indicators.GetMovingAverages)
	return router
}

func performRequest(router http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
