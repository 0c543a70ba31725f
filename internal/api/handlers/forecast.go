package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/irfndi/indexcast/internal/cache"
	"github.com/irfndi/indexcast/internal/dataset"
	"github.com/irfndi/indexcast/internal/logging"
	"github.com/irfndi/indexcast/internal/middleware"
	"github.com/irfndi/indexcast/internal/models"
	"github.com/irfndi/indexcast/internal/services"
	"github.com/irfndi/indexcast/internal/utils"
)

// ForecastHandler serves linear trend projections.
type ForecastHandler struct {
	forecast *services.ForecastService
	responder
}

func NewForecastHandler(forecast *services.ForecastService, responseCache *cache.ResponseCache, logger logging.Logger) *ForecastHandler {
	return &ForecastHandler{
		forecast:  forecast,
		responder: responder{cache: responseCache, logger: logger},
	}
}

// GetPrediction projects closing values for the requested number of days
// @Summary Forecast closes
// @Tags forecast
// @Param index_name query string true "Index name, case-insensitive"
// @Param days query int false "Horizon in calendar days"
// @Produce json
// @Router /predict [get]
func (h *ForecastHandler) GetPrediction(c *gin.Context) {
	indexName := c.Query("index_name")
	horizon, err := intQuery(c, "days", h.forecast.DefaultHorizon())
	if err != nil {
		h.fault(c, err)
		return
	}
	middleware.AddSpanAttribute(c, "index.name", indexName)
	middleware.AddSpanAttribute(c, "forecast.horizon", horizon)

	key := h.cache.Key("predict", dataset.NormalizeName(indexName), strconv.Itoa(horizon))
	h.serve(c, key, func() (interface{}, error) {
		result, err := h.forecast.Forecast(c.Request.Context(), indexName, horizon)
		if errors.Is(err, services.ErrIndexNotFound) {
			return gin.H{"predictions": []models.ForecastPoint{}, "message": NoIndexMessage}, nil
		}
		if err != nil {
			return nil, err
		}
		return gin.H{
			"index_name":  result.IndexName,
			"predictions": result.Predictions,
			"trend":       result.Trend,
		}, nil
	})
}

// intQuery reads an optional integer query parameter.
func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, utils.NewValidationErrorf(name, "must be an integer, got %q", raw)
	}
	return n, nil
}
