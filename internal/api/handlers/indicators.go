package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/irfndi/indexcast/internal/cache"
	"github.com/irfndi/indexcast/internal/dataset"
	"github.com/irfndi/indexcast/internal/logging"
	"github.com/irfndi/indexcast/internal/middleware"
	"github.com/irfndi/indexcast/internal/models"
	"github.com/irfndi/indexcast/internal/services"
)

// IndicatorHandler serves moving-average overlays.
type IndicatorHandler struct {
	indicators *services.IndicatorService
	responder
}

func NewIndicatorHandler(indicators *services.IndicatorService, responseCache *cache.ResponseCache, logger logging.Logger) *IndicatorHandler {
	return &IndicatorHandler{
		indicators: indicators,
		responder:  responder{cache: responseCache, logger: logger},
	}
}

// GetMovingAverages returns SMA and EMA series for one index
// @Summary Moving averages
// @Tags indicators
// @Param index_name query string true "Index name, case-insensitive"
// @Param period query int false "Window length in observations"
// @Produce json
// @Router /indicators [get]
func (h *IndicatorHandler) GetMovingAverages(c *gin.Context) {
	indexName := c.Query("index_name")
	period, err := intQuery(c, "period", h.indicators.DefaultPeriod())
	if err != nil {
		h.fault(c, err)
		return
	}
	middleware.AddSpanAttribute(c, "index.name", indexName)

	key := h.cache.Key("indicators", dataset.NormalizeName(indexName), strconv.Itoa(period))
	h.serve(c, key, func() (interface{}, error) {
		result, err := h.indicators.MovingAverages(c.Request.Context(), indexName, period)
		if errors.Is(err, services.ErrIndexNotFound) {
			return gin.H{
				"sma":     []models.IndicatorPoint{},
				"ema":     []models.IndicatorPoint{},
				"message": NoIndexMessage,
			}, nil
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	})
}
