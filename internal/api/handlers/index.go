package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/irfndi/indexcast/internal/cache"
	"github.com/irfndi/indexcast/internal/logging"
	"github.com/irfndi/indexcast/internal/middleware"
	"github.com/irfndi/indexcast/internal/models"
	"github.com/irfndi/indexcast/internal/services"
)

// IndexHandler serves the index catalog and history lookups.
type IndexHandler struct {
	catalog services.SeriesStore
	history *services.HistoryService
	responder
}

func NewIndexHandler(catalog services.SeriesStore, history *services.HistoryService, responseCache *cache.ResponseCache, logger logging.Logger) *IndexHandler {
	return &IndexHandler{
		catalog:   catalog,
		history:   history,
		responder: responder{cache: responseCache, logger: logger},
	}
}

// GetIndices returns the distinct index names
// @Summary List indices
// @Tags indices
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /indices [get]
func (h *IndexHandler) GetIndices(c *gin.Context) {
	h.serve(c, "indices", func() (interface{}, error) {
		indices := h.catalog.Indices()
		middleware.AddSpanAttribute(c, "index.count", len(indices))
		return gin.H{"indices": indices}, nil
	})
}

// GetHistory returns one index's observations within optional inclusive bounds
// @Summary Index history
// @Tags indices
// @Param index_name query string true "Index name, case-insensitive"
// @Param start_date query string false "Inclusive lower bound"
// @Param end_date query string false "Inclusive upper bound"
// @Produce json
// @Router /history [get]
func (h *IndexHandler) GetHistory(c *gin.Context) {
	filter := services.HistoryFilter{
		IndexName: c.Query("index_name"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
	middleware.AddSpanAttribute(c, "index.name", filter.IndexName)

	key := h.cache.Key("history", filter.CacheParts()...)
	h.serve(c, key, func() (interface{}, error) {
		result, err := h.history.Query(c.Request.Context(), filter)
		if err != nil {
			return nil, err
		}
		if result.Empty {
			return gin.H{"data": []models.Observation{}, "message": NoHistoryMessage}, nil
		}
		return gin.H{"data": result.Data}, nil
	})
}
