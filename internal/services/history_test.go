package services

import (
	"context"
	"testing"

	"github.com/irfndi/indexcast/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryService_Query(t *testing.T) {
	svc := NewHistoryService(newTestStore(t), nil)

	result, err := svc.Query(context.Background(), HistoryFilter{IndexName: "nifty 50 "})
	require.NoError(t, err)
	assert.False(t, result.Empty)
	require.Len(t, result.Data, 5)

	for i := 1; i < len(result.Data); i++ {
		assert.False(t, result.Data[i].Date.Before(result.Data[i-1].Date))
	}
	for _, obs := range result.Data {
		assert.Equal(t, "NIFTY 50", obs.IndexName)
	}
}

func TestHistoryService_QueryBounds(t *testing.T) {
	svc := NewHistoryService(newTestStore(t), nil)
	ctx := context.Background()

	result, err := svc.Query(ctx, HistoryFilter{IndexName: "NIFTY 50", StartDate: "2024-01-02", EndDate: "2024-01-04"})
	require.NoError(t, err)
	require.Len(t, result.Data, 3)
	assert.Equal(t, "102", result.Data[0].Close.String())
	assert.Equal(t, "106", result.Data[2].Close.String())

	result, err = svc.Query(ctx, HistoryFilter{IndexName: "NIFTY 50", StartDate: "01/04/2024"})
	require.NoError(t, err)
	assert.Len(t, result.Data, 2)

	result, err = svc.Query(ctx, HistoryFilter{IndexName: "NIFTY 50", EndDate: "2024-01-01"})
	require.NoError(t, err)
	assert.Len(t, result.Data, 1)
}

func TestHistoryService_QueryEmpty(t *testing.T) {
	svc := NewHistoryService(newTestStore(t), nil)
	ctx := context.Background()

	result, err := svc.Query(ctx, HistoryFilter{IndexName: "NIFTY 50", StartDate: "2030-01-01"})
	require.NoError(t, err)
	assert.True(t, result.Empty)
	assert.NotNil(t, result.Data)
	assert.Empty(t, result.Data)

	result, err = svc.Query(ctx, HistoryFilter{IndexName: "NIFTY"})
	require.NoError(t, err)
	assert.True(t, result.Empty)
}

func TestHistoryService_QueryValidation(t *testing.T) {
	svc := NewHistoryService(newTestStore(t), nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter HistoryFilter
		want   string
	}{
		{"missing name", HistoryFilter{IndexName: "  "}, "invalid index_name: is required"},
		{"bad start", HistoryFilter{IndexName: "NIFTY 50", StartDate: "yesterday"}, "invalid start_date"},
		{"bad end", HistoryFilter{IndexName: "NIFTY 50", EndDate: "2024-13-45"}, "invalid end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Query(ctx, tt.filter)
			require.Error(t, err)
			assert.True(t, utils.IsValidationError(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestHistoryService_Idempotent(t *testing.T) {
	svc := NewHistoryService(newTestStore(t), nil)
	filter := HistoryFilter{IndexName: "NIFTY 50", StartDate: "2024-01-02"}

	first, err := svc.Query(context.Background(), filter)
	require.NoError(t, err)
	second, err := svc.Query(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestHistoryService_AmbiguousBoundReadsMonthFirst(t *testing.T) {
	svc := NewHistoryService(newTestStore(t,
		[]string{"NIFTY 50", "2024-01-02", "100"},
		[]string{"NIFTY 50", "2024-01-20", "101"},
		[]string{"NIFTY 50", "2024-02-05", "102"},
	), nil)
	ctx := context.Background()

	result, err := svc.Query(ctx, HistoryFilter{IndexName: "NIFTY 50", StartDate: "01/02/2024"})
	require.NoError(t, err)
	assert.Len(t, result.Data, 3)

	result, err = svc.Query(ctx, HistoryFilter{IndexName: "NIFTY 50", EndDate: "01/20/2024"})
	require.NoError(t, err)
	assert.Len(t, result.Data, 2)

	result, err = svc.Query(ctx, HistoryFilter{IndexName: "NIFTY 50", StartDate: "20/01/2024"})
	require.NoError(t, err)
	assert.Len(t, result.Data, 2)
}

func TestHistoryFilter_CacheParts(t *testing.T) {
	iso := HistoryFilter{IndexName: " Nifty 50", StartDate: "2024-01-05"}
	numeric := HistoryFilter{IndexName: "NIFTY 50 ", StartDate: "01/05/2024"}
	assert.Equal(t, iso.CacheParts(), numeric.CacheParts())
	assert.Equal(t, []string{"nifty 50", "2024-01-05T00:00:00Z", ""}, iso.CacheParts())

	other := HistoryFilter{IndexName: "NIFTY 50", StartDate: "2024-01-06"}
	assert.NotEqual(t, iso.CacheParts(), other.CacheParts())

	bad := HistoryFilter{IndexName: "NIFTY 50", EndDate: "soon"}
	assert.Equal(t, "soon", bad.CacheParts()[2])
}
