package services

import (
	"context"
	"route-safety-service/internal/domain"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBatchCSV(t *testing.T) {
	input := "İstanbul,Kadıköy,Ankara,\r\n" +
		"\n" +
		"  Ankara , , Van , \n" +
		"OnlyOrigin,,,\n" +
		"\"Istanbul\",\"Tuzla\",\"Van\"\n"

	rows, err := ParseBatchCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, BatchRow{OriginCity: "İstanbul", OriginCounty: "Kadıköy", DestinationCity: "Ankara"}, rows[0])
	assert.Equal(t, BatchRow{OriginCity: "Ankara", DestinationCity: "Van"}, rows[1])
	assert.Equal(t, BatchRow{OriginCity: "Istanbul", OriginCounty: "Tuzla", DestinationCity: "Van"}, rows[2])
}

func TestParseBatchCSV_Empty(t *testing.T) {
	_, err := ParseBatchCSV(strings.NewReader("\n\n,,,\nA\n"))
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestParseBatchCSV_Malformed(t *testing.T) {
	_, err := ParseBatchCSV(strings.NewReader("\"unterminated,Ankara\n"))
	assert.Error(t, err)
}

func TestEstimateBatch(t *testing.T) {
	rows := []BatchRow{
		{OriginCity: "İstanbul", DestinationCity: "Van"},
		{OriginCity: "Atlantis", DestinationCity: "Van"},
		{OriginCity: "İstanbul", OriginCounty: "Kadıköy", DestinationCity: "Ankara"},
		{OriginCity: "Ankara", DestinationCity: "Van"},
	}

	items, err := EstimateBatch(context.Background(), rows, BatchOptions{
		DepartAt:    time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC),
		Concurrency: 2,
	}, newTestCatalog(t), newTestProvider())
	require.NoError(t, err)
	require.Len(t, items, 4)

	for i, item := range items {
		assert.Equal(t, i, item.RowIndex)
		assert.NotEmpty(t, item.ID)
	}

	assert.Equal(t, domain.BatchStatusCompleted, items[0].Status)
	require.NotNil(t, items[0].Result)
	assert.Equal(t, 1455, items[0].Result.Breaks.TotalBreakMinutes)

	assert.Equal(t, domain.BatchStatusError, items[1].Status)
	assert.Nil(t, items[1].Result)
	assert.Contains(t, items[1].ErrorMsg, "location not found")

	assert.Equal(t, "İstanbul, Kadıköy", items[2].Origin)
	assert.Equal(t, domain.BatchStatusCompleted, items[2].Status)

	assert.Equal(t, domain.BatchStatusCompleted, items[3].Status)
	assert.Equal(t, 1_200_000, items[3].Result.DistanceMeters)

	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestEstimateBatch_PrefetchesMatrix(t *testing.T) {
	provider := newTestProvider()
	rows := []BatchRow{
		{OriginCity: "İstanbul", DestinationCity: "Van"},
		{OriginCity: "Istanbul", DestinationCity: "Ankara"},
		{OriginCity: "istanbul", DestinationCity: "van"},
	}

	items, err := EstimateBatch(context.Background(), rows, BatchOptions{}, newTestCatalog(t), provider)
	require.NoError(t, err)

	for _, item := range items {
		assert.Equal(t, domain.BatchStatusCompleted, item.Status)
	}
	assert.Equal(t, 450_000, items[1].Result.DistanceMeters)
	assert.Equal(t, int64(1), provider.MatrixCalls())
	assert.Equal(t, int64(0), provider.Calls())
}

func TestEstimateBatch_PrefetchFailureFallsBack(t *testing.T) {
	provider := newTestProvider()
	rows := []BatchRow{
		{OriginCity: "Van", DestinationCity: "Ankara"},
		{OriginCity: "Ankara", DestinationCity: "Van"},
	}

	items, err := EstimateBatch(context.Background(), rows, BatchOptions{Concurrency: 1}, newTestCatalog(t), provider)
	require.NoError(t, err)

	assert.Equal(t, domain.BatchStatusError, items[0].Status)
	assert.Contains(t, items[0].ErrorMsg, "missing pair")
	assert.Equal(t, domain.BatchStatusCompleted, items[1].Status)
	assert.Equal(t, int64(1), provider.Calls())
}

func TestEstimateBatch_Empty(t *testing.T) {
	_, err := EstimateBatch(context.Background(), nil, BatchOptions{}, newTestCatalog(t), newTestProvider())
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestEstimateBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := EstimateBatch(ctx, []BatchRow{{OriginCity: "İstanbul", DestinationCity: "Van"}}, BatchOptions{}, newTestCatalog(t), newTestProvider())
	assert.ErrorIs(t, err, context.Canceled)
}
