package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWindow_DateNotFound(t *testing.T) {
	sheet := newMemSheet(2, 40)
	_, err := FetchWindow(context.Background(), sheet, "01/01/2030")
	assert.ErrorIs(t, err, contract.ErrDateNotFound)
	assert.True(t, contract.IsRecoverable(err))
}

func TestFetchWindow_InsufficientHistory(t *testing.T) {
	for _, first := range []int{1, 2} {
		sheet := newMemSheet(first, 40)

		// The 30th date has only 29 dated rows above it
		_, err := FetchWindow(context.Background(), sheet, sheet.dates[29])
		assert.ErrorIs(t, err, contract.ErrInsufficientHistory)
		assert.True(t, contract.IsPrecondition(err))

		// The 31st has exactly enough
		window, err := FetchWindow(context.Background(), sheet, sheet.dates[30])
		require.NoError(t, err)
		assert.Equal(t, sheet.rowOf(30), window.Row)
	}
}

func TestFetchWindow_ReadsPrecedingRows(t *testing.T) {
	sheet := newMemSheet(2, 40)
	row := sheet.rowOf(35)
	sheet.fill(schema.MetricSet[0].Column, row-schema.WindowSize, row-schema.WindowSize, "5")
	sheet.fill(schema.MetricSet[0].Column, row-1, row-1, "9")
	sheet.fill(schema.MetricSet[0].Column, row, row, "1000") // The date itself is not history

	window, err := FetchWindow(context.Background(), sheet, sheet.dates[35])
	require.NoError(t, err)

	require.Len(t, window.Columns, len(schema.MetricSet))
	col := window.Columns[0]
	require.Len(t, col, schema.WindowSize)
	assert.Equal(t, schema.Cell{Value: 5, Present: true}, col[0])
	assert.Equal(t, schema.Cell{Value: 9, Present: true}, col[schema.WindowSize-1])
	assert.Equal(t, 2, schema.CountPresent(col))
	for _, c := range window.Columns[1:] {
		assert.Equal(t, 0, schema.CountPresent(c))
	}
}

func TestFetchWindow_MalformedCellsAreAbsent(t *testing.T) {
	sheet := newMemSheet(2, 40)
	row := sheet.rowOf(30)
	col := schema.MetricSet[1].Column
	sheet.fill(col, row-3, row-3, "abc")
	sheet.fill(col, row-2, row-2, "-4")
	sheet.fill(col, row-1, row-1, "12")

	window, err := FetchWindow(context.Background(), sheet, sheet.dates[30])
	require.NoError(t, err)
	assert.Equal(t, 1, schema.CountPresent(window.Columns[1]))
}

func TestParseColumn_PadsShortReads(t *testing.T) {
	cells := parseColumn(schema.MetricSet[0], 2, []string{"1", "", "3"})
	require.Len(t, cells, schema.WindowSize)
	assert.Equal(t, 2, schema.CountPresent(cells))
	assert.False(t, cells[schema.WindowSize-1].Present)
}

func TestFetchWindow_CollaboratorFailures(t *testing.T) {
	boom := errors.New("connection reset")

	sheet := newMemSheet(2, 40)
	sheet.findErr = boom
	_, err := FetchWindow(context.Background(), sheet, sheet.dates[30])
	assert.ErrorIs(t, err, contract.ErrCollaboratorUnavailable)
	assert.ErrorIs(t, err, boom)
	assert.False(t, contract.IsRecoverable(err))

	sheet = newMemSheet(2, 40)
	sheet.readErr = boom
	_, err = FetchWindow(context.Background(), sheet, sheet.dates[30])
	assert.ErrorIs(t, err, contract.ErrCollaboratorUnavailable)
}

func TestCheckCompleteness(t *testing.T) {
	full := constantCells(10)

	partial := constantCells(10)
	for i := 0; i < 12; i++ {
		partial[i] = schema.Cell{}
	}

	tests := []struct {
		name     string
		first    []schema.Cell
		want     schema.Completeness
		contains string
	}{
		{"complete", full, schema.CompleteWindow, "All 30 days"},
		{"incomplete", partial, schema.IncompleteWindow, "Only 18 of the 30 days"},
		{"single value", append(make([]schema.Cell, schema.WindowSize-1), schema.Cell{Value: 1, Present: true}), schema.IncompleteWindow, "Only 1 of"},
		{"empty", make([]schema.Cell, schema.WindowSize), schema.EmptyWindow, "Please choose a different date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := windowOf(full)
			window.Columns[0] = tt.first
			got, advisory := CheckCompleteness(window)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, advisory, tt.contains)
		})
	}
}

func TestCheckCompleteness_OnlyFirstMetricCounts(t *testing.T) {
	window := windowOf(constantCells(10))
	window.Columns[3] = make([]schema.Cell, schema.WindowSize)
	got, _ := CheckCompleteness(window)
	assert.Equal(t, schema.CompleteWindow, got)
}

func TestComputeAverages(t *testing.T) {
	window := windowOf(constantCells(100))

	// Absent cells are excluded from the mean, not counted as zero
	window.Columns[1] = make([]schema.Cell, schema.WindowSize)
	window.Columns[1][0] = schema.Cell{Value: 10, Present: true}
	window.Columns[1][29] = schema.Cell{Value: 20, Present: true}

	// Present zeros do count
	window.Columns[2] = constantCells(0)
	window.Columns[2][0] = schema.Cell{Value: 30, Present: true}

	averages, err := ComputeAverages(window)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 15, 1, 100, 100}, averages)
}

func TestComputeAverages_EmptyMetric(t *testing.T) {
	window := windowOf(constantCells(100))
	window.Columns[4] = make([]schema.Cell, schema.WindowSize)

	_, err := ComputeAverages(window)
	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrEmptyMetricWindow)
	assert.Contains(t, err.Error(), "Swipes")
}

func TestComputeAverages_WrongShape(t *testing.T) {
	_, err := ComputeAverages(schema.HistoricalWindow{Columns: [][]schema.Cell{constantCells(1)}})
	assert.Error(t, err)
}

func TestComputeTrends(t *testing.T) {
	trends, err := ComputeTrends([]int64{120, 0, 100, 50, 130}, []float64{100, 10, 100, 100, 100})
	require.NoError(t, err)
	require.Len(t, trends, 5)
	assert.InDelta(t, 0.2, trends[0], 1e-9)
	assert.InDelta(t, -1.0, trends[1], 1e-9)
	assert.InDelta(t, 0.0, trends[2], 1e-9)
	assert.InDelta(t, -0.5, trends[3], 1e-9)
	assert.InDelta(t, 0.3, trends[4], 1e-9)
	assert.Equal(t, 20, schema.TrendPercent(trends[0]))
}

func TestComputeTrends_ZeroAverage(t *testing.T) {
	_, err := ComputeTrends([]int64{1, 1, 1, 1, 1}, []float64{1, 1, 0, 1, 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrZeroAverage)
	assert.Contains(t, err.Error(), "Ad Views")
}

func TestComputeTrends_LengthMismatch(t *testing.T) {
	_, err := ComputeTrends([]int64{1, 2}, []float64{1})
	assert.Error(t, err)
}

func TestClassifyTrends_Extremes(t *testing.T) {
	report, err := ClassifyTrends(schema.MetricNames(), []float64{0.2, -0.1, 0.2, -0.3, 0.0})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Worst.Index)
	assert.Equal(t, "Threads Created", report.Worst.Metric)
	assert.Equal(t, schema.Decreasing, report.Worst.Direction)
	assert.Equal(t, -30, report.Worst.Percent)
	assert.Equal(t, "Threads Created is decreasing by 30%", report.Worst.Message())

	// Ties resolve to the first metric
	assert.Equal(t, 0, report.Best.Index)
	assert.Equal(t, schema.Increasing, report.Best.Direction)
	assert.Equal(t, "App Opens is increasing by 20%", report.Best.Message())

	assert.Equal(t, 2, report.PositiveCount)
	assert.Equal(t, 5, report.MetricCount)
	assert.Equal(t, schema.ThirdTier, report.Tier)
}

func TestClassifyTrends_ZeroDirections(t *testing.T) {
	report, err := ClassifyTrends(schema.MetricNames(), []float64{0, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Worst.Index)
	assert.Equal(t, 0, report.Best.Index)
	assert.Equal(t, schema.Increasing, report.Worst.Direction)
	assert.Equal(t, schema.Decreasing, report.Best.Direction)
	assert.Equal(t, schema.BottomTier, report.Tier)
}

func TestClassifyTrends_Tiers(t *testing.T) {
	tests := []struct {
		name   string
		trends []float64
		want   schema.Tier
	}{
		{"all positive", []float64{0.1, 0.2, 0.3, 0.4, 0.5}, schema.TopTier},
		{"four positive", []float64{0.1, 0.2, 0.3, 0.4, -0.5}, schema.SecondTier},
		{"three positive", []float64{0.1, 0.2, 0.3, -0.4, 0}, schema.SecondTier},
		{"two positive", []float64{0.1, 0.2, -0.3, -0.4, 0}, schema.ThirdTier},
		{"one positive", []float64{0.1, -0.2, -0.3, -0.4, 0}, schema.ThirdTier},
		{"none positive", []float64{-0.1, -0.2, -0.3, -0.4, 0}, schema.BottomTier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := ClassifyTrends(schema.MetricNames(), tt.trends)
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.Tier)
			assert.Equal(t, schema.TierMessages[tt.want], report.TierMessage)
		})
	}
}

func TestClassifyTrends_TierMessages(t *testing.T) {
	three, err := ClassifyTrends(schema.MetricNames(), []float64{0.1, 0.1, 0.1, -0.1, -0.1})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(three.TierMessage, "Good day"))

	none, err := ClassifyTrends(schema.MetricNames(), []float64{-0.1, -0.1, -0.1, -0.1, -0.1})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(none.TierMessage, "Tough day"))
}

func TestClassifyTrends_InvalidInput(t *testing.T) {
	_, err := ClassifyTrends(nil, nil)
	assert.Error(t, err)

	_, err = ClassifyTrends([]string{"a"}, []float64{1, 2})
	assert.Error(t, err)
}

func TestPersistEntry(t *testing.T) {
	sheet := newMemSheet(2, 40)
	entries := []int64{130, 0, 7, 8, 9}

	require.NoError(t, PersistEntry(context.Background(), sheet, sheet.dates[31], entries))
	assert.Equal(t, len(schema.MetricSet), sheet.writes)
	assert.Equal(t, 1, sheet.rowWrites, "one row write, not one write per metric")

	got, err := readEntry(context.Background(), sheet, sheet.dates[31], sheet.rowOf(31))
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestPersistEntry_Failures(t *testing.T) {
	sheet := newMemSheet(2, 40)
	sheet.writeErr = errors.New("quota exceeded")
	err := PersistEntry(context.Background(), sheet, sheet.dates[31], []int64{1, 2, 3, 4, 5})
	assert.ErrorIs(t, err, contract.ErrCollaboratorUnavailable)

	err = PersistEntry(context.Background(), newMemSheet(2, 40), "01/01/2022", []int64{1})
	assert.Error(t, err)
}

func TestPersistEntry_FailedWriteLeavesRowUntouched(t *testing.T) {
	sheet := newMemSheet(2, 40)
	sheet.writeErr = errors.New("network reset")

	err := PersistEntry(context.Background(), sheet, sheet.dates[30], []int64{1, 2, 3, 4, 5})
	require.ErrorIs(t, err, contract.ErrCollaboratorUnavailable)
	assert.Equal(t, 1, sheet.rowWrites)
	assert.Equal(t, 0, sheet.writes)
	for _, m := range schema.MetricSet {
		_, written := sheet.cells[[2]int{sheet.rowOf(30), m.Column}]
		assert.False(t, written, m.Name)
	}
}
