package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/trendscout/internal/model"
	"github.com/Veraticus/trendscout/internal/service"
)

func TestFormatHelpers(t *testing.T) {
	assert.Contains(t, FormatSuccess("saved"), "saved")
	assert.Contains(t, FormatSuccess("saved"), SuccessIcon)
	assert.Contains(t, FormatError("failed"), ErrorIcon)
	assert.Contains(t, FormatTitle("Research"), TrendIcon)
	assert.Contains(t, RenderBox("Summary", "3 products"), "3 products")
}

func TestFormatPriceAndMargin(t *testing.T) {
	assert.Equal(t, "N/A", FormatPrice(nil))
	assert.Equal(t, "$24.50", FormatPrice(model.Float(24.5)))
	assert.Equal(t, "-", FormatMargin(nil))
	assert.Equal(t, "52.0%", FormatMargin(&model.Margin{MarginPercent: 52}))
}

func TestFormatStatus(t *testing.T) {
	assert.Contains(t, FormatStatus(""), "pending")
	assert.Contains(t, FormatStatus(model.StatusApproved), "approved")
}

func TestProductRows(t *testing.T) {
	products := []model.ProductRecord{
		{
			Name:        strings.Repeat("x", 60),
			Category:    model.CategoryPet,
			Country:     "USA",
			RetailPrice: model.Float(19.99),
			Status:      model.StatusApproved,
			Scores:      model.Scores{Overall: 85},
		},
		{Name: "Yoga Mat", Status: model.StatusPending},
	}

	rows := ProductRows(products)
	assert.Equal(t, []string{"1", "85", strings.Repeat("x", tableNameWidth), "Pet Supplies", "USA", "$19.99", "-", "approved"}, rows[0])
	assert.Equal(t, "N/A", rows[1][5])

	rendered := RenderProductTable(products)
	assert.Contains(t, rendered, "Yoga Mat")
	assert.Contains(t, rendered, "Score")
}

func TestRunRows(t *testing.T) {
	runs := []service.RunSummary{
		{
			RunID:         "0f8fad5b-d9cb-469f-a165-70867728950e",
			Strategy:      "auto",
			StartedAt:     time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local),
			Collected:     40,
			Saved:         12,
			SourceErrors:  1,
			AverageMargin: 37.3,
			Duration:      95 * time.Second,
		},
		{RunID: "short"},
	}

	rows := RunRows(runs)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2024-05-01 09:30:00", "0f8fad5b", "auto", "40", "12", "1", "37.3%", "1m35s"}, rows[0])
	assert.Equal(t, "short", rows[1][1])
	assert.Contains(t, RenderRunTable(runs), "0f8fad5b")
}
