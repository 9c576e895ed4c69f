package main

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warung-pos/internal/application/analytics"
)

func TestWriteReport(t *testing.T) {
	s := analytics.Summary{
		Range:              analytics.RangeWeekly,
		Revenue:            decimal.NewFromInt(110000),
		OrderCount:         2,
		AverageTransaction: decimal.NewFromInt(55000),
		TopItems: []analytics.TopItem{
			{Name: "Nasi Goreng Kapten", Quantity: 4, Percentage: decimal.RequireFromString("66.67")},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, s, &serverTotals{Revenue: decimal.NewFromInt(110000), Orders: 2}))

	out := buf.String()
	assert.Contains(t, out, "weekly")
	assert.Contains(t, out, "Rp 110.000")
	assert.Contains(t, out, "Rp 55.000")
	assert.Contains(t, out, "Nasi Goreng Kapten")
	assert.Contains(t, out, "66.67")
	assert.Contains(t, out, "(postgres)")
}

func TestWriteReport_SinPedidos(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, analytics.Summary{Range: analytics.RangeDaily}, nil))
	assert.NotContains(t, buf.String(), "Más vendidos")
	assert.Contains(t, buf.String(), "Rp 0")
}
