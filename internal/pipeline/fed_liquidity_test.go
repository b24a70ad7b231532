package pipeline

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxesser1776/mcf-dashboard/internal/timeseries"
)

func TestFedLiquidity(t *testing.T) {
	fred := &fakeFRED{series: map[string][]timeseries.Point{
		"WALCL":     {pt(1, 7_000_000), pt(2, 7_500_000), pt(3, 7_600_000)},
		"RRPONTSYD": {pt(1, 2_000_000), pt(2, 1_500_000), pt(3, 1_400_000)},
	}}
	treasury := &fakeTreasury{points: []timeseries.Point{pt(2, 700), pt(3, 650)}}

	frame, err := FedLiquidity(fred, treasury).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, frame.Len())
	assert.Equal(t, []string{
		"Fed_Balance_Sheet", "TGA_Balance", "RRP_Usage",
		"Net_Liquidity", "Net_Liq_Change_1d", "Net_Liq_Change_5d", "Net_Liq_Change_20d",
	}, frame.Columns())

	// Millions from FRED become billions; the TGA feed is billions already.
	assert.InDelta(t, 7000, frame.Value(0, "Fed_Balance_Sheet"), 1e-9)
	assert.InDelta(t, 1500, frame.Value(1, "RRP_Usage"), 1e-9)
	assert.InDelta(t, 700, frame.Value(1, "TGA_Balance"), 1e-9)

	// Net liquidity is masked before the first TGA observation.
	assert.True(t, math.IsNaN(frame.Value(0, "Net_Liquidity")))
	assert.True(t, math.IsNaN(frame.Value(0, "Net_Liq_Change_1d")))
	assert.InDelta(t, 5300, frame.Value(1, "Net_Liquidity"), 1e-9)
	assert.InDelta(t, 5550, frame.Value(2, "Net_Liquidity"), 1e-9)

	// One-day flow at row 1 still sees the unmasked row-0 level.
	assert.InDelta(t, 300, frame.Value(1, "Net_Liq_Change_1d"), 1e-9)
	assert.InDelta(t, 250, frame.Value(2, "Net_Liq_Change_1d"), 1e-9)
	assert.True(t, math.IsNaN(frame.Value(2, "Net_Liq_Change_20d")))
}

func TestFedLiquidityFetchError(t *testing.T) {
	boom := errors.New("upstream down")
	fred := &fakeFRED{err: boom}
	treasury := &fakeTreasury{points: []timeseries.Point{pt(2, 700)}}

	_, err := FedLiquidity(fred, treasury).Run(context.Background())
	require.ErrorIs(t, err, boom)
}
