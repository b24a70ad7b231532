package pipeline

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxesser1776/mcf-dashboard/internal/config"
	"github.com/maxesser1776/mcf-dashboard/internal/timeseries"
)

type recordingSaver struct {
	saved []string
	fail  map[string]error
}

func (s *recordingSaver) Save(name string, _ *timeseries.Frame) (string, error) {
	if err, ok := s.fail[name]; ok {
		return "", err
	}
	s.saved = append(s.saved, name)
	return "data/processed/" + name + ".csv", nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func okPipeline(name string) Pipeline {
	return Pipeline{
		Name: name,
		Run: func(context.Context) (*timeseries.Frame, error) {
			s := timeseries.NewSeries("A", []timeseries.Point{pt(1, 1)})
			return timeseries.Join(timeseries.Outer, s), nil
		},
	}
}

func failingPipeline(name string, err error) Pipeline {
	return Pipeline{
		Name: name,
		Run: func(context.Context) (*timeseries.Frame, error) {
			return nil, err
		},
	}
}

func TestRunnerContinuesPastFailures(t *testing.T) {
	saver := &recordingSaver{}
	runner := NewRunner(saver, quietLogger(), config.PipelinesConfig{ContinueOnError: true})

	err := runner.Run(context.Background(), []Pipeline{
		okPipeline("first"),
		failingPipeline("second", errors.New("rate limited")),
		okPipeline("third"),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 pipeline(s) failed")
	assert.Contains(t, err.Error(), "second")
	assert.Equal(t, []string{"first", "third"}, saver.saved)
}

func TestRunnerHaltsOnFirstFailure(t *testing.T) {
	boom := errors.New("rate limited")
	saver := &recordingSaver{}
	runner := NewRunner(saver, quietLogger(), config.PipelinesConfig{ContinueOnError: false})

	err := runner.Run(context.Background(), []Pipeline{
		okPipeline("first"),
		failingPipeline("second", boom),
		okPipeline("third"),
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first"}, saver.saved)
}

func TestRunnerSaveFailureCountsAsPipelineFailure(t *testing.T) {
	saver := &recordingSaver{fail: map[string]error{"first": errors.New("disk full")}}
	runner := NewRunner(saver, quietLogger(), config.PipelinesConfig{ContinueOnError: true})

	err := runner.Run(context.Background(), []Pipeline{okPipeline("first"), okPipeline("second")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Equal(t, []string{"second"}, saver.saved)
}

func TestRunnerAllGreen(t *testing.T) {
	saver := &recordingSaver{}
	runner := NewRunner(saver, quietLogger(), config.PipelinesConfig{ContinueOnError: true})

	err := runner.Run(context.Background(), []Pipeline{okPipeline("first"), okPipeline("second")})

	require.NoError(t, err)
	assert.Len(t, saver.saved, 2)
}

func TestAllPipelinesOrderedAndNamed(t *testing.T) {
	pipelines := All(Clients{})
	require.Len(t, pipelines, 9)

	var names []string
	for _, p := range pipelines {
		names = append(names, p.Name)
		assert.NotEmpty(t, p.Title, p.Name)
		assert.NotNil(t, p.Run, p.Name)
	}
	assert.Equal(t, []string{
		"fed_liquidity", "yield_curve", "credit_spreads", "fx_liquidity",
		"macro_core", "funding_stress", "volatility_regimes", "growth_leading",
		"gold_silver_ratio",
	}, names)

	topics := Topics()
	require.Len(t, topics, 9)
	assert.Equal(t, "fed_liquidity", topics[0].Name)
	assert.Equal(t, "Fed Liquidity & Plumbing", topics[0].Title)
}
