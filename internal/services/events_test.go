package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/soltix-forecast/internal/analytics/forecast"
)

func TestNewForecastEvent_SMA(t *testing.T) {
	req := &ForecastRequest{Data: []float64{1, 2, 3}, Method: "sma", Params: forecast.Params{Window: 2}, User: "admin"}
	event := NewForecastEvent(req, []float64{2.5, 2.75, 2.625, 2.6875}, false)

	assert.Len(t, event.ID, 36)
	require.NotNil(t, event.Window)
	assert.Equal(t, 2, *event.Window)
	assert.Nil(t, event.Alpha)
	assert.False(t, event.Timestamp.IsZero())

	data, err := event.Marshal()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"window":2`))
	assert.False(t, strings.Contains(string(data), `"alpha"`))

	decoded, err := DecodeForecastEvent(data)
	require.NoError(t, err)
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, event.Forecast, decoded.Forecast)
	assert.True(t, event.Timestamp.Equal(decoded.Timestamp))
}

func TestNewForecastEvent_EmptyForecastSerializesAsList(t *testing.T) {
	req := &ForecastRequest{Data: []float64{1}, Method: "es", Params: forecast.Params{Alpha: 2}}
	event := NewForecastEvent(req, []float64{}, true)

	data, err := event.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"forecast":[]`)
	assert.Contains(t, string(data), `"rejected":true`)
	assert.Contains(t, string(data), `"alpha":2`)
}

func TestDecodeForecastEvent_Invalid(t *testing.T) {
	_, err := DecodeForecastEvent([]byte("not json"))
	assert.Error(t, err)
}
