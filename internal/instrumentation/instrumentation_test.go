package instrumentation

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	reg := prometheus.NewRegistry()
	instr := New("backend", "test_server", reg)
	require.NotNil(t, instr)

	instr.CounterLoginSuccess.Inc()
	instr.CounterLoginFailed.Inc()
	instr.CounterLoginFailed.Inc()
	instr.GaugeLifeSignal.Set(1)

	metricFamilies, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]*io_prometheus_client.MetricFamily{}
	for _, mf := range metricFamilies {
		byName[mf.GetName()] = mf
	}

	loginSuccess, ok := byName["backend_test_server_login_success"]
	require.True(t, ok)
	assert.Equal(t, float64(1), loginSuccess.GetMetric()[0].GetCounter().GetValue())

	loginFailed, ok := byName["backend_test_server_login_failed"]
	require.True(t, ok)
	assert.Equal(t, float64(2), loginFailed.GetMetric()[0].GetCounter().GetValue())

	lifeSignal, ok := byName["backend_test_server_life_signal"]
	require.True(t, ok)
	assert.Equal(t, float64(1), lifeSignal.GetMetric()[0].GetGauge().GetValue())
}

func TestSetupPrometheus(t *testing.T) {
	reg := SetupPrometheus()
	require.NotNil(t, reg)

	// runtime collectors registered
	metricFamilies, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, metricFamilies)
}
