package middleware

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushsport/pos/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Logger = zerolog.Nop()
	os.Exit(m.Run())
}

var errDownstream = errors.New("downstream failed")

func TestCircuitBreakerOpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker("pos", 3, time.Minute)
	require.Equal(t, StateClosed, cb.GetState())

	for i := 0; i < 3; i++ {
		_ = cb.Call(func() error { return errDownstream })
	}
	assert.Equal(t, StateOpen, cb.GetState())

	// While open, calls are rejected without running fn.
	ran := false
	err := cb.Call(func() error { ran = true; return nil })
	assert.Error(t, err)
	assert.False(t, ran)
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker("pos", 3, time.Minute)

	_ = cb.Call(func() error { return errDownstream })
	_ = cb.Call(func() error { return errDownstream })
	require.NoError(t, cb.Call(func() error { return nil }))

	_ = cb.Call(func() error { return errDownstream })
	_ = cb.Call(func() error { return errDownstream })
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestCircuitBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker("pos", 1, 10*time.Millisecond)

	_ = cb.Call(func() error { return errDownstream })
	require.Equal(t, StateOpen, cb.GetState())

	time.Sleep(20 * time.Millisecond)

	// Three successful probes close the circuit again.
	for i := 0; i < 3; i++ {
		require.NoError(t, cb.Call(func() error { return nil }))
	}
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestCircuitBreakerReopensOnHalfOpenFailure(t *testing.T) {
	cb := NewCircuitBreaker("pos", 1, 10*time.Millisecond)

	_ = cb.Call(func() error { return errDownstream })
	time.Sleep(20 * time.Millisecond)

	_ = cb.Call(func() error { return errDownstream })
	assert.Equal(t, StateOpen, cb.GetState())
}

func TestManagerReusesBreakers(t *testing.T) {
	manager := NewCircuitBreakerManager()

	first := manager.GetOrCreate("pos")
	second := manager.GetOrCreate("pos")
	assert.Same(t, first, second)

	other := manager.GetOrCreate("retail")
	assert.NotSame(t, first, other)

	stats := manager.GetAllStats()
	assert.Len(t, stats, 2)
}

func TestDetermineServiceFromPath(t *testing.T) {
	cases := map[string]string{
		"/api/pos/sessions":        "pos",
		"/api/pos/sessions/1/cart": "pos",
		"/api/products":            "retail",
		"/api/branches/3/inventory": "retail",
		"/api/sales":               "retail",
		"/auth/login":              "retail",
		"/health":                  "",
		"/metrics":                 "",
	}

	for path, want := range cases {
		assert.Equal(t, want, determineServiceFromPath(path), path)
	}
}
