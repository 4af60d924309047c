package transport_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/paychan/transport"
)

func TestBreakerTransitions(t *testing.T) {
	breaker := transport.NewBreaker(2, 0.5, 50*time.Millisecond)

	require.True(t, breaker.Allow())
	breaker.Report(false)
	require.True(t, breaker.Allow())
	breaker.Report(false)

	require.Equal(t, transport.Open, breaker.State())
	require.False(t, breaker.Allow(), "breaker should refuse while open")

	time.Sleep(60 * time.Millisecond)
	require.True(t, breaker.Allow(), "breaker should half-open after cool off")
	breaker.Report(true)
	require.Equal(t, transport.Closed, breaker.State())
	require.True(t, breaker.Allow())
}

func TestBreakerHalfOpenProbeFailureReopens(t *testing.T) {
	breaker := transport.NewBreaker(1, 0.5, 20*time.Millisecond)
	breaker.Report(false)
	require.Equal(t, transport.Open, breaker.State())

	time.Sleep(30 * time.Millisecond)
	require.True(t, breaker.Allow())
	breaker.Report(false)
	require.Equal(t, transport.Open, breaker.State())
	require.False(t, breaker.Allow())
}

func TestBreakerStaysClosedBelowMinimum(t *testing.T) {
	breaker := transport.NewBreaker(10, 0.5, time.Second)
	for i := 0; i < 9; i++ {
		breaker.Report(false)
	}
	require.Equal(t, transport.Closed, breaker.State())
}
