package registry_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/paychan/outcome"
	"github.com/noah-isme/paychan/registry"
)

func TestDeliverExactlyOnce(t *testing.T) {
	r := registry.New()
	var calls int
	require.NoError(t, r.Register("req-1", func(outcome.Outcome) { calls++ }))

	require.True(t, r.Deliver("req-1", outcome.Success()))
	require.False(t, r.Deliver("req-1", outcome.Success()))
	require.Equal(t, 1, calls)
	require.Equal(t, 0, r.Pending())
}

func TestRegisterRejectsLiveDuplicate(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Register("req-1", func(outcome.Outcome) {}))
	err := r.Register("req-1", func(outcome.Outcome) {})
	require.ErrorIs(t, err, registry.ErrDuplicateID)

	// after delivery the id may be reused
	r.Deliver("req-1", outcome.Success())
	require.NoError(t, r.Register("req-1", func(outcome.Outcome) {}))
}

func TestRegisterRejectsEmptyIDAndNilHandler(t *testing.T) {
	r := registry.New()
	require.Error(t, r.Register("", func(outcome.Outcome) {}))
	require.Error(t, r.Register("id", nil))
}

func TestDeliverUnknownIDReportsFalse(t *testing.T) {
	r := registry.New()
	require.False(t, r.Deliver("ghost", outcome.Success()))
}

func TestAbandonDropsWithoutInvoking(t *testing.T) {
	r := registry.New()
	called := false
	require.NoError(t, r.Register("req-1", func(outcome.Outcome) { called = true }))
	r.Abandon("req-1")
	require.False(t, called)
	require.False(t, r.Deliver("req-1", outcome.Success()))
}

func TestConcurrentDeliveriesAreSingleShot(t *testing.T) {
	r := registry.New()
	var delivered atomic.Int64
	const workers = 32

	require.NoError(t, r.Register("req-1", func(outcome.Outcome) { delivered.Add(1) }))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Deliver("req-1", outcome.Success())
		}()
	}
	wg.Wait()
	require.Equal(t, int64(1), delivered.Load())
}

func TestConcurrentRequestsDoNotCrossDeliver(t *testing.T) {
	r := registry.New()
	outcomes := make(map[string]outcome.Status)
	var mu sync.Mutex

	ids := []string{"a", "b", "c", "d"}
	for _, id := range ids {
		id := id
		require.NoError(t, r.Register(id, func(o outcome.Outcome) {
			mu.Lock()
			outcomes[id] = o.Status()
			mu.Unlock()
		}))
	}

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(id string, cancel bool) {
			defer wg.Done()
			if cancel {
				r.Deliver(id, outcome.Cancel())
			} else {
				r.Deliver(id, outcome.Success())
			}
		}(id, i%2 == 1)
	}
	wg.Wait()

	require.Equal(t, outcome.StatusSuccess, outcomes["a"])
	require.Equal(t, outcome.StatusCancel, outcomes["b"])
	require.Equal(t, outcome.StatusSuccess, outcomes["c"])
	require.Equal(t, outcome.StatusCancel, outcomes["d"])
}
