package feedback

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type loaderRecorder struct {
	mu          sync.Mutex
	transitions []bool
}

func (r *loaderRecorder) record(visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, visible)
}

func (r *loaderRecorder) snapshot() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.transitions...)
}

func TestCenterLoader(t *testing.T) {
	t.Parallel()

	t.Run("show and hide are no-ops when unregistered", func(t *testing.T) {
		center := NewCenter()
		center.ShowLoader()
		center.HideLoader()
		require.False(t, center.LoaderVisible())
	})

	t.Run("subscriber sees only edge transitions", func(t *testing.T) {
		center := NewCenter()
		recorder := &loaderRecorder{}
		center.RegisterLoader(recorder.record)

		center.ShowLoader()
		center.ShowLoader()
		center.HideLoader()
		center.HideLoader()

		require.Equal(t, []bool{true, false}, recorder.snapshot())
	})

	t.Run("counter never goes negative", func(t *testing.T) {
		center := NewCenter()
		recorder := &loaderRecorder{}
		center.RegisterLoader(recorder.record)

		center.HideLoader()
		center.ShowLoader()
		center.HideLoader()

		require.Equal(t, []bool{true, false}, recorder.snapshot())
		require.False(t, center.LoaderVisible())
	})

	t.Run("extra hide after a balanced pair stays silent", func(t *testing.T) {
		center := NewCenter()
		recorder := &loaderRecorder{}
		center.RegisterLoader(recorder.record)

		center.ShowLoader()
		center.HideLoader()
		center.HideLoader()

		require.Equal(t, []bool{true, false}, recorder.snapshot())
	})

	t.Run("loader stays visible until the slowest call finishes", func(t *testing.T) {
		center := NewCenter()
		recorder := &loaderRecorder{}
		center.RegisterLoader(recorder.record)

		var wg sync.WaitGroup
		run := func(d time.Duration) {
			defer wg.Done()
			center.ShowLoader()
			defer center.HideLoader()
			time.Sleep(d)
		}

		wg.Add(2)
		go run(200 * time.Millisecond)
		time.Sleep(10 * time.Millisecond)
		go run(20 * time.Millisecond)

		// The fast call has finished; the slow one is still in flight.
		time.Sleep(100 * time.Millisecond)
		require.True(t, center.LoaderVisible())

		wg.Wait()
		require.False(t, center.LoaderVisible())
		require.Equal(t, []bool{true, false}, recorder.snapshot())
	})

	t.Run("last loader registration wins", func(t *testing.T) {
		center := NewCenter()
		first := &loaderRecorder{}
		second := &loaderRecorder{}
		center.RegisterLoader(first.record)
		center.RegisterLoader(second.record)

		center.ShowLoader()
		center.HideLoader()

		require.Empty(t, first.snapshot())
		require.Equal(t, []bool{true, false}, second.snapshot())
	})
}

func TestCenterToasts(t *testing.T) {
	t.Parallel()

	t.Run("no-op when unregistered", func(t *testing.T) {
		center := NewCenter()
		center.Success("nobody listening")
		center.Error("still nobody")
	})

	t.Run("forwards with fixed severities", func(t *testing.T) {
		center := NewCenter()
		var got []Toast
		center.RegisterToast(func(toast Toast) { got = append(got, toast) })

		center.Success("saved")
		center.Error("broke")
		center.Warning("careful")
		center.Info("fyi")

		require.Equal(t, []Toast{
			{Text: "saved", Severity: SeveritySuccess},
			{Text: "broke", Severity: SeverityError},
			{Text: "careful", Severity: SeverityWarning},
			{Text: "fyi", Severity: SeverityInfo},
		}, got)
	})

	t.Run("last toast registration wins", func(t *testing.T) {
		center := NewCenter()
		var first, second []Toast
		center.RegisterToast(func(toast Toast) { first = append(first, toast) })
		center.RegisterToast(func(toast Toast) { second = append(second, toast) })

		center.Success("hello")

		require.Empty(t, first)
		require.Len(t, second, 1)
	})
}
