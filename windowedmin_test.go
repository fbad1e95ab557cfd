package timesync

import "testing"

func TestWindowedMinSingleUpdate(t *testing.T) {
	var w WindowedMin
	w.Update(TruncateCounter24(42), 100, 1000)
	if got := w.Best(); got != 42 {
		t.Errorf("Best() after single update = %d, want 42", got)
	}
}

func TestWindowedMinEmptyReturnsZero(t *testing.T) {
	var w WindowedMin
	if got := w.Best(); got != 0 {
		t.Errorf("Best() on empty window = %d, want 0", got)
	}
}

func TestWindowedMinStepDown(t *testing.T) {
	// A monotonically decreasing input sequence: every new sample is a new
	// minimum, so Best() tracks the latest input exactly at every step.
	var w WindowedMin
	const window = uint64(100)
	for i := uint64(1000); i > 0; i-- {
		w.Update(TruncateCounter24(i), i, window)
		if got := w.Best(); uint64(got) != i {
			t.Fatalf("step down: i=%d Best()=%d, want %d", i, got, i)
		}
	}
}

func TestWindowedMinStepUp(t *testing.T) {
	// A monotonically increasing input sequence never produces a new
	// minimum, so Best() only advances as the three sub-window slots age
	// forward; ported from original_source/tests/tests.cpp's
	// TestWindowedMinTS24.
	var w WindowedMin
	const window = uint64(100)
	const trials = 10 * window

	for i := uint64(0); i < trials; i++ {
		w.Update(TruncateCounter24(i), i, window)
		best := uint64(w.Best())

		if i <= 100 {
			if best > 1 {
				t.Fatalf("step up: i=%d Best()=%d, error too high during initial step up", i, best)
			}
			continue
		}
		delta := i - best
		lagError := int64(window) - int64(delta)
		if lagError > 50 {
			t.Fatalf("step up: i=%d Best()=%d, lag %d too small (error %d > 50)", i, best, delta, lagError)
		}
	}
}

func TestWindowedMinReset(t *testing.T) {
	var w WindowedMin
	w.Update(TruncateCounter24(5), 1, 1000)
	w.Update(TruncateCounter24(3), 2, 1000)
	w.Reset()

	if got := w.Best(); got != 0 {
		t.Errorf("Best() after Reset() = %d, want 0", got)
	}

	w.Update(TruncateCounter24(7), 3, 1000)
	if got := w.Best(); got != 7 {
		t.Errorf("Best() after Reset()+Update(7) = %d, want 7", got)
	}
}

func TestWindowedMinNewMinimumResetsAllSlots(t *testing.T) {
	var w WindowedMin
	const window = uint64(1000)

	w.Update(TruncateCounter24(100), 0, window)
	w.Update(TruncateCounter24(90), 10, window)
	w.Update(TruncateCounter24(80), 20, window)

	// Each new value undercuts the running minimum, so Best() tracks the
	// most recent value exactly.
	if got := w.Best(); got != 80 {
		t.Errorf("Best() = %d, want 80", got)
	}
}

func TestWindowedMinFullWindowElapsedWithoutNewMinForcesReset(t *testing.T) {
	var w WindowedMin
	const window = uint64(100)

	w.Update(TruncateCounter24(5), 0, window)
	// A much later, larger sample: the entire window has elapsed with no
	// new minimum, so the filter must forget the stale value entirely
	// rather than keep reporting an arbitrarily old minimum forever.
	w.Update(TruncateCounter24(50), 1_000_000, window)

	if got := w.Best(); got != 50 {
		t.Errorf("Best() after stale full-window gap = %d, want 50", got)
	}
}
