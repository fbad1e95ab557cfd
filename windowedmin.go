package timesync

// sample24 pairs a Counter24 value with the local time it was admitted at.
type sample24 struct {
	value Counter24
	time  uint64
}

// WindowedMin is a 3-slot approximation of a sliding-window minimum over a
// stream of (Counter24, time) samples, in the style of the windowed-min
// filter used by TCP BBR to track min-RTT: rather than an exact but
// unbounded monotonic deque, it keeps the best candidate seen so far for
// each of three nested sub-windows (roughly window, window/2 and window/4
// wide). That bounds memory and per-update work to O(1) at the cost of up
// to ~window worth of staleness, which is the deliberate trade the design
// makes (see DESIGN.md). Comparisons between stored values use
// SignedDiff24, never raw unsigned comparison, because the underlying
// deltas are modular.
//
// The zero value is an empty, ready-to-use window; Best() returns 0 until
// the first Update.
type WindowedMin struct {
	s        [3]sample24
	hasValue bool
}

// Update admits a new sample. If it is a new minimum, or the entire window
// has elapsed without one, every slot resets to the new sample. Otherwise
// the sample is folded into whichever later sub-window slots it beats, and
// the three slots are aged forward as each sub-window boundary is crossed.
func (w *WindowedMin) Update(value Counter24, t uint64, window uint64) {
	val := sample24{value: value, time: t}

	if !w.hasValue {
		w.resetAll(val)
		w.hasValue = true
		return
	}

	if SignedDiff24(value, w.s[0].value) <= 0 || (t-w.s[2].time) > window {
		w.resetAll(val)
		return
	}

	if SignedDiff24(value, w.s[1].value) <= 0 {
		w.s[1] = val
		w.s[2] = val
	} else if SignedDiff24(value, w.s[2].value) <= 0 {
		w.s[2] = val
	}

	w.ageForward(window, val)
}

// ageForward shifts the sub-window slots as progressively larger fractions
// of window elapse without a new minimum being found.
func (w *WindowedMin) ageForward(window uint64, val sample24) {
	dt := val.time - w.s[0].time

	switch {
	case dt > window:
		// The whole window passed without a new min: promote the 2nd
		// choice to 1st, 3rd to 2nd, and the new sample becomes 3rd. This
		// may need to repeat once if the promoted 2nd choice is itself
		// already outside the window.
		w.s[0] = w.s[1]
		w.s[1] = w.s[2]
		w.s[2] = val
		if val.time-w.s[0].time > window {
			w.s[0] = w.s[1]
			w.s[1] = w.s[2]
			w.s[2] = val
		}
	case w.s[1].time == w.s[0].time && dt > window/4:
		// A quarter of the window passed without a new min: take a 2nd
		// choice from the second quarter.
		w.s[1] = val
		w.s[2] = val
	case w.s[2].time == w.s[1].time && dt > window/2:
		// Half the window passed without a new min: take a 3rd choice
		// from the back half.
		w.s[2] = val
	}
}

func (w *WindowedMin) resetAll(val sample24) {
	w.s[0] = val
	w.s[1] = val
	w.s[2] = val
}

// Best returns the current minimum: the oldest retained candidate's value.
// It returns 0 if no sample has ever been admitted.
func (w *WindowedMin) Best() Counter24 {
	if !w.hasValue {
		return 0
	}
	return w.s[0].value
}

// Reset clears all retained samples.
func (w *WindowedMin) Reset() {
	w.hasValue = false
	w.s = [3]sample24{}
}
