package engine

import "testing"

func TestStateString(t *testing.T) {
	cases := map[State]string{
		StateEmpty:       "empty",
		StateLoading:     "loading",
		StateInitialised: "initialised",
		StatePlaying:     "playing",
		StatePaused:      "paused",
		State(99):        "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String(): got %q, want %q", state, got, want)
		}
	}
}

func TestSignalString(t *testing.T) {
	cases := map[Signal]string{
		SignalMediaEnd:  "media_end",
		SignalBufferLow: "buffer_low",
		Signal(99):      "unknown",
	}
	for sig, want := range cases {
		if got := sig.String(); got != want {
			t.Errorf("Signal(%d).String(): got %q, want %q", sig, got, want)
		}
	}
}
