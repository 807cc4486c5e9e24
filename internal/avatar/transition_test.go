package avatar

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// probe events used to exercise every (state, event) pair.
var probes = []Event{
	Activity(),
	Idled(180),
	Idled(600),
	Commit(),
	Failure(),
	Click(),
	Expired(5),
}

type cell struct {
	From  State
	Event string
	Night bool
}

func matrix(night bool) map[cell]State {
	out := make(map[cell]State)
	for _, s := range AllStates {
		for _, ev := range probes {
			if next, ok := Transition(s, ev, night); ok {
				out[cell{From: s, Event: ev.String(), Night: night}] = next
			}
		}
	}
	return out
}

func TestTransition_DaytimeMatrix(t *testing.T) {
	want := map[cell]State{
		{Idle, "ActivityDetected", false}:       Coding,
		{Idle, "IdleTimeout(600s)", false}:      Sleeping,
		{Idle, "UserClicked", false}:            Interaction,
		{Coding, "CommitDetected", false}:       Celebrating,
		{Coding, "ErrorDetected", false}:        Frustrated,
		{Coding, "IdleTimeout(180s)", false}:    Idle,
		{Coding, "IdleTimeout(600s)", false}:    Idle,
		{Coding, "UserClicked", false}:          Interaction,
		{Celebrating, "TimerExpired(5s)", false}: Idle,
		{Frustrated, "TimerExpired(5s)", false}:  Idle,
		{Sleeping, "ActivityDetected", false}:   Idle,
		{Sleeping, "UserClicked", false}:        Idle,
		{Interaction, "TimerExpired(5s)", false}: Idle,
		{Tired, "ActivityDetected", false}:      Coding,
	}

	if diff := cmp.Diff(want, matrix(false)); diff != "" {
		t.Errorf("daytime transition matrix mismatch (-want +got):\n%s", diff)
	}
}

func TestTransition_NightMatrixDiffersOnlyInCodingIdleOut(t *testing.T) {
	day := matrix(false)
	night := matrix(true)

	assert.Len(t, night, len(day))
	for c, next := range day {
		nc := cell{From: c.From, Event: c.Event, Night: true}
		if c.From == Coding && (c.Event == "IdleTimeout(180s)" || c.Event == "IdleTimeout(600s)") {
			assert.Equal(t, Tired, night[nc], "coding idle-out at night should tire the avatar")
			continue
		}
		assert.Equal(t, next, night[nc], "pair %v should not depend on night", c)
	}
}

func TestTransition_Properties(t *testing.T) {
	tests := []struct {
		name   string
		from   State
		ev     Event
		night  bool
		want   State
		wantOK bool
	}{
		{"idle starts coding", Idle, Activity(), false, Coding, true},
		{"coding idles out by day", Coding, Idled(180), false, Idle, true},
		{"coding tires at night", Coding, Idled(180), true, Tired, true},
		{"coding below threshold ignored", Coding, Idled(179), false, Coding, false},
		{"idle below sleep threshold ignored", Idle, Idled(599), false, Idle, false},
		{"idle falls asleep", Idle, Idled(600), true, Sleeping, true},
		{"celebration held too briefly", Celebrating, Expired(4), false, Celebrating, false},
		{"interaction expires regardless of hold", Interaction, Expired(0), false, Idle, true},
		{"commit while idle ignored", Idle, Commit(), false, Idle, false},
		{"click while celebrating ignored", Celebrating, Click(), false, Celebrating, false},
		{"tired ignores idle", Tired, Idled(900), true, Tired, false},
		{"sleeping wakes on click", Sleeping, Click(), false, Idle, true},
		{"unknown kind ignored", Coding, Event{Kind: EventKind(99)}, false, Coding, false},
		{"unknown state ignored", State("dancing"), Activity(), false, State("dancing"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Transition(tt.from, tt.ev, tt.night)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransition_TransientStatesAlwaysExpireToIdle(t *testing.T) {
	for _, s := range AllStates {
		if !s.Transient() {
			continue
		}
		held := uint64(s.Lifetime(0) / time.Second)
		next, ok := Transition(s, Expired(held), false)
		assert.True(t, ok, "%s should expire", s)
		assert.Equal(t, Idle, next)
	}
}

func TestState_Helpers(t *testing.T) {
	assert.True(t, Celebrating.Transient())
	assert.True(t, Interaction.Transient())
	assert.False(t, Tired.Transient())
	assert.False(t, State("bogus").Valid())
	assert.True(t, Sleeping.Valid())

	assert.Equal(t, 5*time.Second, Celebrating.Lifetime(time.Minute))
	assert.Equal(t, DefaultInteractionDuration, Interaction.Lifetime(0))
	assert.Equal(t, 2*time.Second, Interaction.Lifetime(2*time.Second))
	assert.Zero(t, Coding.Lifetime(0))

	assert.Equal(t, MoodFocused, Coding.Mood())
	assert.Equal(t, MoodSad, Tired.Mood())
	assert.Equal(t, MoodExcited, Celebrating.Mood())
	assert.Equal(t, MoodHappy, Interaction.Mood())
	assert.Equal(t, MoodSleeping, Sleeping.Mood())
}

func TestEvent_String(t *testing.T) {
	assert.Equal(t, "IdleTimeout(181s)", Idled(181).String())
	assert.Equal(t, "UserClicked", Click().String())
	assert.Equal(t, "EventKind(42)", EventKind(42).String())
}
