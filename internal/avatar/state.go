// Package avatar defines the avatar's behavioral states, the events that drive
// them, and the transition table that connects the two.
//
// Transition is a pure function: it never reads the clock or any global
// state. Whether the current cycle falls in the night window is supplied by
// the caller.
package avatar

import "time"

// State is the avatar's current behavioral state. Exactly one is current at
// any time.
type State string

// Avatar states.
const (
	Idle        State = "idle"
	Coding      State = "coding"
	Celebrating State = "celebrating"
	Frustrated  State = "frustrated"
	Sleeping    State = "sleeping"
	Tired       State = "tired"
	Interaction State = "interaction"
)

// AllStates lists every state in declaration order.
var AllStates = []State{Idle, Coding, Celebrating, Frustrated, Sleeping, Tired, Interaction}

// Durations of the timer-bounded states.
const (
	CelebratingDuration = 5 * time.Second
	FrustratedDuration  = 5 * time.Second

	// DefaultInteractionDuration is used when no interaction window is configured.
	DefaultInteractionDuration = 3 * time.Second
)

// Valid reports whether s is one of the declared states.
func (s State) Valid() bool {
	for _, known := range AllStates {
		if s == known {
			return true
		}
	}
	return false
}

// Transient reports whether s has a built-in lifetime after which it always
// reverts to Idle.
func (s State) Transient() bool {
	switch s {
	case Celebrating, Frustrated, Interaction:
		return true
	default:
		return false
	}
}

// Lifetime returns how long a transient state lasts before expiring.
// interaction is the configured Interaction window; zero selects the default.
// Non-transient states return 0.
func (s State) Lifetime(interaction time.Duration) time.Duration {
	switch s {
	case Celebrating:
		return CelebratingDuration
	case Frustrated:
		return FrustratedDuration
	case Interaction:
		if interaction <= 0 {
			return DefaultInteractionDuration
		}
		return interaction
	default:
		return 0
	}
}

// Mood is the facial expression shown for a state.
type Mood string

// Moods.
const (
	MoodHappy    Mood = "happy"
	MoodSad      Mood = "sad"
	MoodSleeping Mood = "sleeping"
	MoodFocused  Mood = "focused"
	MoodExcited  Mood = "excited"
)

// Mood returns the expression associated with s. Unknown states look happy.
func (s State) Mood() Mood {
	switch s {
	case Coding:
		return MoodFocused
	case Celebrating:
		return MoodExcited
	case Frustrated, Tired:
		return MoodSad
	case Sleeping:
		return MoodSleeping
	default:
		return MoodHappy
	}
}
