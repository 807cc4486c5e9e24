package avatar

// Minimum idle durations, in seconds, for the idle-out transitions. Sampler
// thresholds are configured at or above these values.
const (
	CodingIdleSeconds = 180
	SleepSeconds      = 600
)

// Guard narrows a row of the table. A nil guard always matches.
type Guard func(ev Event, night bool) bool

// Rule is one row of the transition table.
type Rule struct {
	From  State
	On    EventKind
	Guard Guard
	To    State
	Note  string
}

// atLeast matches events whose Seconds payload reaches seconds.
func atLeast(seconds uint64) Guard {
	return func(ev Event, _ bool) bool { return ev.Seconds >= seconds }
}

func idleAtNight(seconds uint64) Guard {
	return func(ev Event, night bool) bool { return night && ev.Seconds >= seconds }
}

func idleByDay(seconds uint64) Guard {
	return func(ev Event, night bool) bool { return !night && ev.Seconds >= seconds }
}

// Table is the authoritative transition table. Rows are evaluated in order and
// the first whose From, On and Guard all match wins. Any pair without a
// matching row is a no-op.
var Table = []Rule{
	{From: Idle, On: ActivityDetected, To: Coding},
	{From: Idle, On: IdleTimeout, Guard: atLeast(SleepSeconds), To: Sleeping},
	{From: Idle, On: UserClicked, To: Interaction},

	{From: Coding, On: CommitDetected, To: Celebrating},
	{From: Coding, On: ErrorDetected, To: Frustrated},
	{From: Coding, On: IdleTimeout, Guard: idleAtNight(CodingIdleSeconds), To: Tired, Note: "night check precedes plain idle-out"},
	{From: Coding, On: IdleTimeout, Guard: idleByDay(CodingIdleSeconds), To: Idle},
	{From: Coding, On: UserClicked, To: Interaction},

	{From: Celebrating, On: TimerExpired, Guard: atLeast(uint64(CelebratingDuration.Seconds())), To: Idle},
	{From: Frustrated, On: TimerExpired, Guard: atLeast(uint64(FrustratedDuration.Seconds())), To: Idle},

	{From: Sleeping, On: ActivityDetected, To: Idle},
	{From: Sleeping, On: UserClicked, To: Idle},

	{From: Interaction, On: TimerExpired, To: Idle},

	{From: Tired, On: ActivityDetected, To: Coding},
}

// Transition returns the state that follows current on ev. ok is false when
// the table has no row for the pair, meaning the event is ignored.
func Transition(current State, ev Event, night bool) (next State, ok bool) {
	for _, r := range Table {
		if r.From != current || r.On != ev.Kind {
			continue
		}
		if r.Guard != nil && !r.Guard(ev, night) {
			continue
		}
		return r.To, true
	}
	return current, false
}
