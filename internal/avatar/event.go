package avatar

import "fmt"

// EventKind tags a StateEvent.
type EventKind int

// Event kinds.
const (
	ActivityDetected EventKind = iota + 1
	IdleTimeout
	CommitDetected
	ErrorDetected
	UserClicked
	TimerExpired
)

func (k EventKind) String() string {
	switch k {
	case ActivityDetected:
		return "ActivityDetected"
	case IdleTimeout:
		return "IdleTimeout"
	case CommitDetected:
		return "CommitDetected"
	case ErrorDetected:
		return "ErrorDetected"
	case UserClicked:
		return "UserClicked"
	case TimerExpired:
		return "TimerExpired"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a transient input to the state machine. Seconds is only meaningful
// for IdleTimeout (seconds since the last recognized activity) and
// TimerExpired (seconds the expiring state was held).
type Event struct {
	Kind    EventKind
	Seconds uint64
}

func (e Event) String() string {
	switch e.Kind {
	case IdleTimeout, TimerExpired:
		return fmt.Sprintf("%s(%ds)", e.Kind, e.Seconds)
	default:
		return e.Kind.String()
	}
}

// Activity returns an ActivityDetected event.
func Activity() Event { return Event{Kind: ActivityDetected} }

// Idled returns an IdleTimeout event carrying the elapsed idle seconds.
func Idled(seconds uint64) Event { return Event{Kind: IdleTimeout, Seconds: seconds} }

// Commit returns a CommitDetected event.
func Commit() Event { return Event{Kind: CommitDetected} }

// Failure returns an ErrorDetected event.
func Failure() Event { return Event{Kind: ErrorDetected} }

// Click returns a UserClicked event.
func Click() Event { return Event{Kind: UserClicked} }

// Expired returns a TimerExpired event for a state held for seconds.
func Expired(seconds uint64) Event { return Event{Kind: TimerExpired, Seconds: seconds} }
