package poll

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	}
	return "unknown"
}

type Event int

const (
	// EventFetch fires when a fetch starts, from a tick or a manual retry.
	EventFetch Event = iota
	EventSuccess
	EventFailure
)

// Next is the polling state machine:
//
//	idle    --fetch-->   loading
//	loading --success--> ready    loading --failure--> error
//	ready   --fetch-->   ready    (background refresh keeps data visible)
//	ready   --success--> ready    ready   --failure--> error
//	error   --fetch-->   loading  (manual retry or next tick)
func Next(from Status, ev Event) Status {
	switch ev {
	case EventFetch:
		if from == StatusReady {
			return StatusReady
		}
		return StatusLoading
	case EventSuccess:
		return StatusReady
	case EventFailure:
		return StatusError
	}
	return from
}
