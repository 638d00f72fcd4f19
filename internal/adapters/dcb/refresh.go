package dcb

// refreshState tracks the 401 handling of a single call
//
//	idle --401--> refreshing --token--> retried --401--> refreshing ... --budget spent--> failed
type refreshState uint8

const (
	stateIdle refreshState = iota
	stateRefreshing
	stateRetried
	stateFailed
)

func (s refreshState) String() string {
	switch s {
	case stateRefreshing:
		return "refreshing"
	case stateRetried:
		return "retried"
	case stateFailed:
		return "failed"
	default:
		return "idle"
	}
}

type refresher struct {
	state     refreshState
	refreshes int
	max       int
}

func newRefresher(max int) *refresher { return &refresher{max: max} }

// begin records a 401 and reports whether another refresh is allowed
func (r *refresher) begin() bool {
	if r.state == stateFailed || r.refreshes >= r.max {
		r.state = stateFailed
		return false
	}
	r.state = stateRefreshing
	r.refreshes++
	return true
}

// retried records that a fresh token is about to be used
func (r *refresher) retried() { r.state = stateRetried }

// fail records a refresh that could not obtain a token
func (r *refresher) fail() { r.state = stateFailed }

// succeeded returns to idle after a 2xx
func (r *refresher) succeeded() { r.state = stateIdle }
