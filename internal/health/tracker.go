// internal/health/tracker.go
package health

import (
	"errors"

	"github.com/tamzrod/bikedash/internal/link"
)

// Tracker turns link status observations into snapshots. It owns the
// seconds-in-error counter, which only advances on Second.
type Tracker struct {
	snap Snapshot
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot { return t.snap }

// Observe folds in the link status after a poll and the error the poll
// returned, if any. It reports whether anything changed.
func (t *Tracker) Observe(st link.Status, err error) (Snapshot, bool) {
	next := t.snap
	next.Health = healthOf(st, err)
	next.State = uint16(st.State)
	next.Retries = clampU16(st.Retries)

	switch {
	case err != nil:
		next.LastErrorCode = errorCode(err)
	case st.LastKind != link.KindNone:
		next.LastErrorCode = uint16(st.LastKind)
	case next.Health == HealthOK:
		next.LastErrorCode = 0
	}
	if next.Health == HealthOK {
		next.SecondsInError = 0
	}

	changed := next != t.snap
	t.snap = next
	return next, changed
}

// Second advances seconds-in-error while the link is not OK.
func (t *Tracker) Second() (Snapshot, bool) {
	if t.snap.Health == HealthOK || t.snap.Health == HealthUnknown {
		return t.snap, false
	}
	if t.snap.SecondsInError >= MaxSeconds {
		return t.snap, false
	}
	t.snap.SecondsInError++
	return t.snap, true
}

func healthOf(st link.Status, err error) uint16 {
	if err != nil {
		return HealthError
	}
	switch st.State {
	case link.Active, link.Connected:
		return HealthOK
	case link.Failed:
		return HealthError
	case link.Connecting:
		if st.LastKind != link.KindNone {
			return HealthError
		}
		return HealthStale
	default:
		if st.LastKind != link.KindNone {
			return HealthError
		}
		return HealthUnknown
	}
}

// errorCode extracts a best-effort uint16 code from an error without
// assuming concrete types. Errors that expose no code map to 1.
func errorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	type coderA interface{ Code() uint16 }
	type coderB interface{ ErrorCode() uint16 }

	var a coderA
	if errors.As(err, &a) {
		return a.Code()
	}
	var b coderB
	if errors.As(err, &b) {
		return b.ErrorCode()
	}
	return 1
}

func clampU16(n int) uint16 {
	switch {
	case n < 0:
		return 0
	case n > MaxSeconds:
		return MaxSeconds
	default:
		return uint16(n)
	}
}
