// internal/link/gps.go
package link

// Fix quality values reported by the GPS daemon.
const (
	ModeUnknown = 0
	ModeNoFix   = 1
	Mode2D      = 2
	Mode3D      = 3
)

// ErrorEstimates are the daemon's 95% confidence estimates.
type ErrorEstimates struct {
	X     float64 // longitude, m
	Y     float64 // latitude, m
	V     float64 // altitude, m
	Speed float64 // m/s
	Time  float64 // s
}

// Fix is one position solution from the GPS daemon.
type Fix struct {
	Mode            int
	SatellitesValid int
	Latitude        float64
	Longitude       float64
	Speed           float64 // m/s
	Errors          ErrorEstimates
}

// FixSource is the GPS daemon client.
type FixSource interface {
	CurrentFix() (Fix, error)
}

// Reading is what the dashboard draws for a usable fix.
type Reading struct {
	Position  Coordinate
	SpeedMS   float64
	DistanceM float64
	Fix       Fix
}

// GPS tracks fix acquisition: Disconnected → Connecting → Active, back
// to Connecting when the fix is lost and to Failed on transport errors.
type GPS struct {
	src    FixSource
	target Coordinate
	status Status
}

func NewGPS(src FixSource, target Coordinate) *GPS {
	return &GPS{src: src, target: target}
}

func (g *GPS) Status() Status { return g.status }

func (g *GPS) Active() bool { return g.status.State == Active }

// Poll queries the current fix. A nil Reading with a nil error means
// no usable fix: speed and distance must be shown as unknown.
func (g *GPS) Poll() (*Reading, error) {
	if g.status.State == Disconnected {
		g.status.State = Connecting
	}

	fix, err := g.src.CurrentFix()
	if err != nil {
		e := &Error{Kind: KindTransport, Op: "gps fix", Err: err}
		g.status.fail(e, Failed)
		return nil, e
	}

	if fix.Mode < Mode2D || fix.SatellitesValid <= 0 {
		g.status.State = Connecting
		g.status.LastKind = KindNone
		g.status.LastErr = ""
		return nil, nil
	}

	g.status.ok(Active)
	g.status.LastKind = KindNone
	g.status.LastErr = ""

	pos := Coordinate{Lat: fix.Latitude, Lon: fix.Longitude}
	return &Reading{
		Position:  pos,
		SpeedMS:   fix.Speed,
		DistanceM: Haversine(pos, g.target),
		Fix:       fix,
	}, nil
}
