// internal/link/gps_test.go
package link

import (
	"errors"
	"testing"
)

type fakeFixSource struct {
	fixes []Fix
	errs  []error
	i     int
}

func (f *fakeFixSource) CurrentFix() (Fix, error) {
	i := f.i
	f.i++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return Fix{}, err
	}
	return f.fixes[i], nil
}

var finish = Coordinate{Lat: 40.4676639, Lon: -117.06286}

func TestGPS_AcquireThenLose(t *testing.T) {
	src := &fakeFixSource{fixes: []Fix{
		{Mode: Mode3D, SatellitesValid: 7, Latitude: 40.46, Longitude: -117.06, Speed: 12.3},
		{Mode: ModeNoFix, SatellitesValid: 0},
	}}
	g := NewGPS(src, finish)

	if g.Status().State != Disconnected {
		t.Fatalf("initial state = %v", g.Status().State)
	}

	r, err := g.Poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if !g.Active() {
		t.Fatalf("state = %v, want active", g.Status().State)
	}
	if r == nil {
		t.Fatalf("expected a reading")
	}
	if r.SpeedMS != 12.3 {
		t.Fatalf("speed = %f", r.SpeedMS)
	}
	if r.DistanceM <= 0 {
		t.Fatalf("distance = %f, want > 0", r.DistanceM)
	}

	r, err = g.Poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if r != nil {
		t.Fatalf("expected no reading after losing fix, got %+v", r)
	}
	if g.Status().State != Connecting {
		t.Fatalf("state = %v, want connecting", g.Status().State)
	}
}

func TestGPS_RequiresValidSatellites(t *testing.T) {
	src := &fakeFixSource{fixes: []Fix{{Mode: Mode3D, SatellitesValid: 0}}}
	g := NewGPS(src, finish)

	r, err := g.Poll()
	if err != nil || r != nil {
		t.Fatalf("poll = (%v, %v), want (nil, nil)", r, err)
	}
	if g.Status().State != Connecting {
		t.Fatalf("state = %v, want connecting", g.Status().State)
	}
}

func TestGPS_2DFixIsEnough(t *testing.T) {
	src := &fakeFixSource{fixes: []Fix{{Mode: Mode2D, SatellitesValid: 4}}}
	g := NewGPS(src, finish)

	if r, _ := g.Poll(); r == nil || !g.Active() {
		t.Fatalf("2D fix should activate the link")
	}
}

func TestGPS_TransportErrorThenRecovery(t *testing.T) {
	boom := errors.New("connection refused")
	src := &fakeFixSource{
		fixes: []Fix{{}, {}, {Mode: Mode3D, SatellitesValid: 5}},
		errs:  []error{boom, boom},
	}
	g := NewGPS(src, finish)

	for i := 0; i < 2; i++ {
		_, err := g.Poll()
		var le *Error
		if !errors.As(err, &le) || le.Kind != KindTransport {
			t.Fatalf("poll %d err = %v, want transport error", i, err)
		}
		if !errors.Is(err, boom) {
			t.Fatalf("cause not wrapped")
		}
	}
	st := g.Status()
	if st.State != Failed || st.Retries != 2 || st.LastKind != KindTransport {
		t.Fatalf("unexpected status %+v", st)
	}

	if r, err := g.Poll(); err != nil || r == nil {
		t.Fatalf("recovery poll = (%v, %v)", r, err)
	}
	if st := g.Status(); st.State != Active || st.Retries != 0 || st.LastErr != "" {
		t.Fatalf("status after recovery %+v", st)
	}
}
