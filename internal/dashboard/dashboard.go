// internal/dashboard/dashboard.go
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/tamzrod/bikedash/internal/button"
	"github.com/tamzrod/bikedash/internal/clock"
	"github.com/tamzrod/bikedash/internal/health"
	"github.com/tamzrod/bikedash/internal/link"
	"github.com/tamzrod/bikedash/internal/scheduler"
	"github.com/tamzrod/bikedash/internal/status"
	"github.com/tamzrod/bikedash/internal/thermal"
)

// Link names used in logs and the health mirror.
const (
	LinkGear = "gear"
	LinkGPS  = "gps"
)

// Messages is the status stack.
type Messages interface {
	Push(text string, level status.Level, timeout time.Duration) (status.ID, error)
	Update(id status.ID, text string, level status.Level, timeout time.Duration) (status.ID, error)
	Stop() error
}

// Telemetry draws the always-on widgets.
type Telemetry interface {
	DrawPower(watts int, known bool) error
	DrawSpeedAndDistance(r *link.Reading) error
	DrawHeartRate(bpm int, known bool) error
	DrawGear(gear int, changing bool) error
	Close() error
}

// Sensors is the cached sensor data.
type Sensors interface {
	TakePower() (int, bool)
	HeartRate() (int, bool)
	Stop() error
}

type GPSLink interface {
	Poll() (*link.Reading, error)
	Status() link.Status
	Active() bool
}

type GearLink interface {
	Poll() ([]link.Event, error)
	Status() link.Status
	Shutdown(ctx context.Context) error
}

type Thermometer interface {
	Celsius() (float64, error)
}

// Config is the minimal runtime config the dashboard needs.
type Config struct {
	Tick           time.Duration
	GPSGraceTicks  uint64
	Thermal        thermal.Thresholds
	MessageTimeout time.Duration
	AckTimeout     time.Duration
	MaxFailures    int
}

// Deps are the collaborators. Gear, Thermal, Mirror and Flush may be
// nil; their tasks are left out of the table.
type Deps struct {
	Status    Messages
	Telemetry Telemetry
	Sensors   Sensors
	GPS       GPSLink
	Gear      GearLink
	Thermal   Thermometer
	Button    button.Input
	Mirror    *health.Mirror

	// Flush pushes the composed frame to the display once per tick.
	Flush func() error

	// Cleanup runs at the end of the shutdown sequence, in order.
	Cleanup []Step
}

// Dashboard owns the control loop. All of its state is touched only by
// the scheduler goroutine.
type Dashboard struct {
	cfg  Config
	deps Deps
	clk  clock.Clock
	log  hclog.Logger

	debounce button.Debouncer
	gear     int
	changing bool
	haveGear bool

	tempID    status.ID
	gpsErrID  status.ID
	gearErrID status.ID

	buttonStop bool
}

func New(cfg Config, deps Deps, clk clock.Clock, log hclog.Logger) (*Dashboard, error) {
	if cfg.Tick <= 0 {
		return nil, errors.New("dashboard: tick must be > 0")
	}
	if deps.Status == nil || deps.Telemetry == nil || deps.Sensors == nil || deps.GPS == nil {
		return nil, errors.New("dashboard: status, telemetry, sensors and gps are required")
	}
	if deps.Button == nil {
		deps.Button = button.None{}
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Dashboard{cfg: cfg, deps: deps, clk: clk, log: log}, nil
}

// Tasks returns the tick table. Order matters: tasks due on the same
// tick run top to bottom.
func (d *Dashboard) Tasks() []scheduler.Task {
	tasks := []scheduler.Task{
		{Name: "power", Run: d.drawPower},
		{Name: "heart rate", Period: 4, Run: d.drawHeartRate},
		{Name: "gps poll", Period: 4, Run: d.pollGPS},
		{Name: "gps acquire", Period: 8, After: d.cfg.GPSGraceTicks, Run: d.acquireGPS},
	}
	if d.deps.Thermal != nil {
		tasks = append(tasks, scheduler.Task{Name: "temperature", Period: 32, Run: d.checkTemperature})
	}
	tasks = append(tasks, scheduler.Task{Name: "button", Period: 4, Run: d.sampleButton})
	if d.deps.Gear != nil {
		tasks = append(tasks, scheduler.Task{Name: "gear", Run: d.pollGear})
	}
	if d.deps.Mirror != nil {
		tasks = append(tasks, scheduler.Task{Name: "health", Period: d.ticksPerSecond(), Run: d.mirrorSecond})
	}
	if d.deps.Flush != nil {
		tasks = append(tasks, scheduler.Task{Name: "flush", Run: func(uint64) error { return d.deps.Flush() }})
	}
	return tasks
}

// Run drives the loop until ctx is done or the button asks to stop,
// then runs the shutdown sequence. requested reports a button stop.
func (d *Dashboard) Run(ctx context.Context) (requested bool, err error) {
	s, err := scheduler.New(scheduler.Config{Interval: d.cfg.Tick}, d.Tasks(), d.clk, d.log.Named("scheduler"))
	if err != nil {
		return false, err
	}

	d.log.Info("dashboard running", "tick", d.cfg.Tick)
	if err := s.Run(ctx); err != nil && !errors.Is(err, scheduler.ErrStop) {
		return false, err
	}
	d.log.Info("shutting down", "button", d.buttonStop, "ticks", s.Tick())

	return d.buttonStop, d.Shutdown(context.Background())
}

// Shutdown runs the best-effort shutdown sequence.
func (d *Dashboard) Shutdown(ctx context.Context) error {
	var steps []Step
	if d.deps.Gear != nil {
		steps = append(steps, Step{Name: "stop gear shifter", Run: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, d.cfg.AckTimeout)
			defer cancel()
			return d.deps.Gear.Shutdown(ctx)
		}})
	}
	steps = append(steps,
		Step{Name: "close sensors", Run: func(context.Context) error { return d.deps.Sensors.Stop() }},
		Step{Name: "remove telemetry", Run: func(context.Context) error { return d.deps.Telemetry.Close() }},
		Step{Name: "stop status messages", Run: func(context.Context) error { return d.deps.Status.Stop() }},
	)
	steps = append(steps, d.deps.Cleanup...)

	return RunShutdown(ctx, steps, d.cfg.MaxFailures, d.log.Named("shutdown"))
}

// ---- tasks ----

func (d *Dashboard) drawPower(uint64) error {
	watts, ok := d.deps.Sensors.TakePower()
	return d.deps.Telemetry.DrawPower(watts, ok)
}

func (d *Dashboard) drawHeartRate(uint64) error {
	bpm, ok := d.deps.Sensors.HeartRate()
	return d.deps.Telemetry.DrawHeartRate(bpm, ok)
}

func (d *Dashboard) pollGPS(uint64) error {
	if !d.deps.GPS.Active() {
		return nil
	}
	return d.gpsOnce()
}

func (d *Dashboard) acquireGPS(uint64) error {
	if d.deps.GPS.Active() {
		return nil
	}
	return d.gpsOnce()
}

func (d *Dashboard) gpsOnce() error {
	r, err := d.deps.GPS.Poll()
	d.observe(LinkGPS, d.deps.GPS.Status(), err)
	if err != nil {
		d.gpsErrID = d.update(d.gpsErrID, fmt.Sprintf("GPS error: %v", err), status.LevelError)
		if derr := d.deps.Telemetry.DrawSpeedAndDistance(nil); derr != nil {
			return errors.Join(err, derr)
		}
		return err
	}
	return d.deps.Telemetry.DrawSpeedAndDistance(r)
}

func (d *Dashboard) checkTemperature(uint64) error {
	c, err := d.deps.Thermal.Celsius()
	if err != nil {
		return err
	}

	var level status.Level
	switch d.cfg.Thermal.Classify(c) {
	case thermal.Bad:
		level = status.LevelError
	case thermal.Warn:
		level = status.LevelWarning
	default:
		return nil
	}
	d.tempID = d.update(d.tempID, fmt.Sprintf("CPU temperature at %.1f°C", c), level)
	return nil
}

func (d *Dashboard) sampleButton(uint64) error {
	pressed, err := d.deps.Button.Pressed()
	if err != nil {
		return err
	}
	switch d.debounce.Sample(pressed) {
	case button.ActionWarn:
		d.push("Keep holding the button to shut down", status.LevelWarning)
	case button.ActionShutdown:
		d.push("Shutting down...", status.LevelWarning)
		d.buttonStop = true
		return scheduler.ErrStop
	}
	return nil
}

func (d *Dashboard) pollGear(uint64) error {
	events, err := d.deps.Gear.Poll()
	d.observe(LinkGear, d.deps.Gear.Status(), err)
	if err != nil {
		d.gearErrID = d.update(d.gearErrID, fmt.Sprintf("Gear shifter error: %v", err), status.LevelError)
		return err
	}

	var errs []error
	for _, ev := range events {
		if err := d.applyGearEvent(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *Dashboard) applyGearEvent(ev link.Event) error {
	switch ev.Kind {
	case link.EventGear:
		if d.haveGear && d.gear == ev.Gear && d.changing == ev.Changing {
			return nil
		}
		d.gear, d.changing, d.haveGear = ev.Gear, ev.Changing, true
		return d.deps.Telemetry.DrawGear(ev.Gear, ev.Changing)
	case link.EventAck:
		d.log.Debug("gear shifter acknowledged")
	case link.EventError:
		d.push(ev.Text, status.LevelError)
	case link.EventDebug:
		d.push(ev.Text, status.LevelDebug)
	default:
		d.push(ev.Text, status.LevelInfo)
	}
	return nil
}

func (d *Dashboard) mirrorSecond(uint64) error {
	d.deps.Mirror.Second()
	return nil
}

// ---- helpers ----

func (d *Dashboard) observe(name string, st link.Status, err error) {
	if d.deps.Mirror != nil {
		d.deps.Mirror.Observe(name, st, err)
	}
}

func (d *Dashboard) push(text string, level status.Level) {
	if _, err := d.deps.Status.Push(text, level, d.cfg.MessageTimeout); err != nil {
		d.log.Warn("status push failed", "text", text, "error", err)
	}
}

// update shows text under a retained id and returns the id to keep.
func (d *Dashboard) update(id status.ID, text string, level status.Level) status.ID {
	next, err := d.deps.Status.Update(id, text, level, d.cfg.MessageTimeout)
	if err != nil {
		d.log.Warn("status update failed", "text", text, "error", err)
		return status.NoID
	}
	return next
}

func (d *Dashboard) ticksPerSecond() uint64 {
	n := uint64(time.Second / d.cfg.Tick)
	if n == 0 {
		n = 1
	}
	return n
}
