// internal/clock/fake_test.go
package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func TestFakeAfterFunc_FiresOnAdvance(t *testing.T) {
	c := Fake(epoch)
	fired := 0
	c.AfterFunc(10*time.Second, func() { fired++ })

	c.Advance(9 * time.Second)
	if fired != 0 {
		t.Fatalf("fired early: %d", fired)
	}
	c.Advance(1 * time.Second)
	if fired != 1 {
		t.Fatalf("expected 1 call, got %d", fired)
	}
	c.Advance(time.Minute)
	if fired != 1 {
		t.Fatalf("one-shot fired again: %d", fired)
	}
}

func TestFakeAfterFunc_StopPreventsCall(t *testing.T) {
	c := Fake(epoch)
	fired := false
	tm := c.AfterFunc(time.Second, func() { fired = true })

	if !tm.Stop() {
		t.Fatalf("Stop on pending timer should report true")
	}
	if tm.Stop() {
		t.Fatalf("second Stop should report false")
	}
	c.Advance(2 * time.Second)
	if fired {
		t.Fatalf("stopped timer fired")
	}
	if c.Pending() != 0 {
		t.Fatalf("expected no pending waiters, got %d", c.Pending())
	}
}

func TestFakeAfterFunc_DeadlineOrder(t *testing.T) {
	c := Fake(epoch)
	var order []int
	c.AfterFunc(3*time.Second, func() { order = append(order, 3) })
	c.AfterFunc(1*time.Second, func() { order = append(order, 1) })
	c.AfterFunc(2*time.Second, func() { order = append(order, 2) })

	c.Advance(5 * time.Second)

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("unexpected order: %v", order)
	}
}

func TestFakeAfterFunc_CallbackMaySchedule(t *testing.T) {
	c := Fake(epoch)
	second := false
	c.AfterFunc(time.Second, func() {
		c.AfterFunc(time.Second, func() { second = true })
	})

	c.Advance(time.Second)
	if second {
		t.Fatalf("nested timer fired too early")
	}
	c.Advance(time.Second)
	if !second {
		t.Fatalf("nested timer did not fire")
	}
}

func TestFakeTicker_DropsWhenFull(t *testing.T) {
	c := Fake(epoch)
	tk := c.NewTicker(250 * time.Millisecond)
	defer tk.Stop()

	c.Advance(time.Second)

	select {
	case <-tk.C:
	default:
		t.Fatalf("expected a buffered tick")
	}
	select {
	case <-tk.C:
		t.Fatalf("ticks beyond the buffer should be dropped")
	default:
	}
}
