// internal/writer/health_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/bikedash/internal/health"
)

// endpointClient is the register write the health writer needs.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// Plan locates one link's block in the mirror memory.
type Plan struct {
	Link     string
	UnitID   uint8
	BaseSlot uint16
}

// HealthWriter writes one link's snapshots into its register block.
// The first successful write asserts the full block including the link
// name; later writes touch only the slots that changed. Any failure
// forces a full re-assert on the next call.
type HealthWriter struct {
	plan Plan
	cli  endpointClient

	needFull bool
	last     health.Snapshot
	nameRegs []uint16
}

func NewHealthWriter(plan Plan, cli endpointClient) (*HealthWriter, error) {
	if cli == nil {
		return nil, fmt.Errorf("health writer: missing client for link %q", plan.Link)
	}
	return &HealthWriter{
		plan:     plan,
		cli:      cli,
		needFull: true,
		nameRegs: health.EncodeName(plan.Link),
	}, nil
}

// WriteHealth implements health.Writer.
func (hw *HealthWriter) WriteHealth(s health.Snapshot) error {
	if hw == nil || hw.cli == nil {
		return errors.New("health writer: disabled")
	}

	base := hw.baseAddr()

	if hw.needFull {
		if err := hw.cli.WriteRegisters(hw.plan.UnitID, base, hw.fullBlockRegs(s)); err != nil {
			return fmt.Errorf("health writer: full block write failed: %w", err)
		}
		hw.needFull = false
		hw.last = s
		return nil
	}

	slots := []struct {
		name      string
		slot      uint16
		prev, cur uint16
		commit    func()
	}{
		{"health", health.SlotHealth, hw.last.Health, s.Health, func() { hw.last.Health = s.Health }},
		{"last_error", health.SlotLastErrorCode, hw.last.LastErrorCode, s.LastErrorCode, func() { hw.last.LastErrorCode = s.LastErrorCode }},
		{"seconds", health.SlotSecondsInError, hw.last.SecondsInError, s.SecondsInError, func() { hw.last.SecondsInError = s.SecondsInError }},
		{"state", health.SlotState, hw.last.State, s.State, func() { hw.last.State = s.State }},
		{"retries", health.SlotRetries, hw.last.Retries, s.Retries, func() { hw.last.Retries = s.Retries }},
	}

	var errs []string
	for _, sl := range slots {
		if sl.prev == sl.cur {
			continue
		}
		if err := hw.cli.WriteRegisters(hw.plan.UnitID, base+sl.slot, []uint16{sl.cur}); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d %s write failed: %v", sl.slot, sl.name, err))
			continue
		}
		sl.commit()
	}

	if len(errs) > 0 {
		hw.needFull = true
		return errors.New("health writer: " + strings.Join(errs, " | "))
	}
	return nil
}

func (hw *HealthWriter) baseAddr() uint16 {
	return hw.plan.BaseSlot * health.SlotsPerLink
}

func (hw *HealthWriter) fullBlockRegs(s health.Snapshot) []uint16 {
	regs := health.Encode(s)
	copy(regs[health.SlotNameStart:], hw.nameRegs)
	return regs
}
