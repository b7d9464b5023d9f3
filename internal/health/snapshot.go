// internal/health/snapshot.go
package health

// Snapshot is exactly what a writer is allowed to deliver for one link.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
	State          uint16
	Retries        uint16
}

// Encode lays out the live slots of a block. Name registers are left
// zero; the writer fills them on a full assert.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerLink)
	regs[SlotHealth] = s.Health
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotSecondsInError] = s.SecondsInError
	regs[SlotState] = s.State
	regs[SlotRetries] = s.Retries
	return regs
}

// EncodeName packs up to NameMaxChars ASCII characters, two per
// register, big-endian. Non-printable bytes become '?'.
func EncodeName(name string) []uint16 {
	out := make([]uint16, SlotNameSlots)

	b := []byte(name)
	if len(b) > NameMaxChars {
		b = b[:NameMaxChars]
	}
	for i := range b {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < NameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}
	return out
}
