// internal/health/layout.go
package health

// Link health block layout. These values define the register protocol
// and are not configurable.

// SlotsPerLink is the fixed number of registers per device link.
const SlotsPerLink = 20

// ---- SLOT INDICES ----

// SlotHealth holds the health code.
const SlotHealth = 0

// SlotLastErrorCode holds the link.Kind of the last failure.
const SlotLastErrorCode = 1

// SlotSecondsInError holds how long the link has been unhealthy.
const SlotSecondsInError = 2

// SlotState holds the raw link.State.
const SlotState = 3

// SlotRetries holds the consecutive failed attempts.
const SlotRetries = 4

// Slots 5-10 are reserved.
const (
	SlotReservedStart = 5
	SlotReservedEnd   = 10
)

// ---- LINK NAME ----

// SlotNameStart is the first register of the link name, which always
// sits at the end of the block.
const SlotNameStart = 11

// SlotNameSlots is the number of registers holding the name.
const SlotNameSlots = 8

// NameMaxChars is the number of ASCII characters stored for the name.
const NameMaxChars = 2 * SlotNameSlots

// ---- HEALTH CODES ----

const (
	HealthUnknown uint16 = 0 // not yet attempted
	HealthOK      uint16 = 1
	HealthError   uint16 = 2
	HealthStale   uint16 = 3 // reachable, no usable data yet
)

// MaxSeconds is where seconds_in_error saturates.
const MaxSeconds = 65535
