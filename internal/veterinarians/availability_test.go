package veterinarians

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailableSlotsSkipsBookedHours(t *testing.T) {
	slots := AvailableSlots("09:00", "12:00", []string{"10:00"})
	assert.Equal(t, []string{"09:00", "11:00"}, slots)
}

func TestAvailableSlotsFullShift(t *testing.T) {
	slots := AvailableSlots("09:00", "14:00", nil)
	assert.Equal(t, []string{"09:00", "10:00", "11:00", "12:00", "13:00"}, slots)
}

func TestAvailableSlotsEndExclusive(t *testing.T) {
	slots := AvailableSlots("09:00", "10:00", nil)
	assert.Equal(t, []string{"09:00"}, slots)
}

func TestAvailableSlotsFullyBooked(t *testing.T) {
	slots := AvailableSlots("09:00", "11:00", []string{"09:00", "10:00"})
	assert.Empty(t, slots)
}

func TestAvailableSlotsAcceptsSecondsSuffix(t *testing.T) {
	slots := AvailableSlots("09:00:00", "11:00:00", []string{"10:00:00"})
	assert.Equal(t, []string{"09:00"}, slots)
}

func TestAvailableSlotsInvertedBounds(t *testing.T) {
	assert.Empty(t, AvailableSlots("14:00", "09:00", nil))
}

func TestAvailableSlotsMalformedInput(t *testing.T) {
	assert.Empty(t, AvailableSlots("morning", "12:00", nil))
	assert.Empty(t, AvailableSlots("09:00", "", nil))
}
