package veterinarians

import (
	"fmt"
	"strconv"
	"strings"
)

// Default working hours assigned when a profile is created without them.
const (
	DefaultWorkStart = "09:00"
	DefaultWorkEnd   = "14:00"
)

// AvailableSlots returns the free hourly slots between workStart (inclusive)
// and workEnd (exclusive), formatted "HH:MM". Slots already present in booked
// are removed. Malformed or inverted bounds yield no slots.
func AvailableSlots(workStart, workEnd string, booked []string) []string {
	start, ok := parseHour(workStart)
	if !ok {
		return []string{}
	}
	end, ok := parseHour(workEnd)
	if !ok {
		return []string{}
	}

	taken := make(map[int]bool, len(booked))
	for _, b := range booked {
		if h, ok := parseHour(b); ok {
			taken[h] = true
		}
	}

	slots := []string{}
	for h := start; h < end; h++ {
		if taken[h] {
			continue
		}
		slots = append(slots, fmt.Sprintf("%02d:00", h))
	}
	return slots
}

// parseHour extracts the hour component from "HH:MM" or "HH:MM:SS".
func parseHour(s string) (int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}
