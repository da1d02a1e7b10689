package service

import "time"

const (
	// defaultSlotCount is how many candidate days a fresh request offers.
	defaultSlotCount = 5
	// slotHour pins generated slots to a reasonable evening time.
	slotHour = 19
)

// generateProposedTimes returns `count` candidate call instants, one per
// day starting the day after `now`, each at 19:00 in now's location. Pure
// and deterministic; count <= 0 yields an empty slice.
func generateProposedTimes(now time.Time, count int) []int64 {
	if count <= 0 {
		return []int64{}
	}

	times := make([]int64, 0, count)
	for i := 1; i <= count; i++ {
		day := now.AddDate(0, 0, i)
		slot := time.Date(day.Year(), day.Month(), day.Day(), slotHour, 0, 0, 0, now.Location())
		times = append(times, slot.UnixMilli())
	}
	return times
}
