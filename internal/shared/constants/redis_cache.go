package constants

import "fmt"

// Cache key prefixes. All event-derived keys share the EVENT prefix so a
// single pattern delete invalidates every projection of an event.
const (
	CACHE_KEY_EVENT_DETAIL = "event:detail:"
	CACHE_KEY_EVENT_LIST   = "event:list:"
	CACHE_KEY_SEAT_MAP     = "event:seatmap:"

	PATTERN_INVALIDATE_EVENT_ALL    = "event:*"
	PATTERN_INVALIDATE_EVENT_DETAIL = "event:detail:"
	PATTERN_INVALIDATE_SEAT_MAP     = "event:seatmap:"
)

// BuildEventDetailKey builds the cache key for a single event snapshot
func BuildEventDetailKey(eventID uint64) string {
	return fmt.Sprintf("%s%d", CACHE_KEY_EVENT_DETAIL, eventID)
}

// BuildEventListKey builds the cache key for a paged event listing
func BuildEventListKey(offset, limit int) string {
	return fmt.Sprintf("%soffset:%d:limit:%d", CACHE_KEY_EVENT_LIST, offset, limit)
}

// BuildSeatMapKey builds the cache key for an event's seat map
func BuildSeatMapKey(eventID uint64) string {
	return fmt.Sprintf("%s%d", CACHE_KEY_SEAT_MAP, eventID)
}
