package availability

import "time"

// MinuteOfDay local minute of t in loc.
func MinuteOfDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}

// DayBounds local midnight of day and the next local midnight.
// The span is not always 24h on DST transition days.
func DayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := day.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	return start, end
}

// AtMinute the instant of minute-of-day m on the local date of day.
func AtMinute(day time.Time, minute int, loc *time.Location) time.Time {
	y, mo, d := day.In(loc).Date()
	return time.Date(y, mo, d, 0, minute, 0, 0, loc)
}

// IntervalWithinDay converts an absolute [start, end) range into minutes of the
// local day, clamping parts that spill into the previous or next day.
// ok is false when the range does not touch the day at all.
func IntervalWithinDay(start, end, day time.Time, loc *time.Location) (Interval, bool) {
	dayStart, dayEnd := DayBounds(day, loc)
	if !start.Before(dayEnd) || !end.After(dayStart) || !start.Before(end) {
		return Interval{}, false
	}

	iv := Interval{StartMinute: 0, EndMinute: MinutesPerDay}
	if start.After(dayStart) {
		iv.StartMinute = MinuteOfDay(start, loc)
	}
	if end.Before(dayEnd) {
		iv.EndMinute = MinuteOfDay(end, loc)
		// a booking ending mid-minute still occupies that minute
		if end.In(loc).Second() > 0 || end.In(loc).Nanosecond() > 0 {
			iv.EndMinute++
		}
	}
	if iv.StartMinute >= iv.EndMinute {
		return Interval{}, false
	}
	return iv, true
}

// SameLocalDate reports whether a and b fall on the same calendar date in loc.
func SameLocalDate(a, b time.Time, loc *time.Location) bool {
	return compareDates(a.In(loc), b.In(loc)) == 0
}

// compareDates compares calendar dates of two times already in the same location.
func compareDates(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	switch {
	case ay != by:
		return sign(ay - by)
	case am != bm:
		return sign(int(am) - int(bm))
	default:
		return sign(ad - bd)
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
