package service

import "time"

// CivilDayOffset is the fixed offset of the civil calendar in which "today"
// is computed (UTC+5:30, IST). Not configurable per user; no DST.
const CivilDayOffset = 330 * time.Minute

// DayWindow returns the first and last instant of the civil day containing t,
// both expressed back in UTC for storage-layer comparison. The bounds are used
// as an inclusive range filter, so end is 23:59:59.999 of the shifted day.
func DayWindow(t time.Time) (start, end time.Time) {
	shifted := t.UTC().Add(CivilDayOffset)
	y, m, d := shifted.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Add(-CivilDayOffset)
	end = start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// TrailingWindow returns a rolling N-day lookback ending at t. Unlike
// DayWindow it is not aligned to civil-day boundaries.
func TrailingWindow(t time.Time, days int) (start, end time.Time) {
	return t.AddDate(0, 0, -days), t
}
