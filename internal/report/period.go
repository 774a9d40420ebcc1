package report

import "time"

// LastCompleteWeek maps an instant to the most recently completed Monday–Sunday
// window. The Sunday is strictly before now's date, so a run on Sunday still
// reports on the week that closed the Sunday before. Pure and total.
func LastCompleteWeek(now time.Time) Period {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// days back to the previous Sunday; a Sunday resolves to 7
	back := int(today.Weekday())
	if back == 0 {
		back = 7
	}
	end := today.AddDate(0, 0, -back)
	return Period{Start: end.AddDate(0, 0, -6), End: end}
}
