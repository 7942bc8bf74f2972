package tzexpand

import "time"

// IsLeapYear determines if the year is a leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in a given month for a specific year.
func DaysInMonth(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	}
	return 31
}

// dayOfWeek calculates the day of the week for a given date.
func dayOfWeek(year int, month time.Month, day int) time.Weekday {
	// Zeller's congruence, shifted so that Sunday is 0.
	m := int(month)
	if m < 3 {
		m += 12
		year--
	}
	k := mod(year, 100)
	j := floorDiv(year, 100)
	h := mod(day+(13*(m+1))/5+k+k/4+floorDiv(j, 4)+5*j, 7)
	return time.Weekday((h + 6) % 7)
}

// LastWeekday finds the day of month of the last given weekday in a specific month and year.
func LastWeekday(year int, month time.Month, weekday time.Weekday) int {
	last := DaysInMonth(year, month)
	offset := (int(dayOfWeek(year, month, last)) - int(weekday) + 7) % 7
	return last - offset
}

// WeekdayOnOrAfter returns the first occurrence of weekday on or after the given day,
// which may fall into the next month or year.
func WeekdayOnOrAfter(year int, month time.Month, day int, weekday time.Weekday) (int, time.Month, int) {
	diff := (int(weekday) - int(dayOfWeek(year, month, day)) + 7) % 7
	next := day + diff
	if n := DaysInMonth(year, month); next > n {
		next -= n
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
	return year, month, next
}

// WeekdayOnOrBefore returns the last occurrence of weekday on or before the given day,
// which may fall into the previous month or year.
func WeekdayOnOrBefore(year int, month time.Month, day int, weekday time.Weekday) (int, time.Month, int) {
	diff := (int(dayOfWeek(year, month, day)) - int(weekday) + 7) % 7
	prev := day - diff
	if prev < 1 {
		month--
		if month < time.January {
			month = time.December
			year--
		}
		prev += DaysInMonth(year, month)
	}
	return year, month, prev
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func mod(a, b int) int {
	return a - floorDiv(a, b)*b
}
