// Package unixtime converts between calendar dates and Unix seconds without going through time.Location.
package unixtime

// FromDateTime converts a given date and time to a Unix timestamp, i.e. the number of seconds since
// 1970-01-01 00:00:00 UTC. It ignores leap seconds but respects leap years and assumes the proleptic
// Gregorian calendar.
//
// Out of range values are normalized the way time.Date does it: hour 24 is midnight of the following
// day and day 0 is the last day of the previous month.
func FromDateTime(year int, month int, day int, hour int, minute int, second int) int64 {
	// Normalize the month so that the lookup below stays in range.
	m := month - 1
	year += m / 12
	m %= 12
	if m < 0 {
		m += 12
		year--
	}

	d := daysSinceEpoch(year) + daysBefore[m]
	if m > 1 && isLeap(year) {
		d++ // +leap year
	}
	unix := (d-unixEpochDays)*secondsPerDay +
		int64(day-1)*secondsPerDay +
		int64(hour)*secondsPerHour +
		int64(minute)*secondsPerMinute +
		int64(second)
	return unix
}

// ToDateTime is the inverse of FromDateTime.
func ToDateTime(unix int64) (year, month, day, hour, minute, second int) {
	days := floorDiv(unix, secondsPerDay)
	secs := unix - days*secondsPerDay
	hour = int(secs / secondsPerHour)
	minute = int(secs % secondsPerHour / secondsPerMinute)
	second = int(secs % secondsPerMinute)

	// Civil from days, counted from 0000-03-01 so that the leap day is the last day of the year.
	z := days + unixEpochDays - marchOffset
	era := floorDiv(z, daysPer400Years)
	doe := z - era*daysPer400Years
	yoe := (doe - doe/(daysPer4Years-1) + doe/daysPer100Years - doe/(daysPer400Years-1)) / 365
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	day = int(doy - (153*mp+2)/5 + 1)
	month = int(mp + 3)
	if month > 12 {
		month -= 12
	}
	year = int(yoe + era*400)
	if month <= 2 {
		year++
	}
	return year, month, day, hour, minute, second
}

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
	daysPer400Years  = 365*400 + 97
	daysPer100Years  = 365*100 + 24
	daysPer4Years    = 365*4 + 1

	// unixEpochDays is the number of days from 0000-01-01 to 1970-01-01.
	unixEpochDays = 719528
	// marchOffset is the number of days from 0000-01-01 to 0000-03-01 (year 0 is a leap year).
	marchOffset = 60
)

var daysBefore = [12]int64{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// daysSinceEpoch takes a year and returns the number of days from 0000-01-01 to the start of that year.
// This is basically year * 365, but accounting for leap days.
func daysSinceEpoch(year int) int64 {
	y := int64(year)
	if y <= 0 {
		// Days before year y, counted backwards from year 0.
		return 365*y + floorDiv(y-1, 4) - floorDiv(y-1, 100) + floorDiv(y-1, 400) + 1
	}
	p := y - 1
	return 365*y + p/4 - p/100 + p/400 + 1
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
