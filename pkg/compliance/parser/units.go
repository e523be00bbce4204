// Package parser extracts districts, villages and compliance items from
// decoded checklist sheets.
package parser

import (
	"math"
	"time"
)

// serialEpoch is day 0 of the spreadsheet serial date system.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// maxSerial is 9999-12-31, the last date a spreadsheet can hold.
const maxSerial = 2958465

// SerialToTime converts a spreadsheet serial date to a UTC calendar day.
// Fractions (time of day) are dropped.
func SerialToTime(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || serial < 0 || serial > maxSerial {
		return time.Time{}, false
	}
	return serialEpoch.AddDate(0, 0, int(math.Floor(serial))), true
}

// SerialToISO converts a spreadsheet serial date to YYYY-MM-DD.
func SerialToISO(serial float64) (string, bool) {
	t, ok := SerialToTime(serial)
	if !ok {
		return "", false
	}
	return t.Format(time.DateOnly), true
}
