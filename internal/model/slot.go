package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	slotSeparator = " - "
)

// DailySlots is the fixed catalog of bookable one-hour slots, in order.
var DailySlots = []string{
	"09:00 - 10:00",
	"10:00 - 11:00",
	"11:00 - 12:00",
	"12:00 - 13:00",
	"13:00 - 14:00",
	"14:00 - 15:00",
	"15:00 - 16:00",
}

// SlotLabel собирает строку слота "HH:MM - HH:MM"
func SlotLabel(start, end string) string {
	return start + slotSeparator + end
}

// ParseSlotLabel разбирает строку слота на начало и конец
func ParseSlotLabel(label string) (start, end string, err error) {
	parts := strings.Split(label, slotSeparator)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid time slot %q", label)
	}

	start, end = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if _, err := ParseClock(start); err != nil {
		return "", "", err
	}
	if _, err := ParseClock(end); err != nil {
		return "", "", err
	}

	return start, end, nil
}

// ParseDate parses a naive YYYY-MM-DD date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// ParseClock parses a 24h HH:MM time of day.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil || len(s) != len(ClockLayout) {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// StartsAt combines a naive date and HH:MM start time into an instant in loc.
func StartsAt(date, startTime string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}

	offset, err := ParseClock(startTime)
	if err != nil {
		return time.Time{}, err
	}

	// Через time.Date, а не Add, чтобы переход на летнее время не сдвигал часы
	hour, minute := int(offset/time.Hour), int(offset%time.Hour/time.Minute)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc), nil
}
