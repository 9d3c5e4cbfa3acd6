package service

import (
	"time"

	"github.com/rickar/cal/v2"
)

// BusinessCalendar computes response deadlines, either on the wall clock or in working hours.
type BusinessCalendar struct {
	cal *cal.BusinessCalendar
}

// NewBusinessCalendar builds a Monday to Friday calendar working startHour to endHour.
// Weekends count as working days when workWeekends is set.
func NewBusinessCalendar(startHour, endHour int, workWeekends bool) *BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.SetWorkHours(time.Duration(startHour)*time.Hour, time.Duration(endHour)*time.Hour)
	c.SetWorkday(time.Saturday, workWeekends)
	c.SetWorkday(time.Sunday, workWeekends)
	return &BusinessCalendar{cal: c}
}

// Deadline adds hours to start. With businessHoursOnly the hours are counted in working time.
func (b *BusinessCalendar) Deadline(start time.Time, hours int, businessHoursOnly bool) time.Time {
	d := time.Duration(hours) * time.Hour
	if !businessHoursOnly || b == nil || b.cal == nil {
		return start.Add(d)
	}
	return b.cal.AddWorkHours(start, d)
}

// IsWorkTime reports whether t falls inside working hours.
func (b *BusinessCalendar) IsWorkTime(t time.Time) bool {
	if b == nil || b.cal == nil {
		return true
	}
	return b.cal.IsWorkTime(t)
}
