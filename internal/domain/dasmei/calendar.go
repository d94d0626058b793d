package dasmei

import "time"

// BusinessCalendar answers business day questions using weekends and the
// registered holidays.
type BusinessCalendar struct {
	holidays map[string]struct{}
}

// NewBusinessCalendar builds a calendar from the registered holidays
func NewBusinessCalendar(feriados []*Feriado) *BusinessCalendar {
	c := &BusinessCalendar{holidays: make(map[string]struct{}, len(feriados))}
	for _, f := range feriados {
		c.holidays[f.Data.Format("2006-01-02")] = struct{}{}
	}
	return c
}

// IsHoliday reports whether d is a registered holiday
func (c *BusinessCalendar) IsHoliday(d time.Time) bool {
	_, ok := c.holidays[d.Format("2006-01-02")]
	return ok
}

// IsBusinessDay reports whether d is neither a weekend day nor a holiday
func (c *BusinessCalendar) IsBusinessDay(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.IsHoliday(d)
}

// NextBusinessDay returns d itself when it is a business day, otherwise the
// first business day after it.
func (c *BusinessCalendar) NextBusinessDay(d time.Time) time.Time {
	for i := 0; i < 366 && !c.IsBusinessDay(d); i++ {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// SendDate returns the business day on which a guide generated at now should
// be delivered: day diaEnvio of now's month, never earlier than today.
func (c *BusinessCalendar) SendDate(now time.Time, diaEnvio int) time.Time {
	y, m, _ := now.Date()
	today := time.Date(y, m, now.Day(), 0, 0, 0, 0, now.Location())
	if diaEnvio < 1 {
		diaEnvio = DefaultDiaEnvio
	}
	lastDay := time.Date(y, m+1, 0, 0, 0, 0, 0, now.Location()).Day()
	if diaEnvio > lastDay {
		diaEnvio = lastDay
	}
	target := time.Date(y, m, diaEnvio, 0, 0, 0, 0, now.Location())
	if target.Before(today) {
		target = today
	}
	return c.NextBusinessDay(target)
}
