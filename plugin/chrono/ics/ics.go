// Package ics exports parse results as an iCalendar document.
package ics

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hrygo/vnchrono/plugin/chrono"
)

const (
	productID = "-//hrygo//vnchrono//VI"
	version   = "2.0"
)

// emptyCalendar is written when there are no results; the encoder refuses a
// VCALENDAR without components.
const emptyCalendar = "BEGIN:VCALENDAR\r\nVERSION:" + version + "\r\nPRODID:" + productID + "\r\nEND:VCALENDAR\r\n"

// Calendar builds a VCALENDAR holding one VEVENT per result. The reference
// date of each result is used as its DTSTAMP.
func Calendar(results []chrono.ParseResult) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, version)
	cal.Props.SetText(ical.PropProductID, productID)

	for _, r := range results {
		cal.Children = append(cal.Children, event(r).Component)
	}
	return cal
}

// Encode writes the calendar of results to w.
func Encode(w io.Writer, results []chrono.ParseResult) error {
	if len(results) == 0 {
		_, err := io.WriteString(w, emptyCalendar)
		return errors.Wrap(err, "write empty icalendar")
	}
	if err := ical.NewEncoder(w).Encode(Calendar(results)); err != nil {
		return errors.Wrap(err, "encode icalendar")
	}
	return nil
}

func event(r chrono.ParseResult) *ical.Event {
	e := ical.NewEvent()
	e.Props.SetText(ical.PropUID, fmt.Sprintf("%s@vnchrono", uuid.New().String()))
	e.Props.SetText(ical.PropSummary, r.Text)

	stamp := ical.NewProp(ical.PropDateTimeStamp)
	stamp.SetDateTime(r.ReferenceDate.UTC())
	e.Props.Set(stamp)

	e.Props.Set(dateProp(ical.PropDateTimeStart, r.Start))
	switch {
	case r.End != nil:
		e.Props.Set(dateProp(ical.PropDateTimeEnd, *r.End))
	case !r.Start.HasTime:
		end := r.Start
		next := r.Start.Time().AddDate(0, 0, 1)
		end.Year, end.Month, end.Day = next.Year(), int(next.Month())-1, next.Day()
		e.Props.Set(dateProp(ical.PropDateTimeEnd, end))
	}
	return e
}

// dateProp renders components as DATE-TIME when they carry a time, DATE
// otherwise.
func dateProp(name string, c chrono.Components) *ical.Prop {
	p := ical.NewProp(name)
	t := c.Time()
	if c.HasTime {
		p.SetDateTime(time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC))
	} else {
		p.SetDate(t)
	}
	return p
}
