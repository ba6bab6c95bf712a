// Package datefmt renders timestamps in Brazilian Portuguese.
package datefmt

import (
	"fmt"
	"time"
)

var weekdays = [...]string{
	time.Sunday:    "Domingo",
	time.Monday:    "Segunda-feira",
	time.Tuesday:   "Terça-feira",
	time.Wednesday: "Quarta-feira",
	time.Thursday:  "Quinta-feira",
	time.Friday:    "Sexta-feira",
	time.Saturday:  "Sábado",
}

var months = [...]string{
	time.January:   "janeiro",
	time.February:  "fevereiro",
	time.March:     "março",
	time.April:     "abril",
	time.May:       "maio",
	time.June:      "junho",
	time.July:      "julho",
	time.August:    "agosto",
	time.September: "setembro",
	time.October:   "outubro",
	time.November:  "novembro",
	time.December:  "dezembro",
}

// Formatter turns a time into display text.
type Formatter interface {
	Format(t time.Time) string
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(time.Time) string

func (f FormatterFunc) Format(t time.Time) string { return f(t) }

// PTBR formats like "Sábado, 17 de outubro de 2026 às 10:04:05".
var PTBR Formatter = FormatterFunc(Long)

// Long formats t in the long pt-BR style.
func Long(t time.Time) string {
	return fmt.Sprintf("%s, %d de %s de %d às %s",
		weekdays[t.Weekday()], t.Day(), months[t.Month()], t.Year(), t.Format("15:04:05"))
}

// Clock reports the current time through a Formatter.
type Clock struct {
	Now       func() time.Time
	Formatter Formatter
}

// NewClock returns a wall clock using the pt-BR formatter.
func NewClock() Clock {
	return Clock{Now: time.Now, Formatter: PTBR}
}

// String formats the current time.
func (c Clock) String() string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	f := c.Formatter
	if f == nil {
		f = PTBR
	}
	return f.Format(now())
}
