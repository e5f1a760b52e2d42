package repository

import (
	"fmt"
	"time"

	"gasagua/internal/apierror"
)

const layoutData = "2006-01-02"

// IntervaloDia returns [start of day, start of next day) for a YYYY-MM-DD
// date in local time. An empty string means today.
func IntervaloDia(data string) (time.Time, time.Time, error) {
	if data == "" {
		inicio, fim := Dia(time.Now())
		return inicio, fim, nil
	}
	d, err := time.ParseInLocation(layoutData, data, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", apierror.ErrDataInvalida, data)
	}
	inicio, fim := Dia(d)
	return inicio, fim, nil
}

// Dia returns the local day containing t.
func Dia(t time.Time) (time.Time, time.Time) {
	t = t.In(time.Local)
	inicio := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
	return inicio, inicio.AddDate(0, 0, 1)
}
