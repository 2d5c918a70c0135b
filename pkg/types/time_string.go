package types

import (
	"errors"
	"fmt"
	"time"
)

const (
	// TimeFormat формат времени суток
	TimeFormat = "15:04"

	minutesPerDay = 24 * 60
	endOfDay      = "24:00"
)

var (
	ErrInvalidTimeString = errors.New("types: invalid time string")
	ErrOutOfDay          = errors.New("types: time is outside of the day")
)

// TimeString время суток в формате "HH:MM".
// Допускается "24:00" как конец суток (граница рабочего окна).
type TimeString string

// NewTimeStringFromString парсит и валидирует строку.
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// NewTimeString берет часы и минуты из t (в его же локации).
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(TimeFormat))
}

// NewTimeStringFromMinutes минута суток [0, 1440] в "HH:MM".
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes > minutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrOutOfDay, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// Validate проверяет формат.
func (t TimeString) Validate() error {
	if t == endOfDay {
		return nil
	}
	if len(t) != len(TimeFormat) {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	if _, err := time.Parse(TimeFormat, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// Minutes минута суток.
func (t TimeString) Minutes() (int, error) {
	if t == endOfDay {
		return minutesPerDay, nil
	}
	if err := t.Validate(); err != nil {
		return 0, err
	}
	parsed, _ := time.Parse(TimeFormat, string(t))
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// AddMinutes сдвигает время, результат обязан остаться в пределах суток.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	m, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(m + minutes)
}

// IsBefore сравнение по минутам. Невалидные значения считаются равными нулю.
func (t TimeString) IsBefore(other TimeString) bool {
	a, _ := t.Minutes()
	b, _ := other.Minutes()
	return a < b
}

func (t TimeString) IsAfter(other TimeString) bool {
	return other.IsBefore(t)
}

func (t TimeString) IsZero() bool {
	return t == ""
}

func (t TimeString) String() string {
	return string(t)
}
