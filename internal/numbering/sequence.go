// Package numbering provides the gapless, per-year invoice number sequence
// that §14 UStG and GoBD require: invoice numbers must be sequential within
// a year with no gaps and no reuse.
package numbering

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rezonia/rechnung/internal/model"
)

// InvoiceNumberSequence generates numbers of the form
// "{prefix}{year}-{zero-padded sequential}", e.g. "RE-2024-001". It is safe
// for concurrent use.
type InvoiceNumberSequence struct {
	mu         sync.Mutex
	prefix     string
	year       int
	nextNumber uint64
	zeroPad    int
	clock      clockwork.Clock
}

// NewSequence creates a sequence starting at 1 with the default zero-pad
// width of 3, using the real system clock for AdvanceToNow.
func NewSequence(prefix string, year int) *InvoiceNumberSequence {
	return &InvoiceNumberSequence{prefix: prefix, year: year, nextNumber: 1, zeroPad: 3, clock: clockwork.NewRealClock()}
}

// NewSequenceWithClock creates a sequence driven by an injected
// clockwork.Clock, so tests can control what "now" means to AdvanceToNow
// without sleeping across a real year boundary.
func NewSequenceWithClock(prefix string, year int, clock clockwork.Clock) *InvoiceNumberSequence {
	return &InvoiceNumberSequence{prefix: prefix, year: year, nextNumber: 1, zeroPad: 3, clock: clock}
}

// StartingAt creates a sequence continuing from a given number, for
// resuming numbering across process restarts.
func StartingAt(prefix string, year int, next uint64) *InvoiceNumberSequence {
	return &InvoiceNumberSequence{prefix: prefix, year: year, nextNumber: next, zeroPad: 3, clock: clockwork.NewRealClock()}
}

// WithPadding sets the zero-padding width (default 3, so "001").
func (s *InvoiceNumberSequence) WithPadding(width int) *InvoiceNumberSequence {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zeroPad = width
	return s
}

// Next generates and consumes the next invoice number.
func (s *InvoiceNumberSequence) Next() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nextNumber == math.MaxUint64 {
		return "", model.NewNumberingError(model.NumberingExhausted,
			fmt.Sprintf("sequence for year %d is exhausted", s.year))
	}

	num := s.nextNumber
	s.nextNumber++
	return s.format(num), nil
}

// Peek previews the next number without consuming it.
func (s *InvoiceNumberSequence) Peek() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format(s.nextNumber)
}

func (s *InvoiceNumberSequence) format(num uint64) string {
	return fmt.Sprintf("%s%d-%0*d", s.prefix, s.year, s.zeroPad, num)
}

// Year returns the sequence's current year.
func (s *InvoiceNumberSequence) Year() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.year
}

// NextRaw returns the next number that will be issued, without prefix or
// formatting.
func (s *InvoiceNumberSequence) NextRaw() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextNumber
}

// AdvanceYear moves the sequence to a new year and resets the counter to 1.
// The new year must be strictly greater than the current one.
func (s *InvoiceNumberSequence) AdvanceYear(newYear int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if newYear <= s.year {
		return model.NewNumberingError(model.NumberingYearRegression,
			fmt.Sprintf("new year %d must be greater than current year %d", newYear, s.year))
	}
	s.year = newYear
	s.nextNumber = 1
	return nil
}

// AutoAdvance advances to the given date's year if it is later than the
// sequence's current year, resetting the counter to 1. It reports whether
// the year was advanced.
func (s *InvoiceNumberSequence) AutoAdvance(date time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	dateYear := date.Year()
	if dateYear > s.year {
		s.year = dateYear
		s.nextNumber = 1
		return true
	}
	return false
}

// AdvanceToNow advances the sequence using the sequence's clock (the real
// clock unless constructed with NewSequenceWithClock) rather than a
// caller-supplied date. Tests inject a clockwork.FakeClock to exercise year
// rollover deterministically.
func (s *InvoiceNumberSequence) AdvanceToNow() bool {
	return s.AutoAdvance(s.clock.Now())
}
