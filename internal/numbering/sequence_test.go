package numbering_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/rechnung/internal/model"
	"github.com/rezonia/rechnung/internal/numbering"
)

func TestSequentialNumbering(t *testing.T) {
	seq := numbering.NewSequence("RE-", 2024)
	n1, err := seq.Next()
	require.NoError(t, err)
	n2, err := seq.Next()
	require.NoError(t, err)
	n3, err := seq.Next()
	require.NoError(t, err)

	assert.Equal(t, "RE-2024-001", n1)
	assert.Equal(t, "RE-2024-002", n2)
	assert.Equal(t, "RE-2024-003", n3)
}

func TestPeekDoesNotConsume(t *testing.T) {
	seq := numbering.NewSequence("RE-", 2024)
	assert.Equal(t, "RE-2024-001", seq.Peek())
	assert.Equal(t, "RE-2024-001", seq.Peek())

	n, err := seq.Next()
	require.NoError(t, err)
	assert.Equal(t, "RE-2024-001", n)
	assert.Equal(t, "RE-2024-002", seq.Peek())
}

func TestStartingAt(t *testing.T) {
	seq := numbering.StartingAt("INV-", 2024, 42)
	n1, err := seq.Next()
	require.NoError(t, err)
	n2, err := seq.Next()
	require.NoError(t, err)

	assert.Equal(t, "INV-2024-042", n1)
	assert.Equal(t, "INV-2024-043", n2)
}

func TestCustomPadding(t *testing.T) {
	seq := numbering.NewSequence("R", 2024).WithPadding(5)
	n, err := seq.Next()
	require.NoError(t, err)
	assert.Equal(t, "R2024-00001", n)
}

func TestYearAdvance(t *testing.T) {
	seq := numbering.NewSequence("RE-", 2024)
	_, _ = seq.Next()
	_, _ = seq.Next()

	require.NoError(t, seq.AdvanceYear(2025))
	n, err := seq.Next()
	require.NoError(t, err)
	assert.Equal(t, "RE-2025-001", n)
}

func TestYearAdvanceRejectsPast(t *testing.T) {
	seq := numbering.NewSequence("RE-", 2024)

	err := seq.AdvanceYear(2023)
	require.Error(t, err)
	var numErr *model.NumberingError
	require.ErrorAs(t, err, &numErr)
	assert.Equal(t, model.NumberingYearRegression, numErr.Kind)

	require.Error(t, seq.AdvanceYear(2024))
}

func TestAutoAdvanceYear(t *testing.T) {
	seq := numbering.NewSequence("RE-", 2024)
	_, _ = seq.Next() // RE-2024-001

	jan2025 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, seq.AutoAdvance(jan2025))
	n, err := seq.Next()
	require.NoError(t, err)
	assert.Equal(t, "RE-2025-001", n)

	feb2025 := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, seq.AutoAdvance(feb2025))
	n2, err := seq.Next()
	require.NoError(t, err)
	assert.Equal(t, "RE-2025-002", n2)
}

func TestAdvanceToNowUsesInjectedClock(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC))
	seq := numbering.NewSequenceWithClock("RE-", 2024, clock)
	_, _ = seq.Next() // RE-2024-001

	assert.False(t, seq.AdvanceToNow())

	clock.Advance(2 * time.Hour)
	assert.True(t, seq.AdvanceToNow())

	n, err := seq.Next()
	require.NoError(t, err)
	assert.Equal(t, "RE-2025-001", n)
}

func TestNumberingExhausted(t *testing.T) {
	seq := numbering.StartingAt("RE-", 2024, ^uint64(0))
	_, err := seq.Next()
	require.Error(t, err)
	var numErr *model.NumberingError
	require.ErrorAs(t, err, &numErr)
	assert.Equal(t, model.NumberingExhausted, numErr.Kind)
}
