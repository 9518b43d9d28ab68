package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/smartlib/library-service/internal/model"
)

func TestFine(t *testing.T) {
	t.Parallel()

	due := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		returned time.Time
		perDay   float64
		wantDays int
		wantFine float64
	}{
		{
			name:     "on time",
			returned: due.Add(-time.Hour),
			perDay:   0.5,
			wantDays: 0,
			wantFine: 0,
		},
		{
			name:     "exactly due",
			returned: due,
			perDay:   0.5,
			wantDays: 0,
			wantFine: 0,
		},
		{
			name:     "an hour late counts as a day",
			returned: due.Add(time.Hour),
			perDay:   0.5,
			wantDays: 1,
			wantFine: 0.5,
		},
		{
			name:     "exactly three days late",
			returned: due.Add(72 * time.Hour),
			perDay:   0.5,
			wantDays: 3,
			wantFine: 1.5,
		},
		{
			name:     "three days and an hour rounds up",
			returned: due.Add(73 * time.Hour),
			perDay:   0.5,
			wantDays: 4,
			wantFine: 2.0,
		},
		{
			name:     "five days late",
			returned: due.Add(5 * 24 * time.Hour),
			perDay:   0.5,
			wantDays: 5,
			wantFine: 2.5,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.wantDays, model.DaysOverdue(tt.returned, due))
			require.InDelta(t, tt.wantFine, model.Fine(tt.returned, due, tt.perDay), 1e-9)
		})
	}
}

func TestStatusActive(t *testing.T) {
	t.Parallel()

	require.True(t, model.StatusPending.Active())
	require.True(t, model.StatusBorrowed.Active())
	require.False(t, model.StatusRejected.Active())
	require.False(t, model.StatusReturned.Active())

	require.True(t, model.StatusRejected.Terminal())
	require.True(t, model.StatusReturned.Terminal())
	require.False(t, model.StatusPending.Terminal())
}
