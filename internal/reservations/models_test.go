package reservations

import (
	"testing"
	"time"

	"stagedoor/internal/venues"

	"github.com/stretchr/testify/assert"
)

func TestReservationIsActive(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		finalized  bool
		timeout    time.Time
		wantActive bool
	}{
		{"finalized with expired timeout", true, now.Add(-time.Hour), true},
		{"finalized with live timeout", true, now.Add(time.Hour), true},
		{"unfinalized with live timeout", false, now.Add(time.Minute), true},
		{"unfinalized with expired timeout", false, now.Add(-time.Second), false},
		{"unfinalized with timeout exactly now", false, now, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Reservation{Finalized: tt.finalized, SessionTimeout: tt.timeout}
			assert.Equal(t, tt.wantActive, r.IsActive(now))
		})
	}
}

func TestReservationState(t *testing.T) {
	r := &Reservation{Tickets: SeatAssignment{}}
	assert.Equal(t, StateOpen, r.State())

	r.Tickets = SeatAssignment{"seat-1": venues.TicketTypeNormal}
	assert.Equal(t, StatePriced, r.State())

	r.Finalized = true
	assert.Equal(t, StateFinalized, r.State())
}

func TestReservationAmountDue(t *testing.T) {
	r := &Reservation{Total: 250}
	assert.Equal(t, int64(25000), r.AmountDue())
	assert.False(t, r.IsFree())

	r.Total = 0
	assert.Equal(t, int64(0), r.AmountDue())
	assert.True(t, r.IsFree())
}

func TestSeatAssignmentSeatIDs(t *testing.T) {
	a := SeatAssignment{
		"c-seat": venues.TicketTypeNormal,
		"a-seat": venues.TicketTypeStudent,
		"b-seat": venues.TicketTypeNormal,
	}
	assert.Equal(t, []string{"a-seat", "b-seat", "c-seat"}, a.SeatIDs())

	r := &Reservation{Tickets: a}
	assert.Equal(t, 3, r.NumTickets())
	assert.Equal(t, []string{"a-seat", "b-seat", "c-seat"}, r.SeatIDs())
}
