package repositories

import (
	"testing"

	"github.com/thanhtike404/hotel-booking/models"
)

func TestBookingTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		current  string
		decision models.NotificationStatus
		next     string
		delta    int
		changed  bool
	}{
		{"accept pending", models.BookingPending, models.NotificationAccepted, models.BookingConfirmed, -1, true},
		{"reject pending", models.BookingPending, models.NotificationRejected, models.BookingCancelled, 0, true},
		{"re-accept confirmed", models.BookingConfirmed, models.NotificationAccepted, models.BookingConfirmed, 0, false},
		{"re-reject cancelled", models.BookingCancelled, models.NotificationRejected, models.BookingCancelled, 0, false},
		{"cancel confirmed", models.BookingConfirmed, models.NotificationRejected, models.BookingCancelled, 1, true},
		{"accept cancelled", models.BookingCancelled, models.NotificationAccepted, models.BookingConfirmed, -1, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, delta, changed := bookingTransition(tc.current, tc.decision)
			if next != tc.next {
				t.Errorf("expected next status %s, got %s", tc.next, next)
			}
			if delta != tc.delta {
				t.Errorf("expected availability delta %d, got %d", tc.delta, delta)
			}
			if changed != tc.changed {
				t.Errorf("expected changed=%v, got %v", tc.changed, changed)
			}
		})
	}
}

// Applying the same decision twice must not accumulate side effects: the
// second application reports no change, so neither the booking update nor the
// availability adjustment runs again.
func TestBookingTransitionIdempotent(t *testing.T) {
	t.Parallel()

	next, delta, changed := bookingTransition(models.BookingPending, models.NotificationAccepted)
	if !changed || delta != -1 {
		t.Fatalf("first accept should confirm and take a unit, got delta=%d changed=%v", delta, changed)
	}

	_, delta, changed = bookingTransition(next, models.NotificationAccepted)
	if changed {
		t.Error("second accept must be a no-op")
	}
	if delta != 0 {
		t.Errorf("second accept must not touch availability, got delta=%d", delta)
	}
}
