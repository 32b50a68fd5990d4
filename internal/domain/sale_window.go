package domain

import "time"

// CheckSaleWindow decides whether a purchase may proceed at now. Rules run in
// order and each applies only when its timestamp is set:
// now before SalesStart, now after SalesEnd, now after the event End.
// Both sale boundaries are inclusive.
func CheckSaleWindow(event *Event, now time.Time) error {
	if event == nil {
		return nil
	}
	if event.SalesStart != nil && now.Before(*event.SalesStart) {
		return ErrSalesNotStarted
	}
	if event.SalesEnd != nil && now.After(*event.SalesEnd) {
		return ErrSalesEnded
	}
	if event.End != nil && now.After(*event.End) {
		return ErrEventEnded
	}
	return nil
}
