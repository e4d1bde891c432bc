package service

import (
	"time"

	"github.com/garyjia/shareit/internal/application/port"
	"github.com/garyjia/shareit/internal/domain/entity"
)

// listView selects whose perspective a listing is built from
type listView int

const (
	bookerView listView = iota
	ownerView
)

func (v listView) String() string {
	if v == ownerView {
		return "owner"
	}
	return "booker"
}

// filterQuery narrows q to one filter as seen from a view at instant now.
//
// PAST and FUTURE differ between views: a booker only sees approved past
// bookings and approved or waiting future ones, while an owner sees every
// booking on their items.
func filterQuery(q port.BookingQuery, view listView, filter entity.BookingFilter, now time.Time) (port.BookingQuery, error) {
	switch filter {
	case entity.FilterAll:
	case entity.FilterCurrent:
		q.ActiveAt = &now
	case entity.FilterPast:
		q.EndBefore = &now
		if view == bookerView {
			q.Statuses = []entity.BookingStatus{entity.StatusApproved}
		}
	case entity.FilterFuture:
		q.StartAfter = &now
		if view == bookerView {
			q.Statuses = []entity.BookingStatus{entity.StatusApproved, entity.StatusWaiting}
		}
	case entity.FilterWaiting:
		q.Statuses = []entity.BookingStatus{entity.StatusWaiting}
	case entity.FilterRejected:
		q.Statuses = []entity.BookingStatus{entity.StatusRejected}
	default:
		return q, &entity.UnknownStateError{State: string(filter)}
	}
	return q, nil
}
