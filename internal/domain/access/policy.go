// Package access decides who may see or decide on a booking.
//
// The two checks deny differently: deciding on a booking someone else owns is
// reported as if the booking did not exist, while reading a booking that is
// neither yours nor on your item is an explicit access denial.
package access

import "github.com/garyjia/shareit/internal/domain/entity"

// Decision is the outcome of an access check
type Decision int

const (
	Allow Decision = iota
	DenyAsNotFound
	DenyAsForbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyAsNotFound:
		return "deny_not_found"
	case DenyAsForbidden:
		return "deny_forbidden"
	default:
		return "unknown"
	}
}

// Allowed reports whether the decision grants access
func (d Decision) Allowed() bool {
	return d == Allow
}

// CanView allows the booker and the owner of the booked item
func CanView(callerID int64, booking *entity.Booking, itemOwnerID int64) Decision {
	if callerID == booking.BookerID || callerID == itemOwnerID {
		return Allow
	}
	return DenyAsForbidden
}

// CanDecide allows only the owner of the booked item to approve or reject
func CanDecide(callerID, itemOwnerID int64) Decision {
	if callerID == itemOwnerID {
		return Allow
	}
	return DenyAsNotFound
}

// CanBook refuses owners booking their own items, masked as not found
func CanBook(bookerID int64, item *entity.Item) Decision {
	if bookerID == item.OwnerID {
		return DenyAsNotFound
	}
	return Allow
}

// CanEditItem allows only the owner to change an item
func CanEditItem(callerID int64, item *entity.Item) Decision {
	if callerID == item.OwnerID {
		return Allow
	}
	return DenyAsNotFound
}

// CanSeeItemBookings allows only the owner to see an item's last and next bookings.
// Other callers still see the item itself.
func CanSeeItemBookings(callerID int64, item *entity.Item) Decision {
	if callerID == item.OwnerID {
		return Allow
	}
	return DenyAsForbidden
}
