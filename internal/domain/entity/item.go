package entity

// Item is a thing a user offers for sharing
type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"ownerId"`
}

// ItemPatch carries the fields of a partial item update; nil fields stay unchanged
type ItemPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// Apply copies the set fields of the patch onto the item
func (p ItemPatch) Apply(item *Item) {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Available != nil {
		item.Available = *p.Available
	}
}

// ItemView is an item as returned to a caller. The booking references are
// only filled in for the item's owner: LastBooking is the approved booking
// with the latest start before now, NextBooking the approved booking with
// the earliest start after now.
type ItemView struct {
	Item
	LastBooking *BookingRef `json:"lastBooking"`
	NextBooking *BookingRef `json:"nextBooking"`
}
