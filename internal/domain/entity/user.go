package entity

// User is a registered member who can own items and book others' items
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserPatch carries the fields of a partial user update; nil fields stay unchanged
type UserPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// Apply copies the set fields of the patch onto the user
func (p UserPatch) Apply(user *User) {
	if p.Name != nil {
		user.Name = *p.Name
	}
	if p.Email != nil {
		user.Email = *p.Email
	}
}
