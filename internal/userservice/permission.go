package userservice

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}

// Owns reports whether u is the owner recorded as ownerID on a blog or comment.
func (u *User) Owns(ownerID string) bool {
	if u == nil || u.IsAnonymous() || u.ID == "" {
		return false
	}

	return u.ID == ownerID
}
