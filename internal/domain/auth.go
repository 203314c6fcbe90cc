package domain

// Identity is the (user id, role) pair carried inside a verified token.
type Identity struct {
	UserID string
	Role   UserRole
}
