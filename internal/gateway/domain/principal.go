package domain

import "time"

// Principal is the authenticated (or demo) actor attached to a request.
type Principal struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Profile is the persisted user record the gateway consults for role lookups
// during session resolution. The wider application owns the rest of the row.
type Profile struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Principal converts a stored profile into a request principal.
func (p Profile) Principal() Principal {
	return Principal{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
	}
}
