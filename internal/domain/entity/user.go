package entity

import "time"

// User is a directory entry mirrored from the external identity
// provider. The core never issues or validates credentials; it only
// needs to know which principals hold which role so role broadcasts
// can be materialized into per-recipient notification rows.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
