package org

import "time"

// Organization is the tenant isolation boundary. Every protected resource
// carries an org id foreign key; nothing is shared across organizations.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
