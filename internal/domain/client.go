package domain

import "time"

// Client is a borrower, looked up by exact name at loan origination.
type Client struct {
	ID         string
	Name       string
	Address    string
	Phone      string
	PhotoURL   string
	IDPhotoURL string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
