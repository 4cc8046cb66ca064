package clients

import "time"

// CreateClientRequest is the POST /v1/clients payload.
type CreateClientRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"` // YYYY-MM-DD
	AdvisorName string `json:"advisorName"`
	FirmName    string `json:"firmName"`
}

// ClientResponse is the outward client shape.
type ClientResponse struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	DateOfBirth string    `json:"dateOfBirth"`
	AdvisorName string    `json:"advisorName"`
	FirmName    string    `json:"firmName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ClientsResponse wraps a list response.
type ClientsResponse struct {
	Clients []ClientResponse `json:"clients"`
}
