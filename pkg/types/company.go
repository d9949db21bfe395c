package types

// Company is a delivery-company directory entry. Name is unique under
// case-insensitive comparison and keeps the first-seen casing.
type Company struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}
