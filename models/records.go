package models

import "encoding/json"

// Entity status values derived from the termination-date cell.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// SearchResult is one row of the registry's name-search results table.
type SearchResult struct {
	State string `json:"state"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	ID    string `json:"id"`
}

// Officer is one officer row from the detail page.
type Officer struct {
	Title   string `json:"title"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// DetailRecord is the normalized view of a single entity's detail page.
//
// Optional fields are pointers so they are omitted, not null, when the
// table or row they come from is missing. Officers is nil when the officer
// table does not exist and non-nil (possibly empty) when it does.
//
// The zero DetailRecord stands for a failed lookup and encodes as {}.
// Parsed records always carry State, so they are never zero.
type DetailRecord struct {
	State              string    `json:"state"`
	Name               string    `json:"name"`
	RegistrationNumber string    `json:"registration_number"`
	EntityType         *string   `json:"entity_type,omitempty"`
	DateRegistered     *string   `json:"date_registered,omitempty"`
	Status             *string   `json:"status,omitempty"`
	MailingAddress     *string   `json:"mailing_address,omitempty"`
	PrincipalAddress   *string   `json:"principal_address,omitempty"`
	Officers           []Officer `json:"officers,omitzero"`
}

// IsEmpty reports whether nothing beyond the jurisdiction tag was extracted.
func (r DetailRecord) IsEmpty() bool {
	return r.Name == "" &&
		r.RegistrationNumber == "" &&
		r.EntityType == nil &&
		r.DateRegistered == nil &&
		r.Status == nil &&
		r.MailingAddress == nil &&
		r.PrincipalAddress == nil &&
		r.Officers == nil
}

// MarshalJSON encodes the zero record as an empty object.
func (r DetailRecord) MarshalJSON() ([]byte, error) {
	if r.State == "" && r.IsEmpty() {
		return []byte("{}"), nil
	}
	type plain DetailRecord
	return json.Marshal(plain(r))
}
