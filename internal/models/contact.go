package models

import "time"

// Contact is a person we keep in touch with (leads included).
type Contact struct {
	ID            int64     `json:"id"`
	NameEn        string    `json:"nameEn"`
	NameAr        string    `json:"nameAr,omitempty"`
	Title         string    `json:"title,omitempty"`
	TitleAr       string    `json:"titleAr,omitempty"`
	Organization  string    `json:"organization,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	PartnershipID *int64    `json:"partnershipId,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type ContactImportResult struct {
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Errors  []ImportRowError `json:"errors"`
}

// ImportRowError reports one rejected row of a file import.
type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}
