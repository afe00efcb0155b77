package models

import "time"

type Department struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	NameAr    string    `json:"nameAr,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (d Department) NameText() Localized {
	return Localized{En: d.Name, Ar: d.NameAr}
}
