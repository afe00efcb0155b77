package models

import "time"

const DefaultInactivityThresholdMonths = 6

type PartnershipStatus string

const (
	PartnershipActive     PartnershipStatus = "active"
	PartnershipPending    PartnershipStatus = "pending"
	PartnershipSuspended  PartnershipStatus = "suspended"
	PartnershipTerminated PartnershipStatus = "terminated"
)

type Partnership struct {
	ID                             int64             `json:"id"`
	Name                           string            `json:"name"`
	NameAr                         string            `json:"nameAr,omitempty"`
	Status                         PartnershipStatus `json:"status"`
	PartnershipType                string            `json:"partnershipType,omitempty"`
	StartDate                      *Date             `json:"startDate,omitempty"`
	EndDate                        *Date             `json:"endDate,omitempty"`
	LastActivityDate               *time.Time        `json:"lastActivityDate"`
	InactivityThresholdMonths      int               `json:"inactivityThresholdMonths"`
	NotifyOnInactivity             bool              `json:"notifyOnInactivity"`
	LastInactivityNotificationSent *time.Time        `json:"lastInactivityNotificationSent"`
	CreatedAt                      time.Time         `json:"createdAt"`
	UpdatedAt                      time.Time         `json:"updatedAt"`
}

func (p Partnership) NameText() Localized {
	return Localized{En: p.Name, Ar: p.NameAr}
}

type PartnershipActivity struct {
	ID            int64     `json:"id"`
	PartnershipID int64     `json:"partnershipId"`
	ActivityType  string    `json:"activityType"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
	CreatedBy     *int64    `json:"createdBy,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// InactivityStatus is derived at read time and never persisted.
type InactivityStatus struct {
	PartnershipID                  int64      `json:"partnershipId"`
	LastActivityDate               *time.Time `json:"lastActivityDate"`
	DaysSinceLastActivity          *int       `json:"daysSinceLastActivity"`
	InactivityThresholdMonths      int        `json:"inactivityThresholdMonths"`
	ThresholdDays                  int        `json:"thresholdDays"`
	IsInactive                     bool       `json:"isInactive"`
	IsNearStale                    bool       `json:"isNearStale"`
	NotifyOnInactivity             bool       `json:"notifyOnInactivity"`
	LastInactivityNotificationSent *time.Time `json:"lastInactivityNotificationSent"`
}

type PartnershipWithStatus struct {
	Partnership
	Inactivity InactivityStatus `json:"inactivity"`
}
