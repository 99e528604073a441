package model

// PractitionerStatus represents the lifecycle state of a practitioner.
type PractitionerStatus string

const (
	PractitionerStatusActive   PractitionerStatus = "active"
	PractitionerStatusInactive PractitionerStatus = "inactive"
)

// Practitioner owns a business calendar and a partition of the booking ledger.
// Timezone is an IANA zone name; every date and wall-clock time for this
// practitioner is interpreted in that zone.
type Practitioner struct {
	Base
	Name     string             `db:"name" json:"name"`
	Email    string             `db:"email" json:"email"`
	Timezone string             `db:"timezone" json:"timezone"`
	Status   PractitionerStatus `db:"status" json:"status"`
}

type CreatePractitionerRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Timezone string `json:"timezone" binding:"required"`
}
