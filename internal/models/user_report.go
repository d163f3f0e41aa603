package models

import (
	"time"

	"gorm.io/gorm"
)

type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "PENDING"
	ReportStatusResolved  ReportStatus = "RESOLVED"
	ReportStatusDismissed ReportStatus = "DISMISSED"
)

// UserReport is a complaint filed against a user or a ride. Moderation
// resolves it out of band; the API only collects.
type UserReport struct {
	gorm.Model
	ReporterID     uint         `json:"reporterId" gorm:"not null;index"`
	Reporter       User         `json:"reporter"`
	ReportedUserID *uint        `json:"reportedUserId" gorm:"index"`
	ReportedUser   *User        `json:"reportedUser,omitempty"`
	RideID         *uint        `json:"rideId" gorm:"index"`
	Ride           *Ride        `json:"ride,omitempty"`
	Reason         string       `json:"reason" gorm:"not null"`
	Description    string       `json:"description" gorm:"type:text"`
	Status         ReportStatus `json:"status" gorm:"not null;default:'PENDING'"`
	ResolvedAt     *time.Time   `json:"resolvedAt"`
}
