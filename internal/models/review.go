package models

import (
	"gorm.io/gorm"
)

type Review struct {
	gorm.Model
	BookingID  uint    `json:"bookingId" gorm:"not null;index:idx_reviews_booking_reviewer,unique"`
	Booking    Booking `json:"booking"`
	ReviewerID uint    `json:"reviewerId" gorm:"not null;index:idx_reviews_booking_reviewer,unique"`
	Reviewer   User    `json:"reviewer"`
	RevieweeID uint    `json:"revieweeId" gorm:"not null;index"`
	Reviewee   User    `json:"reviewee"`
	Rating     int     `json:"rating" gorm:"not null"`
	Comment    string  `json:"comment"`
}
