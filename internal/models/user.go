package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

type User struct {
	gorm.Model
	Email             string `json:"email" gorm:"column:email;unique;not null"`
	PasswordHash      string `json:"-" gorm:"column:password_hash;not null"`
	FirstName         string `json:"firstName" gorm:"column:first_name;not null"`
	LastName          string `json:"lastName" gorm:"column:last_name;not null"`
	PhoneNumber       string `json:"phoneNumber" gorm:"column:phone_number"`
	Gender            Gender `json:"gender" gorm:"column:gender"`
	BirthDate         string `json:"birthDate" gorm:"column:birth_date"`
	ProfilePictureURL string `json:"profilePictureUrl" gorm:"column:profile_picture_url"`
	FacebookURL       string `json:"facebookUrl" gorm:"column:facebook_url"`
	InstagramURL      string `json:"instagramUrl" gorm:"column:instagram_url"`
	IsVerified        bool   `json:"isVerified" gorm:"column:is_verified;default:false"`
	ProfileComplete   bool   `json:"profileComplete" gorm:"column:profile_complete;default:false"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
