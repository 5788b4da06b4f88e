package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser     UserRole = "user"
	RoleGymOwner UserRole = "gym_owner"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	gorm.Model
	Username     string `json:"username" gorm:"column:username;unique;not null"`
	Email        string `json:"email" gorm:"column:email;unique;not null"`
	Password     string `json:"-" gorm:"-"` // Transient, hashed into PasswordHash before persisting
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
	PhoneNumber  string `json:"phoneNumber" gorm:"column:phone_number"`
	Role         string `json:"role" gorm:"column:role;not null;default:'user'"`
	IsActive     bool   `json:"isActive" gorm:"column:is_active;not null;default:true"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
