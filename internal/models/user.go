package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
	RoleAdmin      Role = "admin"
)

// Counterpart returns the role on the other side of a contract.
func (r Role) Counterpart() Role {
	switch r {
	case RoleClient:
		return RoleFreelancer
	case RoleFreelancer:
		return RoleClient
	default:
		return ""
	}
}

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleFreelancer || r == RoleAdmin
}

type PersonStatus string

const (
	PersonActive   PersonStatus = "active"
	PersonInactive PersonStatus = "inactive"
)

type Person struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name         string         `gorm:"type:varchar(255)" json:"name"`
	PasswordHash *string        `gorm:"type:varchar(255)" json:"-"`
	GoogleID     *string        `gorm:"type:varchar(255);uniqueIndex" json:"-"`
	Role         Role           `gorm:"type:varchar(20);not null" json:"role"`
	Status       PersonStatus   `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	LastLoginAt  *time.Time     `json:"last_login_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p Person) IsActive() bool {
	return p.Status == PersonActive
}
