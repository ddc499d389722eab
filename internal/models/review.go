package models

import "time"

type Review struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	ProjectID       uint64    `gorm:"not null;uniqueIndex:idx_reviews_project_reviewer,priority:1" json:"project_id"`
	ReviewerID      uint64    `gorm:"not null;uniqueIndex:idx_reviews_project_reviewer,priority:2" json:"reviewer_id"`
	RevieweeID      uint64    `gorm:"not null;index" json:"reviewee_id"`
	ReviewerType    Role      `gorm:"type:varchar(20);not null" json:"reviewer_type"`
	RevieweeType    Role      `gorm:"type:varchar(20);not null" json:"reviewee_type"`
	Rating          int       `gorm:"not null" json:"rating"`
	Communication   int       `gorm:"not null" json:"communication"`
	Quality         int       `gorm:"not null" json:"quality"`
	Timeliness      int       `gorm:"not null" json:"timeliness"`
	Professionalism int       `gorm:"not null" json:"professionalism"`
	Comment         string    `gorm:"type:text" json:"comment"`
	IsPublic        bool      `gorm:"not null" json:"is_public"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	Reviewer Person `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}
