package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Workout is a single training session recorded by its owner.
// Duration is expressed in minutes.
type Workout struct {
	ID          uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID      `json:"userId" gorm:"type:char(36);not null;index"`
	Name        string         `json:"name" gorm:"size:255;not null"`
	Description *string        `json:"description" gorm:"type:text"`
	Duration    float64        `json:"duration" gorm:"not null"`
	Date        time.Time      `json:"date" gorm:"not null;index"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (w *Workout) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
