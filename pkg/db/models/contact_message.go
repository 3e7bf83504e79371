package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/daghlis/gallery-backend/pkg/enums"
)

type ContactMessage struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Name      string         `gorm:"column:name;not null"`
	Email     string         `gorm:"column:email;not null"`
	Subject   string         `gorm:"column:subject;not null"`
	Message   string         `gorm:"column:message;not null"`
	Language  enums.Language `gorm:"column:language;not null;default:'en'"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (ContactMessage) TableName() string { return "contact_messages" }
