package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Finding struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Note struct {
	Id        uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	PatientId uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Kind      string                      `gorm:"type:varchar(20);not null;default:'narrative'"`
	Title     string                      `gorm:"type:varchar(255);not null"`
	Content   string                      `gorm:"type:text"`
	Findings  datatypes.JSONSlice[Finding]
	CreatedAt time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt time.Time                   `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt              `gorm:"index"`
}

func (Note) TableName() string {
	return "notes"
}
