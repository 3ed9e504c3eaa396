package models

import (
	"github.com/gofrs/uuid"
	"github.com/jinzhu/gorm"
)

// UnknownSector is the bucket for stocks without a sector reference.
const UnknownSector = "Unknown"

type Sector struct {
	ID          string  `json:"id" gorm:"primary_key" sql:"type:uuid;"`
	Name        string  `json:"name" gorm:"type:varchar(100);unique_index;not null"`
	Description string  `json:"description" sql:"type:text"`
	Stocks      []Stock `json:"-" gorm:"ForeignKey:SectorID"`
}

func (s *Sector) BeforeCreate(scope *gorm.Scope) error {
	if s.ID == "" {
		s.ID = uuid.Must(uuid.NewV4()).String()
	}
	return scope.SetColumn("id", s.ID)
}
