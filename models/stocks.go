package models

import (
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jinzhu/gorm"
)

type Stock struct {
	ID        string    `json:"id" gorm:"primary_key" sql:"type:uuid;"`
	CreatedAt time.Time `json:"-"`
	Symbol    string    `json:"symbol" gorm:"type:varchar(20);unique_index;not null"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Exchange  string    `json:"exchange" gorm:"type:varchar(10);not null"`
	SectorID  *string   `json:"sector_id" sql:"type:uuid;"`
	Sector    *Sector   `json:"-" gorm:"ForeignKey:SectorID"`
}

func (s *Stock) BeforeCreate(scope *gorm.Scope) error {
	if s.ID == "" {
		s.ID = uuid.Must(uuid.NewV4()).String()
	}
	return scope.SetColumn("id", s.ID)
}

func (s *Stock) IDAsUUID() uuid.UUID {
	id, _ := uuid.FromString(s.ID)
	return id
}

// SectorName returns the stock's sector name, or the unknown bucket
// when the stock carries no sector reference.
func (s *Stock) SectorName() string {
	if s.Sector == nil || s.Sector.Name == "" {
		return UnknownSector
	}
	return s.Sector.Name
}

// marketSuffixes are exchange suffixes stripped before fundamentals
// lookups (the provider indexes bare symbols).
var marketSuffixes = []string{".NS", ".BO"}

// CleanSymbol strips a trailing market suffix from an exchange-qualified
// symbol, e.g. "RELIANCE.NS" -> "RELIANCE".
func CleanSymbol(symbol string) string {
	for _, suffix := range marketSuffixes {
		if strings.HasSuffix(symbol, suffix) {
			return strings.TrimSuffix(symbol, suffix)
		}
	}
	return symbol
}
