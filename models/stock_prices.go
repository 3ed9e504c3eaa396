package models

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// StockPrice is a historical price/fundamentals snapshot. Rows are
// recorded by the snapshot worker and on explicit refresh; the
// aggregation path never reads them.
type StockPrice struct {
	ID             string          `json:"id" gorm:"primary_key" sql:"type:uuid;"`
	StockID        string          `json:"stock_id" gorm:"not null;index" sql:"type:uuid;"`
	Price          decimal.Decimal `json:"price" gorm:"not null" sql:"type:decimal(10,2);"`
	PERatio        *float64        `json:"pe_ratio" sql:"type:decimal(10,2);"`
	LatestEarnings *float64        `json:"latest_earnings" sql:"type:decimal(15,2);"`
	Timestamp      time.Time       `json:"timestamp" gorm:"not null"`
	Stock          *Stock          `json:"-" gorm:"ForeignKey:StockID"`
}

func (p *StockPrice) BeforeCreate(scope *gorm.Scope) error {
	if p.ID == "" {
		p.ID = uuid.Must(uuid.NewV4()).String()
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC()
	}
	return scope.SetColumn("id", p.ID)
}
