package models

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/jinzhu/gorm"
)

type User struct {
	ID        string    `json:"id" gorm:"primary_key" sql:"type:uuid;"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255);unique_index;not null"`
	Holdings  []Holding `json:"-" gorm:"ForeignKey:UserID"`
}

func (u *User) BeforeCreate(scope *gorm.Scope) error {
	if u.ID == "" {
		u.ID = uuid.Must(uuid.NewV4()).String()
	}
	return scope.SetColumn("id", u.ID)
}

func (u *User) IDAsUUID() uuid.UUID {
	id, _ := uuid.FromString(u.ID)
	return id
}
