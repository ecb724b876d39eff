package models

import (
	"time"

	"gorm.io/gorm"
)

type ListingType string
type PropertyKind string

const (
	ListingBuy  ListingType = "buy"
	ListingRent ListingType = "rent"
)

const (
	PropertyApartment PropertyKind = "apartment"
	PropertyHouse     PropertyKind = "house"
	PropertyCondo     PropertyKind = "condo"
	PropertyLand      PropertyKind = "land"
)

// Post is a property listing. Listings are managed elsewhere; this service
// only reads them for the dashboard and links payments to them.
type Post struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	Price     float64        `gorm:"not null" json:"price"`
	Address   string         `json:"address,omitempty"`
	City      string         `json:"city,omitempty"`
	Type      ListingType    `gorm:"type:varchar(10);not null;index" json:"type"`
	Property  PropertyKind   `gorm:"type:varchar(20);not null;index" json:"property"`
	UserID    uint           `gorm:"not null;index" json:"userId"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Post) TableName() string {
	return "posts"
}
