package models

import (
	"time"
)

type Item struct {
	ID            string
	Name          string
	Description   string
	StartingPrice float64
	BuyPrice      *float64 // nil when the listing has no buy-now price
	Active        bool
	DateEnds      time.Time
	OwnerID       string
	OwnerUsername string
	Categories    []Category
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasCategory reports whether the item is associated with a category of the given name.
func (i *Item) HasCategory(name string) bool {
	for _, c := range i.Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

type Category struct {
	ID   string
	Name string
}
