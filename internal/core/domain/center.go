package domain

import "time"

// Center is a physical gym location.
type Center struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	Name       string `gorm:"size:120;uniqueIndex;not null"`
	Address    string `gorm:"size:255"`
	City       string `gorm:"size:120"`
	PostalCode string `gorm:"size:20"`
	Phone      string `gorm:"size:40"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CenterView is the JSON projection of a Center.
type CenterView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	PostalCode string    `json:"postalCode"`
	Phone      string    `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (c *Center) View() CenterView {
	return CenterView{
		ID:         c.ID,
		Name:       c.Name,
		Address:    c.Address,
		City:       c.City,
		PostalCode: c.PostalCode,
		Phone:      c.Phone,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
