package model

import "time"

// Supplier is a raw-material supplier listed in the local supplier directory.
type Supplier struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name" validate:"required,max=255"`
	Material  string    `json:"material" yaml:"material" validate:"required,max=255"`
	Process   string    `json:"process,omitempty" yaml:"process,omitempty" validate:"max=255"`
	Address   string    `json:"address,omitempty" yaml:"address,omitempty"`
	City      string    `json:"city,omitempty" yaml:"city,omitempty" validate:"max=255"`
	Region    string    `json:"region" yaml:"region" validate:"required,max=255"`
	Latitude  float64   `json:"latitude" yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64   `json:"longitude" yaml:"longitude" validate:"gte=-180,lte=180"`
	Contact   string    `json:"contact,omitempty" yaml:"contact,omitempty" validate:"max=255"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// String returns "name - material".
func (s Supplier) String() string {
	return s.Name + " - " + s.Material
}
