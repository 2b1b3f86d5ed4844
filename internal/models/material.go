package models

import (
	"time"
)

// Material represents an item of equipment that can be lent
type Material struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

// UnknownMaterialName is displayed when a loan references a missing material
const UnknownMaterialName = "Matériel inconnu"

// Categories is the catalogue offered when registering material.
// Creation accepts any non-empty category; this list is a suggestion.
var Categories = []string{
	"Ordinateur portable",
	"Ordinateur fixe",
	"Écran/Moniteur",
	"Clavier",
	"Souris",
	"Casque audio",
	"Webcam",
	"Tablette",
	"Smartphone",
	"Imprimante",
	"Scanner",
	"Projecteur",
	"Câble/Adaptateur",
	"Disque dur externe",
	"Autre matériel informatique",
}

// CreateMaterialRequest is the payload for registering material
type CreateMaterialRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}
