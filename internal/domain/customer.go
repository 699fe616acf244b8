package domain

import "time"

type Customer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DayPhone     string    `json:"day_phone,omitempty"`
	EvePhone     string    `json:"eve_phone,omitempty"`
	MobPhone     string    `json:"mob_phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
