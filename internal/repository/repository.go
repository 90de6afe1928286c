package repository

import (
	"ticketdesk/internal/database"
)

type Repositories struct {
	Registrations *RegistrationRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Registrations: NewRegistrationRepository(db),
	}
}
