package dto

import (
	"github.com/fleetimee/solid-spoon/internal/domain/models"
)

// UserRegisterInput holds the data to create a back-office account.
type UserRegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
	IsAdmin  bool   `json:"is_admin"`
}

func (input UserRegisterInput) ToDomain(passwordHash []byte) models.User {
	return models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: passwordHash,
		IsAdmin:  input.IsAdmin,
	}
}
