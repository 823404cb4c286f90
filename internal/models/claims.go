package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims представляет стандартные поля JWT и пользовательские данные,
// которые внешний identity provider кладет в токен. Мы читаем только
// идентификатор пользователя и email.
type Claims struct {
	UserID               uuid.UUID `json:"user_id"`
	Email                string    `json:"email,omitempty"`
	jwt.RegisteredClaims           // Issuer, Subject, ExpiresAt, IssuedAt и т.д.
}
