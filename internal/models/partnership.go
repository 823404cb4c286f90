package models

import (
	"time"

	"github.com/google/uuid"
)

// Partnership связывает ровно двух пользователей, которые делят
// последовательность дневных промптов.
type Partnership struct {
	ID        uuid.UUID `db:"id" json:"id"`
	InviterID uuid.UUID `db:"inviter_id" json:"inviterId"`
	InviteeID uuid.UUID `db:"invitee_id" json:"inviteeId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// RoleOf возвращает роль пользователя внутри партнерства.
func (p *Partnership) RoleOf(userID uuid.UUID) (AuthorRole, bool) {
	switch userID {
	case p.InviterID:
		return AuthorRoleInviter, true
	case p.InviteeID:
		return AuthorRoleInvitee, true
	}
	return "", false
}

// PartnerOf возвращает идентификатор второго участника партнерства.
func (p *Partnership) PartnerOf(userID uuid.UUID) (uuid.UUID, bool) {
	switch userID {
	case p.InviterID:
		return p.InviteeID, true
	case p.InviteeID:
		return p.InviterID, true
	}
	return uuid.Nil, false
}

// InvitationStatus - состояние приглашения.
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusRejected InvitationStatus = "rejected"
)

// Invitation - приглашение в партнерство. Принятие создает Partnership.
type Invitation struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	Code      string           `db:"code" json:"code"` // Короткий код, которым делятся вне приложения
	InviterID uuid.UUID        `db:"inviter_id" json:"inviterId"`
	Status    InvitationStatus `db:"status" json:"status"`
	ExpiresAt time.Time        `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
}
