package repository

import (
	"context"
	"errors"
	"fmt"

	"daydreams-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// pgPartnershipRepository реализует PartnershipRepository для PostgreSQL.
type pgPartnershipRepository struct {
	logger *zap.Logger
}

var _ PartnershipRepository = (*pgPartnershipRepository)(nil)

// NewPgPartnershipRepository создает репозиторий партнерств.
func NewPgPartnershipRepository(logger *zap.Logger) PartnershipRepository {
	return &pgPartnershipRepository{
		logger: logger.Named("PgPartnershipRepo"),
	}
}

func (r *pgPartnershipRepository) Create(ctx context.Context, q DBTX, partnership *models.Partnership) error {
	query := `INSERT INTO partnerships (id, inviter_id, invitee_id, created_at) VALUES ($1, $2, $3, NOW())`
	_, err := q.Exec(ctx, query, partnership.ID, partnership.InviterID, partnership.InviteeID)
	if err != nil {
		r.logger.Error("Failed to create partnership",
			zap.String("partnershipID", partnership.ID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create partnership: %w", err)
	}
	r.logger.Info("Partnership created",
		zap.String("partnershipID", partnership.ID.String()),
		zap.String("inviterID", partnership.InviterID.String()),
		zap.String("inviteeID", partnership.InviteeID.String()))
	return nil
}

func (r *pgPartnershipRepository) GetByID(ctx context.Context, q DBTX, id uuid.UUID) (*models.Partnership, error) {
	query := `SELECT id, inviter_id, invitee_id, created_at FROM partnerships WHERE id = $1`
	return r.scanOne(ctx, q, query, id)
}

func (r *pgPartnershipRepository) GetByUserID(ctx context.Context, q DBTX, userID uuid.UUID) (*models.Partnership, error) {
	query := `SELECT id, inviter_id, invitee_id, created_at FROM partnerships WHERE inviter_id = $1 OR invitee_id = $1 LIMIT 1`
	p, err := r.scanOne(ctx, q, query, userID)
	if errors.Is(err, models.ErrPartnershipNotFound) {
		return nil, models.ErrNoPartnership
	}
	return p, err
}

func (r *pgPartnershipRepository) CreateInvitation(ctx context.Context, q DBTX, invitation *models.Invitation) error {
	query := `
		INSERT INTO invitations (id, code, inviter_id, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())`
	_, err := q.Exec(ctx, query,
		invitation.ID, invitation.Code, invitation.InviterID, invitation.Status, invitation.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation по коду
			r.logger.Warn("Invitation code collision", zap.String("code", invitation.Code))
			return fmt.Errorf("invitation code collision: %w", err)
		}
		r.logger.Error("Failed to create invitation", zap.Error(err))
		return fmt.Errorf("failed to create invitation: %w", err)
	}
	return nil
}

func (r *pgPartnershipRepository) GetInvitationByCode(ctx context.Context, q DBTX, code string) (*models.Invitation, error) {
	query := `SELECT id, code, inviter_id, status, expires_at, created_at FROM invitations WHERE code = $1`
	var inv models.Invitation
	err := q.QueryRow(ctx, query, code).Scan(
		&inv.ID, &inv.Code, &inv.InviterID, &inv.Status, &inv.ExpiresAt, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrInvitationNotFound
		}
		r.logger.Error("Failed to get invitation by code", zap.Error(err))
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return &inv, nil
}

func (r *pgPartnershipRepository) UpdateInvitationStatus(ctx context.Context, q DBTX, id uuid.UUID, status models.InvitationStatus) error {
	query := `UPDATE invitations SET status = $2 WHERE id = $1`
	tag, err := q.Exec(ctx, query, id, status)
	if err != nil {
		r.logger.Error("Failed to update invitation status",
			zap.String("invitationID", id.String()),
			zap.Error(err))
		return fmt.Errorf("failed to update invitation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrInvitationNotFound
	}
	return nil
}

func (r *pgPartnershipRepository) scanOne(ctx context.Context, q DBTX, query string, args ...any) (*models.Partnership, error) {
	var p models.Partnership
	err := q.QueryRow(ctx, query, args...).Scan(&p.ID, &p.InviterID, &p.InviteeID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrPartnershipNotFound
		}
		r.logger.Error("Failed to scan partnership", zap.Error(err))
		return nil, fmt.Errorf("failed to query partnership: %w", err)
	}
	return &p, nil
}
