package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	msgmocks "daydreams-server/internal/messaging/mocks"
	"daydreams-server/internal/models"
	repomocks "daydreams-server/internal/repository/mocks"
)

type partnershipFixture struct {
	svc          PartnershipService
	partnerRepo  *repomocks.PartnershipRepository
	settingsRepo *repomocks.SettingsRepository
	publisher    *msgmocks.PushNotificationPublisher
	streamer     *stubStreamer
}

func newPartnershipFixture(t *testing.T) *partnershipFixture {
	t.Helper()

	f := &partnershipFixture{
		partnerRepo:  new(repomocks.PartnershipRepository),
		settingsRepo: new(repomocks.SettingsRepository),
		publisher:    new(msgmocks.PushNotificationPublisher),
		streamer:     &stubStreamer{},
	}
	f.svc = NewPartnershipService(
		nil,
		&repomocks.Transactor{},
		f.partnerRepo,
		f.settingsRepo,
		f.publisher,
		f.streamer,
		zap.NewNop(),
	)
	return f
}

func pendingInvitation(inviterID uuid.UUID) *models.Invitation {
	return &models.Invitation{
		ID:        uuid.New(),
		Code:      "ABC23456",
		InviterID: inviterID,
		Status:    models.InvitationStatusPending,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestCreateInvitation(t *testing.T) {
	t.Run("creates pending invitation with code", func(t *testing.T) {
		f := newPartnershipFixture(t)
		ctx := context.Background()
		inviterID := uuid.New()

		f.partnerRepo.On("GetByUserID", ctx, nil, inviterID).Return(nil, models.ErrNoPartnership)
		f.partnerRepo.On("CreateInvitation", ctx, nil, mock.AnythingOfType("*models.Invitation")).Return(nil)

		invitation, err := f.svc.CreateInvitation(ctx, inviterID)
		require.NoError(t, err)
		assert.Equal(t, inviterID, invitation.InviterID)
		assert.Equal(t, models.InvitationStatusPending, invitation.Status)
		assert.Len(t, invitation.Code, invitationCodeLength)
		assert.True(t, invitation.ExpiresAt.After(time.Now()))
	})

	t.Run("already partnered", func(t *testing.T) {
		f := newPartnershipFixture(t)
		ctx := context.Background()
		inviterID := uuid.New()

		f.partnerRepo.On("GetByUserID", ctx, nil, inviterID).
			Return(&models.Partnership{ID: uuid.New()}, nil)

		_, err := f.svc.CreateInvitation(ctx, inviterID)
		assert.ErrorIs(t, err, models.ErrAlreadyPartnered)
	})
}

func TestAcceptInvitation(t *testing.T) {
	t.Run("creates partnership with default settings", func(t *testing.T) {
		f := newPartnershipFixture(t)
		ctx := context.Background()
		inviterID := uuid.New()
		inviteeID := uuid.New()
		invitation := pendingInvitation(inviterID)

		f.partnerRepo.On("GetInvitationByCode", ctx, nil, invitation.Code).Return(invitation, nil)
		f.partnerRepo.On("GetByUserID", ctx, nil, mock.AnythingOfType("uuid.UUID")).
			Return(nil, models.ErrNoPartnership)
		f.partnerRepo.On("Create", ctx, nil, mock.AnythingOfType("*models.Partnership")).Return(nil)
		f.partnerRepo.On("UpdateInvitationStatus", ctx, nil, invitation.ID, models.InvitationStatusAccepted).Return(nil)
		f.settingsRepo.On("Upsert", ctx, nil, mock.AnythingOfType("*models.CategorySettings")).Return(nil)
		f.publisher.On("PublishPushNotification", ctx, mock.AnythingOfType("models.PushNotificationPayload")).Return(nil)

		partnership, err := f.svc.AcceptInvitation(ctx, inviteeID, invitation.Code)
		require.NoError(t, err)
		assert.Equal(t, inviterID, partnership.InviterID)
		assert.Equal(t, inviteeID, partnership.InviteeID)

		// Настройки по умолчанию создаются в той же транзакции.
		f.settingsRepo.AssertCalled(t, "Upsert", ctx, nil, mock.MatchedBy(func(s *models.CategorySettings) bool {
			return s.PartnershipID == partnership.ID && len(s.EnabledCategories) > 0
		}))

		// Пригласивший узнает о принятии.
		f.publisher.AssertCalled(t, "PublishPushNotification", ctx, mock.MatchedBy(func(p models.PushNotificationPayload) bool {
			return p.UserID == inviterID && p.Data["event"] == models.EventInvitationAccepted
		}))
		assert.Equal(t, []string{models.EventInvitationAccepted}, f.streamer.eventsFor(inviterID))
	})

	t.Run("own invitation rejected", func(t *testing.T) {
		f := newPartnershipFixture(t)
		ctx := context.Background()
		inviterID := uuid.New()
		invitation := pendingInvitation(inviterID)

		f.partnerRepo.On("GetInvitationByCode", ctx, nil, invitation.Code).Return(invitation, nil)

		_, err := f.svc.AcceptInvitation(ctx, inviterID, invitation.Code)
		assert.ErrorIs(t, err, models.ErrSelfInvitation)
	})

	t.Run("expired invitation", func(t *testing.T) {
		f := newPartnershipFixture(t)
		ctx := context.Background()
		invitation := pendingInvitation(uuid.New())
		invitation.ExpiresAt = time.Now().Add(-time.Minute)

		f.partnerRepo.On("GetInvitationByCode", ctx, nil, invitation.Code).Return(invitation, nil)

		_, err := f.svc.AcceptInvitation(ctx, uuid.New(), invitation.Code)
		assert.ErrorIs(t, err, models.ErrInvitationExpired)
	})

	t.Run("already accepted invitation behaves as missing", func(t *testing.T) {
		f := newPartnershipFixture(t)
		ctx := context.Background()
		invitation := pendingInvitation(uuid.New())
		invitation.Status = models.InvitationStatusAccepted

		f.partnerRepo.On("GetInvitationByCode", ctx, nil, invitation.Code).Return(invitation, nil)

		_, err := f.svc.AcceptInvitation(ctx, uuid.New(), invitation.Code)
		assert.ErrorIs(t, err, models.ErrInvitationNotFound)
	})

	t.Run("invitee already partnered", func(t *testing.T) {
		f := newPartnershipFixture(t)
		ctx := context.Background()
		inviterID := uuid.New()
		inviteeID := uuid.New()
		invitation := pendingInvitation(inviterID)

		f.partnerRepo.On("GetInvitationByCode", ctx, nil, invitation.Code).Return(invitation, nil)
		f.partnerRepo.On("GetByUserID", ctx, nil, inviterID).Return(nil, models.ErrNoPartnership)
		f.partnerRepo.On("GetByUserID", ctx, nil, inviteeID).
			Return(&models.Partnership{ID: uuid.New()}, nil)

		_, err := f.svc.AcceptInvitation(ctx, inviteeID, invitation.Code)
		assert.ErrorIs(t, err, models.ErrAlreadyPartnered)
	})
}

func TestRejectInvitation(t *testing.T) {
	f := newPartnershipFixture(t)
	ctx := context.Background()
	invitation := pendingInvitation(uuid.New())

	f.partnerRepo.On("GetInvitationByCode", ctx, nil, invitation.Code).Return(invitation, nil)
	f.partnerRepo.On("UpdateInvitationStatus", ctx, nil, invitation.ID, models.InvitationStatusRejected).Return(nil)

	err := f.svc.RejectInvitation(ctx, uuid.New(), invitation.Code)
	require.NoError(t, err)
}
