package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	msgmocks "daydreams-server/internal/messaging/mocks"
	"daydreams-server/internal/models"
	repomocks "daydreams-server/internal/repository/mocks"
)

type storyFixture struct {
	svc         StoryService
	promptRepo  *repomocks.PromptRepository
	mirrorRepo  *repomocks.MirrorRepository
	partnerRepo *repomocks.PartnershipRepository
	publisher   *msgmocks.PushNotificationPublisher
	streamer    *stubStreamer

	partnership *models.Partnership
	prompt      *models.DailyPrompt
	inviterID   uuid.UUID
	inviteeID   uuid.UUID
}

func newStoryFixture(t *testing.T) *storyFixture {
	t.Helper()

	f := &storyFixture{
		promptRepo:  new(repomocks.PromptRepository),
		mirrorRepo:  new(repomocks.MirrorRepository),
		partnerRepo: new(repomocks.PartnershipRepository),
		publisher:   new(msgmocks.PushNotificationPublisher),
		streamer:    &stubStreamer{},
		inviterID:   uuid.New(),
		inviteeID:   uuid.New(),
	}
	f.partnership = &models.Partnership{
		ID:        uuid.New(),
		InviterID: f.inviterID,
		InviteeID: f.inviteeID,
	}
	f.prompt = &models.DailyPrompt{
		ID:            uuid.New(),
		PartnershipID: f.partnership.ID,
		AssignedTo:    models.AuthorRoleInviter,
	}

	f.svc = NewStoryService(
		nil,
		&repomocks.Transactor{},
		f.promptRepo,
		f.mirrorRepo,
		f.partnerRepo,
		f.publisher,
		f.streamer,
		zap.NewNop(),
	)
	return f
}

func (f *storyFixture) expectLoad(ctx context.Context) {
	f.promptRepo.On("GetByID", ctx, nil, f.prompt.ID).Return(f.prompt, nil)
	f.partnerRepo.On("GetByID", ctx, nil, f.partnership.ID).Return(f.partnership, nil)
}

func TestSaveStory(t *testing.T) {
	t.Run("saves text and refreshes mirrors for both partners", func(t *testing.T) {
		f := newStoryFixture(t)
		ctx := context.Background()
		f.expectLoad(ctx)

		f.promptRepo.On("UpdateStoryText", ctx, nil, f.prompt.ID, "a day at the castle").Return(nil)
		f.mirrorRepo.On("UpsertHistory", ctx, nil, mock.AnythingOfType("*models.PromptMirror")).Return(nil)
		f.mirrorRepo.On("RemoveFavorite", ctx, nil, mock.AnythingOfType("uuid.UUID"), f.prompt.ID).Return(nil)
		f.publisher.On("PublishPushNotification", ctx, mock.AnythingOfType("models.PushNotificationPayload")).Return(nil)

		saved, err := f.svc.SaveStory(ctx, f.inviterID, f.prompt.ID, "a day at the castle")
		require.NoError(t, err)
		assert.Equal(t, "a day at the castle", saved.StoryText)

		f.mirrorRepo.AssertNumberOfCalls(t, "UpsertHistory", 2)

		// Push уходит партнеру, не автору.
		f.publisher.AssertCalled(t, "PublishPushNotification", ctx, mock.MatchedBy(func(p models.PushNotificationPayload) bool {
			return p.UserID == f.inviteeID && p.Data["event"] == models.EventStorySaved
		}))
	})

	t.Run("empty text is a no-op", func(t *testing.T) {
		f := newStoryFixture(t)
		ctx := context.Background()
		f.prompt.StoryText = "already written"
		f.expectLoad(ctx)

		saved, err := f.svc.SaveStory(ctx, f.inviterID, f.prompt.ID, "")
		require.NoError(t, err)
		assert.Equal(t, "already written", saved.StoryText)

		f.promptRepo.AssertNotCalled(t, "UpdateStoryText", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.publisher.AssertNotCalled(t, "PublishPushNotification", mock.Anything, mock.Anything)
	})

	t.Run("only the assigned author may write", func(t *testing.T) {
		f := newStoryFixture(t)
		ctx := context.Background()
		f.expectLoad(ctx)

		_, err := f.svc.SaveStory(ctx, f.inviteeID, f.prompt.ID, "not my turn")
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		f := newStoryFixture(t)
		ctx := context.Background()
		f.expectLoad(ctx)

		_, err := f.svc.SaveStory(ctx, uuid.New(), f.prompt.ID, "stranger")
		assert.ErrorIs(t, err, models.ErrNotPartnershipMember)
	})

	t.Run("unknown prompt", func(t *testing.T) {
		f := newStoryFixture(t)
		ctx := context.Background()
		missing := uuid.New()
		f.promptRepo.On("GetByID", ctx, nil, missing).Return(nil, models.ErrPromptNotFound)

		_, err := f.svc.SaveStory(ctx, f.inviterID, missing, "text")
		assert.ErrorIs(t, err, models.ErrPromptNotFound)
	})
}

func TestSetFavorite(t *testing.T) {
	t.Run("favorite mirrors to both partners", func(t *testing.T) {
		f := newStoryFixture(t)
		ctx := context.Background()
		f.expectLoad(ctx)

		f.promptRepo.On("SetFavorite", ctx, nil, f.prompt.ID, true).Return(nil)
		f.mirrorRepo.On("UpsertHistory", ctx, nil, mock.AnythingOfType("*models.PromptMirror")).Return(nil)
		f.mirrorRepo.On("UpsertFavorite", ctx, nil, mock.AnythingOfType("*models.PromptMirror")).Return(nil)

		updated, err := f.svc.SetFavorite(ctx, f.inviterID, f.prompt.ID, true)
		require.NoError(t, err)
		assert.True(t, updated.IsFavorite)

		f.mirrorRepo.AssertNumberOfCalls(t, "UpsertFavorite", 2)
		assert.Equal(t, []string{models.EventFavoriteToggled}, f.streamer.eventsFor(f.inviteeID))
	})

	t.Run("unfavorite and favorite again round-trips", func(t *testing.T) {
		f := newStoryFixture(t)
		ctx := context.Background()
		f.prompt.IsFavorite = true
		f.expectLoad(ctx)

		f.promptRepo.On("SetFavorite", ctx, nil, f.prompt.ID, mock.AnythingOfType("bool")).Return(nil)
		f.mirrorRepo.On("UpsertHistory", ctx, nil, mock.AnythingOfType("*models.PromptMirror")).Return(nil)
		f.mirrorRepo.On("UpsertFavorite", ctx, nil, mock.AnythingOfType("*models.PromptMirror")).Return(nil)
		f.mirrorRepo.On("RemoveFavorite", ctx, nil, mock.AnythingOfType("uuid.UUID"), f.prompt.ID).Return(nil)

		updated, err := f.svc.SetFavorite(ctx, f.inviteeID, f.prompt.ID, false)
		require.NoError(t, err)
		assert.False(t, updated.IsFavorite)
		f.mirrorRepo.AssertNumberOfCalls(t, "RemoveFavorite", 2)

		updated, err = f.svc.SetFavorite(ctx, f.inviteeID, f.prompt.ID, true)
		require.NoError(t, err)
		assert.True(t, updated.IsFavorite)
		f.mirrorRepo.AssertNumberOfCalls(t, "UpsertFavorite", 2)
	})
}

func TestClearHistory(t *testing.T) {
	f := newStoryFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	f.mirrorRepo.On("ClearHistory", ctx, nil, userID).Return(int64(14), nil)

	deleted, err := f.svc.ClearHistory(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(14), deleted)
}

func TestListHistory(t *testing.T) {
	f := newStoryFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	mirrors := []*models.PromptMirror{{PromptID: uuid.New(), UserID: userID}}
	f.mirrorRepo.On("ListHistory", ctx, nil, userID, "", 20).Return(mirrors, "next-cursor", nil)

	got, next, err := f.svc.ListHistory(ctx, userID, "", 20)
	require.NoError(t, err)
	assert.Equal(t, mirrors, got)
	assert.Equal(t, "next-cursor", next)
}
