package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"daydreams-server/internal/configservice"
	"daydreams-server/internal/handler"
	"daydreams-server/internal/models"
	repomocks "daydreams-server/internal/repository/mocks"
	svcmocks "daydreams-server/internal/service/mocks"
	"daydreams-server/internal/ws"
)

const jwtTestSecret = "test-secret-for-handlers"

type apiFixture struct {
	e            *echo.Echo
	prompts      *svcmocks.DailyPromptService
	stories      *svcmocks.StoryService
	partnerships *svcmocks.PartnershipService
	settings     *svcmocks.SettingsService
	devices      *svcmocks.DeviceTokenService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	f := &apiFixture{
		e:            echo.New(),
		prompts:      new(svcmocks.DailyPromptService),
		stories:      new(svcmocks.StoryService),
		partnerships: new(svcmocks.PartnershipService),
		settings:     new(svcmocks.SettingsService),
		devices:      new(svcmocks.DeviceTokenService),
	}

	cfgRepo := new(repomocks.DynamicConfigRepository)
	cfgRepo.On("GetAll", mock.Anything, nil).Return(map[string]string{}, nil)
	cfg, err := configservice.NewConfigService(cfgRepo, nil, zap.NewNop())
	require.NoError(t, err)

	h := handler.NewAPIHandler(
		f.prompts,
		f.stories,
		f.partnerships,
		f.settings,
		f.devices,
		cfg,
		ws.NewManager(zap.NewNop()),
		jwtTestSecret,
		zap.NewNop(),
	)
	h.RegisterRoutes(f.e)
	return f
}

// signToken выписывает валидный токен для тестового пользователя.
func signToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := &models.Claims{
		UserID: userID,
		Email:  "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtTestSecret))
	require.NoError(t, err)
	return token
}

func (f *apiFixture) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestGetTodayPrompt(t *testing.T) {
	t.Run("returns prompt for authenticated user", func(t *testing.T) {
		f := newAPIFixture(t)
		userID := uuid.New()

		prompt := &models.DailyPrompt{
			ID:         uuid.New(),
			AssignedTo: models.AuthorRoleInviter,
			Selections: models.PromptSelections{"park": "EPCOT"},
		}
		f.prompts.On("GetOrCreateToday", mock.Anything, userID).Return(prompt, nil)

		rec := f.do(t, http.MethodGet, "/prompts/today", signToken(t, userID), "")
		require.Equal(t, http.StatusOK, rec.Code)

		var got models.DailyPrompt
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, prompt.ID, got.ID)
		assert.Equal(t, "EPCOT", got.Selections["park"])
	})

	t.Run("missing token rejected", func(t *testing.T) {
		f := newAPIFixture(t)

		rec := f.do(t, http.MethodGet, "/prompts/today", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("no partnership maps to 404", func(t *testing.T) {
		f := newAPIFixture(t)
		userID := uuid.New()

		f.prompts.On("GetOrCreateToday", mock.Anything, userID).Return(nil, models.ErrNoPartnership)

		rec := f.do(t, http.MethodGet, "/prompts/today", signToken(t, userID), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSaveStoryHandler(t *testing.T) {
	t.Run("saves story", func(t *testing.T) {
		f := newAPIFixture(t)
		userID := uuid.New()
		promptID := uuid.New()

		prompt := &models.DailyPrompt{ID: promptID, StoryText: "once upon a ride"}
		f.stories.On("SaveStory", mock.Anything, userID, promptID, "once upon a ride").Return(prompt, nil)

		rec := f.do(t, http.MethodPut, "/prompts/"+promptID.String()+"/story",
			signToken(t, userID), `{"storyText":"once upon a ride"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid prompt id", func(t *testing.T) {
		f := newAPIFixture(t)

		rec := f.do(t, http.MethodPut, "/prompts/not-a-uuid/story",
			signToken(t, uuid.New()), `{"storyText":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not your turn maps to 403", func(t *testing.T) {
		f := newAPIFixture(t)
		userID := uuid.New()
		promptID := uuid.New()

		f.stories.On("SaveStory", mock.Anything, userID, promptID, "mine").Return(nil, models.ErrForbidden)

		rec := f.do(t, http.MethodPut, "/prompts/"+promptID.String()+"/story",
			signToken(t, userID), `{"storyText":"mine"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestAcceptInvitationHandler(t *testing.T) {
	t.Run("accepts with valid code", func(t *testing.T) {
		f := newAPIFixture(t)
		userID := uuid.New()

		partnership := &models.Partnership{ID: uuid.New(), InviteeID: userID}
		f.partnerships.On("AcceptInvitation", mock.Anything, userID, "ABCD2345").Return(partnership, nil)

		rec := f.do(t, http.MethodPost, "/partnerships/invitations/accept",
			signToken(t, userID), `{"code":"ABCD2345"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("malformed code rejected before service", func(t *testing.T) {
		f := newAPIFixture(t)

		rec := f.do(t, http.MethodPost, "/partnerships/invitations/accept",
			signToken(t, uuid.New()), `{"code":"short"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.partnerships.AssertNotCalled(t, "AcceptInvitation", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("expired invitation maps to 410", func(t *testing.T) {
		f := newAPIFixture(t)
		userID := uuid.New()

		f.partnerships.On("AcceptInvitation", mock.Anything, userID, "ABCD2345").
			Return(nil, models.ErrInvitationExpired)

		rec := f.do(t, http.MethodPost, "/partnerships/invitations/accept",
			signToken(t, userID), `{"code":"ABCD2345"}`)
		assert.Equal(t, http.StatusGone, rec.Code)
	})
}

func TestListHistoryHandler(t *testing.T) {
	f := newAPIFixture(t)
	userID := uuid.New()

	mirrors := []*models.PromptMirror{{PromptID: uuid.New(), UserID: userID}}
	f.stories.On("ListHistory", mock.Anything, userID, "", 10).Return(mirrors, "cursor-2", nil)

	rec := f.do(t, http.MethodGet, "/prompts/history?limit=10", signToken(t, userID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Items      []*models.PromptMirror `json:"items"`
		NextCursor string                 `json:"nextCursor"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Items, 1)
	assert.Equal(t, "cursor-2", page.NextCursor)
}

func TestRegisterDeviceHandler(t *testing.T) {
	t.Run("registers ios token", func(t *testing.T) {
		f := newAPIFixture(t)
		userID := uuid.New()

		f.devices.On("Register", mock.Anything, userID, "device-token-1", "ios").Return(nil)

		rec := f.do(t, http.MethodPost, "/devices",
			signToken(t, userID), `{"token":"device-token-1","platform":"ios"}`)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("unknown platform rejected", func(t *testing.T) {
		f := newAPIFixture(t)

		rec := f.do(t, http.MethodPost, "/devices",
			signToken(t, uuid.New()), `{"token":"x","platform":"windows"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealthz(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
