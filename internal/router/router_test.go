package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anonto42/bonfire-demo/backend/internal/models"
	"github.com/anonto42/bonfire-demo/backend/internal/repositories"
	"github.com/anonto42/bonfire-demo/backend/internal/services"
	"github.com/anonto42/bonfire-demo/backend/internal/validators"
	"github.com/anonto42/bonfire-demo/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	e       *echo.Echo
	store   *repositories.MemStorage
	bonfire services.BonfireService
	auth    *services.AuthService
	logs    *logtest.Hook
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	nullLogger, hook := logtest.NewNullLogger()
	log := logger.Component(nullLogger, "test")
	store := repositories.NewMemStorage()
	bonfire := services.NewBonfireService(store, log)
	auth, err := services.NewAuthService(bonfire, "test-secret", log)
	require.NoError(t, err)

	e := echo.New()
	e.Validator = validators.NewValidator()
	SetupMiddleware(e, log)
	require.NoError(t, SetupRoutes(e, Dependencies{
		Bonfire:          bonfire,
		Auth:             auth,
		DefaultLoginMode: services.ModeMock,
		Log:              log,
	}))
	return &testServer{e: e, store: store, bonfire: bonfire, auth: auth, logs: hook}
}

func (s *testServer) do(t *testing.T, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T) models.AuthResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/login", "", `{"username":"demo","password":"demo123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","mode":"ready"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	resp := s.login(t)
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, "demo", resp.User.Username)
	assert.True(t, resp.User.IsOnline)
}

func TestLogin_Failures(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/login", "", `{"username":"demo","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials. Use demo/demo123", decodeMessage(t, rec))

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", `{"username":"demo"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login?mode=real", "", `{"username":"demo","password":"demo123"}`)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login?mode=other", "", `{"username":"demo","password":"demo123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtectedRoutes_AuthErrors(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t).Token

	rec := s.do(t, http.MethodGet, "/api/activities", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication required", decodeMessage(t, rec))

	tampered := token[:len(token)-2] + "xx"
	if tampered == token {
		tampered = token[:len(token)-2] + "yy"
	}
	rec = s.do(t, http.MethodGet, "/api/activities", tampered, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Invalid or expired token", decodeMessage(t, rec))

	rec = s.do(t, http.MethodGet, "/api/activities", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe(t *testing.T) {
	s := newTestServer(t)
	resp := s.login(t)

	rec := s.do(t, http.MethodGet, "/api/auth/me", resp.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, resp.User.ID, user.ID)

	ghost, err := s.auth.GenerateToken(&models.User{ID: "ghost", Username: "ghost"})
	require.NoError(t, err)
	rec = s.do(t, http.MethodGet, "/api/auth/me", ghost, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetUser(t *testing.T) {
	s := newTestServer(t)
	resp := s.login(t)

	rec := s.do(t, http.MethodGet, "/api/users/"+resp.User.ID, resp.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"demo"`)

	rec = s.do(t, http.MethodGet, "/api/users/missing", resp.Token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConversationsFlow(t *testing.T) {
	s := newTestServer(t)
	resp := s.login(t)
	ctx := context.Background()

	friend, err := s.bonfire.CreateUser(ctx, models.CreateUserRequest{Username: "friend", Email: "friend@example.com", DisplayName: "Friend"})
	require.NoError(t, err)
	conv, err := s.bonfire.CreateConversation(ctx, models.CreateConversationRequest{ParticipantIDs: []string{resp.User.ID, friend.ID}})
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/api/conversations/"+conv.ID+"/messages", resp.Token, `{"content":"  hi there  "}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var msg models.MessageWithSender
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Equal(t, "hi there", msg.Content)
	assert.Equal(t, resp.User.ID, msg.SenderID)

	rec = s.do(t, http.MethodGet, "/api/conversations", resp.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var convs []models.ConversationWithMessages
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &convs))
	require.Len(t, convs, 1)
	assert.Len(t, convs[0].Participants, 2)
	require.Len(t, convs[0].Messages, 1)
	assert.Equal(t, "demo", convs[0].Messages[0].Sender.Username)

	rec = s.do(t, http.MethodGet, "/api/conversations/"+conv.ID, resp.Token, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/conversations/missing", resp.Token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Conversation not found", decodeMessage(t, rec))
}

func TestSendMessage_NonexistentConversation(t *testing.T) {
	s := newTestServer(t)
	resp := s.login(t)

	rec := s.do(t, http.MethodPost, "/api/conversations/does-not-exist/messages", resp.Token, `{"content":"anyone?"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"conversationId":"does-not-exist"`)
}

func TestSendMessage_Validation(t *testing.T) {
	s := newTestServer(t)
	resp := s.login(t)

	rec := s.do(t, http.MethodPost, "/api/conversations/c1/messages", resp.Token, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Message content is required", decodeMessage(t, rec))

	rec = s.do(t, http.MethodPost, "/api/conversations/c1/messages", resp.Token, `{"content":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMessage_LongContentAccepted(t *testing.T) {
	s := newTestServer(t)
	resp := s.login(t)
	content := strings.Repeat("a", 4001)

	rec := s.do(t, http.MethodPost, "/api/conversations/c1/messages", resp.Token, `{"content":"`+content+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var msg models.MessageWithSender
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Len(t, msg.Content, 4001)
}

func TestRequestLog_CarriesHandlerError(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t).Token
	require.NoError(t, s.store.CreateActivity(context.Background(), &models.Activity{
		SubjectID: "ghost", Verb: models.VerbLiked, ObjectType: "post", ObjectID: "p1",
	}))
	s.logs.Reset()

	rec := s.do(t, http.MethodGet, "/api/activities", token, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var logged *logrus.Entry
	for _, entry := range s.logs.AllEntries() {
		if entry.Message == "Request failed" {
			logged = entry
		}
	}
	require.NotNil(t, logged, "no request log entry for the failed request")
	assert.Equal(t, http.StatusInternalServerError, logged.Data["status"])
	loggedErr, ok := logged.Data[logrus.ErrorKey].(error)
	require.True(t, ok)
	assert.ErrorIs(t, loggedErr, services.ErrIntegrity)
}
