package gqlapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/bonfire-demo/backend/internal/models"
	"github.com/anonto42/bonfire-demo/backend/internal/repositories"
	"github.com/anonto42/bonfire-demo/backend/internal/services"
	"github.com/anonto42/bonfire-demo/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message    string                 `json:"message"`
		Extensions map[string]interface{} `json:"extensions"`
	} `json:"errors"`
}

type harness struct {
	e       *echo.Echo
	bonfire services.BonfireService
	auth    *services.AuthService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := logger.Discard().WithField("component", "test")
	bonfire := services.NewBonfireService(repositories.NewMemStorage(), log)
	auth, err := services.NewAuthService(bonfire, "test-secret", log)
	require.NoError(t, err)

	h, err := NewHandler(bonfire, auth, log)
	require.NoError(t, err)
	e := echo.New()
	h.RegisterRoutes(e)
	return &harness{e: e, bonfire: bonfire, auth: auth}
}

func (h *harness) post(t *testing.T, token, query string, variables map[string]interface{}) gqlResponse {
	t.Helper()
	body, err := json.Marshal(Request{Query: query, Variables: variables})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (h *harness) login(t *testing.T) (string, string) {
	t.Helper()
	resp := h.post(t, "", `mutation { login(username: "demo", password: "demo123") { token user { id username } } }`, nil)
	require.Empty(t, resp.Errors)

	var login struct {
		Token string `json:"token"`
		User  struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["login"], &login))
	require.Equal(t, "demo", login.User.Username)
	return login.Token, login.User.ID
}

func TestLoginMutation_BadCredentials(t *testing.T) {
	h := newHarness(t)

	resp := h.post(t, "", `mutation { login(username: "demo", password: "bad") { token } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Invalid credentials. Use demo/demo123", resp.Errors[0].Message)
	assert.Equal(t, CodeBadCredentials, resp.Errors[0].Extensions["code"])
}

func TestMe_AuthCodes(t *testing.T) {
	h := newHarness(t)
	token, userID := h.login(t)

	resp := h.post(t, "", `{ me { id } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, CodeUnauthenticated, resp.Errors[0].Extensions["code"])

	resp = h.post(t, token+"garbage", `{ me { id } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, CodeInvalidToken, resp.Errors[0].Extensions["code"])

	resp = h.post(t, token, `{ me { id username isOnline lastSeen } }`, nil)
	require.Empty(t, resp.Errors)
	var me struct {
		ID       string  `json:"id"`
		IsOnline bool    `json:"isOnline"`
		LastSeen *string `json:"lastSeen"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["me"], &me))
	assert.Equal(t, userID, me.ID)
	assert.True(t, me.IsOnline)
	require.NotNil(t, me.LastSeen)
	_, err := time.Parse(time.RFC3339, *me.LastSeen)
	assert.NoError(t, err)
}

func TestMe_UserGone(t *testing.T) {
	h := newHarness(t)
	token, err := h.auth.GenerateToken(&models.User{ID: "ghost", Username: "ghost"})
	require.NoError(t, err)

	resp := h.post(t, token, `{ me { id } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, CodeNotFound, resp.Errors[0].Extensions["code"])
}

func TestUserQuery(t *testing.T) {
	h := newHarness(t)
	_, userID := h.login(t)

	resp := h.post(t, "", `query($id: ID!) { user(id: $id) { username displayName bio } }`, map[string]interface{}{"id": userID})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"username":"demo","displayName":"Demo User","bio":"This is the demo account for testing Bonfire integration"}`, string(resp.Data["user"]))

	resp = h.post(t, "", `{ user(id: "missing") { id } }`, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, "null", string(resp.Data["user"]))
}

func TestConversationsAndSendMessage(t *testing.T) {
	h := newHarness(t)
	token, userID := h.login(t)
	ctx := context.Background()

	friend, err := h.bonfire.CreateUser(ctx, models.CreateUserRequest{Username: "friend", Email: "friend@example.com", DisplayName: "Friend"})
	require.NoError(t, err)
	conv, err := h.bonfire.CreateConversation(ctx, models.CreateConversationRequest{ParticipantIDs: []string{userID, friend.ID}})
	require.NoError(t, err)

	resp := h.post(t, token, `mutation($c: ID!, $t: String!) { sendMessage(conversationId: $c, content: $t) { id content sender { username } createdAt } }`,
		map[string]interface{}{"c": conv.ID, "t": " hello "})
	require.Empty(t, resp.Errors)
	var sent struct {
		Content string `json:"content"`
		Sender  struct {
			Username string `json:"username"`
		} `json:"sender"`
		CreatedAt string `json:"createdAt"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["sendMessage"], &sent))
	assert.Equal(t, "hello", sent.Content)
	assert.Equal(t, "demo", sent.Sender.Username)
	assert.True(t, strings.HasSuffix(sent.CreatedAt, "Z"))

	resp = h.post(t, token, `{ conversations { id title isGroup participants { username } messages { content } updatedAt } }`, nil)
	require.Empty(t, resp.Errors)
	var convs []struct {
		ID           string  `json:"id"`
		Title        *string `json:"title"`
		Participants []struct {
			Username string `json:"username"`
		} `json:"participants"`
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["conversations"], &convs))
	require.Len(t, convs, 1)
	assert.Equal(t, conv.ID, convs[0].ID)
	assert.Nil(t, convs[0].Title)
	assert.Len(t, convs[0].Participants, 2)
	require.Len(t, convs[0].Messages, 1)

	resp = h.post(t, token, `{ conversation(id: "missing") { id } }`, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, "null", string(resp.Data["conversation"]))

	resp = h.post(t, "", `{ conversations { id } }`, nil)
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, CodeUnauthenticated, resp.Errors[0].Extensions["code"])
}

func TestSendMessage_BlankContent(t *testing.T) {
	h := newHarness(t)
	token, _ := h.login(t)

	resp := h.post(t, token, `mutation { sendMessage(conversationId: "c1", content: "   ") { id } }`, nil)
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, CodeBadUserInput, resp.Errors[0].Extensions["code"])
}

func TestActivitiesQuery(t *testing.T) {
	h := newHarness(t)
	token, userID := h.login(t)

	require.NoError(t, h.bonfire.CreateActivity(context.Background(), &models.Activity{
		SubjectID:     userID,
		Verb:          models.VerbPosted,
		ObjectType:    "post",
		ObjectID:      "p1",
		ObjectContent: models.StringPtr("first post"),
	}))

	resp := h.post(t, token, `{ activities { verb objectType objectContent subject { username } } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `[{"verb":"posted","objectType":"post","objectContent":"first post","subject":{"username":"demo"}}]`, string(resp.Data["activities"]))
}

func TestServe_GetAndBadRequests(t *testing.T) {
	h := newHarness(t)

	target := "/graphql?query=" + url.QueryEscape(`{ user(id: "x") { id } }`)
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user":null`)

	rec = httptest.NewRecorder()
	h.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql?query=%7B%7D&variables=%7B", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDateTimeScalar(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 30, 0, 5_000_000, time.FixedZone("X", 3600))
	assert.Equal(t, "2024-03-01T11:30:00.005Z", DateTime.Serialize(at))
	assert.Equal(t, "2024-03-01T11:30:00.005Z", DateTime.Serialize(&at))
	assert.Nil(t, DateTime.Serialize((*time.Time)(nil)))

	parsed := DateTime.ParseValue("2024-03-01T11:30:00.005Z")
	assert.Equal(t, at.UTC(), parsed)
	assert.Nil(t, DateTime.ParseValue("yesterday"))
}

func TestSendMessage_LongContentAccepted(t *testing.T) {
	h := newHarness(t)
	token, _ := h.login(t)
	content := strings.Repeat("a", 4001)

	resp := h.post(t, token, `mutation($t: String!) { sendMessage(conversationId: "c1", content: $t) { content } }`,
		map[string]interface{}{"t": content})
	require.Empty(t, resp.Errors)
	var sent struct {
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["sendMessage"], &sent))
	assert.Len(t, sent.Content, 4001)
}
