package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	deliveryhttp "github.com/gdugdh24/party-match-backend/internal/delivery/http"
	"github.com/gdugdh24/party-match-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/party-match-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/gdugdh24/party-match-backend/internal/infrastructure/notify"
	"github.com/gdugdh24/party-match-backend/internal/testutil"
	"github.com/gdugdh24/party-match-backend/internal/usecase/auth"
	"github.com/gdugdh24/party-match-backend/internal/usecase/event"
	"github.com/gdugdh24/party-match-backend/internal/usecase/matching"
	"github.com/gdugdh24/party-match-backend/internal/usecase/pairing"
	"github.com/gdugdh24/party-match-backend/internal/usecase/ticketing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiEnv struct {
	f      *testutil.Fixture
	router *gin.Engine
	tokens *auth.TokenService
}

func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := testutil.New()
	tokens := auth.NewTokenService("0123456789abcdef0123456789abcdef", f.Clock)
	hub := notify.NewHub(f.Logger)

	router := deliveryhttp.NewRouter(
		handler.NewEventHandler(event.NewEventUseCase(f.Events, f.Enrollments, f.Pairings, f.Clock, 24*time.Hour, f.Logger)),
		handler.NewTicketHandler(ticketing.NewTicketingUseCase(f.Events, f.Enrollments, f.Profiles, f.Clock, f.Logger)),
		handler.NewPairingHandler(pairing.NewPairingUseCase(f.Pairings, f.Events, f.Profiles, hub, f.Logger)),
		handler.NewNotificationHandler(hub, nil),
		middleware.NewAuthMiddleware(tokens),
		f.Logger,
	).Setup()

	return &apiEnv{f: f, router: router, tokens: tokens}
}

func (e *apiEnv) token(t *testing.T, profileID uuid.UUID, role domain.Role) string {
	t.Helper()
	token, err := e.tokens.Issue(domain.Identity{ProfileID: profileID, Role: role}, time.Hour*24*30)
	require.NoError(t, err)
	return token
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	api := newAPI(t)
	w := api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPartyLifecycle(t *testing.T) {
	api := newAPI(t)
	manager := api.token(t, uuid.New(), domain.RoleManager)

	// Manager schedules a party two days out; matching opens a day before.
	startsAt := api.f.Clock.Now().Add(48 * time.Hour)
	w := api.do(t, http.MethodPost, "/api/v1/events", manager, map[string]any{
		"name":         "Warehouse Night",
		"location":     "Jaffa Port",
		"starts_at":    startsAt,
		"ticket_price": 6000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[domain.Event](t, w)
	eventPath := "/api/v1/events/" + created.ID.String()

	// Six guests with profiles join and are opted in by default.
	var profiles []*domain.Profile
	for range 3 {
		profiles = append(profiles, api.f.AddProfile("A", "B"))
	}
	for range 3 {
		profiles = append(profiles, api.f.AddProfile("B", "A"))
	}
	tokens := make(map[uuid.UUID]string)
	enrollments := make(map[uuid.UUID]domain.Enrollment)
	for _, p := range profiles {
		tokens[p.ID] = api.token(t, p.ID, domain.RoleParticipant)
		w := api.do(t, http.MethodPost, eventPath+"/join", tokens[p.ID], nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		enrollment := decode[domain.Enrollment](t, w)
		assert.True(t, enrollment.OptIn)
		enrollments[p.ID] = enrollment
	}

	first := profiles[0]
	w = api.do(t, http.MethodPost, eventPath+"/join", tokens[first.ID], nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodGet, eventPath+"/ticket", tokens[first.ID], nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, enrollments[first.ID].TicketCode, decode[domain.Enrollment](t, w).TicketCode)

	// Matching runs once the trigger passes; opt-in is frozen from then on.
	api.f.Clock.Advance(25 * time.Hour)
	generator := matching.NewGenerator(api.f.Events, api.f.Enrollments, api.f.Profiles, api.f.Pairings, api.f.Clock, api.f.Logger)
	pairings, err := generator.GenerateMatches(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, pairings, 9)

	w = api.do(t, http.MethodPut, eventPath+"/opt-in", tokens[first.ID], map[string]bool{"opt_in": false})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodGet, eventPath+"/pairings", tokens[first.ID], nil)
	require.Equal(t, http.StatusOK, w.Code)
	views := decode[[]map[string]any](t, w)
	require.Len(t, views, 3)

	// Both sides accept one pairing; it becomes a chat.
	target := pairings[0]
	respond := func(profileID uuid.UUID, action string) *httptest.ResponseRecorder {
		return api.do(t, http.MethodPost, "/api/v1/pairings/"+target.ID.String()+"/respond", tokens[profileID], map[string]string{"action": action})
	}
	w = respond(target.ProfileAID, "accept")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, decode[domain.Pairing](t, w).Mutual)

	w = respond(target.ProfileBID, "accept")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[domain.Pairing](t, w).Mutual)

	w = respond(target.ProfileAID, "reject")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[domain.Pairing](t, w).Mutual)

	w = api.do(t, http.MethodPost, "/api/v1/pairings/"+target.ID.String()+"/respond", manager, map[string]string{"action": "accept"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = respond(target.ProfileAID, "maybe")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/chats", tokens[target.ProfileAID], nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	// At the door: pending entries are refused until accepted, then redeemed once.
	ticket := enrollments[first.ID]
	checkIn := func() *httptest.ResponseRecorder {
		return api.do(t, http.MethodPost, eventPath+"/check-in", manager, map[string]string{"code": ticket.TicketCode})
	}
	assert.Equal(t, http.StatusUnprocessableEntity, checkIn().Code)

	w = api.do(t, http.MethodPut, eventPath+"/enrollments/"+ticket.ID.String()+"/status", manager, map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = checkIn()
	require.Equal(t, http.StatusOK, w.Code)
	redeemed := decode[domain.Enrollment](t, w)
	require.NotNil(t, redeemed.CheckedInAt)

	api.f.Clock.Advance(time.Minute)
	w = checkIn()
	require.Equal(t, http.StatusConflict, w.Code)
	used := decode[handler.ErrorResponse](t, w)
	require.NotNil(t, used.CheckedInAt)
	assert.True(t, redeemed.CheckedInAt.Equal(*used.CheckedInAt))

	w = api.do(t, http.MethodPost, eventPath+"/check-in", manager, map[string]string{"code": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodGet, eventPath+"/stats", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[domain.EventStats](t, w)
	assert.Equal(t, 1, stats.Accepted)
	assert.Equal(t, 5, stats.Pending)
	assert.Equal(t, 1, stats.CheckedIn)
	assert.Equal(t, 9, stats.Pairings)
	assert.Equal(t, 1, stats.MutualMatches)
	assert.Equal(t, int64(6000), stats.TotalIncome)
}

func TestManagerOnlyRoutes(t *testing.T) {
	api := newAPI(t)
	event := api.f.AddEvent(t, time.Hour)
	participant := api.token(t, uuid.New(), domain.RoleParticipant)
	eventPath := "/api/v1/events/" + event.ID.String()

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/events"},
		{http.MethodGet, eventPath + "/stats"},
		{http.MethodPost, eventPath + "/check-in"},
		{http.MethodPut, eventPath + "/enrollments/" + uuid.NewString() + "/status"},
	}
	for _, r := range routes {
		w := api.do(t, r.method, r.path, participant, map[string]string{})
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", r.method, r.path)

		w = api.do(t, r.method, r.path, "", map[string]string{})
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", r.method, r.path)
	}
}

func TestJoinErrors(t *testing.T) {
	api := newAPI(t)
	event := api.f.AddEvent(t, time.Hour)

	incomplete := api.f.AddProfile("A", "B")
	incomplete.Bio = nil
	api.f.Store.PutProfile(incomplete)
	w := api.do(t, http.MethodPost, "/api/v1/events/"+event.ID.String()+"/join", api.token(t, incomplete.ID, domain.RoleParticipant), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	complete := api.f.AddProfile("A", "B")
	w = api.do(t, http.MethodPost, "/api/v1/events/"+uuid.NewString()+"/join", api.token(t, complete.ID, domain.RoleParticipant), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/events/not-a-uuid/join", api.token(t, complete.ID, domain.RoleParticipant), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPut, "/api/v1/events/"+event.ID.String()+"/opt-in", api.token(t, complete.ID, domain.RoleParticipant), map[string]bool{"opt_in": true})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGuestRegistrationIsPublic(t *testing.T) {
	api := newAPI(t)
	event := api.f.AddEvent(t, time.Hour)

	w := api.do(t, http.MethodPost, "/api/v1/events/"+event.ID.String()+"/guests", "", map[string]string{"name": "Dana", "email": "dana@example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	guest := decode[domain.Enrollment](t, w)
	assert.True(t, guest.IsGuest())
	assert.NotEmpty(t, guest.TicketCode)

	w = api.do(t, http.MethodPost, "/api/v1/events/"+event.ID.String()+"/guests", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
