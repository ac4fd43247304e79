package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/servicehub/marketplace/internal/core/domain"
	"github.com/servicehub/marketplace/internal/core/ports"
	"github.com/servicehub/marketplace/internal/core/service"
	"github.com/servicehub/marketplace/internal/infrastructure/db/memory"
	"github.com/servicehub/marketplace/internal/infrastructure/db/redis"
	"github.com/servicehub/marketplace/internal/infrastructure/queue"
	"github.com/servicehub/marketplace/internal/infrastructure/ws"
	"github.com/servicehub/marketplace/internal/pkg/token"
)

const testSecret = "marketplace_test_jwt_secret_key_0123456789"

type testServer struct {
	e     *echo.Echo
	users ports.UserRepository
	svcs  ports.ServiceRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zerolog.Nop()
	store := memory.NewStore()

	users := memory.NewUserRepository(store)
	services := memory.NewServiceRepository(store)
	categories := memory.NewCategoryRepository(store)
	reviews := memory.NewReviewRepository(store)
	applications := memory.NewApplicationRepository(store)
	reports := memory.NewReportRepository(store)

	hasher := queue.NewHasherPool(2, bcrypt.MinCost, log)
	t.Cleanup(hasher.Close)

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	denylist := redis.NewDenylist(rdb)

	tokens := token.NewManager(testSecret, "test", time.Hour)
	hub := ws.NewHub(log, []string{"*"})
	t.Cleanup(hub.Close)
	notifications := service.NewNotificationService(memory.NewNotificationRepository(store), hub, log)

	reg := prometheus.NewRegistry()
	e := NewRouter(Deps{
		Logger:        log,
		Tokens:        tokens,
		Revoker:       denylist,
		Auth:          service.NewAuthService(users, hasher, tokens, denylist, log),
		Catalog:       service.NewCatalogService(services, reviews, applications, log),
		Categories:    service.NewCategoryService(categories, log),
		Reviews:       service.NewReviewService(reviews, services, log),
		Users:         service.NewUserService(users, log),
		Applications:  service.NewApplicationService(applications, services, notifications, log),
		Notifications: notifications,
		Reports:       service.NewReportService(reports, users, log),
		Stream:        hub,
		Registerer:    reg,
		Gatherer:      reg,
	})
	return &testServer{e: e, users: users, svcs: services}
}

func (s *testServer) do(t *testing.T, method, path, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return v
}

// signup registers and logs in, returning the token and user id.
func (s *testServer) signup(t *testing.T, username, email string) (string, string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/register",
		`{"username":"`+username+`","email":"`+email+`","password":"pw123456"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	tok := s.login(t, email)

	me := decode[map[string]any](t, s.do(t, http.MethodGet, "/api/auth/me", "", tok))
	id, _ := me["id"].(string)
	if id == "" {
		t.Fatalf("me: missing id in %v", me)
	}
	return tok, id
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/login", `{"email":"`+email+`","password":"pw123456"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	tok := decode[map[string]string](t, rec)["token"]
	if tok == "" {
		t.Fatal("login: empty token")
	}
	return tok
}

func (s *testServer) promote(t *testing.T, userID string) {
	t.Helper()
	role := domain.RoleAdmin
	if _, err := s.users.Update(context.Background(), userID, ports.UserPatch{Role: &role}); err != nil {
		t.Fatalf("promote: %v", err)
	}
}

const sinkService = `{"title":"Fix sink","description":"Kitchen sink leaks","category":"Home Repair","price":50,"location":"NY"}`

func TestRouter_RegisterLoginPostAndList(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/register", `{"username":"alice","email":"a@x.com","password":"pw123456"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if msg := decode[map[string]string](t, rec)["message"]; msg != "User registered successfully" {
		t.Fatalf("unexpected message %q", msg)
	}

	tok := s.login(t, "a@x.com")
	me := decode[map[string]any](t, s.do(t, http.MethodGet, "/api/auth/me", "", tok))
	if _, leaked := me["password"]; leaked {
		t.Fatal("password must never be serialised")
	}
	if _, leaked := me["passwordHash"]; leaked {
		t.Fatal("password hash must never be serialised")
	}

	rec = s.do(t, http.MethodPost, "/api/services", sinkService, tok)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[map[string]any](t, rec)
	if created["ownerId"] != me["id"] {
		t.Fatalf("owner mismatch: %v vs %v", created["ownerId"], me["id"])
	}
	if created["status"] != "open" {
		t.Fatalf("expected open status, got %v", created["status"])
	}

	rec = s.do(t, http.MethodGet, "/api/services", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Total-Count"); got != "1" {
		t.Fatalf("expected total 1, got %q", got)
	}
	list := decode[[]map[string]any](t, rec)
	if len(list) != 1 || list[0]["id"] != created["id"] {
		t.Fatalf("list does not contain the created service: %v", list)
	}
	owner, _ := list[0]["owner"].(map[string]any)
	if owner["username"] != "alice" {
		t.Fatalf("expected owner username alice, got %v", owner)
	}

	rec = s.do(t, http.MethodGet, "/api/services/"+created["id"].(string), "", "")
	got := decode[map[string]any](t, rec)
	for _, k := range []string{"id", "title", "description", "category", "price", "location", "status", "ownerId", "createdAt"} {
		if got[k] != created[k] {
			t.Fatalf("round trip changed %s: %v vs %v", k, got[k], created[k])
		}
	}
}

func TestRouter_DuplicateRegistration(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "alice", "a@x.com")

	rec := s.do(t, http.MethodPost, "/api/auth/register", `{"username":"alice2","email":"A@X.com","password":"pw123456"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := decode[map[string]string](t, rec)["message"]; msg != "Email already in use" {
		t.Fatalf("unexpected message %q", msg)
	}

	all, err := s.users.List(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly one user, got %d", len(all))
	}
}

func TestRouter_RegisterRejectsUnknownFields(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/register",
		`{"username":"mallory","email":"m@x.com","password":"pw123456","role":"admin"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/api/auth/register", `{"username":"al","email":"nope","password":"1"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid fields, got %d", rec.Code)
	}
}

func TestRouter_LoginFailuresAreIndistinguishable(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "alice", "a@x.com")

	wrongPassword := s.do(t, http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"nope-nope"}`, "")
	unknownEmail := s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ghost@x.com","password":"nope-nope"}`, "")
	missingFields := s.do(t, http.MethodPost, "/api/auth/login", `{}`, "")

	for name, rec := range map[string]*httptest.ResponseRecorder{"unknown email": unknownEmail, "missing fields": missingFields} {
		if rec.Code != wrongPassword.Code || rec.Body.String() != wrongPassword.Body.String() {
			t.Fatalf("%s: got %d %q, wrong password gave %d %q",
				name, rec.Code, rec.Body.String(), wrongPassword.Code, wrongPassword.Body.String())
		}
	}
	if wrongPassword.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", wrongPassword.Code)
	}
}

func TestRouter_UnauthorizedResponsesAreUniform(t *testing.T) {
	s := newTestServer(t)
	tok, _ := s.signup(t, "alice", "a@x.com")
	tampered := tok[:len(tok)-3] + "abc"

	headers := []string{"", "Bearer", "Bearer garbage", "Basic " + tok, "Bearer " + tampered}
	var first string
	for _, h := range headers {
		req := httptest.NewRequest(http.MethodPost, "/api/services", strings.NewReader(sinkService))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		if h != "" {
			req.Header.Set(echo.HeaderAuthorization, h)
		}
		rec := httptest.NewRecorder()
		s.e.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", h, rec.Code)
		}
		if first == "" {
			first = rec.Body.String()
		}
		if rec.Body.String() != first {
			t.Fatalf("header %q: body %q differs from %q", h, rec.Body.String(), first)
		}
	}

	if _, total, _ := s.svcs.List(context.Background(), ports.ServiceFilter{}); total != 0 {
		t.Fatalf("no service may be created, got %d", total)
	}
}

func TestRouter_LogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	tok, _ := s.signup(t, "alice", "a@x.com")

	rec := s.do(t, http.MethodPost, "/api/auth/logout", "", tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if rec := s.do(t, http.MethodGet, "/api/auth/me", "", tok); rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token must be rejected, got %d", rec.Code)
	}
	if fresh := s.login(t, "a@x.com"); s.do(t, http.MethodGet, "/api/auth/me", "", fresh).Code != http.StatusOK {
		t.Fatal("a new login must still work")
	}
}

func TestRouter_DeleteService(t *testing.T) {
	s := newTestServer(t)
	tok, _ := s.signup(t, "alice", "a@x.com")
	created := decode[map[string]any](t, s.do(t, http.MethodPost, "/api/services", sinkService, tok))
	id := created["id"].(string)

	rec := s.do(t, http.MethodDelete, "/api/services/507f1f77bcf86cd799439011", "", tok)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if msg := decode[map[string]string](t, rec)["message"]; msg != "Service not found" {
		t.Fatalf("unexpected message %q", msg)
	}
	if _, total, _ := s.svcs.List(context.Background(), ports.ServiceFilter{}); total != 1 {
		t.Fatalf("collection must be unchanged, got %d", total)
	}

	other, _ := s.signup(t, "bob", "b@x.com")
	if rec := s.do(t, http.MethodDelete, "/api/services/"+id, "", other); rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner delete: expected 403, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodDelete, "/api/services/"+id, "", tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if msg := decode[map[string]string](t, rec)["message"]; msg != "Service deleted" {
		t.Fatalf("unexpected message %q", msg)
	}
	if rec := s.do(t, http.MethodGet, "/api/services/"+id, "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("deleted service must be gone, got %d", rec.Code)
	}
}

func TestRouter_MalformedIDIsServerError(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/services/not-an-id", "", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if msg := decode[map[string]string](t, rec)["message"]; msg != "Server error" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestRouter_StatusTransitions(t *testing.T) {
	s := newTestServer(t)
	tok, _ := s.signup(t, "alice", "a@x.com")
	id := decode[map[string]any](t, s.do(t, http.MethodPost, "/api/services", sinkService, tok))["id"].(string)

	rec := s.do(t, http.MethodPut, "/api/services/"+id, `{"status":"closed"}`, tok)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("open -> closed: expected 400, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPut, "/api/services/"+id, `{"status":"in_progress"}`, tok); rec.Code != http.StatusOK {
		t.Fatalf("open -> in_progress: expected 200, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPut, "/api/services/"+id, `{"status":"closed"}`, tok); rec.Code != http.StatusOK {
		t.Fatalf("in_progress -> closed: expected 200, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodPut, "/api/services/"+id, `{"status":"in_progress"}`, tok)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("closed -> in_progress: expected 400, got %d", rec.Code)
	}
	if msg := decode[map[string]string](t, rec)["message"]; msg != "invalid status transition" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestRouter_ApplicationFlow(t *testing.T) {
	s := newTestServer(t)
	ownerTok, _ := s.signup(t, "alice", "a@x.com")
	providerTok, _ := s.signup(t, "bob", "b@x.com")
	svcID := decode[map[string]any](t, s.do(t, http.MethodPost, "/api/services", sinkService, ownerTok))["id"].(string)

	if rec := s.do(t, http.MethodPost, "/api/services/"+svcID+"/applications", `{"message":"me"}`, ownerTok); rec.Code != http.StatusForbidden {
		t.Fatalf("owner apply: expected 403, got %d", rec.Code)
	}

	rec := s.do(t, http.MethodPost, "/api/services/"+svcID+"/applications", `{"message":"I can help"}`, providerTok)
	if rec.Code != http.StatusCreated {
		t.Fatalf("apply: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	appID := decode[map[string]any](t, rec)["id"].(string)

	if rec := s.do(t, http.MethodPost, "/api/services/"+svcID+"/applications", `{"message":"again"}`, providerTok); rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate apply: expected 400, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/services/"+svcID+"/applications", "", providerTok); rec.Code != http.StatusForbidden {
		t.Fatalf("provider listing: expected 403, got %d", rec.Code)
	}

	notes := decode[map[string]any](t, s.do(t, http.MethodGet, "/api/notifications", "", ownerTok))
	if notes["unreadCount"] != float64(1) {
		t.Fatalf("owner should have one unread notification, got %v", notes)
	}

	rec = s.do(t, http.MethodPut, "/api/applications/"+appID+"/status", `{"status":"accepted"}`, ownerTok)
	if rec.Code != http.StatusOK {
		t.Fatalf("decide: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	svc := decode[map[string]any](t, s.do(t, http.MethodGet, "/api/services/"+svcID, "", ""))
	if svc["status"] != "in_progress" {
		t.Fatalf("accepting must start the service, got %v", svc["status"])
	}
	if rec := s.do(t, http.MethodPut, "/api/applications/"+appID+"/status", `{"status":"rejected"}`, ownerTok); rec.Code != http.StatusBadRequest {
		t.Fatalf("decided applications are terminal, got %d", rec.Code)
	}

	mine := decode[[]map[string]any](t, s.do(t, http.MethodGet, "/api/applications/mine", "", providerTok))
	if len(mine) != 1 || mine[0]["status"] != "accepted" {
		t.Fatalf("unexpected applications: %v", mine)
	}
	if rec := s.do(t, http.MethodPut, "/api/notifications/read-all", "", providerTok); rec.Code != http.StatusOK {
		t.Fatalf("read-all: expected 200, got %d", rec.Code)
	}
}

func TestRouter_ReviewsAndRating(t *testing.T) {
	s := newTestServer(t)
	ownerTok, ownerID := s.signup(t, "alice", "a@x.com")
	reviewerTok, _ := s.signup(t, "bob", "b@x.com")
	svcID := decode[map[string]any](t, s.do(t, http.MethodPost, "/api/services", sinkService, ownerTok))["id"].(string)

	rec := s.do(t, http.MethodPost, "/api/reviews", `{"serviceId":"`+svcID+`","rating":4,"comment":"good"}`, reviewerTok)
	if rec.Code != http.StatusCreated {
		t.Fatalf("review: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := s.do(t, http.MethodPost, "/api/reviews", `{"serviceId":"`+svcID+`","rating":6}`, reviewerTok); rec.Code != http.StatusBadRequest {
		t.Fatalf("rating out of range: expected 400, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodPost, "/api/reviews", `{"serviceId":"`+svcID+`","rating":5}`, reviewerTok)
	if msg := decode[map[string]string](t, rec)["message"]; rec.Code != http.StatusBadRequest || msg != "You have already reviewed this service" {
		t.Fatalf("duplicate review: got %d %q", rec.Code, msg)
	}

	reviews := decode[[]map[string]any](t, s.do(t, http.MethodGet, "/api/reviews/service/"+svcID, "", ""))
	if len(reviews) != 1 {
		t.Fatalf("expected one review, got %d", len(reviews))
	}
	author, _ := reviews[0]["author"].(map[string]any)
	if author["username"] != "bob" {
		t.Fatalf("expected author bob, got %v", author)
	}

	rating := decode[map[string]any](t, s.do(t, http.MethodGet, "/api/users/"+ownerID+"/rating", "", ""))
	if rating["average"] != float64(4) || rating["count"] != float64(1) {
		t.Fatalf("unexpected rating %v", rating)
	}

	if rec := s.do(t, http.MethodDelete, "/api/reviews/"+reviews[0]["id"].(string), "", ownerTok); rec.Code != http.StatusForbidden {
		t.Fatalf("non-author delete: expected 403, got %d", rec.Code)
	}
}

func TestRouter_AdminOnlyRoutes(t *testing.T) {
	s := newTestServer(t)
	tok, id := s.signup(t, "alice", "a@x.com")
	_, otherID := s.signup(t, "bob", "b@x.com")

	rec := s.do(t, http.MethodPost, "/api/categories", `{"name":"Gardening"}`, tok)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if msg := decode[map[string]string](t, rec)["message"]; msg != "Forbidden" {
		t.Fatalf("unexpected message %q", msg)
	}
	if rec := s.do(t, http.MethodGet, "/api/users", "", tok); rec.Code != http.StatusForbidden {
		t.Fatalf("users list: expected 403, got %d", rec.Code)
	}

	s.promote(t, id)
	admin := s.login(t, "a@x.com")

	rec = s.do(t, http.MethodPost, "/api/categories", `{"name":"Gardening"}`, admin)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := s.do(t, http.MethodPost, "/api/categories", `{"name":"gardening"}`, admin); rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate category: expected 400, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/users", "", admin); rec.Code != http.StatusOK {
		t.Fatalf("users list: expected 200, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodDelete, "/api/users/"+otherID, "", admin); rec.Code != http.StatusOK {
		t.Fatalf("user delete: expected 200, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/users/"+otherID, "", admin); rec.Code != http.StatusNotFound {
		t.Fatalf("deleted user: expected 404, got %d", rec.Code)
	}
}

func TestRouter_Reports(t *testing.T) {
	s := newTestServer(t)
	tok, id := s.signup(t, "alice", "a@x.com")
	_, otherID := s.signup(t, "bob", "b@x.com")

	if rec := s.do(t, http.MethodPost, "/api/reports", `{"reportedUserId":"`+id+`","reason":"me"}`, tok); rec.Code != http.StatusBadRequest {
		t.Fatalf("self report: expected 400, got %d", rec.Code)
	}
	rec := s.do(t, http.MethodPost, "/api/reports", `{"reportedUserId":"`+otherID+`","reason":"spam"}`, tok)
	if rec.Code != http.StatusCreated {
		t.Fatalf("report: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	reportID := decode[map[string]any](t, rec)["id"].(string)

	s.promote(t, id)
	admin := s.login(t, "a@x.com")
	if rec := s.do(t, http.MethodPut, "/api/reports/"+reportID+"/status", `{"status":"resolved"}`, admin); rec.Code != http.StatusOK {
		t.Fatalf("resolve: expected 200, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPut, "/api/reports/"+reportID+"/status", `{"status":"pending"}`, admin); rec.Code != http.StatusBadRequest {
		t.Fatalf("reopen: expected 400, got %d", rec.Code)
	}
	list := decode[[]map[string]any](t, s.do(t, http.MethodGet, "/api/reports?status=resolved", "", admin))
	if len(list) != 1 {
		t.Fatalf("expected one resolved report, got %d", len(list))
	}
}

func TestRouter_OperationalRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "Service Marketplace API is running" {
		t.Fatalf("unexpected root response %d %q", rec.Code, rec.Body.String())
	}
	if rec := s.do(t, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/categories", "", ""); rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("empty categories: got %d %q", rec.Code, rec.Body.String())
	}

	s.do(t, http.MethodGet, "/api/services", "", "")
	rec = s.do(t, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "requests_total") {
		t.Fatalf("metrics endpoint missing request counter: %d", rec.Code)
	}
}
