package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"zelapb/api/internal/classify"
	"zelapb/api/internal/store"
)

// pingStore lets a test fail the readiness check.
type pingStore struct {
	*store.MemoryStore
	pingFn func(context.Context) error
}

func (p pingStore) Ping(ctx context.Context) error {
	if p.pingFn != nil {
		return p.pingFn(ctx)
	}
	return nil
}

func do(t *testing.T, handler http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var payload map[string]any
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") && rr.Body.Len() > 0 {
		if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
			t.Fatalf("parse response %s: %v", rr.Body.String(), err)
		}
	}
	return rr, payload
}

func items(t *testing.T, payload map[string]any) []map[string]any {
	t.Helper()
	raw, ok := payload["items"].([]any)
	if !ok {
		t.Fatalf("expected items array, got %v", payload)
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		out = append(out, item.(map[string]any))
	}
	return out
}

func TestHealthEndpoint(t *testing.T) {
	svc, _ := newTestService(t, nil)
	server := NewHTTPServer(svc, "*", nil, nil)

	rr, payload := do(t, server.Handler(), http.MethodGet, "/api/health", "", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	if ok, exists := payload["ok"]; !exists || ok != true {
		t.Errorf("expected ok=true, got %v", ok)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Errorf("expected a request id header")
	}
}

func TestReadyEndpoint_StoreFailure(t *testing.T) {
	data := newTestStore(t)
	svc := New(testConfig(), Deps{Store: pingStore{
		MemoryStore: data,
		pingFn: func(context.Context) error {
			return errors.New("store offline")
		},
	}})
	server := NewHTTPServer(svc, "*", nil, nil)

	rr, payload := do(t, server.Handler(), http.MethodGet, "/api/ready", "", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}
	if payload["status"] != "not_ready" {
		t.Fatalf("expected not_ready, got %v", payload["status"])
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	svc, _ := newTestService(t, nil)
	handler := NewHTTPServer(svc, "*", nil, nil).Handler()

	rr, payload := do(t, handler, http.MethodGet, "/api/team/reports", "", nil)
	if rr.Code != http.StatusUnauthorized || payload["code"] != "UNAUTHORIZED" {
		t.Fatalf("expected 401 UNAUTHORIZED, got %d %v", rr.Code, payload)
	}

	rr, payload = do(t, handler, http.MethodGet, "/api/team/reports", "garbage", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bad token, got %d %v", rr.Code, payload)
	}

	rr, payload = do(t, handler, http.MethodPost, "/api/team/login", "", map[string]string{"username": "jose", "password": "nope"})
	if rr.Code != http.StatusUnauthorized || payload["code"] != "INVALID_CREDENTIALS" {
		t.Fatalf("expected 401 INVALID_CREDENTIALS, got %d %v", rr.Code, payload)
	}
}

func TestInvalidBody(t *testing.T) {
	svc, _ := newTestService(t, nil)
	handler := NewHTTPServer(svc, "*", nil, nil).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/citizen/register", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), "INVALID_BODY") {
		t.Fatalf("expected 400 INVALID_BODY, got %d %s", rr.Code, rr.Body.String())
	}
}

func TestMaintenanceGate(t *testing.T) {
	svc, _ := newTestService(t, nil)
	handler := NewHTTPServer(svc, "*", nil, nil).Handler()

	rr, payload := do(t, handler, http.MethodPost, "/api/admin/login", "", map[string]string{"username": "yslamarcke", "password": "admin123"})
	if rr.Code != http.StatusOK {
		t.Fatalf("admin login: %d %v", rr.Code, payload)
	}
	adminToken := payload["token"].(string)

	rr, payload = do(t, handler, http.MethodGet, "/api/config", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("config: %d", rr.Code)
	}
	cfg := payload
	cfg["maintenanceMode"] = true
	rr, payload = do(t, handler, http.MethodPut, "/api/admin/config", adminToken, cfg)
	if rr.Code != http.StatusOK || payload["maintenanceMode"] != true {
		t.Fatalf("replace config: %d %v", rr.Code, payload)
	}

	rr, payload = do(t, handler, http.MethodPost, "/api/citizen/register", "", map[string]string{"name": "Ana", "phone": "1", "neighborhood": "Centro"})
	if rr.Code != http.StatusServiceUnavailable || payload["code"] != "MAINTENANCE" {
		t.Fatalf("expected 503 MAINTENANCE, got %d %v", rr.Code, payload)
	}
	rr, _ = do(t, handler, http.MethodPost, "/api/team/login", "", map[string]string{"username": "jose", "password": "1234"})
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected team login blocked, got %d", rr.Code)
	}

	// Exempt routes keep answering.
	for _, path := range []string{"/api/health", "/api/config", "/api/views/landing"} {
		rr, _ = do(t, handler, http.MethodGet, path, "", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected %s to stay open, got %d", path, rr.Code)
		}
	}
	rr, payload = do(t, handler, http.MethodGet, "/api/views/citizen", "", nil)
	if rr.Code != http.StatusOK || payload["maintenance"] == nil {
		t.Fatalf("expected maintenance notice in view, got %d %v", rr.Code, payload)
	}
	rr, payload = do(t, handler, http.MethodGet, "/api/admin/overview", adminToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("admin overview during maintenance: %d %v", rr.Code, payload)
	}

	cfg["maintenanceMode"] = false
	rr, _ = do(t, handler, http.MethodPost, "/api/admin/config/deploy", adminToken, cfg)
	if rr.Code != http.StatusOK {
		t.Fatalf("deploy: %d", rr.Code)
	}
	rr, _ = do(t, handler, http.MethodPost, "/api/citizen/register", "", map[string]string{"name": "Ana", "phone": "1", "neighborhood": "Centro"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected registration to reopen, got %d", rr.Code)
	}
}

func TestCitizenReportsEndToEnd(t *testing.T) {
	svc, _ := newTestService(t, fakeClassifier{classifyFn: func(_ context.Context, description string) (classify.Analysis, error) {
		if description != "Buraco na rua" {
			return classify.Analysis{}, errors.New("unexpected description")
		}
		return classify.Analysis{Category: "Infraestrutura", Priority: store.PriorityHigh, Summary: "Buraco na via"}, nil
	}})
	handler := NewHTTPServer(svc, "*", nil, nil).Handler()

	rr, payload := do(t, handler, http.MethodPost, "/api/citizen/register", "", map[string]string{
		"name": "Ana", "phone": "8399999999", "neighborhood": "Centro", "street": "Rua A",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: %d %v", rr.Code, payload)
	}
	citizenToken := payload["token"].(string)

	rr, payload = do(t, handler, http.MethodPost, "/api/reports", citizenToken, map[string]string{
		"description": "Buraco na rua", "location": "Rua A",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("submit: %d %v", rr.Code, payload)
	}
	reportID := payload["id"].(string)
	if payload["status"] != "pending" || payload["category"] != "Infraestrutura" {
		t.Fatalf("unexpected report %v", payload)
	}

	rr, payload = do(t, handler, http.MethodPost, "/api/team/login", "", map[string]string{"username": "lider.infra", "password": "1234"})
	if rr.Code != http.StatusOK {
		t.Fatalf("leader login: %d %v", rr.Code, payload)
	}
	leaderToken := payload["token"].(string)

	findReport := func(list []map[string]any) map[string]any {
		for _, item := range list {
			if item["id"] == reportID {
				return item
			}
		}
		return nil
	}

	_, payload = do(t, handler, http.MethodGet, "/api/team/reports", leaderToken, nil)
	pending := findReport(items(t, payload))
	if pending == nil || pending["priority"] != "High" {
		t.Fatalf("expected the report in the leader's list with High priority, got %v", payload)
	}

	rr, payload = do(t, handler, http.MethodPost, "/api/team/reports/"+reportID+"/status", leaderToken, map[string]string{"status": "resolved"})
	if rr.Code != http.StatusOK || payload["status"] != "resolved" {
		t.Fatalf("update status: %d %v", rr.Code, payload)
	}

	_, payload = do(t, handler, http.MethodGet, "/api/team/reports", leaderToken, nil)
	if findReport(items(t, payload)) != nil {
		t.Fatalf("resolved report should leave the pending list")
	}

	rr, payload = do(t, handler, http.MethodGet, "/api/reports", citizenToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("citizen list: %d %v", rr.Code, payload)
	}
	mine := findReport(items(t, payload))
	if mine == nil || mine["statusLabel"] != "Resolvido" {
		t.Fatalf("expected the report marked Resolvido, got %v", mine)
	}

	// The citizen cannot act as a team.
	rr, payload = do(t, handler, http.MethodPost, "/api/team/reports/"+reportID+"/status", citizenToken, map[string]string{"status": "pending"})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for citizen status update, got %d %v", rr.Code, payload)
	}

	rr, payload = do(t, handler, http.MethodGet, "/api/reports/"+reportID+"/share", citizenToken, nil)
	if rr.Code != http.StatusOK || !strings.HasSuffix(payload["url"].(string), "/reports/"+reportID) {
		t.Fatalf("share: %d %v", rr.Code, payload)
	}

	rr, payload = do(t, handler, http.MethodGet, "/api/reports/search?q=buraco", citizenToken, nil)
	if rr.Code != http.StatusOK || payload["backend"] != "memory" {
		t.Fatalf("search: %d %v", rr.Code, payload)
	}
}

func TestGovernmentRoutes(t *testing.T) {
	svc, _ := newTestService(t, nil)
	handler := NewHTTPServer(svc, "*", nil, nil).Handler()

	_, payload := do(t, handler, http.MethodPost, "/api/government/login", "", map[string]string{"username": "prefeito", "password": "1234"})
	token := payload["token"].(string)

	rr, payload := do(t, handler, http.MethodGet, "/api/government/stats", token, nil)
	if rr.Code != http.StatusOK || payload["total"] != float64(3) {
		t.Fatalf("stats: %d %v", rr.Code, payload)
	}

	rr, payload = do(t, handler, http.MethodPost, "/api/government/broadcasts", token, map[string]string{
		"title": "Aviso", "message": "Coleta suspensa", "target": "citizens", "priority": "Urgent",
	})
	if rr.Code != http.StatusCreated || payload["senderRole"] != "Prefeito" {
		t.Fatalf("broadcast: %d %v", rr.Code, payload)
	}

	rr, payload = do(t, handler, http.MethodPost, "/api/government/members", token, map[string]string{
		"name": "Lia", "username": "lia", "specialty": "Iluminação",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register member: %d %v", rr.Code, payload)
	}
	memberID := payload["id"].(string)
	if _, leaked := payload["password"]; leaked {
		t.Fatalf("password must not be serialized")
	}

	rr, _ = do(t, handler, http.MethodDelete, "/api/government/members/"+memberID, token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("remove member: %d", rr.Code)
	}
	rr, _ = do(t, handler, http.MethodDelete, "/api/government/members/"+memberID, token, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second removal, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/government/stats/export?format=html", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK || !strings.HasPrefix(res.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("export: %d %s", res.Code, res.Header().Get("Content-Type"))
	}
	if !strings.Contains(res.Header().Get("Content-Disposition"), ".html") {
		t.Fatalf("expected an html attachment, got %q", res.Header().Get("Content-Disposition"))
	}
}

func TestSessionEndpoint(t *testing.T) {
	svc, _ := newTestService(t, nil)
	handler := NewHTTPServer(svc, "*", nil, nil).Handler()

	_, payload := do(t, handler, http.MethodGet, "/api/session", "", nil)
	if payload["authenticated"] != false {
		t.Fatalf("expected anonymous session, got %v", payload)
	}

	_, payload = do(t, handler, http.MethodPost, "/api/team/login", "", map[string]string{"username": "jose", "password": "1234"})
	token := payload["token"].(string)

	_, payload = do(t, handler, http.MethodGet, "/api/session", token, nil)
	if payload["authenticated"] != true || payload["role"] != "team_member" || payload["token"] != nil {
		t.Fatalf("unexpected session payload %v", payload)
	}

	rr, _ := do(t, handler, http.MethodPost, "/api/session/logout", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("logout: %d", rr.Code)
	}
	_, payload = do(t, handler, http.MethodGet, "/api/session", token, nil)
	if payload["authenticated"] != false {
		t.Fatalf("expected the session to be gone after logout")
	}
}

func TestFeedWithoutHub(t *testing.T) {
	svc, _ := newTestService(t, nil)
	handler := NewHTTPServer(svc, "*", nil, nil).Handler()

	rr, payload := do(t, handler, http.MethodGet, "/api/feed?audience=citizens", "", nil)
	if rr.Code != http.StatusServiceUnavailable || payload["code"] != "FEED_UNAVAILABLE" {
		t.Fatalf("expected 503 FEED_UNAVAILABLE, got %d %v", rr.Code, payload)
	}
}
