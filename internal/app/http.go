package app

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"zelapb/api/internal/auth"
	"zelapb/api/internal/feed"
	"zelapb/api/internal/metrics"
	"zelapb/api/internal/rbac"
	"zelapb/api/internal/search"
	"zelapb/api/internal/store"
)

type HTTPServer struct {
	service    *Service
	corsOrigin string
	hub        *feed.Hub
	logger     *zap.Logger
}

// NewHTTPServer wires the API routes. hub may be nil, in which case the live
// feed answers 503.
func NewHTTPServer(service *Service, corsOrigin string, hub *feed.Hub, logger *zap.Logger) *HTTPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPServer{service: service, corsOrigin: corsOrigin, hub: hub, logger: logger}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusNoContent, map[string]any{})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{
			"store": map[string]any{"status": "ok"},
		}

		if err := s.service.Ping(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks["store"] = map[string]any{
				"status": "error",
				"error":  err.Error(),
			}
		}

		writeJSON(w, statusCode, map[string]any{
			"ok":     status == "ready",
			"status": status,
			"checks": checks,
		})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/metrics" {
		metrics.Handler().ServeHTTP(w, r)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/config" {
		cfg, err := s.service.Config(r.Context())
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cfg)
		return
	}

	parts := splitPath(r.URL.Path)

	// Views render their own maintenance notice.
	if r.Method == http.MethodGet && len(parts) == 3 && parts[0] == "api" && parts[1] == "views" {
		session := s.optionalSession(r)
		content, err := s.service.RenderView(r.Context(), session, View(parts[2]))
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, content)
		return
	}

	if len(parts) >= 2 && parts[0] == "api" && parts[1] == "admin" {
		s.handleAdmin(w, r, parts)
		return
	}

	if blocked := s.maintenanceGate(w, r); blocked {
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/citizen/register" {
		var body RegisterCitizenInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		session, err := s.service.RegisterCitizen(r.Context(), bearerToken(r), body)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sessionPayload(session))
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/team/login" {
		s.handleLogin(w, r, s.service.LoginTeam)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/government/login" {
		s.handleLogin(w, r, s.service.LoginGovernment)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/session" {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false, "kind": "none"})
			return
		}
		session, err := s.service.SessionFromToken(r.Context(), token)
		if err != nil {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false, "kind": "none"})
			return
		}
		payload := sessionPayload(session)
		delete(payload, "token")
		payload["authenticated"] = true
		writeJSON(w, http.StatusOK, payload)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/session/logout" {
		session, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		if err := s.service.Logout(r.Context(), session); err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/feed" {
		s.handleFeed(w, r)
		return
	}

	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	if r.URL.Path == "/api/reports" {
		switch r.Method {
		case http.MethodGet:
			reports, err := s.service.CitizenReports(r.Context(), session)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"items": reports})
			return
		case http.MethodPost:
			var body SubmitReportInput
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			report, err := s.service.SubmitReport(r.Context(), session, body)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, report)
			return
		}
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/reports/search" {
		query := r.URL.Query()
		limit, _ := strconv.Atoi(query.Get("limit"))
		result, err := s.service.SearchReports(r.Context(), session, search.Query{
			Text:     query.Get("q"),
			Category: query.Get("category"),
			Status:   query.Get("status"),
			Limit:    limit,
		})
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	if r.Method == http.MethodGet && len(parts) == 4 && parts[0] == "api" && parts[1] == "reports" && parts[3] == "share" {
		payload, err := s.service.ShareReport(r.Context(), session, parts[2])
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, payload)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/citizen/broadcasts" {
		broadcasts, err := s.service.BroadcastsFor(r.Context(), session, store.TargetCitizens)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": broadcasts})
		return
	}

	if r.Method == http.MethodGet && len(parts) == 4 && parts[0] == "api" && parts[1] == "broadcasts" && parts[3] == "share" {
		payload, err := s.service.ShareBroadcast(r.Context(), session, parts[2])
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, payload)
		return
	}

	if len(parts) >= 3 && parts[0] == "api" && parts[1] == "team" {
		s.handleTeam(w, r, session, parts)
		return
	}

	if len(parts) >= 3 && parts[0] == "api" && parts[1] == "government" {
		s.handleGovernment(w, r, session, parts)
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request, login func(ctx context.Context, previousToken, username, password string) (Session, error)) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	session, err := login(r.Context(), bearerToken(r), body.Username, body.Password)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionPayload(session))
}

func (s *HTTPServer) handleTeam(w http.ResponseWriter, r *http.Request, session Session, parts []string) {
	ctx := r.Context()

	if r.Method == http.MethodGet && r.URL.Path == "/api/team/reports" {
		reports, err := s.service.TeamReports(ctx, session)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": reports})
		return
	}

	if r.Method == http.MethodPost && len(parts) == 5 && parts[2] == "reports" && parts[4] == "status" {
		var body struct {
			Status string `json:"status"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		report, err := s.service.UpdateReportStatus(ctx, session, parts[3], body.Status)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
		return
	}

	if r.URL.Path == "/api/team/instructions" {
		switch r.Method {
		case http.MethodGet:
			instructions, err := s.service.TeamInstructions(ctx, session)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"items": instructions})
			return
		case http.MethodPost:
			var body PostInstructionInput
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			instruction, err := s.service.PostInstruction(ctx, session, body)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, instruction)
			return
		}
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/team/members" {
		roster, err := s.service.TeamRoster(ctx, session)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": roster})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/team/broadcasts" {
		broadcasts, err := s.service.BroadcastsFor(ctx, session, store.TargetTeams)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": broadcasts})
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleGovernment(w http.ResponseWriter, r *http.Request, session Session, parts []string) {
	ctx := r.Context()

	if r.Method == http.MethodGet && r.URL.Path == "/api/government/stats" {
		stats, err := s.service.GovernmentStats(ctx, session)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/government/stats/share" {
		payload, err := s.service.ShareStats(ctx, session)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, payload)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/government/stats/export" {
		result, err := s.service.ExportStats(ctx, session, r.URL.Query().Get("format"))
		if err != nil {
			s.fail(w, err)
			return
		}
		w.Header().Set("Content-Disposition", "attachment; filename=\""+result.Filename+"\"")
		w.Header().Set("Content-Type", result.MimeType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Data)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/government/broadcasts" {
		var body PostBroadcastInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		broadcast, err := s.service.PostBroadcast(ctx, session, body)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, broadcast)
		return
	}

	if r.URL.Path == "/api/government/members" {
		switch r.Method {
		case http.MethodGet:
			members, err := s.service.ListMembers(ctx, session)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"items": members})
			return
		case http.MethodPost:
			var body RegisterMemberInput
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			member, err := s.service.RegisterMember(ctx, session, body)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, member)
			return
		}
	}

	if r.Method == http.MethodDelete && len(parts) == 4 && parts[2] == "members" {
		if err := s.service.RemoveMember(ctx, session, parts[3]); err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

// handleAdmin serves the admin console. These routes stay open during
// maintenance.
func (s *HTTPServer) handleAdmin(w http.ResponseWriter, r *http.Request, parts []string) {
	if r.Method == http.MethodPost && r.URL.Path == "/api/admin/login" {
		s.handleLogin(w, r, s.service.LoginAdmin)
		return
	}

	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	if r.Method == http.MethodGet && r.URL.Path == "/api/admin/municipalities" {
		municipalities, err := s.service.Municipalities(ctx, session)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": municipalities})
		return
	}

	if r.Method == http.MethodPost && len(parts) == 5 && parts[2] == "municipalities" && parts[4] == "status" {
		var body struct {
			Status string `json:"status"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		municipality, err := s.service.SetMunicipalityStatus(ctx, session, parts[3], body.Status)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, municipality)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/admin/overview" {
		overview, err := s.service.AdminOverview(ctx, session)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, overview)
		return
	}

	if r.Method == http.MethodPut && r.URL.Path == "/api/admin/config" {
		var body store.SystemConfig
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		cfg, err := s.service.ReplaceConfig(ctx, session, body)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cfg)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/admin/config/generate" {
		var body struct {
			Command string `json:"command"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		proposal, err := s.service.GenerateConfig(ctx, session, body.Command)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, proposal)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/admin/config/deploy" {
		var body store.SystemConfig
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		result, err := s.service.Deploy(ctx, session, body)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

// handleFeed upgrades to a WebSocket. The citizen audience is public; the
// team audience needs a team session, passed as a bearer header or ?token=.
func (s *HTTPServer) handleFeed(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		writeError(w, http.StatusServiceUnavailable, "FEED_UNAVAILABLE", "Live feed not configured", nil)
		return
	}
	audience := store.BroadcastTarget(r.URL.Query().Get("audience"))
	if audience == "" {
		audience = store.TargetCitizens
	}
	switch audience {
	case store.TargetCitizens:
	case store.TargetTeams:
		token := bearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		session, err := s.service.SessionFromToken(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
			return
		}
		if !s.service.Can(string(session.Role()), rbac.ActionViewTeam) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
	default:
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "audience must be 'citizens' or 'teams'", nil)
		return
	}
	s.hub.ServeWS(w, r, audience)
}

// maintenanceGate answers 503 while maintenance mode is on. It reports
// whether the request was stopped.
func (s *HTTPServer) maintenanceGate(w http.ResponseWriter, r *http.Request) bool {
	cfg, err := s.service.Config(r.Context())
	if err != nil {
		s.fail(w, err)
		return true
	}
	if !Blocked(cfg, viewForPath(r.URL.Path)) {
		return false
	}
	writeError(w, http.StatusServiceUnavailable, "MAINTENANCE", "Sistema em Manutenção", maintenanceNotice(cfg))
	return true
}

func viewForPath(path string) View {
	parts := splitPath(path)
	if len(parts) < 2 {
		return ViewLanding
	}
	switch parts[1] {
	case "citizen", "reports", "broadcasts":
		return ViewCitizen
	case "team":
		return ViewTeam
	case "government":
		return ViewGovernment
	case "admin":
		return ViewAdmin
	default:
		return ViewLanding
	}
}

func (s *HTTPServer) requireSession(w http.ResponseWriter, r *http.Request) (Session, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return Session{}, false
	}
	session, err := s.service.SessionFromToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) || errors.Is(err, auth.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
			return Session{}, false
		}
		s.logger.Error("session lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "SERVER_ERROR", "Session lookup failed", nil)
		return Session{}, false
	}
	return session, true
}

// optionalSession resolves the bearer token if there is one; anything else
// yields the empty session.
func (s *HTTPServer) optionalSession(r *http.Request) Session {
	token := bearerToken(r)
	if token == "" {
		return Session{}
	}
	session, err := s.service.SessionFromToken(r.Context(), token)
	if err != nil {
		return Session{}
	}
	return session
}

func (s *HTTPServer) fail(w http.ResponseWriter, err error) {
	status, code, message, details := mapError(err)
	if status >= http.StatusInternalServerError && code == "SERVER_ERROR" {
		s.logger.Error("request failed", zap.Error(err))
	}
	writeError(w, status, code, message, details)
}

func sessionPayload(session Session) map[string]any {
	payload := map[string]any{
		"token":     session.Token,
		"kind":      session.Active.Kind,
		"role":      session.Role(),
		"userName":  session.Active.DisplayName(),
		"expiresAt": session.ExpiresAt,
	}
	switch {
	case session.Active.Citizen != nil:
		payload["profile"] = session.Active.Citizen
	case session.Active.Team != nil:
		payload["user"] = session.Active.Team
	case session.Active.Government != nil:
		payload["user"] = session.Active.Government
	case session.Active.Admin != nil:
		payload["user"] = session.Active.Admin
	}
	return payload
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		elapsed := time.Since(started)
		metrics.HTTPRequestDurationSeconds.
			WithLabelValues(r.Method, strconv.Itoa(writer.status)).
			Observe(elapsed.Seconds())
		s.logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", writer.status),
			zap.Int64("duration_ms", elapsed.Milliseconds()),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack lets the live feed upgrade through the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound, "NOT_FOUND", "Not found", nil
	}
	if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrExpiredToken) {
		return http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}
