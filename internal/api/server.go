package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"farmbook/backend/internal/config"
	"farmbook/backend/internal/sms"
	"farmbook/backend/internal/store"
	"farmbook/backend/internal/table"
)

// RecordStore is what the handlers need from the dual-destination adapter.
type RecordStore interface {
	ReadAll(ctx context.Context) (table.Raw, []string)
	Append(ctx context.Context, values []string) store.WriteResult
	Update(ctx context.Context, sheetRow int, values []string) store.WriteResult
}

type Server struct {
	store             RecordStore
	sms               *sms.Client
	jwtSecret         []byte
	adminUsername     string
	adminPassword     string
	adminPasswordHash string
	location          *time.Location
	allowedOrigins    map[string]struct{}
	allowAnyOrigin    bool
	loginLimiter      *loginLimiter
}

func NewServer(records RecordStore, smsClient *sms.Client, cfg config.Config) *Server {
	loc, err := time.LoadLocation(cfg.AppTimezone)
	if err != nil {
		log.Printf("warning: unknown timezone %q, falling back to UTC", cfg.AppTimezone)
		loc = time.UTC
	}

	allowed := make(map[string]struct{}, len(cfg.CORSAllowedOrigins))
	allowAny := false
	for _, origin := range cfg.CORSAllowedOrigins {
		if origin == "*" {
			allowAny = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return &Server{
		store:             records,
		sms:               smsClient,
		jwtSecret:         []byte(cfg.JWTSecret),
		adminUsername:     cfg.AdminUsername,
		adminPassword:     cfg.AdminPassword,
		adminPasswordHash: cfg.AdminPasswordHash,
		location:          loc,
		allowedOrigins:    allowed,
		allowAnyOrigin:    allowAny,
		loginLimiter:      newLoginLimiter(8, 5*time.Minute),
	}
}

func (s *Server) Mux() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	mux.Handle("GET /api/dashboard", s.authRequired(http.HandlerFunc(s.handleDashboard)))
	mux.Handle("GET /api/records", s.authRequired(http.HandlerFunc(s.handleRecords)))
	mux.Handle("POST /api/records", s.authRequired(http.HandlerFunc(s.handleCreateRecord)))
	mux.Handle("PUT /api/records/{index}", s.authRequired(http.HandlerFunc(s.handleUpdateRecord)))
	mux.Handle("GET /api/records/export", s.authRequired(http.HandlerFunc(s.handleExportRecords)))
	mux.Handle("GET /api/reports/weekly", s.authRequired(http.HandlerFunc(s.handleWeeklyReport)))
	mux.Handle("GET /api/reports/monthly", s.authRequired(http.HandlerFunc(s.handleMonthlyReport)))
	mux.Handle("POST /api/sms", s.authRequired(http.HandlerFunc(s.handleSendSMS)))

	return s.withCORS(mux)
}

func (s *Server) now() time.Time {
	if s.location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(s.location)
}
