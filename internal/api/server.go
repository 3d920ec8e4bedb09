package api

import (
	"crypto/rand"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/sessions"

	"github.com/dgallion1/finreport/internal/config"
	"github.com/dgallion1/finreport/internal/dashboard"
	"github.com/dgallion1/finreport/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const cookieName = "finreport"

// Server is the HTTP surface: a JSON API under /api and the HTML
// dashboard at the root.
type Server struct {
	router   chi.Router
	svc      *dashboard.Service
	sessions *session.Store
	cookies  *sessions.CookieStore
	pages    *template.Template
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(svc *dashboard.Service, store *session.Store, log *slog.Logger, cfg config.Config) (*Server, error) {
	pages, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		log.Warn("SESSION_SECRET not set, dashboard cookies will not survive a restart")
	}
	cookies := sessions.NewCookieStore(secret)
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	s := &Server{
		svc:      svc,
		sessions: store,
		cookies:  cookies,
		pages:    pages,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"Content-Disposition"},
			MaxAge:         300,
		}))

		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{sessionID}", s.handleGetSession)
		r.Delete("/sessions/{sessionID}", s.handleDeleteSession)
		r.Post("/sessions/{sessionID}/extract", s.handleExtract)
		r.Post("/sessions/{sessionID}/query", s.handleQuery)
		r.Get("/sessions/{sessionID}/report.csv", s.handleReportCSV)
		r.Get("/sessions/{sessionID}/report.xlsx", s.handleReportXLSX)
		r.Get("/stats/llm", s.handleLLMStats)
	})

	r.Get("/", s.handleIndex)
	r.Post("/upload", s.handleUpload)
	r.Post("/result-type", s.handleResultType)
	r.Post("/ask", s.handleAsk)
	r.Get("/report.csv", s.handleDownload)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
