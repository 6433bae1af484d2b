package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ghaggin/eduarchive/internal/account"
	"github.com/ghaggin/eduarchive/internal/auth"
	"github.com/ghaggin/eduarchive/internal/config"
	"github.com/ghaggin/eduarchive/internal/metrics"
	"github.com/ghaggin/eduarchive/internal/middleware"
	"github.com/ghaggin/eduarchive/internal/payment"
	"github.com/ghaggin/eduarchive/internal/storage"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/secure"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Server struct {
	log    *zap.Logger
	server *http.Server
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Config   *config.Config
	Issuer   *auth.Issuer
	Binder   *auth.Binder
	Accounts *account.Controller
	Payments *payment.Gateway
	Store    storage.Store
	Metrics  *metrics.Metrics
	Gate     *middleware.Gate
	Authn    *middleware.Authn
	Checkout *middleware.SessionManager
}

// handlers carries everything the route handlers need.
type handlers struct {
	log      *zap.Logger
	cfg      *config.Config
	issuer   *auth.Issuer
	binder   *auth.Binder
	accounts *account.Controller
	payments *payment.Gateway
	store    storage.Store
	metrics  *metrics.Metrics
	authn    *middleware.Authn
	checkout *middleware.SessionManager
	validate *validator.Validate
}

func New(p Params) (*Server, error) {
	h := &handlers{
		log:      p.Log,
		cfg:      p.Config,
		issuer:   p.Issuer,
		binder:   p.Binder,
		accounts: p.Accounts,
		payments: p.Payments,
		store:    p.Store,
		metrics:  p.Metrics,
		authn:    p.Authn,
		checkout: p.Checkout,
		validate: validator.New(),
	}

	return &Server{
		log: p.Log,
		server: &http.Server{
			Addr:              p.Config.Server.Addr,
			Handler:           h.routes(p.Gate),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// RegisterHooks should be invoked by fx
func RegisterHooks(lc fx.Lifecycle, s *Server) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop:  s.server.Shutdown,
	})
}

func (s *Server) Start(_ context.Context) error {
	go func() {
		s.log.Info("listening", zap.String("addr", s.server.Addr))
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("error starting server", zap.Error(err))
		}
	}()
	return nil
}

func (h *handlers) routes(gate *middleware.Gate) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        h.cfg.IsProduction(),
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !h.cfg.IsProduction(),
	})

	authLimit := httprate.Limit(h.cfg.Server.AuthRateLimit, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusTooManyRequests, "Too many requests")
		}),
	)

	root := chi.NewRouter()
	root.Use(chimw.RequestID)
	root.Use(chimw.RealIP)
	root.Use(chimw.Recoverer)
	root.Use(secureMiddleware.Handler)
	root.Use(h.metrics.Middleware)
	root.Use(gate.Wrap)
	root.Use(h.checkout.Wrap)

	// No Auth
	root.Group(func(r chi.Router) {
		r.Get("/", h.page("home.html", "home"))
		r.Get("/contact", h.page("contact.html", "contact"))
		r.Get("/forgot-password", h.page("forgot-password.html", "forgot password"))
		r.Get("/login", h.page("login.html", "login"))
		r.Get("/register", h.page("register.html", "register"))
		r.With(authLimit).Post("/login", h.login)
		r.With(authLimit).Post("/register", h.register)
		r.Post("/api/auth/logout", h.logout)

		r.Get("/api/public/healthz", h.healthz)
		r.Method(http.MethodGet, "/api/public/metrics", h.metrics.Handler())
	})

	// Auth
	root.Group(func(r chi.Router) {
		r.Use(h.authn.RequireSession)
		r.Get("/dashboard", h.page("dashboard.html", "dashboard"))
		r.Get("/api/auth/me", h.me)
		r.Put("/api/user/profile", h.updateProfile)
		r.Put("/api/user/subscription", h.updateSubscription)

		r.Get("/api/razorpay/config", h.paymentConfig)
		r.Post("/api/razorpay/create-order", h.createOrder)
		r.Post("/api/razorpay/verify-payment", h.verifyPayment)
		r.Post("/api/subscription/update", h.applyPlan)
		r.Get("/api/subscription/receipt/{id}", h.receipt)

		if dir := h.localUploadDir(); dir != "" {
			r.Handle(storage.UploadsURLPrefix+"/*",
				http.StripPrefix(storage.UploadsURLPrefix, uploadsHandler(dir)))
		}
	})

	// Admin
	root.Group(func(r chi.Router) {
		r.Use(h.authn.RequireSession)
		r.Use(h.authn.RequireAdmin)
		r.Get("/admin/dashboard", h.page("admin_dashboard.html", "admin dashboard"))
		r.Post("/api/papers", h.uploadPaper)
	})

	return root
}

func rateLimitKey(r *http.Request) (string, error) {
	key, err := httprate.KeyByIP(r)
	if err != nil || key == "" {
		return "unknown", nil
	}
	return key, nil
}

func (h *handlers) localUploadDir() string {
	if h.cfg.Storage.Driver != "local" {
		return ""
	}
	return h.cfg.Storage.Dir
}

func (h *handlers) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
