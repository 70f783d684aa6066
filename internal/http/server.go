package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"moneytrack/internal/core"
	applog "moneytrack/internal/log"
	"moneytrack/internal/middleware/ratelimit"
	"moneytrack/internal/middleware/security"
	"moneytrack/internal/middleware/trace"
	"moneytrack/internal/services"
	"moneytrack/internal/storage"
	appweb "moneytrack/web"
)

// HeaderUserID carries the authenticated user id set by the auth proxy in
// front of the server.
const HeaderUserID = "X-User-ID"

// Services are the ledger operations the server exposes.
type Services struct {
	Store         *storage.SQLiteRepository
	Users         *services.UserService
	Accounts      *services.AccountService
	Budgets       *services.BudgetService
	Subscriptions *services.SubscriptionService
	Transactions  *services.TransactionService
	Liabilities   *services.LiabilityService
	Notifications *services.NotificationService
	Dashboard     *services.DashboardService
}

type Options struct {
	RateLimitPerMinute int
	Logger             *applog.Logger
}

type Server struct {
	http.Server
	svc       Services
	templates *template.Template

	trace    *trace.Middleware
	detector *security.Detector
	limiter  *ratelimit.Limiter
	started  time.Time

	stopCleanup  context.CancelFunc
	shutdownOnce sync.Once
}

var templateFuncs = template.FuncMap{
	"money": func(m core.Money, currency string) string { return m.Format(currency) },
	"date":  func(d core.Date) string { return d.String() },
	"frequencies": func() []core.Frequency {
		return core.Frequencies
	},
}

// NewServer parses the embedded templates and wires routes and middleware.
func NewServer(addr string, svc Services, opts Options) (*Server, error) {
	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	limitCfg := ratelimit.DefaultConfig()
	if opts.RateLimitPerMinute > 0 {
		limitCfg.RequestsPerMinute = opts.RateLimitPerMinute
	}

	s := &Server{
		svc:       svc,
		templates: t,
		trace:     trace.NewMiddleware(),
		detector:  security.NewDetector(),
		limiter:   ratelimit.NewLimiter(limitCfg),
		started:   time.Now(),
	}

	mux := http.NewServeMux()
	s.routes(mux)

	var handler http.Handler = mux
	handler = s.limiter.Middleware(s.clientKey)(handler)
	handler = security.Headers(security.DefaultHeadersConfig())(handler)
	handler = s.detector.Middleware(handler)
	handler = applog.Middleware(logger, trace.RequestID, s.detector.ExtractClientIP)(handler)
	handler = s.trace.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stopCleanup = cancel
	go s.limiter.RunCleanup(ctx)

	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /{$}", s.handleIndex)

	mux.HandleFunc("POST /users", s.handleRegister)
	mux.HandleFunc("PUT /profile", s.withUser(s.handleUpdateProfile))
	mux.HandleFunc("PUT /profile/password", s.withUser(s.handleChangePassword))

	mux.HandleFunc("GET /ui/dashboard", s.withUser(s.handleDashboard))
	mux.HandleFunc("GET /ui/transactions", s.withUser(s.handleListTransactions))
	mux.HandleFunc("GET /ui/accounts", s.withUser(s.handleListAccounts))
	mux.HandleFunc("GET /ui/budgets", s.withUser(s.handleListBudgets))
	mux.HandleFunc("GET /ui/subscriptions", s.withUser(s.handleListSubscriptions))
	mux.HandleFunc("GET /ui/liabilities", s.withUser(s.handleListLiabilities))
	mux.HandleFunc("GET /ui/notifications", s.withUser(s.handleListNotifications))

	mux.HandleFunc("POST /transactions", s.withUser(s.handleCreateTransaction))
	mux.HandleFunc("PUT /transactions/{id}", s.withUser(s.handleEditTransaction))
	mux.HandleFunc("DELETE /transactions/{id}", s.withUser(s.handleDeleteTransaction))
	mux.HandleFunc("GET /export/transactions.xlsx", s.withUser(s.handleExportTransactions))

	mux.HandleFunc("POST /accounts", s.withUser(s.handleCreateAccount))
	mux.HandleFunc("PUT /accounts/{id}", s.withUser(s.handleUpdateAccount))
	mux.HandleFunc("DELETE /accounts/{id}", s.withUser(s.handleDeleteAccount))

	mux.HandleFunc("POST /budgets", s.withUser(s.handleCreateBudget))
	mux.HandleFunc("PUT /budgets/{id}", s.withUser(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /budgets/{id}", s.withUser(s.handleDeleteBudget))

	mux.HandleFunc("POST /subscriptions", s.withUser(s.handleCreateSubscription))
	mux.HandleFunc("PUT /subscriptions/{id}", s.withUser(s.handleUpdateSubscription))
	mux.HandleFunc("DELETE /subscriptions/{id}", s.withUser(s.handleDeleteSubscription))

	mux.HandleFunc("POST /loans", s.withUser(s.handleCreateLoan))
	mux.HandleFunc("PUT /loans/{id}", s.withUser(s.handleUpdateLoan))
	mux.HandleFunc("DELETE /loans/{id}", s.withUser(s.handleDeleteLoan))
	mux.HandleFunc("POST /loans/{id}/payments", s.withUser(s.handlePayment(core.LoanPayment)))
	mux.HandleFunc("GET /loans/{id}/payments", s.withUser(s.handleListPayments(core.LoanPayment)))

	mux.HandleFunc("POST /debts", s.withUser(s.handleCreateDebt))
	mux.HandleFunc("PUT /debts/{id}", s.withUser(s.handleUpdateDebt))
	mux.HandleFunc("DELETE /debts/{id}", s.withUser(s.handleDeleteDebt))
	mux.HandleFunc("POST /debts/{id}/payments", s.withUser(s.handlePayment(core.DebtPayment)))
	mux.HandleFunc("GET /debts/{id}/payments", s.withUser(s.handleListPayments(core.DebtPayment)))

	mux.HandleFunc("POST /credit-cards", s.withUser(s.handleCreateCreditCard))
	mux.HandleFunc("PUT /credit-cards/{id}", s.withUser(s.handleUpdateCreditCard))
	mux.HandleFunc("DELETE /credit-cards/{id}", s.withUser(s.handleDeleteCreditCard))
	mux.HandleFunc("POST /credit-cards/{id}/payments", s.withUser(s.handlePayment(core.CreditCardPayment)))
	mux.HandleFunc("GET /credit-cards/{id}/payments", s.withUser(s.handleListPayments(core.CreditCardPayment)))

	mux.HandleFunc("DELETE /payments/{id}", s.withUser(s.handleDeletePayment))

	mux.HandleFunc("POST /notifications/{id}/read", s.withUser(s.handleMarkNotificationRead))
}

// userHandler is a handler for an authenticated user.
type userHandler func(w http.ResponseWriter, r *http.Request, userID int64)

// withUser rejects requests without a valid user id header.
func (s *Server) withUser(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFrom(r)
		if !ok {
			ErrorResponse(http.StatusUnauthorized, "Please sign in.").Write(w)
			return
		}
		ctx := applog.NewContext(r.Context(), applog.FromContext(r.Context()).With(applog.FieldUserID, userID))
		next(w, r.WithContext(ctx), userID)
	}
}

func userIDFrom(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.Header.Get(HeaderUserID)), 10, 64)
	return id, err == nil && id > 0
}

// clientKey limits signed-in users by id and everyone else by address.
func (s *Server) clientKey(r *http.Request) string {
	if id, ok := userIDFrom(r); ok {
		return "user:" + strconv.FormatInt(id, 10)
	}
	return "ip:" + s.detector.ExtractClientIP(r)
}

// mutated drops read models of userID after a successful change.
func (s *Server) mutated(userID int64) {
	if s.svc.Dashboard != nil {
		s.svc.Dashboard.Invalidate(userID)
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	var buf strings.Builder
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		ErrorResponse(http.StatusInternalServerError, core.UserMessage(err)).Write(w)
		return
	}
	_, _ = w.Write([]byte(buf.String()))
}

// Shutdown stops background cleanup and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		if s.stopCleanup != nil {
			s.stopCleanup()
		}
		err = s.Server.Shutdown(ctx)
	})
	return err
}
