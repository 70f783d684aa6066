package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"moneytrack/internal/core"
	"moneytrack/internal/export"
	applog "moneytrack/internal/log"
)

const (
	defaultListLimit  = 50
	notificationLimit = 20
)

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady checks the templates and the ledger store.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]string{"templates": "ok", "database": "ok"}
	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	if s.svc.Store == nil {
		checks["database"] = "not_configured"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else if err := s.svc.Store.DB().PingContext(ctx); err != nil {
		checks["database"] = "failed: " + err.Error()
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	metrics := s.trace.GetMetrics()
	writeJSON(w, code, map[string]any{
		"status": status,
		"checks": checks,
		"metrics": map[string]any{
			"requests":          metrics.TotalRequests,
			"avg_response_ms":   metrics.AverageResponseTime.Milliseconds(),
			"blocked_requests":  s.detector.Blocked(),
			"rate_limited":      s.limiter.Limited(),
			"rate_limit_client": s.limiter.ActiveClients(),
		},
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "index.html", nil)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, userID int64) {
	d, err := s.svc.Dashboard.Get(r.Context(), userID)
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.render(w, r, "dashboard.html", d)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Err(); err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	u, err := s.svc.Users.Register(r.Context(), core.RegisterInput{
		NamePrefix: p.Get("name_prefix"),
		FirstName:  p.Get("first_name"),
		LastName:   p.Get("last_name"),
		Email:      p.Get("email"),
		Password:   p.Get("password"),
		TimeZone:   p.Get("time_zone"),
		Currency:   p.Get("currency"),
	})
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "User registered", applog.FieldUserID, u.ID)
	SuccessResponse("Account created for "+u.Email+".").
		Status(http.StatusCreated).
		Header("Location", "/users/"+strconv.FormatInt(u.ID, 10)).
		Write(w)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, userID int64) {
	p := NewRequestBodyParser(r)
	if err := p.Err(); err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	_, err := s.svc.Users.UpdateProfile(r.Context(), userID, core.ProfileInput{
		NamePrefix: p.Get("name_prefix"),
		FirstName:  p.Get("first_name"),
		LastName:   p.Get("last_name"),
		TimeZone:   p.Get("time_zone"),
		Currency:   p.Get("currency"),
	})
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.mutated(userID)
	SuccessResponse("Profile updated.").TriggerLedgerChanged("user", userID).Write(w)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request, userID int64) {
	p := NewRequestBodyParser(r)
	if err := p.Err(); err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	err := s.svc.Users.ChangePassword(r.Context(), userID, core.PasswordChange{
		Current: p.Get("current_password"),
		New:     p.Get("new_password"),
		Confirm: p.Get("confirm_password"),
	})
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	SuccessResponse("Password changed successfully!").TriggerFormReset().Write(w)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request, userID int64) {
	list, err := s.svc.Notifications.List(r.Context(), userID, notificationLimit)
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.render(w, r, "notifications.html", list)
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r, "id")
	if err == nil {
		err = s.svc.Notifications.MarkRead(r.Context(), userID, id)
	}
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	s.mutated(userID)
	NewHTMXResponse().Trigger(EventNotificationsChange, nil).Status(http.StatusNoContent).Write(w)
}

// handleExportTransactions streams the filtered transactions as a workbook.
func (s *Server) handleExportTransactions(w http.ResponseWriter, r *http.Request, userID int64) {
	filter, err := parseTransactionFilter(r.URL.Query())
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	var buf bytes.Buffer
	n, err := export.WriteTransactions(r.Context(), &buf, s.svc.Store, userID, filter)
	if err != nil {
		FailureResponse(r, err).Write(w)
		return
	}
	filename := "transactions-" + time.Now().UTC().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Transactions exported", "count", n)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
