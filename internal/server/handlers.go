package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/internal/view"
	gatemw "github.com/MrEthical07/goGate/middleware"
)

type handlers struct {
	engine Engine
	views  *view.Renderer
	cookie gatemw.CookieConfig
	logger *zap.Logger
}

// view serves the handler of the route the guard let through.
func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	nav, ok := gatemw.NavigationFromContext(r.Context())
	if !ok || nav.Route.View == nil {
		http.NotFound(w, r)
		return
	}
	nav.Route.View.ServeHTTP(w, r)
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	identifier := r.PostFormValue("identifier")
	password := r.PostFormValue("password")

	token, user, err := h.engine.Login(gatemw.WithRequestContext(r), identifier, password)
	switch {
	case err == nil:
	case errors.Is(err, goGate.ErrLoginRateLimited):
		h.views.Login(w, http.StatusTooManyRequests, identifier, "Too many attempts. Try again later.")
		return
	case errors.Is(err, goGate.ErrInvalidCredentials):
		h.views.Login(w, http.StatusUnauthorized, identifier, "Invalid identifier or password.")
		return
	default:
		h.logger.Error("login failed", zap.Error(err), zap.String("request_id", requestID(r)))
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	gatemw.SetSessionCookie(w, h.cookie, token, h.engine.SessionTTL())
	h.logger.Info("login",
		zap.String("user_id", user.UserID),
		zap.String("session_id", user.SessionID),
		zap.String("request_id", requestID(r)),
	)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	token := gatemw.TokenFromRequest(r, h.cookie.Name)
	if err := h.engine.Logout(gatemw.WithRequestContext(r), token); err != nil {
		// The cookie is cleared regardless; the session expires on its own.
		h.logger.Warn("logout failed", zap.Error(err), zap.String("request_id", requestID(r)))
	}
	gatemw.ClearSessionCookie(w, h.cookie)
	http.Redirect(w, r, h.engine.LoginPath(), http.StatusSeeOther)
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	latency, err := h.engine.Health(r.Context())
	if err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK " + latency.String()))
}

func (h *handlers) logRedirect(r *http.Request, nav goGate.Navigation) {
	fields := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.String("route", nav.Route.Name),
		zap.String("location", nav.Location()),
		zap.String("request_id", requestID(r)),
	}
	if nav.FetchErr != nil {
		fields = append(fields, zap.Error(nav.FetchErr))
	}
	h.logger.Debug("navigation redirected", fields...)
}
