package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"charterbook/internal/auth"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type RouterConfig struct {
	AllowedOrigins []string
	Tokens         *auth.TokenManager
	Limiter        *IPRateLimiter
	Logger         *zap.Logger
	// TrustProxy rewrites RemoteAddr from X-Forwarded-For and X-Real-IP.
	TrustProxy     bool
}

func NewRouter(user *UserHandler, admin *AdminHandler, adminAuth *AdminAuthHandler, cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", Health).Methods(http.MethodGet)

	// Public endpoints
	r.HandleFunc("/api/slots", user.Slots).Methods(http.MethodGet)
	r.HandleFunc("/api/availability", user.Calendar).Methods(http.MethodGet)
	r.HandleFunc("/api/availability/{date}", user.DayAvailability).Methods(http.MethodGet)
	r.Handle("/api/bookings", cfg.Limiter.Middleware(http.HandlerFunc(user.CreateBooking))).Methods(http.MethodPost)
	r.Handle("/admin/login", cfg.Limiter.Middleware(http.HandlerFunc(adminAuth.Login))).Methods(http.MethodPost)

	// Admin endpoints (protected)
	protected := r.PathPrefix("/admin").Subrouter()
	protected.Use(auth.AdminAuthMiddleware(cfg.Tokens))
	protected.HandleFunc("/bookings", admin.ListBookings).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/upcoming", admin.UpcomingCharters).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/export", admin.ExportBookings).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{id}/status", admin.UpdateBookingStatus).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{id}", admin.DeleteBooking).Methods(http.MethodDelete)
	protected.HandleFunc("/blocks", admin.ListBlocks).Methods(http.MethodGet)
	protected.HandleFunc("/blocks", admin.CreateBlock).Methods(http.MethodPost)
	protected.HandleFunc("/blocks/{id}", admin.DeleteBlock).Methods(http.MethodDelete)
	protected.HandleFunc("/calendar", admin.Calendar).Methods(http.MethodGet)
	protected.HandleFunc("/users", adminAuth.CreateUserAdmin).Methods(http.MethodPost)

	corsOpts := []handlers.CORSOption{
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.ExposedHeaders([]string{"Content-Disposition"}),
	}
	if len(cfg.AllowedOrigins) > 0 {
		corsOpts = append(corsOpts, handlers.AllowedOrigins(cfg.AllowedOrigins))
	}

	var h http.Handler = r
	if cfg.TrustProxy {
		h = handlers.ProxyHeaders(h)
	}
	h = handlers.CORS(corsOpts...)(h)
	h = handlers.CustomLoggingHandler(io.Discard, h, accessLog(cfg.Logger))
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{cfg.Logger}),
		handlers.PrintRecoveryStack(false),
	)(h)
	return h
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func accessLog(logger *zap.Logger) handlers.LogFormatter {
	return func(_ io.Writer, p handlers.LogFormatterParams) {
		logger.Info("http request",
			zap.String("method", p.Request.Method),
			zap.String("path", p.URL.Path),
			zap.Int("status", p.StatusCode),
			zap.Int("size", p.Size),
			zap.Duration("duration", time.Since(p.TimeStamp)),
		)
	}
}

type recoveryLogger struct {
	logger *zap.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error("panic recovered", zap.String("panic", fmt.Sprint(v...)))
}
