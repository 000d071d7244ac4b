package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blogem/loan-approval/logging"
	"github.com/blogem/loan-approval/models"
	"github.com/blogem/loan-approval/repositories"
	"github.com/blogem/loan-approval/userctx"
)

const redacted = "[REDACTED]"

const auditWriteTimeout = 5 * time.Second

// Auditor records mutation requests in the audit log. Writes run in the
// background; Wait blocks until every started write has finished.
type Auditor struct {
	repo    repositories.AuditRepository
	logger  *logging.Logger
	pending sync.WaitGroup
}

// NewAuditor creates an auditor writing to auditRepo
func NewAuditor(auditRepo repositories.AuditRepository, logger *logging.Logger) *Auditor {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Auditor{repo: auditRepo, logger: logger.Named("audit")}
}

// Handler is the middleware logging all POST/PUT/DELETE requests
func (a *Auditor) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only log mutation operations
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodDelete {
			entry := &models.AuditLogEntry{
				RequestID: requestID(r),
				Timestamp: time.Now(),
				Username:  userctx.GetUsername(r.Context()),
				Method:    r.Method,
				Path:      r.URL.Path,
				UserAgent: r.UserAgent(),
				IPAddress: getIPAddress(r),
				FormData:  captureFormData(r),
			}

			// Log asynchronously to avoid blocking request
			ctx := context.WithoutCancel(r.Context())
			a.pending.Add(1)
			go func() {
				defer a.pending.Done()
				a.write(ctx, entry)
			}()
		}

		next.ServeHTTP(w, r)
	})
}

// Wait blocks until pending audit writes are done
func (a *Auditor) Wait() {
	a.pending.Wait()
}

func (a *Auditor) write(ctx context.Context, entry *models.AuditLogEntry) {
	ctx, cancel := context.WithTimeout(ctx, auditWriteTimeout)
	defer cancel()
	if err := a.repo.Create(ctx, entry); err != nil {
		a.logger.Warn("Failed to create audit log",
			zap.String("request_id", entry.RequestID),
			zap.String("path", entry.Path),
			zap.Error(err))
	}
}

// requestID reuses the chi request ID when the RequestID middleware ran
func requestID(r *http.Request) string {
	if id := chimw.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}

// getIPAddress extracts IP address from request, checking X-Forwarded-For first
func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header (proxy/load balancer)
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	// Fall back to RemoteAddr without its port
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// captureFormData captures form data as JSON string, with password fields redacted
func captureFormData(r *http.Request) string {
	if err := r.ParseForm(); err != nil {
		return ""
	}

	formMap := make(map[string]interface{}, len(r.PostForm))
	for key, values := range r.PostForm {
		switch {
		case strings.Contains(strings.ToLower(key), "password"):
			formMap[key] = redacted
		case len(values) == 1:
			formMap[key] = values[0]
		default:
			formMap[key] = values
		}
	}

	jsonData, err := json.Marshal(formMap)
	if err != nil {
		return ""
	}
	return string(jsonData)
}
