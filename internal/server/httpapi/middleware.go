package httpapi

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/claimcheck/internal/common"
	"github.com/dmitrijs2005/claimcheck/internal/logging"
	"github.com/dmitrijs2005/claimcheck/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userKey = "claimcheck.user"

// authRequired resolves the bearer token to a user and stores it in the
// gin context. Every failure yields the same 401 body.
func (h *handler) authRequired(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
	if !ok {
		abortWithDetail(c, http.StatusUnauthorized, detailUnauthorized)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), token)
	if err != nil {
		status, detail := errorStatus(err)
		if status != http.StatusInternalServerError {
			status, detail = http.StatusUnauthorized, detailUnauthorized
		}
		_ = c.Error(err)
		abortWithDetail(c, status, detail)
		return
	}

	c.Set(userKey, user)
	c.Request = c.Request.WithContext(logging.ContextWith(c.Request.Context(), "user_id", user.ID))
	c.Next()
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// currentUser returns the user stored by authRequired.
func currentUser(c *gin.Context) *models.User {
	v, _ := c.Get(userKey)
	u, _ := v.(*models.User)
	return u
}

// cors answers preflight requests and sets the allow headers for origins in
// the configured list; "*" allows any origin.
func cors(origins []string) gin.HandlerFunc {
	anyOrigin := slices.Contains(origins, "*")
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case anyOrigin:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(origins, origin):
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, Content-Length, Accept")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// limitBody caps every request body at max bytes.
func limitBody(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		}
		c.Next()
	}
}

const (
	requestIDHeader = "X-Request-ID"
	maxRequestIDLen = 128
)

// requestLogger tags the request context with a request id (taken from
// X-Request-ID or generated) and logs one line per request once it is done.
// The user id attached by authRequired travels in the same context.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(logging.ContextWith(c.Request.Context(), "request_id", id))

		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.Last().Err)
		}

		ctx := c.Request.Context()
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error(ctx, "request", args...)
		case status >= http.StatusBadRequest:
			logger.Warn(ctx, "request", args...)
		default:
			logger.Info(ctx, "request", args...)
		}
	}
}
