package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "mykhata/internal/errors"
	"mykhata/internal/logger"
	"mykhata/internal/models"
	"mykhata/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

func setupAuthRouter(sessions *session.Manager) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogging(), AuthMiddleware(sessions))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": Session(c).Username})
	})
	return r
}

func doRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return body.Error.Code
}

func TestAuthMiddleware(t *testing.T) {
	sessions := session.NewManager("test-secret", time.Hour)
	user := &models.User{Username: "Asha", Role: models.RoleOwner}

	t.Run("valid token sets session", func(t *testing.T) {
		token, _, err := sessions.Issue(user)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}

		rec := doRequest(setupAuthRouter(sessions), "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var body map[string]string
		_ = json.Unmarshal(rec.Body.Bytes(), &body)
		if body["username"] != "Asha" {
			t.Errorf("expected username Asha, got %q", body["username"])
		}
		if rec.Header().Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}
	})

	t.Run("missing header", func(t *testing.T) {
		rec := doRequest(setupAuthRouter(sessions), "")
		if rec.Code != http.StatusUnauthorized || errorCode(t, rec) != "UNAUTHORIZED" {
			t.Errorf("expected 401 UNAUTHORIZED, got %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		rec := doRequest(setupAuthRouter(sessions), "Token abc")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("foreign signature", func(t *testing.T) {
		other := session.NewManager("other-secret", time.Hour)
		token, _, _ := other.Issue(user)

		rec := doRequest(setupAuthRouter(sessions), "Bearer "+token)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("revoked token", func(t *testing.T) {
		token, ctx, _ := sessions.Issue(user)
		sessions.Revoke(ctx)

		rec := doRequest(setupAuthRouter(sessions), "Bearer "+token)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 after logout, got %d", rec.Code)
		}
	})
}

func TestSessionWithoutAuth(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if Session(c).LoggedIn() {
		t.Error("expected anonymous session")
	}
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(), Recovery())
	r.GET("/app", func(c *gin.Context) { _ = c.Error(apperrors.ErrDuplicateUsername) })
	r.GET("/plain", func(c *gin.Context) { _ = c.Error(errors.New("disk full")) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/app", http.StatusConflict, "DUPLICATE_USERNAME"},
		{"/plain", http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"/panic", http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))
			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
			if got := errorCode(t, rec); got != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, got)
			}
		})
	}
}
