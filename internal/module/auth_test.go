package module

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/emrgen/cms/internal/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(tokens *token.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Authenticate(tokens), func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": claims.UserID(), "org": claims.OrganizationID})
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	tokens := token.NewManager("secret", time.Hour)
	valid, _, err := tokens.Generate("u1", "o1", "owner")
	require.NoError(t, err)
	foreign, _, err := token.NewManager("other", time.Hour).Generate("u1", "o1", "owner")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid", header: "Bearer " + valid, status: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + valid, status: http.StatusOK},
		{name: "missing", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + valid, status: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer not-a-token", status: http.StatusUnauthorized},
		{name: "other secret", header: "Bearer " + foreign, status: http.StatusUnauthorized},
	}

	router := newTestRouter(tokens)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"user": "u1", "org": "o1"}`, w.Body.String())
			}
		})
	}
}
