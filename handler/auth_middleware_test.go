// file: handler/auth_middleware_test.go

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"shop-api/common"
	"shop-api/config"
	"shop-api/logger"
	"shop-api/model"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Init()
	config.AppConfig.JWT.SecretKey = "test-secret"
	config.AppConfig.JWT.AccessTokenTTLMinutes = 15
	os.Exit(m.Run())
}

func signTestToken(t *testing.T, userID int, role string, expiresAt time.Time) string {
	t.Helper()
	claims := &model.AppClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(config.AppConfig.JWT.SecretKey))
	if err != nil {
		t.Fatalf("could not sign test token: %v", err)
	}
	return token
}

func jsonUnmarshalBody(rr *httptest.ResponseRecorder, v interface{}) error {
	return json.Unmarshal(rr.Body.Bytes(), v)
}

// echoIdentity records what the middleware injected into the request context.
func echoIdentity(gotUserID *int, gotRole *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := r.Context().Value(UserIDKey).(int); ok {
			*gotUserID = id
		}
		if role, ok := r.Context().Value(UserRoleKey).(string); ok {
			*gotRole = role
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_RejectsMissingAndMalformedHeaders(t *testing.T) {
	testCases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc123"},
		{"missing token", "Bearer"},
		{"garbage token", "Bearer not.a.jwt"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()

			called := false
			AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.False(t, called, "handler must not run for an unauthenticated request")

			var body common.AppError
			assert.NoError(t, jsonUnmarshalBody(rr, &body))
			assert.Equal(t, common.KindUnauthenticated, body.Kind)
		})
	}
}

func TestAuthMiddleware_RejectsExpiredToken(t *testing.T) {
	token := signTestToken(t, 1, string(model.RoleUser), time.Now().Add(-time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an expired token")
	})).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthMiddleware_RejectsTokenSignedWithWrongKey(t *testing.T) {
	claims := &model.AppClaims{
		UserID:           1,
		Role:             string(model.RoleAdmin),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("some-other-secret"))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a forged token")
	})).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthMiddleware_InjectsIdentityIntoContext(t *testing.T) {
	token := signTestToken(t, 42, string(model.RoleUser), time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	var gotUserID int
	var gotRole string
	AuthMiddleware(echoIdentity(&gotUserID, &gotRole)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 42, gotUserID)
	assert.Equal(t, string(model.RoleUser), gotRole)
}

func TestAdminMiddleware_DistinguishesForbiddenFromUnauthenticated(t *testing.T) {
	chain := AuthMiddleware(AdminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	// An authenticated regular user is refused with 403, not 401.
	userToken := signTestToken(t, 1, string(model.RoleUser), time.Now().Add(time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	var body common.AppError
	assert.NoError(t, jsonUnmarshalBody(rr, &body))
	assert.Equal(t, common.KindForbidden, body.Kind)

	// An admin passes.
	adminToken := signTestToken(t, 2, string(model.RoleAdmin), time.Now().Add(time.Hour))
	req = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rr = httptest.NewRecorder()
	chain.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	// No token at all is 401 from the authentication gate.
	req = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rr = httptest.NewRecorder()
	chain.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

// The role carried by a token is the role at issuance. A promotion or
// demotion after issuance does not change what the gate sees until a new
// token is obtained.
func TestAdminMiddleware_RoleIsSnapshottedAtIssuance(t *testing.T) {
	chain := AuthMiddleware(AdminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	// Token minted while the user was an admin keeps working even if the
	// database row now says otherwise; no lookup happens at verification.
	oldAdminToken := signTestToken(t, 3, string(model.RoleAdmin), time.Now().Add(time.Hour))
	req := httptest.NewRequest(http.MethodDelete, "/api/users/9", nil)
	req.Header.Set("Authorization", "Bearer "+oldAdminToken)
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
