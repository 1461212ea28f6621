package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"taskbook/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *Handler {
	return NewHandler(newTestManager(), config.LoginConfig{APIKey: "AIzaSyExampleKey123", ProjectID: "taskbook"}, false)
}

func postVerify(h *Handler, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/verify_token", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	h.VerifyToken(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	return nil
}

func TestVerifyTokenSuccessSetsCookie(t *testing.T) {
	h := newTestHandler()

	rr := postVerify(h, "application/json", `{"idToken":"valid:U1"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "/", body["redirect"])

	c := sessionCookie(rr)
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)

	sub, err := h.Manager.Require(context.Background(), c.Value)
	require.NoError(t, err)
	assert.Equal(t, "U1", sub)
}

func TestVerifyTokenBadRequests(t *testing.T) {
	h := newTestHandler()

	tests := []struct {
		name        string
		contentType string
		body        string
		wantError   string
	}{
		{"form post", "application/x-www-form-urlencoded", "idToken=valid:U1", "Missing JSON data"},
		{"no content type", "", `{"idToken":"valid:U1"}`, "Missing JSON data"},
		{"missing token", "application/json", `{}`, "Missing ID token"},
		{"broken json", "application/json; charset=utf-8", `{"idToken":`, "Invalid JSON body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postVerify(h, tt.contentType, tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			body := decodeBody(t, rr)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantError, body["error"])
			assert.Nil(t, sessionCookie(rr))
		})
	}
}

func TestVerifyTokenRejected(t *testing.T) {
	h := newTestHandler()

	rr := postVerify(h, "application/json", `{"idToken":"forged"}`)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
	assert.Nil(t, sessionCookie(rr))
}

func TestLoginPage(t *testing.T) {
	h := newTestHandler()

	rr := httptest.NewRecorder()
	h.LoginPage(rr, httptest.NewRequest(http.MethodGet, "/login", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	idp, ok := body["identity_provider"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "taskbook", idp["projectId"])
}

func TestLoginPageRedirectsWhenSignedIn(t *testing.T) {
	h := newTestHandler()
	value, _, err := h.Manager.Begin(context.Background(), "valid:U1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: value})
	rr := httptest.NewRecorder()
	h.LoginPage(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
}

func TestLogoutEndsSession(t *testing.T) {
	h := newTestHandler()
	value, _, err := h.Manager.Begin(context.Background(), "valid:U1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: value})
	rr := httptest.NewRecorder()
	h.Logout(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	c := sessionCookie(rr)
	require.NotNil(t, c)
	assert.Less(t, c.MaxAge, 0)

	_, err = h.Manager.Require(context.Background(), value)
	assert.Error(t, err)

	// Logging out again without a cookie still redirects.
	rr = httptest.NewRecorder()
	h.Logout(rr, httptest.NewRequest(http.MethodGet, "/logout", nil))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "AIzaSyExam...", maskKey("AIzaSyExampleKey123"))
	assert.Equal(t, "...", maskKey("short"))
	assert.Equal(t, "", maskKey(""))
}
