package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/focusflow/focusflow/internal/handler/dto"
)

func TestAuthHandler_RegisterAndLogin(t *testing.T) {
	env := newTestEnv()

	rec := doJSON(t, env, http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"alice@example.com","password":"correct-horse"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status = %d, body %s", rec.Code, rec.Body.String())
	}

	var user dto.UserResponse
	if err := json.NewDecoder(rec.Body).Decode(&user); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q", user.Email)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response leaks credential material")
	}

	rec = doJSON(t, env, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"alice@example.com","password":"correct-horse"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body %s", rec.Code, rec.Body.String())
	}

	var token dto.TokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&token); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if token.Token == "" {
		t.Error("login should return a token")
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	env := newTestEnv()

	body := `{"email":"alice@example.com","password":"correct-horse"}`
	doJSON(t, env, http.MethodPost, "/api/v1/auth/register", "", body)

	rec := doJSON(t, env, http.MethodPost, "/api/v1/auth/register", "", body)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "EMAIL_TAKEN") {
		t.Errorf("body = %s, want EMAIL_TAKEN", rec.Body.String())
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	env := newTestEnv()

	tests := []struct {
		name string
		body string
		code string
	}{
		{"bad email", `{"email":"nope","password":"correct-horse"}`, "INVALID_EMAIL"},
		{"short password", `{"email":"bob@example.com","password":"short"}`, "PASSWORD_TOO_SHORT"},
	}

	for _, tt := range tests {
		rec := doJSON(t, env, http.MethodPost, "/api/v1/auth/register", "", tt.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), tt.code) {
			t.Errorf("%s: body = %s, want %s", tt.name, rec.Body.String(), tt.code)
		}
	}
}

func TestAuthHandler_Login_Generic401(t *testing.T) {
	env := newTestEnv()

	doJSON(t, env, http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"alice@example.com","password":"correct-horse"}`)

	wrongPassword := doJSON(t, env, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"alice@example.com","password":"wrong-password"}`)
	unknownEmail := doJSON(t, env, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"nobody@example.com","password":"correct-horse"}`)

	if wrongPassword.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d/%d, want 401/401", wrongPassword.Code, unknownEmail.Code)
	}
	// Identical bodies keep account existence private.
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Errorf("failure bodies differ: %s vs %s", wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}
