package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("rejects missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status was %d, want 401", rec.Code)
		}
	})

	t.Run("accepts valid token", func(t *testing.T) {
		token, err := GenerateJWT(7, "user")
		if err != nil {
			t.Fatalf("GenerateJWT returned error: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status was %d, want 200", rec.Code)
		}
	})
}

func TestIsAdmin(t *testing.T) {
	handler := IsAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	userToken, err := GenerateJWT(1, "user")
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}
	adminToken, err := GenerateJWT(2, "admin")
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("user role status was %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin role status was %d, want 200", rec.Code)
	}
}

func TestGetUserIDFromRequest(t *testing.T) {
	token, err := GenerateJWT(42, "user")
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	userID, err := GetUserIDFromRequest(req)
	if err != nil {
		t.Fatalf("GetUserIDFromRequest returned error: %v", err)
	}
	if userID != 42 {
		t.Fatalf("user ID was %d, want 42", userID)
	}
}

func TestIsValidEmail(t *testing.T) {
	if !IsValidEmail("user@example.com") {
		t.Fatal("valid email rejected")
	}
	if IsValidEmail("not-an-email") || IsValidEmail("user@") {
		t.Fatal("invalid email accepted")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if !CheckPasswordHash("hunter2hunter2", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPasswordHash("wrong-password", hash) {
		t.Fatal("wrong password accepted")
	}
}
