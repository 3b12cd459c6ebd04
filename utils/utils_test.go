package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRespondWithError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithError(w, http.StatusNotFound, "Member not found")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["error"] != "Member not found" {
		t.Fatalf("error = %q", body["error"])
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "member.one@gym.example.com"}
	invalid := []string{"", "plainaddress", "a@b", "a b@c.com"}

	for _, e := range valid {
		if !IsValidEmail(e) {
			t.Fatalf("%q should be valid", e)
		}
	}
	for _, e := range invalid {
		if IsValidEmail(e) {
			t.Fatalf("%q should be invalid", e)
		}
	}
}

func TestIsValidPhone(t *testing.T) {
	valid := []string{"+91 98765 43210", "9876543210", "020-1234567"}
	invalid := []string{"", "abc", "12"}

	for _, p := range valid {
		if !IsValidPhone(p) {
			t.Fatalf("%q should be valid", p)
		}
	}
	for _, p := range invalid {
		if IsValidPhone(p) {
			t.Fatalf("%q should be invalid", p)
		}
	}
}

func TestMissingFields(t *testing.T) {
	missing := MissingFields(map[string]string{"name": "x", "email": " ", "phone": ""})
	if len(missing) != 2 {
		t.Fatalf("expected 2 missing fields, got %v", missing)
	}
}

func TestGenerateRandomDigitString(t *testing.T) {
	s := GenerateRandomDigitString(6)
	if len(s) != 6 {
		t.Fatalf("length = %d, want 6", len(s))
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			t.Fatalf("non-digit %q in %q", r, s)
		}
	}
}
