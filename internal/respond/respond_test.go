package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/siteoptz/siteoptz/internal/apperr"
)

func TestErrorUsesAppErrorCode(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, apperr.BadRequest("Invalid email format"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body Envelope
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success || body.Error != "Invalid email format" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestErrorHidesUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.New("database is locked"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "locked") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Email string `json:"email"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","extra":1}`))
	if err := DecodeJSON(req, &v); err != nil || v.Email != "a@b.co" {
		t.Fatalf("DecodeJSON = %v, %+v", err, v)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	if _, ok := apperr.As(DecodeJSON(req, &v)); !ok {
		t.Fatalf("expected app error for malformed body")
	}
}
