package httperr

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindUserInput, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := tt.kind.Status(); got != tt.want {
			t.Errorf("Status(%v) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestWrite_TypedError(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, zap.NewNop(), Forbidden("you cannot invite yourself"))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Code != "forbidden" {
		t.Errorf("code = %q, want %q", body.Error.Code, "forbidden")
	}
	if body.Error.Message != "you cannot invite yourself" {
		t.Errorf("message = %q", body.Error.Message)
	}
}

func TestWrite_InternalHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, zap.NewNop(), errors.New("mongo: connection reset"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Message != "something went wrong" {
		t.Errorf("message leaked internal detail: %q", body.Error.Message)
	}
}

func TestWrite_WrappedTypedError(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := &wrapErr{inner: NotFound("invite not found")}
	Write(rec, zap.NewNop(), wrapped)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

type wrapErr struct{ inner error }

func (w *wrapErr) Error() string { return "wrapped: " + w.inner.Error() }
func (w *wrapErr) Unwrap() error { return w.inner }
