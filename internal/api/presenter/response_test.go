package presenter

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/darmiel/ctoken/internal/service"
)

func TestErr(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		want       map[string]any
	}{
		{
			name:       "Bad request",
			err:        &service.Error{Kind: service.KindBadRequest, Message: "userId and apiKey are required"},
			wantStatus: http.StatusBadRequest,
			want:       map[string]any{"error": "userId and apiKey are required"},
		},
		{
			name:       "Unauthorized",
			err:        &service.Error{Kind: service.KindUnauthorized, Message: "invalid api key"},
			wantStatus: http.StatusUnauthorized,
			want:       map[string]any{"error": "invalid api key"},
		},
		{
			name:       "Issuance failed",
			err:        &service.Error{Kind: service.KindIssuanceFailed, Message: "token generation failed", Wrapped: errors.New("boom")},
			wantStatus: http.StatusInternalServerError,
			want:       map[string]any{"error": "token generation failed", "message": "boom"},
		},
		{
			name:       "Unknown error",
			err:        errors.New("oops"),
			wantStatus: http.StatusInternalServerError,
			want:       map[string]any{"error": "internal server error", "message": "oops"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Err(rec, httptest.NewRequest(http.MethodPost, "/", nil), tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			var got map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Errorf("body = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("body[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}
