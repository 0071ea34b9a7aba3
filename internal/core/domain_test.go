package core

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClaims(t *testing.T) {
	tests := []struct {
		name string
		got  Claims
		want Claims
	}{
		{
			name: "By ID",
			got:  AdminClaims("k1"),
			want: Claims{"role": "admin", "apiKey": "k1"},
		},
		{
			name: "By Email",
			got:  AdminEmailClaims("a@x.com", "k1"),
			want: Claims{"role": "admin", "email": "a@x.com", "apiKey": "k1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.got); diff != "" {
				t.Errorf("claims mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClaims_FreshPerCall(t *testing.T) {
	a := AdminClaims("k1")
	a["extra"] = true
	if _, ok := AdminClaims("k1")["extra"]; ok {
		t.Fatal("claims must not be shared between calls")
	}
}

func TestPrincipalReference_Value(t *testing.T) {
	if got := (PrincipalReference{Kind: ByID, ID: "u1"}).Value(); got != "u1" {
		t.Errorf("Value() = %q, want u1", got)
	}
	if got := (PrincipalReference{Kind: ByEmail, Email: "a@x.com"}).Value(); got != "a@x.com" {
		t.Errorf("Value() = %q, want a@x.com", got)
	}
	if ByEmail.String() != "email" || ByID.String() != "id" {
		t.Error("unexpected ReferenceKind names")
	}
}

func TestCorrelationID(t *testing.T) {
	if got := CorrelationID(context.Background()); got != "" {
		t.Errorf("CorrelationID() = %q, want empty", got)
	}
	ctx := WithCorrelationID(context.Background(), "abc")
	if got := CorrelationID(ctx); got != "abc" {
		t.Errorf("CorrelationID() = %q, want abc", got)
	}
}
