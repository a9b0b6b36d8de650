package middleware

import (
	"testing"

	"thinkdrills_backend/internal/model"
	"thinkdrills_backend/internal/util"

	"github.com/stretchr/testify/assert"
)

func studentClaims() *util.Claims {
	return &util.Claims{UserID: 1, Role: model.RoleStudent, Identifier: "kid1"}
}

func parentClaims() *util.Claims {
	return &util.Claims{UserID: 2, Role: model.RoleParent, Identifier: "p@example.com"}
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		claims *util.Claims
		want   Decision
	}{
		{
			name:   "public path without session",
			path:   "/student/login",
			claims: nil,
			want:   Decision{Kind: DecisionAllow},
		},
		{
			name:   "public error page with session",
			path:   "/error",
			claims: studentClaims(),
			want:   Decision{Kind: DecisionAllow},
		},
		{
			name:   "student on own login page bounces to dashboard",
			path:   "/student/login",
			claims: studentClaims(),
			want:   Decision{Kind: DecisionRedirectDashboard, Target: "/student/dashboard"},
		},
		{
			name:   "parent on own login page bounces to dashboard",
			path:   "/parent/login",
			claims: parentClaims(),
			want:   Decision{Kind: DecisionRedirectDashboard, Target: "/parent/dashboard"},
		},
		{
			name:   "parent on student login page is allowed through",
			path:   "/student/login",
			claims: parentClaims(),
			want:   Decision{Kind: DecisionAllow},
		},
		{
			name:   "student area without session redirects to student login with callback",
			path:   "/student/dashboard",
			claims: nil,
			want:   Decision{Kind: DecisionRedirectLogin, Target: "/student/login?callbackUrl=/student/dashboard"},
		},
		{
			name:   "parent area without session redirects to parent login with callback",
			path:   "/parent/reports",
			claims: nil,
			want:   Decision{Kind: DecisionRedirectLogin, Target: "/parent/login?callbackUrl=/parent/reports"},
		},
		{
			name:   "student in student area",
			path:   "/student/dashboard",
			claims: studentClaims(),
			want:   Decision{Kind: DecisionAllow},
		},
		{
			name:   "parent in parent area",
			path:   "/parent/dashboard",
			claims: parentClaims(),
			want:   Decision{Kind: DecisionAllow},
		},
		{
			name:   "parent in student area is sent home",
			path:   "/student/dashboard",
			claims: parentClaims(),
			want:   Decision{Kind: DecisionRedirectHome, Target: "/"},
		},
		{
			name:   "parent may review a student worksheet",
			path:   "/student/worksheet/42",
			claims: parentClaims(),
			want:   Decision{Kind: DecisionAllow},
		},
		{
			name:   "student in parent area is sent home",
			path:   "/parent/dashboard",
			claims: studentClaims(),
			want:   Decision{Kind: DecisionRedirectHome, Target: "/"},
		},
		{
			name:   "unrelated path is outside the gate",
			path:   "/about",
			claims: nil,
			want:   Decision{Kind: DecisionAllow},
		},
		{
			name:   "signup is public",
			path:   "/parent/signup",
			claims: nil,
			want:   Decision{Kind: DecisionAllow},
		},
		{
			name:   "forgot password is public",
			path:   "/parent/forgot-password",
			claims: nil,
			want:   Decision{Kind: DecisionAllow},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authorize(tt.path, tt.claims))
		})
	}
}

func TestAuthorizeIsDeterministic(t *testing.T) {
	first := Authorize("/student/worksheet/7", nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Authorize("/student/worksheet/7", nil))
	}
}
