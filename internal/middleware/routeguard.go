package middleware

import (
	"net/http"
	"strings"
	"thinkdrills_backend/internal/config"
	"thinkdrills_backend/internal/model"
	"thinkdrills_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// DecisionKind is the outcome of the route authorization table.
type DecisionKind int

const (
	DecisionAllow DecisionKind = iota
	DecisionRedirectLogin
	DecisionRedirectDashboard
	DecisionRedirectHome
)

// Decision is what Authorize yields for a (path, claims) pair. Target is the
// redirect location and is empty for Allow.
type Decision struct {
	Kind   DecisionKind
	Target string
}

const (
	studentPrefix = "/student/"
	parentPrefix  = "/parent/"
	// Parents get read access to their students' finished worksheets.
	worksheetReviewPrefix = "/student/worksheet/"

	studentLogin     = "/student/login"
	parentLogin      = "/parent/login"
	studentDashboard = "/student/dashboard"
	parentDashboard  = "/parent/dashboard"
)

// publicPaths never require authentication.
var publicPaths = map[string]bool{
	studentLogin:              true,
	parentLogin:               true,
	"/parent/signup":          true,
	"/parent/forgot-password": true,
	"/error":                  true,
}

func loginRedirect(login, callbackURL string) Decision {
	return Decision{Kind: DecisionRedirectLogin, Target: login + "?callbackUrl=" + callbackURL}
}

// Authorize classifies the request path and decides what to do with the
// caller before any handler runs. It is a pure function of its inputs: no
// state, same decision for the same (path, claims) every time. A nil claims
// means unauthenticated.
func Authorize(path string, claims *util.Claims) Decision {
	// Public pages. Already-authenticated users bounce off their own
	// login page to their dashboard; everyone else passes.
	if publicPaths[path] {
		if claims != nil {
			if claims.Role == model.RoleStudent && path == studentLogin {
				return Decision{Kind: DecisionRedirectDashboard, Target: studentDashboard}
			}
			if claims.Role == model.RoleParent && path == parentLogin {
				return Decision{Kind: DecisionRedirectDashboard, Target: parentDashboard}
			}
		}
		return Decision{Kind: DecisionAllow}
	}

	if strings.HasPrefix(path, studentPrefix) {
		if claims == nil {
			return loginRedirect(studentLogin, path)
		}
		if claims.Role != model.RoleStudent && !strings.HasPrefix(path, worksheetReviewPrefix) {
			return Decision{Kind: DecisionRedirectHome, Target: "/"}
		}
		return Decision{Kind: DecisionAllow}
	}

	if strings.HasPrefix(path, parentPrefix) {
		if claims == nil {
			return loginRedirect(parentLogin, path)
		}
		if claims.Role != model.RoleParent {
			return Decision{Kind: DecisionRedirectHome, Target: "/"}
		}
		return Decision{Kind: DecisionAllow}
	}

	// Everything else is outside this gate's jurisdiction.
	return Decision{Kind: DecisionAllow}
}

// RouteGuard applies Authorize to every request. Redirect decisions become
// 302s; Allow falls through to the matched handler.
func RouteGuard(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var claims *util.Claims
		if tokenString := extractToken(c); tokenString != "" {
			if parsed, err := util.ParseJWT(tokenString, cfg.JWT.Secret); err == nil {
				claims = parsed
			}
		}

		decision := Authorize(c.Request.URL.Path, claims)
		if decision.Kind == DecisionAllow {
			c.Next()
			return
		}

		c.Redirect(http.StatusFound, decision.Target)
		c.Abort()
	}
}
