package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MiniAdmin/pkg/kit"
)

const (
	maxBodyBytes = 1 << 20
	tokenTTL     = 12 * time.Hour

	loginLimitPerMin = 5
)

type Server struct {
	Log   *zap.Logger
	Creds *Credentials
	JWT   *TokenMaker
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	loginLimiter := kit.NewIPRateLimiter(loginLimitPerMin, 60)

	r.With(loginLimiter.Middleware).Post("/login", s.handleLogin)
	r.Get("/whoami", s.handleWhoAmI)

	return r
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	AccessToken string `json:"access_token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req loginReq
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		kit.WriteFail(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if req.Username == "" || req.Password == "" {
		kit.WriteFail(w, http.StatusBadRequest, "username and password are required")
		return
	}

	if err := s.Creds.Verify(req.Username, req.Password); err != nil {
		kit.WriteFail(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	tok, err := s.JWT.New(req.Username, "admin", tokenTTL)
	if err != nil {
		s.Log.Error("token issue", zap.Error(err))
		kit.WriteFail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	kit.WriteJSON(w, http.StatusOK, loginResp{AccessToken: tok})
}

func (s *Server) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	claims, ok := bearerClaims(r, s.JWT)
	if !ok {
		kit.WriteFail(w, http.StatusUnauthorized, "invalid token")
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"username": claims.Username,
		"role":     claims.Role,
	})
}

func bearerClaims(r *http.Request, jwt *TokenMaker) (Claims, bool) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return Claims{}, false
	}

	claims, err := jwt.Parse(strings.TrimPrefix(authz, "Bearer "))
	if err != nil {
		return Claims{}, false
	}
	return claims, true
}

// RequireAdmin gates mutating content routes when the operator opts in.
// The mock API historically ran wide open, so the default wiring leaves
// this middleware out.
func RequireAdmin(jwt *TokenMaker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := bearerClaims(r, jwt)
			if !ok || claims.Role != "admin" {
				kit.WriteFail(w, http.StatusUnauthorized, "admin token required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
