package api

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.loginLimiter.allow(clientIP(r)) {
		respondJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many login attempts, try again later"})
		return
	}

	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}

	if !s.checkAdminCredentials(strings.TrimSpace(in.Username), in.Password) {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	token, err := s.signToken()
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to sign token"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  map[string]string{"username": s.adminUsername, "role": "admin"},
	})
}

// checkAdminCredentials compares against the configured admin pair. A bcrypt
// hash is preferred when configured; the plaintext path compares digests so
// timing does not leak length.
func (s *Server) checkAdminCredentials(username, password string) bool {
	userDigest := sha256.Sum256([]byte(username))
	wantUserDigest := sha256.Sum256([]byte(s.adminUsername))
	userOK := subtle.ConstantTimeCompare(userDigest[:], wantUserDigest[:]) == 1

	if s.adminPasswordHash != "" {
		return userOK && bcrypt.CompareHashAndPassword([]byte(s.adminPasswordHash), []byte(password)) == nil
	}

	passDigest := sha256.Sum256([]byte(password))
	wantPassDigest := sha256.Sum256([]byte(s.adminPassword))
	return userOK && subtle.ConstantTimeCompare(passDigest[:], wantPassDigest[:]) == 1
}

func (s *Server) signToken() (string, error) {
	claims := jwt.MapClaims{
		"sub": s.adminUsername,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
