package handlers

import (
	"net/http"
	"strings"
	"time"

	"restro-pos-service/internal/auth"
	"restro-pos-service/pkg/response"

	"github.com/jackc/pgx/v5"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body loginRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	username := strings.TrimSpace(body.Username)
	if username == "" || body.Password == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Username and password are required")
		return
	}

	var (
		userID       int64
		passwordHash string
		displayName  string
		role         string
	)
	err := h.DB.QueryRow(ctx, `
		select id, password_hash, display_name, role from users
		where username = $1
	`, username).Scan(&userID, &passwordHash, &displayName, &role)
	if err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
			return
		}
		writeDBError(w, err, "login", false)
		return
	}

	if !auth.CheckPassword(passwordHash, body.Password) {
		response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
		return
	}

	expiry := time.Duration(h.Config.JWTExpirySeconds) * time.Second
	token, err := auth.IssueAccessToken(userID, username, auth.UserRole(role), h.Config.JWTSecret, expiry)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "LOGIN_ERROR", "Failed to issue token")
		return
	}

	response.Success(w, map[string]any{
		"token": token,
		"user": map[string]any{
			"id":          userID,
			"username":    username,
			"displayName": displayName,
			"role":        role,
		},
	})
}
