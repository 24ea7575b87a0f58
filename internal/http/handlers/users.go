package handlers

import (
	"net/http"
	"strings"
	"time"

	"restro-pos-service/internal/auth"
	"restro-pos-service/internal/middleware"
	"restro-pos-service/pkg/response"
)

type userRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// Password hashes never leave the database through this surface.
func (h *Handler) UsersList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.DB.Query(ctx, `
		select id, username, display_name, role, created_at from users order by username
	`)
	if err != nil {
		writeDBError(w, err, "user_list", false)
		return
	}
	defer rows.Close()

	list := make([]map[string]any, 0)
	for rows.Next() {
		var (
			id          int64
			username    string
			displayName string
			role        string
			createdAt   time.Time
		)
		if err := rows.Scan(&id, &username, &displayName, &role, &createdAt); err != nil {
			writeDBError(w, err, "user_list", false)
			return
		}
		list = append(list, map[string]any{
			"id":          id,
			"username":    username,
			"displayName": displayName,
			"role":        role,
			"createdAt":   createdAt,
		})
	}

	response.Success(w, list)
}

func (h *Handler) UsersCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body userRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	username := strings.TrimSpace(body.Username)
	if username == "" || body.Password == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Username and password are required")
		return
	}
	if !auth.ValidRole(body.Role) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Role must be one of admin, chef, waiter, order")
		return
	}

	hashed, err := auth.HashPassword(body.Password)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "USER_CREATE_ERROR", "Failed to hash password")
		return
	}

	displayName := strings.TrimSpace(body.DisplayName)
	if displayName == "" {
		displayName = username
	}

	var id int64
	err = h.DB.QueryRow(ctx, `
		insert into users (username, password_hash, display_name, role)
		values ($1, $2, $3, $4)
		returning id
	`, username, hashed, displayName, body.Role).Scan(&id)
	if err != nil {
		writeDBError(w, err, "user_create", false)
		return
	}

	response.Created(w, map[string]any{
		"id":          id,
		"username":    username,
		"displayName": displayName,
		"role":        body.Role,
	}, "User created successfully")
}

func (h *Handler) UsersUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid user id")
		return
	}

	var body userRequest
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	username := strings.TrimSpace(body.Username)
	if username == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Username is required")
		return
	}
	if !auth.ValidRole(body.Role) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Role must be one of admin, chef, waiter, order")
		return
	}

	displayName := strings.TrimSpace(body.DisplayName)
	if displayName == "" {
		displayName = username
	}

	// Empty password keeps the current one.
	var tagRows int64
	if body.Password != "" {
		hashed, err := auth.HashPassword(body.Password)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "USER_UPDATE_ERROR", "Failed to hash password")
			return
		}
		tag, err := h.DB.Exec(ctx, `
			update users
			set username = $1, password_hash = $2, display_name = $3, role = $4, updated_at = now()
			where id = $5
		`, username, hashed, displayName, body.Role, id)
		if err != nil {
			writeDBError(w, err, "user_update", false)
			return
		}
		tagRows = tag.RowsAffected()
	} else {
		tag, err := h.DB.Exec(ctx, `
			update users
			set username = $1, display_name = $2, role = $3, updated_at = now()
			where id = $4
		`, username, displayName, body.Role, id)
		if err != nil {
			writeDBError(w, err, "user_update", false)
			return
		}
		tagRows = tag.RowsAffected()
	}

	if tagRows == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}

	response.Message(w, "User updated successfully")
}

func (h *Handler) UsersDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid user id")
		return
	}

	if authCtx, ok := middleware.GetAuthContext(ctx); ok && authCtx.UserID == id {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "You cannot delete your own account")
		return
	}

	tag, err := h.DB.Exec(ctx, `delete from users where id = $1`, id)
	if err != nil {
		writeDBError(w, err, "user_delete", true)
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}

	response.Message(w, "User deleted successfully")
}
