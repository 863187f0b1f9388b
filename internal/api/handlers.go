package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"lifeos.app/life-audit/internal/auth"
	"lifeos.app/life-audit/internal/core"
)

type APIHandler struct {
	auditService *core.AuditService
	jwtManager   *auth.JWTManager
}

func NewAPIHandler(as *core.AuditService, jm *auth.JWTManager) *APIHandler {
	return &APIHandler{auditService: as, jwtManager: jm}
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		externalUserID, err := h.jwtManager.Validate(tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, err := h.auditService.GetUserByExternalID(externalUserID)
		if err != nil {
			log.Printf("Error in JWTAuthMiddleware for user %s: %v", externalUserID, err)
			writeError(w, http.StatusInternalServerError, "Failed to process user identity")
			return
		}

		if user == nil {
			writeError(w, http.StatusUnauthorized, "User not found")
			return
		}

		ctx := context.WithValue(r.Context(), "userID", user.ID)
		ctx = context.WithValue(ctx, "externalUserID", user.ExternalUserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type SignupRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.UserID == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "User ID and password are required")
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password for user %s: %v", req.UserID, err)
		writeError(w, http.StatusInternalServerError, "Failed to process password")
		return
	}

	user, err := h.auditService.CreateUser(req.UserID, hashedPassword)
	if err != nil {
		log.Printf("Error creating user %s: %v", req.UserID, err)
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

type LoginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.UserID == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "User ID and password are required")
		return
	}

	user, err := h.auditService.GetUserByExternalID(req.UserID)
	if err != nil {
		log.Printf("Error getting user %s: %v", req.UserID, err)
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.jwtManager.Generate(req.UserID)
	if err != nil {
		log.Printf("Error generating JWT for user %s: %v", req.UserID, err)
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *APIHandler) GenerateAuditHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var surveyInput map[string]any
	if err := json.NewDecoder(r.Body).Decode(&surveyInput); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.auditService.CreateAudit(r.Context(), userID, surveyInput)
	if err != nil {
		log.Printf("Error generating audit for user %d: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   err.Error(),
			Details: "Check if GEMINI_API_KEY is set in the environment.",
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *APIHandler) GenerateRoadmapHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	roadmap, err := h.auditService.CreateRoadmap(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNoAuditFound) {
			writeError(w, http.StatusNotFound, "No audit found. Please complete an audit first.")
			return
		}
		log.Printf("Error generating roadmap for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, roadmap)
}

func (h *APIHandler) MyAuditsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	audits, err := h.auditService.AuditHistory(userID)
	if err != nil {
		log.Printf("Error listing audits for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}
	writeJSON(w, http.StatusOK, audits)
}
