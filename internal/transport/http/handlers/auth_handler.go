package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/vedran77/fitlog/internal/config"
	"github.com/vedran77/fitlog/internal/service"
	"github.com/vedran77/fitlog/internal/transport/http/middleware"
	"github.com/vedran77/fitlog/pkg/validator"
)

type AuthHandler struct {
	authService    *service.AuthService
	passwordPolicy config.PasswordPolicy
}

func NewAuthHandler(authService *service.AuthService, passwordPolicy config.PasswordPolicy) *AuthHandler {
	return &AuthHandler{authService: authService, passwordPolicy: passwordPolicy}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateRegister(input.Username, input.DisplayName, input.Password, h.passwordPolicy); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	_, err := h.authService.Register(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			errs := make(validator.ValidationErrors)
			errs.Add("username", "Username is already taken")
			writeValidationErrors(w, errs)
		} else {
			log.Printf("ERROR register: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateLogin(input.Username, input.Password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	token, err := h.authService.Login(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCreds) {
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
		} else {
			log.Printf("ERROR login: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	// The response body is the bare token string.
	writeJSON(w, http.StatusOK, token)
}

func (h *AuthHandler) UserInfo(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	writeJSON(w, http.StatusOK, h.authService.UserInfo(principal))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func writeValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error": map[string]any{
			"code":   "VALIDATION_ERROR",
			"fields": errs,
		},
	})
}
