package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/repsboard/payroll-backend/internal/domain/auth"
	"github.com/repsboard/payroll-backend/internal/handler/http/response"
)

type AuthHandler interface {
	AdminLogin(w http.ResponseWriter, r *http.Request)
	RepLogin(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{authService: authService}
}

// AdminLogin implements AuthHandler.
func (a *AuthHandlerImpl) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.AdminLoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AdminLogin decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tokenResponse, err := a.authService.AdminLogin(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logged in successfully", tokenResponse)
}

// RepLogin implements AuthHandler.
func (a *AuthHandlerImpl) RepLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.RepLoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RepLogin decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tokenResponse, err := a.authService.RepLogin(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logged in successfully", tokenResponse)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.authService.Logout(r.Context(), jwtauth.TokenFromHeader(r)); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logged out successfully", nil)
}

// Me implements AuthHandler.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	me, err := a.authService.Me(r.Context(), p)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, me)
}
