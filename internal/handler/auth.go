package handler

import (
	"log/slog"
	"net/http"

	"github.com/templui/mediafaves/internal/ctxkeys"
	"github.com/templui/mediafaves/internal/errs"
	"github.com/templui/mediafaves/internal/service"
	"github.com/templui/mediafaves/internal/validation"
)

type tokenResponse struct {
	Token string `json:"token"`
}

type authHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *authHandler {
	return &authHandler{authService: authService}
}

func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	creds, err := validation.ParseRegister(body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.authService.Register(r.Context(), creds.Email, creds.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

// Login answers bad credentials with 400, not 401, and with one message for
// both unknown email and wrong password.
func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	creds, err := validation.ParseLogin(body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.authService.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		if errs.KindOf(err) == errs.KindUnauthorized {
			slog.Info("login failed", "request_id", ctxkeys.RequestID(r.Context()))
			writeMessage(w, http.StatusBadRequest, errs.Message(err))
			return
		}
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *authHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	change, err := validation.ParsePasswordChange(body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = h.authService.ChangePassword(r.Context(), user.ID, change.CurrentPassword, change.NewPassword)
	if err != nil {
		if errs.KindOf(err) == errs.KindUnauthorized {
			writeMessage(w, http.StatusBadRequest, errs.Message(err))
			return
		}
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Password updated successfully")
}
