package main

import (
	"errors"
	"net/http"

	"github.com/humanosaude/portal/internal/auth"
	"github.com/humanosaude/portal/internal/response"
	"github.com/humanosaude/portal/internal/store"
	"github.com/humanosaude/portal/internal/validation"
)

const msgBadCredentials = "E-mail ou senha inválidos"

type loginResponse struct {
	Success  bool            `json:"success"`
	Corretor *store.Corretor `json:"corretor"`
}

// @Summary		Broker login
// @Description	Checks the broker password and sets the corretor_token session cookie.
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Param			body	body		object{email:string,senha:string}	true	"Credentials"
// @Success		200		{object}	loginResponse
// @Failure		400		{object}	response.ErrorResponse	"Invalid payload"
// @Failure		401		{object}	response.ErrorResponse	"Bad credentials"
// @Failure		500		{object}	response.ErrorResponse	"Sessions not configured"
// @Router			/auth/corretor/login [post]
func (app *application) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email" validate:"required,email"`
		Senha string `json:"senha" validate:"required"`
	}
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := validation.Struct(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, validation.FirstError(err))
		return
	}

	if app.tokens == nil {
		writeJSONError(w, http.StatusInternalServerError, "JWT_SECRET não configurado")
		return
	}

	ctx := r.Context()
	corretor, err := app.store.Corretores.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSONError(w, http.StatusUnauthorized, msgBadCredentials)
			return
		}
		app.serverError(w, r, "Erro ao autenticar", err)
		return
	}
	if !corretor.Ativo {
		writeJSONError(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}
	if err := auth.CheckPassword(corretor.SenhaHash, input.Senha); err != nil {
		writeJSONError(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}

	token, expires, err := app.tokens.Issue(corretor.ID, corretor.Nome, corretor.Role)
	if err != nil {
		app.serverError(w, r, "Erro ao criar sessão", err)
		return
	}

	if err := app.store.Corretores.TouchLastLogin(ctx, corretor.ID); err != nil {
		app.logger.Warn(component, "failed to record login for %s: %v", corretor.ID, err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CorretorCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(app.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   app.config.env == "production",
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, &loginResponse{Success: true, Corretor: corretor})
}

// @Summary		Broker logout
// @Description	Clears the corretor_token cookie. Always succeeds.
// @Tags			Auth
// @Produce		json
// @Success		200	{object}	response.SuccessResponse
// @Router			/auth/corretor/logout [post]
func (app *application) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CorretorCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   app.config.env == "production",
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, &response.SuccessResponse{Success: true, Message: "Logout realizado com sucesso"})
}
