package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/soruforum/soruforum/internal/auth"
	"github.com/soruforum/soruforum/internal/forms"
	"github.com/soruforum/soruforum/internal/mail"
	"github.com/soruforum/soruforum/internal/metrics"
	"github.com/soruforum/soruforum/internal/middleware"
	"github.com/soruforum/soruforum/internal/models"
	"github.com/soruforum/soruforum/internal/repo"
)

const (
	msgResetMailSent    = "Şifre sıfırlama maili gönderilmiştir."
	msgTokenInvalid     = "Geçerli değil! Şifre yenileme süreniz dolmuş da olabilir!"
	msgPasswordChanged  = "Şifreniz yenilenmiştir. Giriş yapabilirsiniz."
	resetMailSendBudget = 30 * time.Second
)

// ==========================
// Reset Handler
// ==========================
type ResetHandler struct {
	Users   *repo.UserRepo
	Signer  *auth.TokenSigner
	Mailer  mail.Mailer
	BaseURL string
}

type resetRequestData struct {
	Form   forms.ResetRequestForm
	Errors forms.Errors
}

type resetPasswordData struct {
	Errors forms.Errors
	Token  string
}

// ==========================
// Request reset mail
// ==========================
func (h *ResetHandler) RequestForm(w http.ResponseWriter, r *http.Request) {
	if middleware.CurrentUser(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	render(w, r, http.StatusOK, "reset_request.html", "Şifre Yenile", resetRequestData{})
}

func (h *ResetHandler) Request(w http.ResponseWriter, r *http.Request) {
	if middleware.CurrentUser(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		ServerError(w, r)
		return
	}

	form := forms.ResetRequestForm{Email: strings.TrimSpace(r.FormValue("email"))}
	if errs := form.Validate(); !errs.OK() {
		render(w, r, http.StatusOK, "reset_request.html", "Şifre Yenile", resetRequestData{Form: form, Errors: errs})
		return
	}

	user, err := h.Users.GetByEmail(r.Context(), form.Email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		ServerError(w, r)
		return
	}
	if err == nil {
		h.sendResetMail(user)
	}

	// The response is identical whether or not the address is registered,
	// so the form cannot be used to probe for accounts.
	SetFlash(w, "info", msgResetMailSent)
	http.Redirect(w, r, "/giris", http.StatusFound)
}

// sendResetMail issues a token and dispatches the mail on a goroutine.
// Delivery failures are logged, never shown to the requester.
func (h *ResetHandler) sendResetMail(user *models.User) {
	token, err := h.Signer.IssueReset(user.ID)
	if err != nil {
		slog.Error("issue reset token", "user_id", user.ID, "err", err)
		return
	}
	link := h.BaseURL + "/sifre_yenileme/" + token

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), resetMailSendBudget)
		defer cancel()
		if err := h.Mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
			slog.Error("send reset mail", "user_id", user.ID, "err", err)
			return
		}
		metrics.ResetMailsSentTotal.Inc()
	}()
}

// ==========================
// Consume token
// ==========================

// resolveToken verifies the token and resolves it to an existing user.
// On any failure it flashes and redirects to the request page.
func (h *ResetHandler) resolveToken(w http.ResponseWriter, r *http.Request) *models.User {
	token := chi.URLParam(r, "token")
	userID, ok := h.Signer.VerifyReset(token)
	if ok {
		user, err := h.Users.GetByID(r.Context(), userID)
		if err == nil {
			return user
		}
		if !errors.Is(err, repo.ErrNotFound) {
			ServerError(w, r)
			return nil
		}
	}
	SetFlash(w, "danger", msgTokenInvalid)
	http.Redirect(w, r, "/sifre_yenileme", http.StatusFound)
	return nil
}

func (h *ResetHandler) ConfirmForm(w http.ResponseWriter, r *http.Request) {
	if middleware.CurrentUser(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if h.resolveToken(w, r) == nil {
		return
	}
	render(w, r, http.StatusOK, "reset_password.html", "Şifre Yenile", resetPasswordData{
		Token: chi.URLParam(r, "token"),
	})
}

func (h *ResetHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if middleware.CurrentUser(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	user := h.resolveToken(w, r)
	if user == nil {
		return
	}
	if err := r.ParseForm(); err != nil {
		ServerError(w, r)
		return
	}

	form := forms.ResetPasswordForm{
		Password: r.FormValue("password"),
		Confirm:  r.FormValue("confirm_password"),
	}
	if errs := form.Validate(); !errs.OK() {
		render(w, r, http.StatusOK, "reset_password.html", "Şifre Yenile", resetPasswordData{
			Errors: errs, Token: chi.URLParam(r, "token"),
		})
		return
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		ServerError(w, r)
		return
	}
	if err := h.Users.UpdatePassword(r.Context(), user.ID, hash); err != nil {
		ServerError(w, r)
		return
	}

	SetFlash(w, "success", msgPasswordChanged)
	http.Redirect(w, r, "/giris", http.StatusFound)
}
