package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/soruforum/soruforum/internal/auth"
	"github.com/soruforum/soruforum/internal/forms"
	"github.com/soruforum/soruforum/internal/metrics"
	"github.com/soruforum/soruforum/internal/middleware"
	"github.com/soruforum/soruforum/internal/repo"
)

const (
	msgInvalidCredentials = "Kullanıcı adı veya şifre yanlış."
	msgRegistered         = "Hesabınız oluşturuldu. Giriş yapabilirsiniz."
	msgUsernameTaken      = "Bu kullanıcı adı zaten kullanılıyor. Lütfen başka bir kullanıcı adı alın."
	msgEmailTaken         = "Bu e-mail zaten kullanılıyor. Lütfen başka bir email kullanın."
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users       *repo.UserRepo
	Signer      *auth.TokenSigner
	SessionTTL  time.Duration
	RememberTTL time.Duration
	// SecureCookies marks session cookies Secure; enable when serving HTTPS.
	SecureCookies bool
}

type loginData struct {
	Form   forms.LoginForm
	Errors forms.Errors
	Error  string
	Next   string
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.CurrentUser(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	render(w, r, http.StatusOK, "login.html", "Giriş Yap", loginData{
		Next: r.URL.Query().Get("next"),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if middleware.CurrentUser(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		ServerError(w, r)
		return
	}

	form := forms.LoginForm{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
		Remember: r.FormValue("remember") != "",
	}
	next := r.FormValue("next")

	if errs := form.Validate(); !errs.OK() {
		render(w, r, http.StatusOK, "login.html", "Giriş Yap", loginData{Form: form, Errors: errs, Next: next})
		return
	}

	user, err := h.Users.GetByEmail(r.Context(), form.Email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		ServerError(w, r)
		return
	}
	// The message never distinguishes an unknown email from a wrong password.
	if err != nil || !auth.CheckPassword(user.PasswordHash, form.Password) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		render(w, r, http.StatusOK, "login.html", "Giriş Yap", loginData{
			Form: form, Error: msgInvalidCredentials, Next: next,
		})
		return
	}

	ttl := h.SessionTTL
	if form.Remember {
		ttl = h.RememberTTL
	}
	token, err := h.Signer.IssueSession(user.ID, ttl)
	if err != nil {
		ServerError(w, r)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/"
	}
	http.Redirect(w, r, next, http.StatusFound)
}

// ==========================
// Register
// ==========================
type registerData struct {
	Form   forms.RegisterForm
	Errors forms.Errors
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if middleware.CurrentUser(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	render(w, r, http.StatusOK, "register.html", "Kayıt Ol", registerData{})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if middleware.CurrentUser(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		ServerError(w, r)
		return
	}

	form := forms.RegisterForm{
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
		Confirm:  r.FormValue("confirm_password"),
	}

	errs := form.Validate()
	if errs.OK() {
		if taken, err := h.usernameTaken(r, form.Username); err != nil {
			ServerError(w, r)
			return
		} else if taken {
			errs["username"] = msgUsernameTaken
		}
		if taken, err := h.emailTaken(r, form.Email); err != nil {
			ServerError(w, r)
			return
		} else if taken {
			errs["email"] = msgEmailTaken
		}
	}
	if !errs.OK() {
		render(w, r, http.StatusOK, "register.html", "Kayıt Ol", registerData{Form: form, Errors: errs})
		return
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		ServerError(w, r)
		return
	}

	if _, err := h.Users.Create(r.Context(), form.Username, form.Email, hash); err != nil {
		// Concurrent registration can still hit the unique index.
		if repo.IsUniqueViolation(err) {
			if repo.UniqueViolationField(err) == "email" {
				errs["email"] = msgEmailTaken
			} else {
				errs["username"] = msgUsernameTaken
			}
			render(w, r, http.StatusOK, "register.html", "Kayıt Ol", registerData{Form: form, Errors: errs})
			return
		}
		ServerError(w, r)
		return
	}

	SetFlash(w, "success", msgRegistered)
	http.Redirect(w, r, "/giris", http.StatusFound)
}

func (h *AuthHandler) usernameTaken(r *http.Request, username string) (bool, error) {
	_, err := h.Users.GetByUsername(r.Context(), username)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (h *AuthHandler) emailTaken(r *http.Request, email string) (bool, error) {
	_, err := h.Users.GetByEmail(r.Context(), email)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ==========================
// Logout
// ==========================

// Logout clears the session cookie unconditionally; logging out while
// anonymous is a no-op.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}
