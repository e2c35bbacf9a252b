package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/soruforum/soruforum/internal/avatar"
	"github.com/soruforum/soruforum/internal/forms"
	"github.com/soruforum/soruforum/internal/middleware"
	"github.com/soruforum/soruforum/internal/repo"
)

const (
	msgProfileUpdated = "Hesap bilgileriniz güncellendi."
	msgBadAvatar      = "Profil resmi jpg veya png olmalıdır."
)

// ==========================
// Profile Handler
// ==========================

// ProfileHandler edits the acting user's own account. The target is always
// the session user; no other account can be reached through these pages.
type ProfileHandler struct {
	Users   *repo.UserRepo
	Avatars *avatar.Store
}

type profileData struct {
	Form   forms.UpdateProfileForm
	Errors forms.Errors
}

func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	render(w, r, http.StatusOK, "profile.html", "Profil", profileData{
		Form: forms.UpdateProfileForm{Username: user.Username, Email: user.Email},
	})
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	if err := r.ParseMultipartForm(middleware.DefaultMaxBodyBytes); err != nil {
		ServerError(w, r)
		return
	}

	form := forms.UpdateProfileForm{
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
	}

	errs := form.Validate()
	if errs.OK() {
		// Compare against the current value first so an unchanged field
		// never collides with the user's own row.
		if form.Username != user.Username {
			if taken, err := h.usernameTaken(r, form.Username); err != nil {
				ServerError(w, r)
				return
			} else if taken {
				errs["username"] = msgUsernameTaken
			}
		}
		if form.Email != user.Email {
			if taken, err := h.emailTaken(r, form.Email); err != nil {
				ServerError(w, r)
				return
			} else if taken {
				errs["email"] = msgEmailTaken
			}
		}
	}

	avatarFile := user.AvatarFile
	if errs.OK() {
		if file, header, err := r.FormFile("picture"); err == nil {
			defer file.Close()
			name, err := h.Avatars.Save(file, header.Filename)
			if errors.Is(err, avatar.ErrUnsupportedType) {
				errs["picture"] = msgBadAvatar
			} else if err != nil {
				ServerError(w, r)
				return
			} else {
				avatarFile = name
			}
		}
	}

	if !errs.OK() {
		render(w, r, http.StatusOK, "profile.html", "Profil", profileData{Form: form, Errors: errs})
		return
	}

	if _, err := h.Users.UpdateProfile(r.Context(), user.ID, form.Username, form.Email, avatarFile); err != nil {
		if repo.IsUniqueViolation(err) {
			if repo.UniqueViolationField(err) == "email" {
				errs["email"] = msgEmailTaken
			} else {
				errs["username"] = msgUsernameTaken
			}
			render(w, r, http.StatusOK, "profile.html", "Profil", profileData{Form: form, Errors: errs})
			return
		}
		ServerError(w, r)
		return
	}

	// Drop the replaced image only after the row points at the new one.
	if avatarFile != user.AvatarFile {
		_ = h.Avatars.Remove(user.AvatarFile)
	}

	SetFlash(w, "success", msgProfileUpdated)
	http.Redirect(w, r, "/profil", http.StatusFound)
}

func (h *ProfileHandler) usernameTaken(r *http.Request, username string) (bool, error) {
	_, err := h.Users.GetByUsername(r.Context(), username)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (h *ProfileHandler) emailTaken(r *http.Request, email string) (bool, error) {
	_, err := h.Users.GetByEmail(r.Context(), email)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
