package forms

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Errors maps a field name to its user-facing message. Empty means valid.
type Errors map[string]string

func (e Errors) OK() bool { return len(e) == 0 }

const (
	msgRequired     = "Bu alan zorunludur."
	msgEmail        = "Geçerli bir email adresi girin."
	msgUsernameLen  = "Kullanıcı adı 4-20 karakter olmalıdır."
	msgPasswordLen  = "Şifre en az 6 karakter olmalıdır."
	msgConfirmMatch = "Şifreler aynı olmalıdır."
	msgTitleLen     = "Başlık 10-150 karakter olmalıdır."
	msgBodyLen      = "Soru 10-10000 karakter olmalıdır."
)

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// ==========================
// Register
// ==========================
type RegisterForm struct {
	Username string
	Email    string
	Password string
	Confirm  string
}

func (f RegisterForm) Validate() Errors {
	errs := Errors{}
	if n := utf8.RuneCountInString(f.Username); n < 4 || n > 20 {
		errs["username"] = msgUsernameLen
	}
	if !validEmail(f.Email) {
		errs["email"] = msgEmail
	}
	if utf8.RuneCountInString(f.Password) < 6 {
		errs["password"] = msgPasswordLen
	}
	if f.Confirm != f.Password {
		errs["confirm"] = msgConfirmMatch
	}
	return errs
}

// ==========================
// Login
// ==========================
type LoginForm struct {
	Email    string
	Password string
	Remember bool
}

func (f LoginForm) Validate() Errors {
	errs := Errors{}
	if !validEmail(f.Email) {
		errs["email"] = msgEmail
	}
	if f.Password == "" {
		errs["password"] = msgRequired
	}
	return errs
}

// ==========================
// Update profile
// ==========================
type UpdateProfileForm struct {
	Username string
	Email    string
}

func (f UpdateProfileForm) Validate() Errors {
	errs := Errors{}
	if n := utf8.RuneCountInString(f.Username); n < 4 || n > 20 {
		errs["username"] = msgUsernameLen
	}
	if !validEmail(f.Email) {
		errs["email"] = msgEmail
	}
	return errs
}

// ==========================
// Post
// ==========================
type PostForm struct {
	Title string
	Body  string
}

func (f PostForm) Validate() Errors {
	errs := Errors{}
	if n := utf8.RuneCountInString(strings.TrimSpace(f.Title)); n < 10 || n > 150 {
		errs["title"] = msgTitleLen
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(f.Body)); n < 10 || n > 10000 {
		errs["body"] = msgBodyLen
	}
	return errs
}

// ==========================
// Password reset
// ==========================
type ResetRequestForm struct {
	Email string
}

func (f ResetRequestForm) Validate() Errors {
	errs := Errors{}
	if !validEmail(f.Email) {
		errs["email"] = msgEmail
	}
	return errs
}

type ResetPasswordForm struct {
	Password string
	Confirm  string
}

func (f ResetPasswordForm) Validate() Errors {
	errs := Errors{}
	if utf8.RuneCountInString(f.Password) < 6 {
		errs["password"] = msgPasswordLen
	}
	if f.Confirm != f.Password {
		errs["confirm"] = msgConfirmMatch
	}
	return errs
}
