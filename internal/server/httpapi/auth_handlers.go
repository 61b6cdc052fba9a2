package httpapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/scmexpert/internal/server/services"
	"github.com/dmitrijs2005/scmexpert/internal/server/webutil"
)

const loginRoute = "/login"

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message  string `json:"message"`
	Role     string `json:"role"`
	Redirect string `json:"redirect"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type messageResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

// readCredentials accepts an OAuth2 password form (username, password) or a
// JSON body (email, password).
func readCredentials(r *http.Request) (credentials, error) {
	if strings.HasPrefix(r.Header.Get(webutil.HeaderContentType), webutil.ContentTypeForm) {
		if err := r.ParseForm(); err != nil {
			return credentials{}, webutil.ErrBadRequestWrap("Invalid form", err)
		}
		return credentials{
			Email:    strings.TrimSpace(r.PostForm.Get("username")),
			Password: r.PostForm.Get("password"),
		}, nil
	}

	var c credentials
	if err := webutil.DecodeJSON(r, &c); err != nil {
		return credentials{}, err
	}
	c.Email = strings.TrimSpace(c.Email)
	return c, nil
}

func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) error {
	var in services.SignupInput
	if err := webutil.DecodeJSON(r, &in); err != nil {
		return err
	}

	user, err := a.users.Signup(r.Context(), in)
	if err != nil {
		return err
	}

	webutil.RespondWithJSON(w, http.StatusCreated, map[string]any{
		"message":  "User registered successfully",
		"redirect": loginRoute,
		"user":     user,
	})
	return nil
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) error {
	c, err := readCredentials(r)
	if err != nil {
		return err
	}

	res, err := a.users.Login(r.Context(), c.Email, c.Password)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    res.Token,
		Path:     "/",
		MaxAge:   int(a.users.TokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   a.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	webutil.RespondWithJSON(w, http.StatusOK, loginResponse{
		Message:  "Login successful",
		Role:     string(res.Role),
		Redirect: res.Redirect,
	})
	return nil
}

func (a *API) handleToken(w http.ResponseWriter, r *http.Request) error {
	c, err := readCredentials(r)
	if err != nil {
		return err
	}

	token, err := a.users.IssueAPIToken(r.Context(), c.Email, c.Password)
	if err != nil {
		return err
	}

	webutil.RespondWithJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
	return nil
}

// handleLogout only clears the cookie; issued tokens stay valid until they
// expire.
func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	webutil.RespondWithJSON(w, http.StatusOK, messageResponse{Message: "Logged out", Redirect: loginRoute})
	return nil
}

func (a *API) handleForgotPassword(w http.ResponseWriter, r *http.Request) error {
	var req forgotPasswordRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}

	msg := a.resets.RequestReset(r.Context(), strings.TrimSpace(req.Email))
	webutil.RespondWithMessage(w, http.StatusOK, msg)
	return nil
}

func (a *API) handleResetPasswordForm(w http.ResponseWriter, r *http.Request) error {
	token := r.URL.Query().Get("token")
	if err := a.resets.ValidateResetToken(token); err != nil {
		return err
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{"token": token})
	return nil
}

func (a *API) handleResetPassword(w http.ResponseWriter, r *http.Request) error {
	var req resetPasswordRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}

	if err := a.resets.ConsumeReset(r.Context(), req.Token, req.NewPassword, req.ConfirmPassword); err != nil {
		return err
	}

	webutil.RespondWithJSON(w, http.StatusOK, messageResponse{
		Message:  "Password has been reset successfully",
		Redirect: loginRoute,
	})
	return nil
}
