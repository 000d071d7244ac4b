package controllers

import (
	"errors"
	"net/http"

	"gitea.com/go-chi/session"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blogem/loan-approval/authenticator"
	"github.com/blogem/loan-approval/logging"
	"github.com/blogem/loan-approval/middleware"
	"github.com/blogem/loan-approval/models"
	"github.com/blogem/loan-approval/services"
)

// defaultLandingPage is where a successful login goes when no destination was stored
const defaultLandingPage = "/predict"

// credentialsData is rendered by login.html and register.html
type credentialsData struct {
	Username string
	Errors   []string
	SSO      bool
}

// AuthController handles login, registration and single sign-on
type AuthController struct {
	services *services.Services
	sso      authenticator.Provider
	logger   *logging.Logger
}

// NewAuthController creates a new auth controller; sso may be nil
func NewAuthController(services *services.Services, sso authenticator.Provider, logger *logging.Logger) *AuthController {
	return &AuthController{
		services: services,
		sso:      sso,
		logger:   logger.Named("auth"),
	}
}

// LoginForm handles GET /login
func (ac *AuthController) LoginForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "login", "login.html", newPageData(r, "Log in", "login", credentialsData{SSO: ac.sso != nil}))
}

// Login handles POST /login
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderError(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}

	form := &models.LoginForm{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}

	identity, err := ac.services.Auth.Authenticate(r.Context(), form)
	if errors.Is(err, models.ErrAuth) {
		page := newPageData(r, "Log in", "login", credentialsData{Username: form.Username, SSO: ac.sso != nil})
		page.Error = "Invalid username or password"
		renderTemplateWithStatus(w, http.StatusUnauthorized, "login", "login.html", page)
		return
	}
	if err != nil {
		ac.logger.Error("Login failed", zap.Error(err))
		renderError(w, r, http.StatusInternalServerError, "Login is temporarily unavailable")
		return
	}

	ac.signIn(w, r, identity.Username)
}

// RegisterForm handles GET /register
func (ac *AuthController) RegisterForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "register", "register.html", newPageData(r, "Register", "register", credentialsData{}))
}

// Register handles POST /register
func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderError(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}

	form := &models.RegistrationForm{
		Username:        r.PostForm.Get("username"),
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("confirm_password"),
	}

	identity, err := ac.services.Auth.Register(r.Context(), form)

	var verrs models.ValidationErrors
	switch {
	case err == nil:
		ac.logger.Info("Identity registered", zap.String("username", identity.Username))
		ac.signIn(w, r, identity.Username)
	case errors.As(err, &verrs):
		page := newPageData(r, "Register", "register", credentialsData{Username: form.Username, Errors: verrs.GetMessages()})
		renderTemplateWithStatus(w, http.StatusBadRequest, "register", "register.html", page)
	case errors.Is(err, models.ErrUsernameTaken):
		page := newPageData(r, "Register", "register", credentialsData{Username: form.Username})
		page.Error = "Username already exists"
		renderTemplateWithStatus(w, http.StatusConflict, "register", "register.html", page)
	default:
		ac.logger.Error("Registration failed", zap.Error(err))
		renderError(w, r, http.StatusInternalServerError, "Registration is temporarily unavailable")
	}
}

// Logout handles GET /logout
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := session.GetSession(r); sess != nil {
		_ = sess.Delete(middleware.SessionUsernameKey)
		_ = sess.Delete(middleware.SessionRedirectKey)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// OIDCLogin handles GET /auth/oidc/login
func (ac *AuthController) OIDCLogin(w http.ResponseWriter, r *http.Request) {
	if ac.sso == nil {
		http.NotFound(w, r)
		return
	}

	// Save the state in the session to validate in callback
	state := uuid.NewString()
	sess := session.GetSession(r)
	_ = sess.Set(middleware.SessionStateKey, state)

	http.Redirect(w, r, ac.sso.GetAuthURL(state), http.StatusTemporaryRedirect)
}

// OIDCCallback handles GET /auth/oidc/callback
func (ac *AuthController) OIDCCallback(w http.ResponseWriter, r *http.Request) {
	if ac.sso == nil {
		http.NotFound(w, r)
		return
	}

	sess := session.GetSession(r)

	storedState, ok := sess.Get(middleware.SessionStateKey).(string)
	if !ok || storedState == "" {
		http.Error(w, "State not found in session", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("state") != storedState {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}
	_ = sess.Delete(middleware.SessionStateKey)

	token, err := ac.sso.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		http.Error(w, "Failed to exchange authorization code for a token: "+err.Error(), http.StatusUnauthorized)
		return
	}

	claims, err := ac.sso.GetClaims(r.Context(), token)
	if err != nil {
		http.Error(w, "Failed to verify ID Token: "+err.Error(), http.StatusInternalServerError)
		return
	}

	username := claims.DisplayName()
	if username == "" {
		http.Error(w, "ID Token carries no usable identity", http.StatusUnauthorized)
		return
	}

	ac.signIn(w, r, username)
}

// signIn stores the identity in the session and continues to the page the
// user originally asked for
func (ac *AuthController) signIn(w http.ResponseWriter, r *http.Request, username string) {
	sess := session.GetSession(r)
	_ = sess.Set(middleware.SessionUsernameKey, username)

	target := defaultLandingPage
	if stored, ok := sess.Get(middleware.SessionRedirectKey).(string); ok && stored != "" {
		target = stored
		_ = sess.Delete(middleware.SessionRedirectKey)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
