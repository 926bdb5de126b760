package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/homewatch/dashboard/internal/config"
	"github.com/homewatch/dashboard/internal/model"
	"github.com/homewatch/dashboard/internal/service"
	"github.com/homewatch/dashboard/internal/ui"
	"github.com/homewatch/dashboard/internal/ui/pages"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const oauthStateCookie = "oauth_state"

// oauthProfile is what a provider tells us about the signed-in account.
type oauthProfile struct {
	Email string
	Name  string
	Image string
}

type oauthProvider struct {
	config  *oauth2.Config
	profile func(ctx context.Context, client *http.Client) (*oauthProfile, error)
}

type AuthHandler struct {
	authService   *service.AuthService
	providers     map[string]*oauthProvider
	secureCookies bool
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		secureCookies: cfg.SecureCookies(),
		providers: map[string]*oauthProvider{
			"google": {
				config: &oauth2.Config{
					ClientID:     cfg.GoogleClientID,
					ClientSecret: cfg.GoogleClientSecret,
					RedirectURL:  cfg.AppURL + "/auth/google/callback",
					Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
					Endpoint:     google.Endpoint,
				},
				profile: googleProfile,
			},
			"github": {
				config: &oauth2.Config{
					ClientID:     cfg.GitHubClientID,
					ClientSecret: cfg.GitHubClientSecret,
					RedirectURL:  cfg.AppURL + "/auth/github/callback",
					Scopes:       []string{"user:email"},
					Endpoint:     github.Endpoint,
				},
				profile: githubProfile,
			},
		},
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Login("", ""))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		ui.Render(w, r, pages.Login("Email and password are required", email))
		return
	}

	user, err := h.authService.Login(r.Context(), email, password)
	if err != nil {
		slog.Warn("password login failed", "error", err, "email", email)
		ui.Render(w, r, pages.Login("Invalid email or password", email))
		return
	}

	if !h.startSession(w, r, user) {
		ui.Render(w, r, pages.Login("An error occurred. Please try again.", email))
		return
	}

	slog.Info("user logged in with password", "user_id", user.ID)
	http.Redirect(w, r, "/app/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Register("", "", ""))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	user, err := h.authService.Register(r.Context(), name, email, password)
	if err != nil {
		msg := "Registration failed. Please try again."
		var inputErr *service.InputError
		switch {
		case errors.As(err, &inputErr):
			msg = inputErr.Message
		case errors.Is(err, service.ErrInvalidEmail):
			msg = "Please enter a valid email address"
		case errors.Is(err, service.ErrEmailAlreadyExists):
			msg = "An account with this email already exists"
		default:
			slog.Error("registration failed", "error", err, "email", email)
		}
		ui.Render(w, r, pages.Register(msg, name, email))
		return
	}

	if !h.startSession(w, r, user) {
		ui.Render(w, r, pages.Login("Account created. Please sign in.", email))
		return
	}

	http.Redirect(w, r, "/app/setup", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// OAuthStart redirects to the provider's consent screen.
func (h *AuthHandler) OAuthStart(name string) http.HandlerFunc {
	provider := h.providers[name]
	return func(w http.ResponseWriter, r *http.Request) {
		state := generateOAuthState()

		http.SetCookie(w, &http.Cookie{
			Name:     oauthStateCookie,
			Value:    state,
			Path:     "/",
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   600,
		})

		http.Redirect(w, r, provider.config.AuthCodeURL(state), http.StatusTemporaryRedirect)
	}
}

// OAuthCallback completes the provider login and signs the user in.
func (h *AuthHandler) OAuthCallback(name string) http.HandlerFunc {
	provider := h.providers[name]
	return func(w http.ResponseWriter, r *http.Request) {
		failed := func(reason string, err error) {
			slog.Warn("oauth login failed", "provider", name, "reason", reason, "error", err)
			ui.Render(w, r, pages.Login("OAuth authentication failed. Please try again.", ""))
		}

		state := r.URL.Query().Get("state")
		cookie, err := r.Cookie(oauthStateCookie)
		if err != nil || state == "" || cookie.Value != state {
			failed("state mismatch", err)
			return
		}

		http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/", MaxAge: -1})

		code := r.URL.Query().Get("code")
		if code == "" {
			failed("missing code", nil)
			return
		}

		token, err := provider.config.Exchange(r.Context(), code)
		if err != nil {
			failed("token exchange", err)
			return
		}

		profile, err := provider.profile(r.Context(), provider.config.Client(r.Context(), token))
		if err != nil {
			failed("profile", err)
			return
		}

		user, err := h.authService.AuthenticateOAuth(r.Context(), profile.Email, profile.Name, profile.Image, name)
		if err != nil {
			failed("authenticate", err)
			return
		}

		if !h.startSession(w, r, user) {
			failed("session", nil)
			return
		}

		http.Redirect(w, r, "/app/dashboard", http.StatusSeeOther)
	}
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *model.User) bool {
	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		return false
	}
	h.authService.SetJWTCookie(w, token)
	return true
}

func googleProfile(ctx context.Context, client *http.Client) (*oauthProfile, error) {
	var info struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	err := getJSON(ctx, client, "https://www.googleapis.com/oauth2/v2/userinfo", &info)
	if err != nil {
		return nil, err
	}
	return &oauthProfile{Email: info.Email, Name: info.Name, Image: info.Picture}, nil
}

func githubProfile(ctx context.Context, client *http.Client) (*oauthProfile, error) {
	var info struct {
		Email     string `json:"email"`
		Name      string `json:"name"`
		Login     string `json:"login"`
		AvatarURL string `json:"avatar_url"`
	}
	err := getJSON(ctx, client, "https://api.github.com/user", &info)
	if err != nil {
		return nil, err
	}

	profile := &oauthProfile{Email: info.Email, Name: info.Name, Image: info.AvatarURL}
	if profile.Name == "" {
		profile.Name = info.Login
	}

	// Private emails are only listed on /user/emails
	if profile.Email == "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		err = getJSON(ctx, client, "https://api.github.com/user/emails", &emails)
		if err != nil {
			return nil, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				profile.Email = e.Email
				break
			}
		}
	}

	if profile.Email == "" {
		return nil, errors.New("github account has no verified primary email")
	}
	return profile, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// generateOAuthState creates a random state token for OAuth CSRF protection
func generateOAuthState() string {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		panic("failed to generate oauth state: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}
