package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/homewatch/dashboard/internal/model"
	"github.com/homewatch/dashboard/internal/repository"
	"github.com/homewatch/dashboard/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

const authCookieName = "auth_token"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email address")
)

type AuthService struct {
	users         repository.UserRepository
	emailService  *EmailService
	jwtSecret     string
	jwtExpiry     time.Duration
	secureCookies bool
}

func NewAuthService(
	users repository.UserRepository,
	emailService *EmailService,
	jwtSecret string,
	jwtExpiry time.Duration,
	secureCookies bool,
) *AuthService {
	return &AuthService{
		users:         users,
		emailService:  emailService,
		jwtSecret:     jwtSecret,
		jwtExpiry:     jwtExpiry,
		secureCookies: secureCookies,
	}
}

// Register creates a password account. New accounts have no family.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = validation.NormalizeName(name)
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateDisplayName(name)
	if err != nil {
		return nil, invalidInput(err.Error())
	}

	err = validation.ValidateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEmail, err)
	}

	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, invalidInput(err.Error())
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         &name,
		PasswordHash: &hash,
	}

	err = s.users.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, ErrEmailAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	err = s.emailService.SendWelcomeEmail(ctx, user.Email, name)
	if err != nil {
		slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return nil, fmt.Errorf("account has no password: %w", ErrInvalidCredentials)
	}

	err = s.ComparePassword(password, *user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", ErrInvalidCredentials)
	}

	return user, nil
}

// AuthenticateOAuth finds the account for a provider-verified email or
// creates one without a password.
func (s *AuthService) AuthenticateOAuth(ctx context.Context, email, name, image, provider string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, ErrInvalidEmail
	}

	user, err := s.users.ByEmail(ctx, email)
	if err == nil {
		slog.Info("user authenticated via OAuth", "user_id", user.ID, "email", user.Email, "provider", provider)
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to lookup user: %w", err)
	}

	user = &model.User{
		ID:    uuid.New().String(),
		Email: email,
	}
	if name = validation.NormalizeName(name); name != "" {
		user.Name = &name
	}
	if image != "" {
		user.Image = &image
	}

	err = s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("new OAuth user created", "email", email, "user_id", user.ID, "provider", provider)
	return user, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     now.Add(s.jwtExpiry).Unix(),
		"iat":     now.Unix(),
	}
	if user.Name != nil {
		claims["name"] = *user.Name
	}
	if user.Image != nil {
		claims["image"] = *user.Image
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyJWT validates a session token and returns the session it carries.
func (s *AuthService) VerifyJWT(tokenString string) (*model.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, fmt.Errorf("token has no user_id")
	}

	session := &model.Session{UserID: userID}
	session.Email, _ = claims["email"].(string)
	session.Name, _ = claims["name"].(string)
	session.Image, _ = claims["image"].(string)
	return session, nil
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Expires:  time.Now().Add(s.jwtExpiry),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionFromRequest returns the session carried by the request's auth
// cookie, or nil when there is none or it does not verify.
func (s *AuthService) SessionFromRequest(r *http.Request) *model.Session {
	cookie, err := r.Cookie(authCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	session, err := s.VerifyJWT(cookie.Value)
	if err != nil {
		return nil
	}
	return session
}
