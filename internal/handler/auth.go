package handler

import (
	"context"       // provides context with cancellation for DB calls
	"net/http"      // HTTP status codes and primitives
	"regexp"        // signup field validation
	"strings"       // string manipulation utilities
	"time"          // timeouts for DB calls and age checks

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/cinemacousas/cinema-booking/internal/config"     // app configuration
	"github.com/cinemacousas/cinema-booking/internal/model"      // domain models
	"github.com/cinemacousas/cinema-booking/internal/repository" // DB repositories
	"github.com/cinemacousas/cinema-booking/internal/utils"      // helper functions (hashing, token issuing)
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Accounts *repository.AccountRepo
	Sessions *repository.SessionRepo
}

func NewAuthHandler(cfg config.Config, a *repository.AccountRepo, s *repository.SessionRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Accounts: a, Sessions: s}
}

// ----- DTOs -----

type signupReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Birthday  string `json:"birthday"` // YYYY-MM-DD
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type changePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type accountPart struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Role      string `json:"role"`
}
type authResp struct {
	Account accountPart `json:"account"`
	Access  tokenPart   `json:"access"`
	Session tokenPart   `json:"session"`
}

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,}$`)

// validateSignup applies the registration rules: names of at least two
// characters, a plausible email, an alphanumeric username of three or
// more characters, a password of at least eight, and a birthday putting
// the account holder between 13 and 120 years old.
func validateSignup(req *signupReq) (birthday *time.Time, msg string) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if len(req.FirstName) < 2 || len(req.LastName) < 2 {
		return nil, "first and last name must be at least 2 characters"
	}
	if !strings.Contains(req.Email, "@") || !strings.Contains(req.Email, ".") {
		return nil, "invalid email address"
	}
	if !usernameRe.MatchString(req.Username) {
		return nil, "username must be at least 3 letters, digits or underscores"
	}
	if len(req.Password) < 8 {
		return nil, "password must be at least 8 characters"
	}
	if req.Birthday != "" {
		d, err := time.Parse("2006-01-02", req.Birthday)
		if err != nil {
			return nil, "birthday must be YYYY-MM-DD"
		}
		years := int(time.Since(d).Hours() / 24 / 365.25)
		if years < 13 || years > 120 {
			return nil, "age must be between 13 and 120"
		}
		birthday = &d
	}
	return birthday, ""
}

func (h *AuthHandler) issue(ctx context.Context, c echo.Context, a *model.Account, status int) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, a.ID, a.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	session, err := utils.NewSessionToken(h.Cfg.SessionTTLHours)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	ip := c.RealIP()
	ua := c.Request().UserAgent()
	row := &model.Session{
		AccountID: a.ID,
		TokenHash: utils.HashSessionRaw(session.Raw),
		ExpiresAt: session.Exp,
		IPAddress: &ip,
		UserAgent: &ua,
	}
	if err := h.Sessions.Create(ctx, row); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save session failed"})
	}
	return c.JSON(status, authResp{
		Account: accountPart{ID: a.ID, FirstName: a.FirstName, LastName: a.LastName, Email: a.Email, Username: a.Username, Role: a.Role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Session: tokenPart{Token: session.Raw, Expires: session.Exp}, // raw back to client
	})
}

// Signup: create a CUSTOMER account and log it in immediately.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	birthday, msg := validateSignup(&req)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	account := &model.Account{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Birthday:     birthday,
		Role:         model.RoleCustomer,
	}
	if err := h.Accounts.Create(ctx, account); err != nil {
		switch err {
		case repository.ErrEmailExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		case repository.ErrUsernameExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
	}
	return h.issue(ctx, c, account, http.StatusCreated)
}

// Login: verify credentials and open a new session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrAccountNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(a.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	return h.issue(ctx, c, a, http.StatusOK)
}

// Logout: invalidate the session named by the session_token body field.
// Invalidating an unknown or already closed session still succeeds.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req struct {
		SessionToken string `json:"session_token"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.SessionToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Sessions.Invalidate(ctx, utils.HashSessionRaw(strings.TrimSpace(req.SessionToken))); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ChangePassword: verify the current password, store the new hash and
// close every open session of the account.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.NewPassword) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
	}
	if !utils.VerifyPassword(a.PasswordHash, req.CurrentPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	if err := h.Accounts.UpdatePassword(ctx, accountID, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update password failed"})
	}
	_ = h.Sessions.InvalidateAllForAccount(ctx, accountID)
	return c.NoContent(http.StatusNoContent)
}

// Me: return the authenticated account's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Accounts.GetByID(ctx, accountID)
	if err != nil {
		if err == repository.ErrAccountNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
	}
	return c.JSON(http.StatusOK, accountPart{
		ID: a.ID, FirstName: a.FirstName, LastName: a.LastName, Email: a.Email, Username: a.Username, Role: a.Role,
	})
}
