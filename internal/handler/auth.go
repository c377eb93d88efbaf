package handler

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/reelworthy/movie-review/internal/config"
	"github.com/reelworthy/movie-review/internal/repository"
	"github.com/reelworthy/movie-review/internal/session"
)

// AuthHandler bundles dependencies for the login/register/logout pages.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return render(c, http.StatusOK, "login.html", "Log in", nil)
}

// Login verifies the submitted credentials and establishes a session.
// Unknown usernames and wrong passwords get the same flash so the form
// does not leak which accounts exist.
func (h *AuthHandler) Login(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	if username == "" || password == "" {
		session.Flash(c, "error", "Invalid username or password")
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, username)
	if err != nil {
		if err == sql.ErrNoRows {
			session.Flash(c, "error", "Invalid username or password")
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		c.Logger().Errorf("login: query user: %v", err)
		session.Flash(c, "error", "Something went wrong, try again")
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		session.Flash(c, "error", "Invalid username or password")
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	if err := session.Establish(c, h.Cfg.SessionSecret, h.Cfg.SessionTTLMin, u); err != nil {
		c.Logger().Errorf("login: establish session: %v", err)
		session.Flash(c, "error", "Something went wrong, try again")
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return render(c, http.StatusOK, "register.html", "Register", nil)
}

// Register creates a new account. Duplicate usernames are detected by
// the unique key on insert, never by a racy pre-check.
func (h *AuthHandler) Register(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	if username == "" || password == "" {
		session.Flash(c, "error", "Username and password are required")
		return c.Redirect(http.StatusSeeOther, "/register")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Users.Create(ctx, username, password, h.Cfg.BcryptCost); err != nil {
		if err == repository.ErrUsernameExists {
			session.Flash(c, "error", "Username already exists")
			return c.Redirect(http.StatusSeeOther, "/register")
		}
		c.Logger().Errorf("register: create user: %v", err)
		session.Flash(c, "error", "Something went wrong, try again")
		return c.Redirect(http.StatusSeeOther, "/register")
	}

	session.Flash(c, "success", "Registration successful! Please log in")
	return c.Redirect(http.StatusSeeOther, "/login")
}

// Logout clears the session cookie and sends the user home.
func (h *AuthHandler) Logout(c echo.Context) error {
	session.Clear(c)
	return c.Redirect(http.StatusSeeOther, "/")
}
