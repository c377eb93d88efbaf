// Package session implements the signed-cookie identity context. A
// login writes a short-lived HS256 JWT into an HttpOnly cookie carrying
// the user id, username and admin flag; every request reads it back
// through Current without ever mutating it. Logout expires the cookie.
package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/reelworthy/movie-review/internal/model"
)

// CookieName is the session cookie written at login.
const CookieName = "session"

// ContextKey is where middleware stores the verified Identity on the
// echo context for handlers and guards to read.
const ContextKey = "identity"

// Identity is the per-request view of the logged-in user. It is built
// from the verified cookie only; handlers never consult global state.
type Identity struct {
	UserID   uint64
	Username string
	Admin    bool
}

// Establish signs a fresh token for the user and replaces whatever
// session cookie the request carried. Issuing a brand new token on
// every login prevents session fixation across logins.
func Establish(c echo.Context, secret string, ttlMin int, u model.User) error {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":      u.ID,
		"username": u.Username,
		"admin":    u.Admin,
		"exp":      exp.Unix(),
		"iat":      time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Current returns the identity carried by the request's session cookie.
// The second return value is false for anonymous requests, expired or
// tampered tokens. Current never writes anything.
func Current(c echo.Context, secret string) (Identity, bool) {
	ck, err := c.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return Identity{}, false
	}
	tok, err := jwt.Parse(ck.Value, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Identity{}, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, false
	}

	var id Identity
	if sub, ok := claims["sub"].(float64); ok {
		id.UserID = uint64(sub)
	}
	if name, ok := claims["username"].(string); ok {
		id.Username = name
	}
	if admin, ok := claims["admin"].(bool); ok {
		id.Admin = admin
	}
	if id.UserID == 0 || id.Username == "" {
		return Identity{}, false
	}
	return id, true
}

// Clear expires the session cookie so the browser drops it.
func Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// From returns the Identity stored on the context by the identity
// middleware. The boolean is false for anonymous requests.
func From(c echo.Context) (Identity, bool) {
	id, ok := c.Get(ContextKey).(Identity)
	return id, ok
}
