package guard

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const cookieName = "console_session"

// CookieCodec issues and reads the signed cookie that carries the session
// ID. The cookie proves nothing by itself: the session store still has to
// hold a token for the ID, so a stale cookie degrades to "logged out".
type CookieCodec struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewCookieCodec(secret string, ttl time.Duration, secure bool) (*CookieCodec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("cookie secret is required")
	}

	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	return &CookieCodec{secret: []byte(secret), ttl: ttl, secure: secure}, nil
}

func (c *CookieCodec) Issue(w http.ResponseWriter, sid string) error {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (c *CookieCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionID extracts the session ID from the request cookie. A missing
// cookie, bad signature, or expired claim all read as "no session".
func (c *CookieCodec) SessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(cookie.Value, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", false
	}

	return claims.Subject, true
}
