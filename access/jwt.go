package access

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultSessionCookie is the cookie JWTResolver reads by default.
const DefaultSessionCookie = "debug_bar_session"

// ErrNoSecret is returned when a JWTResolver is built without a signing secret.
var ErrNoSecret = errors.New("access: empty signing secret")

type sessionClaims struct {
	Name         string   `json:"name"`
	Session      string   `json:"sid"`
	Capabilities []string `json:"caps,omitempty"`
	jwt.RegisteredClaims
}

// JWTResolver resolves principals from an HS256-signed session cookie.
//
// Invalid, expired or missing cookies resolve to the anonymous principal.
type JWTResolver struct {
	secret []byte
	cookie string
	ttl    time.Duration
	now    func() time.Time
}

// JWTOption configures a JWTResolver.
type JWTOption func(*JWTResolver)

// WithSessionCookie overrides the cookie name.
func WithSessionCookie(name string) JWTOption {
	return func(j *JWTResolver) {
		if name != "" {
			j.cookie = name
		}
	}
}

// WithSessionTTL overrides the session lifetime (default 12h).
func WithSessionTTL(d time.Duration) JWTOption {
	return func(j *JWTResolver) {
		if d > 0 {
			j.ttl = d
		}
	}
}

// NewJWTResolver creates a resolver with the given HMAC secret.
func NewJWTResolver(secret []byte, opts ...JWTOption) (*JWTResolver, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	j := &JWTResolver{
		secret: append([]byte(nil), secret...),
		cookie: DefaultSessionCookie,
		ttl:    12 * time.Hour,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(j)
		}
	}
	return j, nil
}

// Issue signs a session token for p. A fresh session id is generated when p.Session is empty.
func (j *JWTResolver) Issue(p Principal) (string, error) {
	if p.IsAnonymous() {
		return "", errors.New("access: cannot issue a session for the anonymous principal")
	}
	sid := p.Session
	if sid == "" {
		sid = uuid.NewString()
	}
	caps := make([]string, 0, len(p.Capabilities))
	for _, c := range p.Capabilities {
		caps = append(caps, string(c))
	}
	now := j.now()
	claims := sessionClaims{
		Name:         p.Name,
		Session:      sid,
		Capabilities: caps,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("access: sign session: %w", err)
	}
	return s, nil
}

// Login issues a session for p and sets it as an HttpOnly cookie.
func (j *JWTResolver) Login(w http.ResponseWriter, p Principal) error {
	tok, err := j.Issue(p)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     j.cookie,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  j.now().Add(j.ttl),
	})
	return nil
}

// Logout clears the session cookie.
func (j *JWTResolver) Logout(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     j.cookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// Resolve implements Resolver.
func (j *JWTResolver) Resolve(r *http.Request) Principal {
	c, err := r.Cookie(j.cookie)
	if err != nil || c.Value == "" {
		return Principal{}
	}
	p, err := j.Parse(c.Value)
	if err != nil {
		return Principal{}
	}
	return p
}

// Parse validates a session token and returns its principal.
func (j *JWTResolver) Parse(token string) (Principal, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Principal{}, fmt.Errorf("access: parse session: %w", err)
	}
	if claims.Subject == "" {
		return Principal{}, errors.New("access: session without subject")
	}
	caps := make([]Capability, 0, len(claims.Capabilities))
	for _, c := range claims.Capabilities {
		caps = append(caps, Capability(c))
	}
	return Principal{
		ID:           claims.Subject,
		Name:         claims.Name,
		Session:      claims.Session,
		Capabilities: caps,
	}, nil
}
