// Package adminauth issues and checks the bearer tokens that guard the
// moderation endpoints. A token is an HS256 JWT carrying isAdmin=true.
package adminauth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/ailibrary/internal/app/features/errors"
	"github.com/dalemusser/ailibrary/internal/app/system/auditlog"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrMissingToken means no bearer credential was presented.
	ErrMissingToken = errors.New("adminauth: missing token")
	// ErrInvalidToken means the credential failed verification.
	ErrInvalidToken = errors.New("adminauth: invalid token")
	// ErrNoSecret means the gate was built without a signing secret.
	ErrNoSecret = errors.New("adminauth: signing secret is empty")
)

const claimIsAdmin = "isAdmin"

// Gate mints admin tokens and enforces them on HTTP routes.
type Gate struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	audit  *auditlog.Logger
	log    *zap.Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithAudit records denied requests through a.
func WithAudit(a *auditlog.Logger) Option {
	return func(g *Gate) { g.audit = a }
}

// WithLogger sets the zap logger used for denied requests.
func WithLogger(l *zap.Logger) Option {
	return func(g *Gate) { g.log = l }
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// NewGate builds a Gate signing with secret. A ttl of zero issues tokens
// without an expiry; a positive ttl sets exp and makes it mandatory on
// verification.
func NewGate(secret string, ttl time.Duration, opts ...Option) (*Gate, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	g := &Gate{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		log:    zap.NewNop(),
	}
	for _, o := range opts {
		o(g)
	}
	return g, nil
}

// Token is a freshly issued admin credential.
type Token struct {
	Value     string
	ID        string
	ExpiresAt *time.Time
}

// IssueToken mints a new admin token.
func (g *Gate) IssueToken() (Token, error) {
	now := g.now()
	id := uuid.NewString()
	claims := jwt.MapClaims{
		claimIsAdmin: true,
		"iat":        now.Unix(),
		"jti":        id,
	}
	var exp *time.Time
	if g.ttl > 0 {
		e := now.Add(g.ttl)
		exp = &e
		claims["exp"] = e.Unix()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return Token{}, fmt.Errorf("adminauth: sign token: %w", err)
	}
	return Token{Value: signed, ID: id, ExpiresAt: exp}, nil
}

// Verify reports whether tokenString is a valid admin token.
func (g *Gate) Verify(tokenString string) bool {
	return g.Check(tokenString) == nil
}

// Check validates a raw token string. Any failure is reported as
// ErrMissingToken or ErrInvalidToken wrapping the parser's reason.
func (g *Gate) Check(tokenString string) error {
	if strings.TrimSpace(tokenString) == "" {
		return ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(g.now),
	}
	if g.ttl > 0 {
		opts = append(opts, jwt.WithExpirationRequired())
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return g.secret, nil
	}, opts...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return ErrInvalidToken
	}
	if isAdmin, _ := claims[claimIsAdmin].(bool); !isAdmin {
		return fmt.Errorf("%w: isAdmin claim not set", ErrInvalidToken)
	}
	return nil
}

// BearerToken extracts the credential from an Authorization header of the
// form "Bearer <token>". The scheme is matched case-insensitively.
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAdmin rejects requests without a valid admin token: 401 when no
// bearer token is present, 403 when one is present but fails Check.
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := BearerToken(r)
		if raw == "" {
			g.deny(r, "missing token")
			uierrors.RenderUnauthorized(w, r, "missing admin token")
			return
		}
		if err := g.Check(raw); err != nil {
			g.deny(r, err.Error())
			uierrors.RenderForbidden(w, r, "admin token rejected")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Gate) deny(r *http.Request, reason string) {
	g.log.Info("admin request denied",
		zap.String("path", r.URL.Path),
		zap.String("reason", reason),
	)
	g.audit.AdminAccessDenied(r.Context(), r, reason)
}
