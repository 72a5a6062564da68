package auth

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/SKuytov/SVP/internal/contracts"
)

// Claims is the token payload
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier signs and verifies HS256 tokens
// ⭐ SSOT: 요청 신원은 토큰에서만 (기본 사용자 없음)
type Verifier struct {
	secret []byte
	issuer string
	leeway time.Duration
	now    func() time.Time
}

// NewVerifier creates a verifier for the given secret and issuer
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		issuer: issuer,
		leeway: 30 * time.Second,
		now:    time.Now,
	}
}

// Issue signs a token for id valid for ttl
func (v *Verifier) Issue(id contracts.Identity, ttl time.Duration) (string, error) {
	now := v.now()
	claims := Claims{
		Email: id.Email,
		Role:  id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.UserID, 10),
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns the identity it carries.
// Every failure unwraps to contracts.ErrUnauthenticated.
func (v *Verifier) Verify(token string) (contracts.Identity, error) {
	claims := &Claims{}
	parser := jwt.Parser{
		ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
		SkipClaimsValidation: true,
	}

	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}); err != nil {
		return contracts.Identity{}, fmt.Errorf("%w: %v", contracts.ErrUnauthenticated, err)
	}

	now := v.now()
	if claims.ExpiresAt == nil || now.After(claims.ExpiresAt.Add(v.leeway)) {
		return contracts.Identity{}, fmt.Errorf("%w: token expired", contracts.ErrUnauthenticated)
	}
	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return contracts.Identity{}, fmt.Errorf("%w: unexpected issuer %q", contracts.ErrUnauthenticated, claims.Issuer)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return contracts.Identity{}, fmt.Errorf("%w: invalid subject", contracts.ErrUnauthenticated)
	}

	return contracts.Identity{UserID: userID, Email: claims.Email, Role: claims.Role}, nil
}

// =============================================================================
// Context
// =============================================================================

type identityKey struct{}

// WithIdentity stores the caller in ctx
func WithIdentity(ctx context.Context, id contracts.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the caller or contracts.ErrUnauthenticated
func FromContext(ctx context.Context) (contracts.Identity, error) {
	id, ok := ctx.Value(identityKey{}).(contracts.Identity)
	if !ok {
		return contracts.Identity{}, contracts.ErrUnauthenticated
	}
	return id, nil
}

// =============================================================================
// HTTP
// =============================================================================

// ErrorWriter renders an authentication failure
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Middleware requires a valid bearer token and stores the identity in the
// request context
func (v *Verifier) Middleware(onError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if err != nil {
				onError(w, r, err)
				return
			}

			id, err := v.Verify(token)
			if err != nil {
				onError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// BearerToken extracts the token from the Authorization header, falling back
// to the access_token query parameter (websocket clients)
func BearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		if tok := r.URL.Query().Get("access_token"); tok != "" {
			return tok, nil
		}
		return "", fmt.Errorf("%w: no token provided", contracts.ErrUnauthenticated)
	}

	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fmt.Errorf("%w: invalid authorization header", contracts.ErrUnauthenticated)
	}

	tok := strings.Trim(fields[1], `"'`)
	if tok == "" {
		return "", fmt.Errorf("%w: empty token", contracts.ErrUnauthenticated)
	}
	return tok, nil
}
