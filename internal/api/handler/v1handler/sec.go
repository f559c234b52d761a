package v1handler

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"os"
	"sectoolkit/internal/config"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/serrors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

// UserIDKey is the context key of the authenticated domain.UserID.
const UserIDKey ctxKey = "userID"

// SecHandlerOptions configure bearer token verification.
type SecHandlerOptions struct {
	// PublicKey is the PEM encoded RSA public key. It takes precedence over PublicKeyPath.
	PublicKey string
	// PublicKeyPath is read when PublicKey is empty.
	PublicKeyPath string
	// Issuer, when set, is required in the iss claim.
	Issuer string
}

func NewSecHandlerOptions(cfg *config.Config) *SecHandlerOptions {
	return &SecHandlerOptions{
		PublicKeyPath: cfg.JWT.PublicKeyPath,
		Issuer:        cfg.JWT.Issuer,
	}
}

// SecHandler authenticates requests with RS256 signed JWTs whose subject is
// the user ID.
type SecHandler struct {
	key    *rsa.PublicKey
	parser *jwt.Parser
}

func NewSecHandler(opts *SecHandlerOptions) (*SecHandler, error) {
	pem := []byte(opts.PublicKey)
	if len(pem) == 0 {
		data, err := os.ReadFile(opts.PublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("could not read JWT public key: %w", err)
		}
		pem = data
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("could not parse JWT public key: %w", err)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}

	return &SecHandler{key: key, parser: jwt.NewParser(parserOpts...)}, nil
}

// HandleBearerAuth verifies the token and stores the user ID of its subject in
// the returned context.
func (s SecHandler) HandleBearerAuth(ctx context.Context, token string) (context.Context, error) {
	var claims jwt.RegisteredClaims
	if _, err := s.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	}); err != nil {
		return nil, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token")
	}

	userID, err := domain.ParseUserID(claims.Subject)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token subject")
	}

	return context.WithValue(ctx, UserIDKey, userID), nil
}

// Middleware rejects requests without a valid bearer token.
func (s SecHandler) Middleware(next http.Handler, onError func(http.ResponseWriter, *http.Request, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			onError(w, r, serrors.With(serrors.ErrUnauthorized, "missing bearer token"))

			return
		}

		ctx, err := s.HandleBearerAuth(r.Context(), strings.TrimSpace(token))
		if err != nil {
			onError(w, r, err)

			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext returns the authenticated user, or the zero ID.
func GetUserIDFromContext(ctx context.Context) domain.UserID {
	userID, _ := ctx.Value(UserIDKey).(domain.UserID)

	return userID
}

// IssueToken signs an RS256 token for the subject valid for ttl.
func IssueToken(key *rsa.PrivateKey, issuer, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("could not sign JWT: %w", err)
	}

	return signed, nil
}
