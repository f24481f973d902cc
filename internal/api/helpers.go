package api

import (
	"context"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/platefulapp/plateful-server/internal/domain"
)

// authenticateRequest validates the Authorization header and returns the
// authenticated user.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (*domain.User, error) {
	if authHeader == "" {
		return nil, huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, huma.Error401Unauthorized("Invalid authorization header format")
	}

	user, _, err := s.services.Auth.VerifyAccessToken(ctx, parts[1])
	if err != nil {
		return nil, huma.Error401Unauthorized("Invalid or expired token")
	}

	return user, nil
}

// optionalViewerID resolves the Authorization header on endpoints that work
// for anonymous readers too. A missing or invalid token yields an empty
// viewer rather than an error; viewer-dependent response fields then come
// back false.
func (s *Server) optionalViewerID(ctx context.Context, authHeader string) string {
	if authHeader == "" {
		return ""
	}

	user, err := s.authenticateRequest(ctx, authHeader)
	if err != nil {
		return ""
	}
	return user.ID
}

// parseLimit reads a limit query value leniently. Absent or non-numeric
// input means unlimited, never an error.
func parseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseFlag reads boolean-ish query values ("1", "true", "True"). Anything
// else is false.
func parseFlag(raw string) bool {
	switch strings.ToLower(raw) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// extractIP picks the client IP out of proxy headers; the first entry of
// X-Forwarded-For is the original client.
func extractIP(xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		if i := strings.IndexByte(xForwardedFor, ','); i >= 0 {
			return strings.TrimSpace(xForwardedFor[:i])
		}
		return strings.TrimSpace(xForwardedFor)
	}
	return xRealIP
}
