package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/soulart2024-ship-it/Tem/internal/platform/auth"
	"github.com/soulart2024-ship-it/Tem/internal/platform/httpx"
)

var (
	errEmptyBody    = errors.New("request body is empty")
	errBodyTooLarge = errors.New("request body too large")
)

func readLimitedBody(r *http.Request, limit int64) ([]byte, error) {
	if r == nil || r.Body == nil {
		return nil, errEmptyBody
	}
	reader := io.LimitReader(r.Body, limit+1)
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errEmptyBody
	}
	if int64(len(data)) > limit {
		return nil, errBodyTooLarge
	}
	return data, nil
}

func requireIdentity(ctx context.Context, w http.ResponseWriter) (*auth.Identity, bool) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok || identity == nil || strings.TrimSpace(identity.UID) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("unauthorized", "authentication required", http.StatusUnauthorized))
		return nil, false
	}
	return identity, true
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
