// Package account provides a development token verifier: a static table of
// bearer tokens mapped to principals. Production deployments replace this
// with a verifier backed by the real account service.
package account

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/user"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

type StaticVerifier struct {
	mu         sync.RWMutex
	principals map[string]user.Principal
}

func NewStaticVerifier() *StaticVerifier {
	return &StaticVerifier{principals: make(map[string]user.Principal)}
}

// Register maps a bearer token to a principal. Registering the same token
// again overwrites the previous principal.
func (v *StaticVerifier) Register(token string, principal user.Principal) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}

	v.mu.Lock()
	v.principals[token] = principal
	v.mu.Unlock()
}

func (v *StaticVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	v.mu.RLock()
	principal, ok := v.principals[strings.TrimSpace(token)]
	v.mu.RUnlock()
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown access token", usecase.ErrUnauthorized)
	}

	return principal, nil
}
