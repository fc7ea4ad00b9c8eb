package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/airbusgeo/scene-exporter/service/log"
	"go.uber.org/zap"
)

const (
	// AuthorizationHeader is the header key to get the authorization token
	AuthorizationHeader = "authorization"
	tokenPrefix         = "Bearer "
)

// bearerAuth accepts the requests carrying one of its tokens.
// An empty set of tokens accepts all the requests.
type bearerAuth map[string]struct{}

// newBearerAuth parses a comma-separated list of tokens
func newBearerAuth(tokens string) bearerAuth {
	ba := bearerAuth{}
	for _, t := range strings.Split(tokens, ",") {
		if t = strings.TrimSpace(t); t != "" {
			ba[t] = struct{}{}
		}
	}
	return ba
}

// Middleware rejects the unauthenticated requests with 403
func (ba bearerAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodOptions {
			if err := ba.authenticate(r.Header.Get(AuthorizationHeader)); err != nil {
				log.Logger(r.Context()).Debug("request rejected", zap.String("path", r.URL.Path), zap.Error(err))
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(err.Error())
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (ba bearerAuth) authenticate(header string) error {
	if len(ba) == 0 {
		return nil // No auth required
	}
	if header == "" {
		return fmt.Errorf("token not found")
	}
	if !strings.HasPrefix(header, tokenPrefix) {
		return fmt.Errorf(`missing "` + tokenPrefix + `" prefix`)
	}
	if _, ok := ba[strings.TrimPrefix(header, tokenPrefix)]; !ok {
		return fmt.Errorf("invalid token")
	}
	return nil
}
