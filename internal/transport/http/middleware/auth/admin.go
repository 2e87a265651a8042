// Package auth provides authentication middleware for operator routes.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/mandalnilabja/goatlate/internal/storage"
	"github.com/mandalnilabja/goatlate/internal/transport/http/handler/shared"
)

// verifiedTTL is how long a verified password stays cached.
const verifiedTTL = 5 * time.Minute

// AdminAuth protects admin routes with the password behind hash.
// Requires "Authorization: Bearer <password>". Successful verifications are
// cached by password digest so argon2 runs once per TTL.
func AdminAuth(hash string, cache *ristretto.Cache[string, any]) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Extract Bearer token
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				shared.WriteJSONError(w, "authorization required", http.StatusUnauthorized)
				return
			}
			password := strings.TrimPrefix(header, "Bearer ")
			if password == "" {
				shared.WriteJSONError(w, "authorization required", http.StatusUnauthorized)
				return
			}

			// 2. Check cache first
			cacheKey := "admin:" + digest(password)
			if cache != nil {
				if _, found := cache.Get(cacheKey); found {
					next.ServeHTTP(w, r)
					return
				}
			}

			// 3. Verify against the configured hash
			valid, err := storage.VerifyPassword(password, hash)
			if err != nil || !valid {
				shared.WriteJSONError(w, "invalid credentials", http.StatusUnauthorized)
				return
			}

			// 4. Cache the verification
			if cache != nil {
				cache.SetWithTTL(cacheKey, true, 1, verifiedTTL)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
