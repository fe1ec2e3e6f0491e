package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-claim-vault/internal/app"
	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/internal/replay"
	"github.com/MKhiriev/go-claim-vault/internal/utils"
)

// withSigner authenticates a mutating request. The bearer token must be an
// EdDSA token signed by the key named in its subject, bound to the exact
// body by its bdh claim, no older than tokenMaxAge, and never seen before.
// The verified signer is stored under utils.SignerCtxKey.
func (h *Handler) withSigner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		body, err := utils.ReadBody(r.Body)
		if err != nil {
			log.Err(err).Msg(app.MsgSignedBodyUnreadable)
			status := http.StatusBadRequest
			if errors.Is(err, utils.ErrBodyTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			http.Error(w, err.Error(), status)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		claims, signer, err := utils.VerifyRequestToken(tokenString, body, h.tokenMaxAge, h.clock.Now())
		if err != nil {
			log.Err(err).Msg(app.MsgTokenRejected)
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		if err := h.replay.Remember(ctx, claims.ID, h.tokenMaxAge); err != nil {
			if errors.Is(err, replay.ErrReplayed) {
				log.Warn().Str("jti", claims.ID).Str("signer", signer.String()).Msg("replayed request token")
				http.Error(w, ErrReplayedToken.Error(), http.StatusUnauthorized)
				return
			}
			log.Err(err).Msg("replay guard unavailable")
			http.Error(w, app.MsgReplayGuardUnavailable, http.StatusServiceUnavailable)
			return
		}

		log.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("signer", signer.String())
		})
		next.ServeHTTP(w, r.WithContext(utils.WithSigner(log.WithContext(ctx), signer)))
	})
}
