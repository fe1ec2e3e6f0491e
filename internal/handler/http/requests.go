package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-claim-vault/internal/utils"
	"github.com/MKhiriev/go-claim-vault/models"
)

// submitRequest accepts the generic tagged-union envelope.
func (h *Handler) submitRequest(w http.ResponseWriter, r *http.Request) {
	var req models.Request
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.process(w, r, req, http.StatusOK)
}

// process runs req for the verified signer and writes the receipt.
func (h *Handler) process(w http.ResponseWriter, r *http.Request, req models.Request, status int) {
	signer, ok := utils.GetSignerFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	receipt, err := h.services.Processor.Process(r.Context(), signer, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	_, _ = utils.WriteJSON(w, receipt, status)
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	body, err := utils.ReadBody(r.Body)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	if err := utils.DecodeJSON(body, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return nil
}

func pathIdentity(r *http.Request, name string) (models.Identity, error) {
	id, err := models.ParseIdentity(chi.URLParam(r, name))
	if err != nil {
		return models.ZeroIdentity, fmt.Errorf("%w %s: %w", ErrInvalidPathParam, name, err)
	}
	return id, nil
}
