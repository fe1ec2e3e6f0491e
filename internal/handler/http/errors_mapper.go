package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-claim-vault/internal/app"
	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/internal/service"
	"github.com/MKhiriev/go-claim-vault/internal/utils"
)

var errorStatusMap = map[service.ErrorKind]int{
	service.KindValidation:       http.StatusBadRequest,
	service.KindAuthorization:    http.StatusForbidden,
	service.KindNotFound:         http.StatusNotFound,
	service.KindIdentityConflict: http.StatusConflict,
	service.KindState:            http.StatusConflict,
	service.KindProof:            http.StatusUnprocessableEntity,
	service.KindTransfer:         http.StatusUnprocessableEntity,
	service.KindInternal:         http.StatusInternalServerError,
}

// errorResponse lets callers tell "not eligible" from "already claimed" from
// "too early" without parsing the message.
type errorResponse struct {
	Error string            `json:"error"`
	Kind  service.ErrorKind `json:"kind"`
}

func statusFromError(err error) (int, service.ErrorKind) {
	switch {
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, service.KindValidation
	case errors.Is(err, ErrInvalidPathParam), errors.Is(err, ErrInvalidBody), errors.Is(err, utils.ErrBodyTooLarge):
		return http.StatusBadRequest, service.KindValidation
	}

	kind := service.KindOf(err)
	if status, ok := errorStatusMap[kind]; ok {
		return status, kind
	}
	return http.StatusInternalServerError, service.KindInternal
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := statusFromError(err)

	message := err.Error()
	if kind == service.KindInternal {
		logger.FromRequest(r).Err(err).Msg("internal error")
		message = app.MsgInternalServerError
	}

	_, _ = utils.WriteJSON(w, errorResponse{Error: message, Kind: kind}, status)
}
