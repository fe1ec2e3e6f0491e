package http

import (
	"net/http"

	"github.com/MKhiriev/go-claim-vault/internal/utils"
	"github.com/MKhiriev/go-claim-vault/models"
)

func (h *Handler) createMint(w http.ResponseWriter, r *http.Request) {
	var body models.CreateMintRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	h.process(w, r, models.Request{Kind: models.RequestCreateMint, CreateMint: &body}, http.StatusCreated)
}

func (h *Handler) openAccount(w http.ResponseWriter, r *http.Request) {
	var body models.OpenAccountRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	h.process(w, r, models.Request{Kind: models.RequestOpenAccount, OpenAccount: &body}, http.StatusOK)
}

func (h *Handler) mintTo(w http.ResponseWriter, r *http.Request) {
	var body models.MintToRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	h.process(w, r, models.Request{Kind: models.RequestMintTo, MintTo: &body}, http.StatusOK)
}

func (h *Handler) transfer(w http.ResponseWriter, r *http.Request) {
	var body models.TransferRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	h.process(w, r, models.Request{Kind: models.RequestTransfer, Transfer: &body}, http.StatusOK)
}

func (h *Handler) getAccount(w http.ResponseWriter, r *http.Request) {
	address, err := pathIdentity(r, "address")
	if err != nil {
		writeError(w, r, err)
		return
	}

	account, err := h.services.LedgerService.GetAccount(r.Context(), address)
	if err != nil {
		writeError(w, r, err)
		return
	}
	_, _ = utils.WriteJSON(w, account, http.StatusOK)
}
