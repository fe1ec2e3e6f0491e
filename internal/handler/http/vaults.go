package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-claim-vault/internal/utils"
	"github.com/MKhiriev/go-claim-vault/models"
)

func (h *Handler) createVault(w http.ResponseWriter, r *http.Request) {
	var body models.CreateVaultRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	h.process(w, r, models.Request{Kind: models.RequestCreateVault, CreateVault: &body}, http.StatusCreated)
}

func (h *Handler) getVault(w http.ResponseWriter, r *http.Request) {
	vaultID, err := pathIdentity(r, "vaultID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	vault, err := h.services.VaultService.GetVault(r.Context(), vaultID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	_, _ = utils.WriteJSON(w, vault, http.StatusOK)
}

// listVaults requires ?owner=<identity>.
func (h *Handler) listVaults(w http.ResponseWriter, r *http.Request) {
	owner, err := models.ParseIdentity(r.URL.Query().Get("owner"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w owner: %w", ErrInvalidPathParam, err))
		return
	}

	vaults, err := h.services.VaultService.ListVaults(r.Context(), owner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if vaults == nil {
		vaults = []models.Vault{}
	}
	_, _ = utils.WriteJSON(w, vaults, http.StatusOK)
}

func (h *Handler) setAdmins(w http.ResponseWriter, r *http.Request) {
	var body models.SetVaultRequest
	vaultID, err := pathIdentity(r, "vaultID")
	if err == nil {
		err = decodeBody(r, &body)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	body.VaultID = vaultID
	h.process(w, r, models.Request{Kind: models.RequestSetVault, SetVault: &body}, http.StatusOK)
}

func (h *Handler) transferOwnership(w http.ResponseWriter, r *http.Request) {
	var body models.TransferOwnershipRequest
	vaultID, err := pathIdentity(r, "vaultID")
	if err == nil {
		err = decodeBody(r, &body)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	body.VaultID = vaultID
	h.process(w, r, models.Request{Kind: models.RequestTransferOwnership, TransferOwnership: &body}, http.StatusOK)
}

func (h *Handler) acceptOwnership(w http.ResponseWriter, r *http.Request) {
	vaultID, err := pathIdentity(r, "vaultID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.process(w, r, models.Request{
		Kind:            models.RequestAcceptOwnership,
		AcceptOwnership: &models.AcceptOwnershipRequest{VaultID: vaultID},
	}, http.StatusOK)
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	var body models.WithdrawRequest
	vaultID, err := pathIdentity(r, "vaultID")
	if err == nil {
		err = decodeBody(r, &body)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	body.VaultID = vaultID
	h.process(w, r, models.Request{Kind: models.RequestWithdraw, Withdraw: &body}, http.StatusOK)
}

// listVaultSchedules accepts ?active=true to skip deactivated schedules.
func (h *Handler) listVaultSchedules(w http.ResponseWriter, r *http.Request) {
	vaultID, err := pathIdentity(r, "vaultID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	filter := models.ScheduleFilter{VaultID: vaultID, ActiveOnly: r.URL.Query().Get("active") == "true"}
	schedules, err := h.services.ScheduleService.ListSchedules(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]models.ScheduleView, 0, len(schedules))
	for _, s := range schedules {
		views = append(views, models.NewScheduleView(s))
	}
	_, _ = utils.WriteJSON(w, views, http.StatusOK)
}
