package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-claim-vault/internal/utils"
	"github.com/MKhiriev/go-claim-vault/models"
)

func (h *Handler) createSchedule(w http.ResponseWriter, r *http.Request) {
	var body models.CreateScheduleRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	h.process(w, r, models.Request{Kind: models.RequestCreateSchedule, CreateSchedule: &body}, http.StatusCreated)
}

func (h *Handler) getSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := pathIdentity(r, "scheduleID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	schedule, err := h.services.ScheduleService.GetSchedule(r.Context(), scheduleID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	_, _ = utils.WriteJSON(w, models.NewScheduleView(schedule), http.StatusOK)
}

func (h *Handler) setScheduleStatus(w http.ResponseWriter, r *http.Request) {
	var body models.SetScheduleStatusRequest
	scheduleID, err := pathIdentity(r, "scheduleID")
	if err == nil {
		err = decodeBody(r, &body)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	body.ScheduleID = scheduleID
	h.process(w, r, models.Request{Kind: models.RequestSetScheduleStatus, SetScheduleStatus: &body}, http.StatusOK)
}

func (h *Handler) redeem(w http.ResponseWriter, r *http.Request) {
	var body models.RedeemRequest
	scheduleID, err := pathIdentity(r, "scheduleID")
	if err == nil {
		err = decodeBody(r, &body)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	body.ScheduleID = scheduleID
	h.process(w, r, models.Request{Kind: models.RequestRedeem, Redeem: &body}, http.StatusOK)
}

func (h *Handler) isRedeemed(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := pathIdentity(r, "scheduleID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	index, err := strconv.ParseUint(chi.URLParam(r, "index"), 10, 16)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w index: %w", ErrInvalidPathParam, err))
		return
	}

	status, err := h.services.ScheduleService.IsRedeemed(r.Context(), scheduleID, uint16(index))
	if err != nil {
		writeError(w, r, err)
		return
	}
	_, _ = utils.WriteJSON(w, status, http.StatusOK)
}
