package apiserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/merchware/scanlink/pkg/backend"
	"github.com/merchware/scanlink/pkg/db"
	"github.com/merchware/scanlink/pkg/model"
	"github.com/merchware/scanlink/pkg/version"
	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 256

type handler struct {
	backend backend.Backend
}

func newHandler(b backend.Backend) *handler {
	return &handler{
		backend: b,
	}
}

func (h *handler) root(w http.ResponseWriter, r *http.Request) {
	v := version.Get()
	if err := json.NewEncoder(w).Encode(v); err != nil {
		w.WriteHeader(500)
		_, _ = w.Write([]byte(`{"success": false}`))
	}
	w.WriteHeader(200)
}

func (h *handler) createQuestion(w http.ResponseWriter, r *http.Request) {
	var input model.QuestionRequest
	decoder := json.NewDecoder(r.Body)
	err := decoder.Decode(&input)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := validateQuestion(input); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	shopURL, err := shopURLFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	record, err := h.backend.CreateQuestion(shopURL, input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	res, err := json.Marshal(record)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(res)
}

func (h *handler) listRecords(w http.ResponseWriter, r *http.Request) {
	shopURL, err := shopURLFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	records, err := h.backend.ListRecords(shopURL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	enriched, err := h.backend.Enrich(r.Context(), records)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeSuccess(w, enriched, "")
}

func (h *handler) getRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	record, err := h.backend.GetRecord(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if record.ID == 0 {
		writeError(w, http.StatusNotFound, fmt.Errorf("record %d not found", id))
		return
	}

	enriched, err := h.backend.Enrich(r.Context(), []db.Record{record})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	// The image link is display-only and derived; only single reads carry it
	response := enriched[0]
	response.ImageURL = h.backend.ImageURL(record.ID)

	writeSuccess(w, response, "")
}

func (h *handler) answerQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var input model.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.backend.AnswerQuestion(id, input); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeSuccess(w, map[string]bool{"success": true}, "")
}

func (h *handler) configureDestination(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var input model.DestinationRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.backend.ConfigureDestination(id, input); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeSuccess(w, map[string]bool{"success": true}, "")
}

func (h *handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.backend.DeleteRecord(id); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeSuccess(w, map[string]bool{"success": true}, "")
}

func (h *handler) scan(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	record, err := h.backend.GetRecord(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if record.ID == 0 {
		writeError(w, http.StatusNotFound, fmt.Errorf("record %d not found", id))
		return
	}

	target, err := h.backend.RecordScanAndResolve(record)
	if err != nil {
		var unrecognized *model.UnrecognizedDestinationError
		if errors.As(err, &unrecognized) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}

func (h *handler) image(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	record, err := h.backend.GetRecord(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if record.ID == 0 {
		writeError(w, http.StatusNotFound, fmt.Errorf("record %d not found", id))
		return
	}

	png, err := qrcode.Encode(h.backend.ScanURL(record.ID), qrcode.Medium, qrImageSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func validateQuestion(input model.QuestionRequest) error {
	if input.Question == "" {
		return fmt.Errorf("question must be provided")
	}
	if input.QuestionedBy == "" {
		return fmt.Errorf("questionedBy must be provided")
	}
	if input.QuestionedOn == "" {
		return fmt.Errorf("questionedOn must be provided")
	}
	if input.ProductID == "" {
		return fmt.Errorf("productId must be provided")
	}
	return nil
}

// shopURLFromRequest builds the tenant's base URL from the shop query
// parameter, the same value the app proxy forwards on storefront requests.
func shopURLFromRequest(r *http.Request) (string, error) {
	shop := r.URL.Query().Get("shop")
	if shop == "" {
		return "", fmt.Errorf("shop must be provided")
	}
	return "https://" + shop, nil
}

func recordID(r *http.Request) (uint, error) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid record id %q", vars["id"])
	}
	return uint(id), nil
}
