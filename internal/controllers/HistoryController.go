package controllers

import (
	"fmt"
	"net/http"
	"qrkeep/internal/models"
	"qrkeep/internal/providers"
	"qrkeep/internal/services"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

type HistoryController struct {
	logger providers.Logger
	store  services.RecordStoreInterface
}

func NewHistoryController(logger providers.Logger, store services.RecordStoreInterface) *HistoryController {
	return &HistoryController{
		logger: logger,
		store:  store,
	}
}

type historyResponse struct {
	Items []models.HistoryItem `json:"items"`
	Total int                  `json:"total"`
}

type deleteResponse struct {
	Deleted bool `json:"deleted"`
	mutation
}

// List serves GET /history?filter=all|generated|scanned|favorites&q=term.
func (hc *HistoryController) List(w http.ResponseWriter, r *http.Request) {
	filter, err := models.ParseHistoryFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, hc.logger, r, err)
		return
	}
	items := hc.store.FilterHistory(filter, r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, historyResponse{Items: items, Total: hc.store.HistoryLen()})
}

func (hc *HistoryController) Delete(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	deleted, err := hc.store.DeleteHistoryEntry(index)
	hc.writeDelete(w, r, deleted, err)
}

func (hc *HistoryController) DeleteByID(w http.ResponseWriter, r *http.Request) {
	deleted, err := hc.store.DeleteHistoryEntryByID(mux.Vars(r)["id"])
	hc.writeDelete(w, r, deleted, err)
}

func (hc *HistoryController) writeDelete(w http.ResponseWriter, r *http.Request, deleted bool, err error) {
	if !deleted {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Deleted: true, mutation: persistOutcome(hc.logger, r, err)})
}

// Export serves the history backup without settings.
func (hc *HistoryController) Export(w http.ResponseWriter, r *http.Request) {
	hc.export(w, hc.store.ExportSnapshot(false), "qr-history")
}

// ExportFull serves the full backup including settings and a format version.
func (hc *HistoryController) ExportFull(w http.ResponseWriter, r *http.Request) {
	hc.export(w, hc.store.ExportSnapshot(true), "qrkeep-backup")
}

func (hc *HistoryController) export(w http.ResponseWriter, snap models.Snapshot, prefix string) {
	name := fmt.Sprintf("%s-%s.json", prefix, time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	writeJSON(w, http.StatusOK, snap)
}

type importResponse struct {
	History int `json:"history"`
	mutation
}

func (hc *HistoryController) Import(w http.ResponseWriter, r *http.Request) {
	var bundle models.ImportBundle
	if err := decodeBody(w, r, &bundle); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	err := hc.store.ImportHistory(bundle)
	hc.logger.Infof(providers.TypePost, "Imported %d history entries", len(bundle.History))
	writeJSON(w, http.StatusOK, importResponse{History: hc.store.HistoryLen(), mutation: persistOutcome(hc.logger, r, err)})
}

func (hc *HistoryController) Reset(w http.ResponseWriter, r *http.Request) {
	err := hc.store.ResetAll()
	hc.logger.Infof(providers.TypePost, "All records reset")
	writeJSON(w, http.StatusOK, persistOutcome(hc.logger, r, err))
}

// Stats serves the lifetime counters kept alongside the history.
func (hc *HistoryController) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, hc.store.Stats())
}
