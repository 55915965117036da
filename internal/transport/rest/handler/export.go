package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"govassess/internal/service"
)

// ExportHandler serves the CSV export documents.
type ExportHandler struct {
	exportSvc *service.ExportService
}

// NewExportHandler creates a new export handler.
func NewExportHandler(exportSvc *service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// Download handles GET /v1/export/{doc}
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	doc := mux.Vars(r)["doc"]

	var buf bytes.Buffer
	if err := h.exportSvc.Write(doc, &buf); err != nil {
		if errors.Is(err, service.ErrUnknownDocument) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.Filename(doc)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
