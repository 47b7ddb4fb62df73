package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"alumniport/internal/csvout"
	"alumniport/internal/models"
	"alumniport/internal/pipeline"
	"alumniport/internal/transliterate"
)

type convertReq struct {
	Batch   string                     `json:"batch"`
	Entries []models.AlumniSourceEntry `json:"entries"`
}

// ConvertEntries: POST /api/admin/alumni-migration/convert
// JSON {"entries": [...]} in, import CSV out.
func (h *Handler) ConvertEntries(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)
	var req convertReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return
	}
	if len(req.Entries) == 0 {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"error": "entries is required"})
		return
	}

	var problems []string
	for i := range req.Entries {
		e := &req.Entries[i]
		e.YearOfLeaving = strings.TrimSpace(transliterate.Digits(e.YearOfLeaving))
		e.DeceasedYear = strings.TrimSpace(transliterate.Digits(e.DeceasedYear))
		if hon, err := models.ParseHonorific(string(e.Honorific)); err == nil {
			e.Honorific = hon
		}
		if err := e.Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("entries[%d]: %s", i, strings.ReplaceAll(err.Error(), "\n", "; ")))
		}
	}
	if len(problems) > 0 {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"error": "invalid entries", "details": problems})
		return
	}

	res := pipeline.Run(req.Entries, h.Options)
	h.logDiagnostics(res)
	data, err := csvout.Bytes(res.Rows)
	if err != nil {
		http.Error(w, "failed to render csv", http.StatusInternalServerError)
		return
	}

	name := strings.TrimSpace(req.Batch)
	if name == "" {
		name = "alumni-import"
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
	w.Header().Set("X-Alumni-Diagnostics", strconv.Itoa(len(res.Diagnostics)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
