package handlers

import (
	"net/http"

	"alumniport/internal/db"
	"alumniport/internal/middleware"
)

// AuthMe returns the caller's token subject and the import settings the
// server assembles rows with.
// GET /api/admin/auth/me (protected)
func (h *Handler) AuthMe(w http.ResponseWriter, r *http.Request) {
	sub, ok := r.Context().Value(middleware.SubjectKey).(string)
	if !ok || sub == "" {
		writeJSONResp(w, http.StatusUnauthorized, map[string]any{"error": "subject is missing or invalid"})
		return
	}

	reg := h.Options.Registration
	writeJSONResp(w, http.StatusOK, map[string]any{
		"subject":          sub,
		"role":             middleware.RoleAdmin,
		"registration":     map[string]any{"program": reg.Program, "year_tag": reg.YearTag, "width": reg.Width},
		"email_domain":     h.Options.Email.Domain,
		"email_year":       h.Options.Email.IncludeYear,
		"staging_database": db.DB != nil,
	})
}
