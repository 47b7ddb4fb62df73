package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"alumniport/internal/csvout"
	"alumniport/internal/extract"
	"alumniport/internal/models"
	"alumniport/internal/ocr"
	"alumniport/internal/pipeline"
)

const maxImageBytes = 20 << 20

// ExtractImage: POST /api/admin/image-extraction/extract
// multipart/form-data with file field "image"
func (h *Handler) ExtractImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"error": "failed to parse form or file too large"})
		return
	}

	file, header, err := h.imageFile(r)
	if err != nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"error": "No image file provided"})
		return
	}
	defer file.Close()

	imgBytes, err := io.ReadAll(file)
	if err != nil || len(imgBytes) == 0 {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"error": "failed to read uploaded file"})
		return
	}

	out, err := h.Extractor.Extract(r.Context(), header.Filename, imgBytes)
	switch {
	case errors.Is(err, extract.ErrEmptyExtraction):
		writeJSONResp(w, http.StatusOK, map[string]any{
			"success":       true,
			"extractedText": out.Text,
			"alumniRecords": []map[string]string{},
			"csvData":       "",
			"diagnostics":   []pipeline.Diagnostic{},
			"message":       "Text extracted but parsing failed. Please check the extracted text manually.",
		})
		return
	case errors.Is(err, ocr.ErrEngineFailure):
		h.Logger.Error("ocr failed", zap.String("image", header.Filename), zap.Error(err))
		writeJSONResp(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Failed to extract text from image. Please ensure the image is clear and contains Bengali text.",
		})
		return
	case err != nil:
		h.Logger.Error("image extraction failed", zap.String("image", header.Filename), zap.Error(err))
		writeJSONResp(w, http.StatusInternalServerError, map[string]any{"error": "Failed to process image", "details": err.Error()})
		return
	}

	res := pipeline.Run(out.Entries, h.Options)
	h.logDiagnostics(res)
	csvData, err := csvout.Bytes(res.Rows)
	if err != nil {
		writeJSONResp(w, http.StatusInternalServerError, map[string]any{"error": "Failed to process image", "details": err.Error()})
		return
	}

	diags := res.Diagnostics
	if diags == nil {
		diags = []pipeline.Diagnostic{}
	}
	writeJSONResp(w, http.StatusOK, map[string]any{
		"success":       true,
		"extractedText": out.Text,
		"alumniRecords": recordMaps(res.Rows),
		"csvData":       string(csvData),
		"diagnostics":   diags,
		"message":       fmt.Sprintf("Successfully extracted %d alumni records", len(res.Rows)),
	})
}

// imageFile prefers the "image" field, then a few common alternatives, then
// the first file field of the form.
func (h *Handler) imageFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	if f, hdr, err := r.FormFile("image"); err == nil {
		return f, hdr, nil
	}
	var available []string
	if r.MultipartForm != nil && r.MultipartForm.File != nil {
		for k := range r.MultipartForm.File {
			available = append(available, k)
		}
	}
	h.Logger.Debug("image field missing", zap.Strings("available_file_keys", available))

	alts := []string{"file", "upload", "photo", "page", "image[]", "files[]"}
	for _, a := range alts {
		for _, k := range available {
			if strings.EqualFold(k, a) {
				if f, hdr, err := r.FormFile(k); err == nil {
					return f, hdr, nil
				}
			}
		}
	}
	if len(available) > 0 {
		return r.FormFile(available[0])
	}
	return nil, nil, http.ErrMissingFile
}

func recordMaps(rows []models.AlumniOutputRow) []map[string]string {
	out := make([]map[string]string, len(rows))
	for i, row := range rows {
		rec := row.Record()
		m := make(map[string]string, len(csvout.Columns))
		for j, col := range csvout.Columns {
			m[col] = rec[j]
		}
		out[i] = m
	}
	return out
}
