package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/legalsift/docsift/internal/core/domain"
	"github.com/legalsift/docsift/internal/infrastructure/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// multipart framing and the non-file fields ride on top of the file limit.
const multipartOverhead = 1 << 20

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.uploadMaxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": fmt.Sprintf("file exceeds %d bytes", rt.uploadMaxBytes)})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart form is required"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	if fileHeader.Size > rt.uploadMaxBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": fmt.Sprintf("file exceeds %d bytes", rt.uploadMaxBytes)})
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read uploaded file"})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	doc, err := rt.service.CreateFromUpload(r.Context(), domain.UploadRequest{
		OwnerID:      callerFromContext(r.Context()),
		CaseID:       strings.TrimSpace(r.FormValue("caseId")),
		Filename:     fileHeader.Filename,
		MimeType:     mimeType,
		Format:       domain.ParseFormat(fileHeader.Filename, mimeType, r.FormValue("format")),
		DocumentType: domain.DocumentType(strings.TrimSpace(r.FormValue("documentType"))),
		Tags:         parseTags(r.MultipartForm.Value["tags"]),
		Data:         data,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// parseTags accepts repeated fields and comma-separated values.
func parseTags(values []string) []string {
	tags := make([]string, 0, len(values))
	for _, value := range values {
		for _, tag := range strings.Split(value, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := optionalInt(query.Get("page"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "page must be an integer"})
		return
	}
	limit, err := optionalInt(query.Get("limit"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be an integer"})
		return
	}

	result, err := rt.service.ListByOwner(r.Context(), callerFromContext(r.Context()), domain.ListFilter{
		DocumentType: domain.DocumentType(strings.TrimSpace(query.Get("documentType"))),
		CaseID:       strings.TrimSpace(query.Get("caseId")),
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func optionalInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.readableDocument(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) deleteDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.ownedDocument(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := rt.service.SoftDelete(r.Context(), doc.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) analyzeDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language string `json:"language"`
		Async    bool   `json:"async"`
	}
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	doc, err := rt.ownedDocument(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if req.Async {
		if err := rt.service.RequestAnalysis(r.Context(), doc.ID, req.Language); err != nil {
			writeError(w, r, err)
			return
		}
		rt.logger.Info("analysis_queued",
			"request_id", requestIDFromContext(r.Context()),
			"document_id", doc.ID,
		)
		writeJSON(w, http.StatusAccepted, map[string]string{"documentId": doc.ID, "status": "queued"})
		return
	}

	analysis, err := rt.service.Analyze(r.Context(), doc.ID, req.Language)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (rt *Router) getAnalysis(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.readableDocument(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	analysis, err := rt.service.GetAnalysis(r.Context(), doc.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (rt *Router) downloadAnalysisWorkbook(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.readableDocument(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	payload, err := report.BuildAnalysisWorkbook(doc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.ID+"-analysis.xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (rt *Router) translateDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetLanguage string `json:"targetLanguage"`
	}
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	doc, err := rt.readableDocument(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	language := domain.ResolveLanguage(req.TargetLanguage)
	text, err := rt.service.Translate(r.Context(), doc.ID, language)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"documentId":   doc.ID,
		"language":     language,
		"languageName": domain.LanguageName(language),
		"translation":  text,
	})
}

func (rt *Router) summarizeDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language string `json:"language"`
		Style    string `json:"style"`
	}
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	style := strings.ToLower(strings.TrimSpace(req.Style))
	if style == "" {
		style = "text"
	}
	if style != "text" && style != "voice" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "style must be text or voice"})
		return
	}
	doc, err := rt.readableDocument(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	language := domain.ResolveLanguage(req.Language)
	var summary string
	if style == "voice" {
		summary, err = rt.service.VoiceSummary(r.Context(), doc.ID, language)
	} else {
		summary, err = rt.service.Summarize(r.Context(), doc.ID, language)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"documentId":   doc.ID,
		"language":     language,
		"languageName": domain.LanguageName(language),
		"style":        style,
		"summary":      summary,
	})
}

func (rt *Router) shareDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID     string `json:"userId"`
		Permission string `json:"permission"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	doc, err := rt.ownedDocument(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := rt.service.Share(r.Context(), doc.ID, domain.Share{
		UserID:     strings.TrimSpace(req.UserID),
		Permission: domain.Permission(strings.TrimSpace(req.Permission)),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (rt *Router) deleteCaseDocuments(w http.ResponseWriter, r *http.Request) {
	caseID := r.PathValue("caseId")
	deleted, err := rt.service.SoftDeleteByCase(r.Context(), callerFromContext(r.Context()), caseID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"caseId": caseID, "deleted": deleted})
}

// readableDocument hides documents the caller neither owns nor was shared.
func (rt *Router) readableDocument(r *http.Request) (*domain.Document, error) {
	id := r.PathValue("id")
	doc, err := rt.service.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if !doc.CanRead(callerFromContext(r.Context())) {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "authorize read", fmt.Errorf("id=%s", id))
	}
	return doc, nil
}

func (rt *Router) ownedDocument(r *http.Request) (*domain.Document, error) {
	id := r.PathValue("id")
	doc, err := rt.service.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != callerFromContext(r.Context()) {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "authorize write", fmt.Errorf("id=%s", id))
	}
	return doc, nil
}

// decodeOptionalJSON accepts an empty body as the zero request.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
	return false
}
