package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/legalsift/docsift/internal/core/domain"
)

// CreateFromUpload stores the bytes, extracts text and persists the record.
// Extraction problems never fail the upload; they leave the text empty.
func (s *DocumentService) CreateFromUpload(ctx context.Context, req domain.UploadRequest) (*domain.Document, error) {
	if err := validateUpload(&req); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(req.Filename))
	object, err := s.storage.Put(ctx, storageKey, req.MimeType, req.Data)
	if err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	text := s.extractText(req.Data, req.Format)
	now := s.now()
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	doc := &domain.Document{
		ID:            id,
		OwnerID:       req.OwnerID,
		CaseID:        req.CaseID,
		Filename:      req.Filename,
		Format:        req.Format,
		MimeType:      req.MimeType,
		Size:          int64(len(req.Data)),
		StorageURL:    object.URL,
		StorageID:     object.ID,
		DocumentType:  req.DocumentType,
		ExtractedText: text,
		Tags:          tags,
		SharedWith:    []domain.Share{},
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		if delErr := s.storage.Delete(context.WithoutCancel(ctx), object.ID); delErr != nil {
			s.logger.Warn("orphaned_object_cleanup_failed", "storage_id", object.ID, "error", delErr)
		}
		return nil, fmt.Errorf("create document metadata: %w", err)
	}

	s.logger.Info("document_uploaded",
		"document_id", doc.ID,
		"owner_id", doc.OwnerID,
		"format", string(doc.Format),
		"bytes", doc.Size,
		"text_chars", len(doc.ExtractedText),
	)
	return doc, nil
}

func validateUpload(req *domain.UploadRequest) error {
	const op = "create document from upload"
	if req.OwnerID == "" {
		return domain.WrapError(domain.ErrInvalidInput, op, errors.New("owner id is required"))
	}
	if len(req.Data) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, op, errors.New("file is empty"))
	}
	if req.Format == "" {
		req.Format = domain.ParseFormat(req.Filename, req.MimeType, "")
	}
	if !req.Format.Uploadable() {
		return domain.WrapError(domain.ErrUnsupportedFormat, op, fmt.Errorf("format %q is not accepted", req.Format))
	}
	if req.DocumentType == "" {
		req.DocumentType = domain.DocumentTypeOther
	}
	if !req.DocumentType.Valid() {
		return domain.WrapError(domain.ErrInvalidInput, op, fmt.Errorf("unknown document type %q", req.DocumentType))
	}
	if req.Filename == "" {
		req.Filename = "document." + string(req.Format)
	}
	return nil
}

// extractText never fails: errors and panics from the extractor degrade to "".
func (s *DocumentService) extractText(data []byte, format domain.FileFormat) (text string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("text_extraction_failed", "format", string(format), "error", fmt.Sprint(r), "panic", true)
			s.observer.ObserveExtraction(format, "error")
			text = ""
		}
	}()

	text, err := s.extractor.Extract(data, format)
	if err != nil {
		s.logger.Warn("text_extraction_failed", "format", string(format), "error", err)
		s.observer.ObserveExtraction(format, "error")
		return ""
	}
	text = strings.TrimSpace(text)
	if text == "" {
		s.observer.ObserveExtraction(format, "empty")
		return ""
	}
	s.observer.ObserveExtraction(format, "ok")
	return text
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == "/" {
		return "document.bin"
	}
	return base
}
