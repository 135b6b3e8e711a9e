package domain

import (
	"path/filepath"
	"strings"
	"time"
)

type DocumentType string

const (
	DocumentTypeContract           DocumentType = "contract"
	DocumentTypeAgreement          DocumentType = "agreement"
	DocumentTypeLease              DocumentType = "lease"
	DocumentTypeLoanDocument       DocumentType = "loan_document"
	DocumentTypeEmploymentContract DocumentType = "employment_contract"
	DocumentTypePropertyDocument   DocumentType = "property_document"
	DocumentTypeLegalNotice        DocumentType = "legal_notice"
	DocumentTypeCourtDocument      DocumentType = "court_document"
	DocumentTypeOther              DocumentType = "other"
)

var documentTypes = []DocumentType{
	DocumentTypeContract,
	DocumentTypeAgreement,
	DocumentTypeLease,
	DocumentTypeLoanDocument,
	DocumentTypeEmploymentContract,
	DocumentTypePropertyDocument,
	DocumentTypeLegalNotice,
	DocumentTypeCourtDocument,
	DocumentTypeOther,
}

func DocumentTypes() []DocumentType {
	out := make([]DocumentType, len(documentTypes))
	copy(out, documentTypes)
	return out
}

func (t DocumentType) Valid() bool {
	for _, known := range documentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label renders the type for prompts: "loan_document" -> "loan document".
func (t DocumentType) Label() string {
	if t == "" {
		return string(DocumentTypeOther)
	}
	return strings.ReplaceAll(string(t), "_", " ")
}

type FileFormat string

const (
	FormatPDF  FileFormat = "pdf"
	FormatDOCX FileFormat = "docx"
	FormatDOC  FileFormat = "doc"
	FormatTXT  FileFormat = "txt"
	FormatJPG  FileFormat = "jpg"
	FormatJPEG FileFormat = "jpeg"
	FormatPNG  FileFormat = "png"
)

// Extractable reports whether text can be pulled out of the format.
func (f FileFormat) Extractable() bool {
	switch f {
	case FormatPDF, FormatDOCX, FormatDOC, FormatTXT:
		return true
	default:
		return false
	}
}

// Uploadable reports whether the format is accepted for storage at all.
func (f FileFormat) Uploadable() bool {
	switch f {
	case FormatJPG, FormatJPEG, FormatPNG:
		return true
	default:
		return f.Extractable()
	}
}

var mimeFormats = map[string]FileFormat{
	"application/pdf":    FormatPDF,
	"application/msword": FormatDOC,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatDOCX,
	"text/plain": FormatTXT,
	"image/jpeg": FormatJPEG,
	"image/jpg":  FormatJPG,
	"image/png":  FormatPNG,
}

// ParseFormat resolves the declared format of an upload. An explicit
// declaration wins, then the filename extension, then the MIME type.
func ParseFormat(filename, mimeType, declared string) FileFormat {
	if v := normalizeFormat(declared); v != "" {
		return FileFormat(v)
	}
	if ext := normalizeFormat(filepath.Ext(filename)); ext != "" {
		return FileFormat(ext)
	}
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(mt, ";"); idx >= 0 {
		mt = strings.TrimSpace(mt[:idx])
	}
	if f, ok := mimeFormats[mt]; ok {
		return f
	}
	if idx := strings.LastIndex(mt, "/"); idx >= 0 {
		return FileFormat(mt[idx+1:])
	}
	return FileFormat(mt)
}

func normalizeFormat(raw string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), "."))
}

type Permission string

const (
	PermissionRead    Permission = "read"
	PermissionComment Permission = "comment"
	PermissionEdit    Permission = "edit"
)

func (p Permission) Valid() bool {
	switch p {
	case PermissionRead, PermissionComment, PermissionEdit:
		return true
	default:
		return false
	}
}

type Share struct {
	UserID     string     `json:"userId"`
	Permission Permission `json:"permission"`
	SharedAt   time.Time  `json:"sharedAt"`
}

// Document is the durable record of an uploaded file. Records are never
// removed; IsActive=false hides them from every read.
type Document struct {
	ID            string       `json:"id"`
	OwnerID       string       `json:"ownerId"`
	CaseID        string       `json:"caseId,omitempty"`
	Filename      string       `json:"filename"`
	Format        FileFormat   `json:"format"`
	MimeType      string       `json:"mimeType,omitempty"`
	Size          int64        `json:"size"`
	StorageURL    string       `json:"storageUrl"`
	StorageID     string       `json:"storageId"`
	DocumentType  DocumentType `json:"documentType"`
	ExtractedText string       `json:"extractedText"`
	Analysis      *Analysis    `json:"analysis,omitempty"`
	Tags          []string     `json:"tags"`
	SharedWith    []Share      `json:"sharedWith"`
	IsActive      bool         `json:"isActive"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

func (d *Document) IsAnalyzed() bool {
	return d != nil && d.Analysis != nil && d.Analysis.IsAnalyzed
}

// CanRead reports whether userID owns the document or was given any permission on it.
func (d *Document) CanRead(userID string) bool {
	if d == nil || userID == "" {
		return false
	}
	if d.OwnerID == userID {
		return true
	}
	for _, share := range d.SharedWith {
		if share.UserID == userID {
			return true
		}
	}
	return false
}

// UpsertShare replaces the permission of an existing share or appends a new one.
func (d *Document) UpsertShare(share Share) {
	for i := range d.SharedWith {
		if d.SharedWith[i].UserID == share.UserID {
			d.SharedWith[i].Permission = share.Permission
			return
		}
	}
	d.SharedWith = append(d.SharedWith, share)
}

type StoredObject struct {
	ID  string
	URL string
}

// UploadRequest carries an accepted file into the pipeline. Data is consumed once.
type UploadRequest struct {
	OwnerID      string
	CaseID       string
	Filename     string
	MimeType     string
	Format       FileFormat
	DocumentType DocumentType
	Tags         []string
	Data         []byte
}

type ListFilter struct {
	DocumentType DocumentType
	CaseID       string
	Page         int
	Limit        int
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Normalize clamps paging to sane bounds.
func (f ListFilter) Normalize() ListFilter {
	out := f
	if out.Page < 1 {
		out.Page = 1
	}
	if out.Limit <= 0 {
		out.Limit = DefaultPageLimit
	}
	if out.Limit > MaxPageLimit {
		out.Limit = MaxPageLimit
	}
	return out
}

func (f ListFilter) Offset() int {
	n := f.Normalize()
	return (n.Page - 1) * n.Limit
}

type DocumentPage struct {
	Documents []Document `json:"documents"`
	Page      int        `json:"page"`
	Limit     int        `json:"limit"`
	Total     int        `json:"total"`
}
