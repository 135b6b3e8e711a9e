package extractor

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legalsift/docsift/internal/core/domain"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Lease Agreement</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve">Rent is due </w:t></w:r><w:r><w:t>monthly.</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestExtractPlainTextIsTrimmed(t *testing.T) {
	ex := New(nil)
	text, err := ex.Extract([]byte("  \n This agreement may be terminated with 30 days notice. \n\t"), domain.FormatTXT)
	require.NoError(t, err)
	assert.Equal(t, "This agreement may be terminated with 30 days notice.", text)
}

func TestExtractLegacyDocDecodesBytesLossily(t *testing.T) {
	ex := New(nil)
	text, err := ex.Extract([]byte{'h', 'i', 0xff, '!'}, domain.FormatDOC)
	require.NoError(t, err)
	assert.Equal(t, "hi�!", text)
}

func TestExtractDOCXKeepsParagraphs(t *testing.T) {
	ex := New(nil)
	text, err := ex.Extract(buildDOCX(t, sampleDocumentXML), domain.FormatDOCX)
	require.NoError(t, err)
	assert.Equal(t, "Lease Agreement\nRent is due monthly.", text)
}

func TestExtractCorruptedInputDegradesToEmptyText(t *testing.T) {
	ex := New(nil)
	valid := buildDOCX(t, sampleDocumentXML)

	cases := []struct {
		name   string
		format domain.FileFormat
		data   []byte
	}{
		{name: "pdf garbage", format: domain.FormatPDF, data: []byte("this is not a pdf at all")},
		{name: "pdf truncated header", format: domain.FormatPDF, data: []byte("%PDF-1.7\n1 0 obj\n<<")},
		{name: "pdf empty", format: domain.FormatPDF, data: nil},
		{name: "docx not a zip", format: domain.FormatDOCX, data: []byte("PK garbage")},
		{name: "docx truncated", format: domain.FormatDOCX, data: valid[:len(valid)/2]},
		{name: "docx missing body", format: domain.FormatDOCX, data: func() []byte {
			var buf bytes.Buffer
			zw := zip.NewWriter(&buf)
			_, _ = zw.Create("word/styles.xml")
			_ = zw.Close()
			return buf.Bytes()
		}()},
		{name: "docx broken xml", format: domain.FormatDOCX, data: buildDOCX(t, "<w:document><w:body><w:p><w:t>unterminated")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var (
				text string
				err  error
			)
			require.NotPanics(t, func() {
				text, err = ex.Extract(tc.data, tc.format)
			})
			require.NoError(t, err)
			assert.Empty(t, text)
		})
	}
}

func TestExtractUnsupportedFormat(t *testing.T) {
	ex := New(nil)
	for _, format := range []domain.FileFormat{"png", "xlsx", "", "PDF"} {
		_, err := ex.Extract([]byte("data"), format)
		require.Error(t, err, "format %q", format)
		assert.True(t, domain.IsKind(err, domain.ErrUnsupportedFormat), "format %q: %v", format, err)
	}
}

func TestGuardRecoversPanics(t *testing.T) {
	text, err := guard(func() (string, error) { panic("boom") })
	assert.Empty(t, text)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
