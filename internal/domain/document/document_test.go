package document

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocument(t *testing.T, confidential bool) *Document {
	t.Helper()
	doc, err := NewDocument(uuid.New(), uuid.New(), StoredFile{
		FileName:   "../../etc/Board Minutes.pdf",
		MimeType:   "application/pdf",
		SizeBytes:  1024,
		StorageKey: "companies/x/documents/y.pdf",
	}, Metadata{Tags: []string{"Board", " board ", "2025"}, Confidential: confidential})
	require.NoError(t, err)
	return doc
}

func TestNewDocument_Defaults(t *testing.T) {
	doc := newTestDocument(t, false)

	assert.Equal(t, "Board Minutes.pdf", doc.FileName)
	assert.Equal(t, "Board Minutes", doc.Title)
	assert.Equal(t, []string{"board", "2025"}, doc.Tags)
	assert.Equal(t, StatusActive, doc.Status)
	assert.Len(t, doc.GetDomainEvents(), 1)
}

func TestNewDocument_RejectsEmptyFile(t *testing.T) {
	_, err := NewDocument(uuid.New(), uuid.New(), StoredFile{FileName: "a.txt", StorageKey: "k"}, Metadata{})
	assert.Error(t, err)
}

func TestArchiveRestore(t *testing.T) {
	doc := newTestDocument(t, false)

	require.NoError(t, doc.Archive())
	assert.Error(t, doc.Archive())
	assert.Error(t, doc.UpdateMetadata(Metadata{Title: "x"}))
	require.NoError(t, doc.Restore())
	assert.Equal(t, StatusActive, doc.Status)
}

func TestPolicy(t *testing.T) {
	now := time.Now()
	viewer := uuid.New()
	past := now.Add(-time.Hour)

	t.Run("privileged sees confidential", func(t *testing.T) {
		doc := newTestDocument(t, true)
		p := Policy{Role: company.RoleAdmin, UserID: viewer}
		assert.True(t, p.CanView(doc, now))
		assert.True(t, p.CanManage(doc, now))
	})

	t.Run("viewer sees public only", func(t *testing.T) {
		public := newTestDocument(t, false)
		secret := newTestDocument(t, true)
		p := Policy{Role: company.RoleViewer, UserID: viewer}
		assert.True(t, p.CanView(public, now))
		assert.False(t, p.CanView(secret, now))
		assert.False(t, p.CanEdit(public, now))
	})

	t.Run("grant opens confidential", func(t *testing.T) {
		doc := newTestDocument(t, true)
		grant, err := NewAccess(doc, viewer, uuid.New(), PermissionEdit, nil)
		require.NoError(t, err)
		p := Policy{Role: company.RoleViewer, UserID: viewer, Grant: grant}
		assert.True(t, p.CanView(doc, now))
		assert.True(t, p.CanEdit(doc, now))
		assert.False(t, p.CanManage(doc, now))
	})

	t.Run("expired grant is ignored", func(t *testing.T) {
		doc := newTestDocument(t, true)
		grant := &Access{UserID: viewer, Permission: PermissionManage, ExpiresAt: &past}
		p := Policy{Role: company.RoleAccountant, UserID: viewer, Grant: grant}
		assert.False(t, p.CanView(doc, now))
		assert.False(t, p.CanManage(doc, now))
	})

	t.Run("grant for someone else is ignored", func(t *testing.T) {
		doc := newTestDocument(t, true)
		grant := &Access{UserID: uuid.New(), Permission: PermissionView}
		p := Policy{Role: company.RoleViewer, UserID: viewer, Grant: grant}
		assert.False(t, p.CanView(doc, now))
	})
}

func TestNewAccess_Validation(t *testing.T) {
	doc := newTestDocument(t, true)
	past := time.Now().Add(-time.Minute)

	_, err := NewAccess(doc, uuid.New(), uuid.New(), "OWN", nil)
	assert.Error(t, err)
	_, err = NewAccess(doc, uuid.New(), uuid.New(), PermissionView, &past)
	assert.Error(t, err)
}

func TestResolveMimeType(t *testing.T) {
	tests := []struct {
		sniffed, name, want string
	}{
		{"application/pdf", "a.pdf", "application/pdf"},
		{"application/zip", "sheet.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"application/zip", "archive.zip", "application/zip"},
		{"text/plain; charset=utf-8", "rows.csv", "text/csv"},
		{"text/plain; charset=utf-8", "notes.txt", "text/plain"},
		{"application/x-ole-storage", "ledger.xls", "application/vnd.ms-excel"},
		{"application/x-ole-storage", "ledger.docx", "application/x-ole-storage"},
		{"application/zip", "memo.doc", "application/zip"},
		{"application/octet-stream", "payload.xls", "application/octet-stream"},
		{"application/octet-stream", "payload.docx", "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveMimeType(tt.sniffed, tt.name))
		})
	}
}

func TestMimeAllowList(t *testing.T) {
	l := NewMimeAllowList(nil)
	assert.True(t, l.Allows("application/pdf"))
	assert.True(t, l.Allows("IMAGE/PNG"))
	assert.False(t, l.Allows("application/x-msdownload"))
	assert.False(t, l.Allows(ResolveMimeType("application/octet-stream", "payload.xls")))
}

func TestNewCategory_Validation(t *testing.T) {
	c, err := NewCategory(uuid.New(), uuid.New(), " Contracts ", "", "#a1b2c3", 84)
	require.NoError(t, err)
	assert.Equal(t, "Contracts", c.Name)
	assert.Equal(t, "#A1B2C3", c.Color)

	_, err = NewCategory(uuid.New(), uuid.New(), "Bad", "", "red", 0)
	assert.Error(t, err)
}
