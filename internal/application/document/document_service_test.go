package document

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/document"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*document.Category, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, companyID uuid.UUID) ([]document.Category, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]document.Category), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByName(ctx context.Context, companyID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, companyID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) CountDocuments(ctx context.Context, companyID, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, companyID, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, c *document.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*document.Document, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter document.Filter) ([]document.Document, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]document.Document), args.Get(1).(int64), args.Error(2)
}

func (m *MockDocumentRepository) Count(ctx context.Context, companyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) Save(ctx context.Context, d *document.Document) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

type MockAccessRepository struct {
	mock.Mock
}

func (m *MockAccessRepository) Find(ctx context.Context, companyID, documentID, userID uuid.UUID) (*document.Access, error) {
	args := m.Called(ctx, companyID, documentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Access), args.Error(1)
}

func (m *MockAccessRepository) FindByDocument(ctx context.Context, companyID, documentID uuid.UUID) ([]document.Access, error) {
	args := m.Called(ctx, companyID, documentID)
	return args.Get(0).([]document.Access), args.Error(1)
}

func (m *MockAccessRepository) Save(ctx context.Context, a *document.Access) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAccessRepository) Delete(ctx context.Context, companyID, documentID, userID uuid.UUID) error {
	return m.Called(ctx, companyID, documentID, userID).Error(0)
}

// activityLog records appended activities
type activityLog struct {
	mu      sync.Mutex
	entries []*document.Activity
}

func (l *activityLog) Append(_ context.Context, a *document.Activity) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, a)
	return nil
}

func (l *activityLog) FindByDocument(_ context.Context, _, documentID uuid.UUID, _ shared.Filter) ([]document.Activity, int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []document.Activity
	for _, a := range l.entries {
		if a.DocumentID == documentID {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

func (l *activityLog) actions() []document.Action {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]document.Action, len(l.entries))
	for i, a := range l.entries {
		out[i] = a.Action
	}
	return out
}

type memberFinder struct {
	company.MembershipRepository
	members map[uuid.UUID]bool
}

func (f *memberFinder) Find(_ context.Context, companyID, userID uuid.UUID) (*company.Membership, error) {
	if !f.members[userID] {
		return nil, shared.NotFound("Membership")
	}
	return &company.Membership{CompanyID: companyID, UserID: userID, Role: company.RoleViewer}, nil
}

// fakeStorage keeps objects in a map
type fakeStorage struct {
	objects map[string][]byte
	putErr  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if s.putErr != nil {
		return s.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *fakeStorage) Get(_ context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, ObjectInfo{}, shared.NotFound("File")
	}
	return io.NopCloser(bytes.NewReader(data)), ObjectInfo{Size: int64(len(data))}, nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) PresignGet(_ context.Context, key, _ string, expiry time.Duration) (string, time.Time, error) {
	return "https://vault.example.rw/" + key, time.Now().Add(expiry), nil
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

type fixture struct {
	svc        *DocumentService
	categories *MockCategoryRepository
	documents  *MockDocumentRepository
	grants     *MockAccessRepository
	activities *activityLog
	members    *memberFinder
	storage    *fakeStorage
	publisher  *recordingPublisher
	companyID  uuid.UUID
}

func newFixture(maxSize int64) *fixture {
	f := &fixture{
		categories: new(MockCategoryRepository),
		documents:  new(MockDocumentRepository),
		grants:     new(MockAccessRepository),
		activities: &activityLog{},
		members:    &memberFinder{members: map[uuid.UUID]bool{}},
		storage:    newFakeStorage(),
		publisher:  &recordingPublisher{},
		companyID:  uuid.New(),
	}
	f.svc = NewDocumentService(f.categories, f.documents, f.grants, f.activities, f.members, f.storage,
		config.UploadConfig{MaxSize: maxSize}, f.publisher, zap.NewNop())
	return f
}

func (f *fixture) actor(role company.Role) access.Actor {
	return access.Actor{UserID: uuid.New(), CompanyID: f.companyID, Role: role, IPAddress: "10.0.0.7", UserAgent: "test"}
}

func (f *fixture) storedDocument(t *testing.T, uploader uuid.UUID, confidential bool) *document.Document {
	t.Helper()
	doc, err := document.NewDocument(f.companyID, uploader, document.StoredFile{
		FileName:   "statutes.pdf",
		MimeType:   "application/pdf",
		SizeBytes:  8,
		StorageKey: "companies/" + f.companyID.String() + "/documents/x.pdf",
	}, document.Metadata{Title: "Statutes", Confidential: confidential})
	require.NoError(t, err)
	doc.ClearDomainEvents()
	f.storage.objects[doc.StorageKey] = []byte("%PDF-1.4")
	f.documents.On("FindByID", mock.Anything, f.companyID, doc.ID).Return(doc, nil)
	return doc
}

func TestDocumentService_Upload_PDF(t *testing.T) {
	f := newFixture(0)
	actor := f.actor(company.RoleAccountant)
	content := "%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\nendobj\n"
	f.documents.On("Save", mock.Anything, mock.AnythingOfType("*document.Document")).Return(nil)

	resp, err := f.svc.Upload(context.Background(), actor, UploadInput{
		FileName: "../../Annual Report.PDF",
		Size:     int64(len(content)),
		Content:  strings.NewReader(content),
		Metadata: MetadataRequest{Tags: []string{"Finance", "finance", "2024"}},
	})

	require.NoError(t, err)
	sum := sha256.Sum256([]byte(content))
	assert.Equal(t, "application/pdf", resp.MimeType)
	assert.Equal(t, "Annual Report.PDF", resp.FileName)
	assert.Equal(t, "Annual Report", resp.Title)
	assert.Equal(t, hex.EncodeToString(sum[:]), resp.Checksum)
	assert.Equal(t, int64(len(content)), resp.SizeBytes)
	assert.Equal(t, []string{"finance", "2024"}, resp.Tags)
	require.Len(t, f.storage.objects, 1)
	for key, data := range f.storage.objects {
		assert.True(t, strings.HasPrefix(key, "companies/"+f.companyID.String()+"/documents/"))
		assert.True(t, strings.HasSuffix(key, ".pdf"))
		assert.Equal(t, content, string(data))
	}
	assert.Equal(t, []document.Action{document.ActionUploaded}, f.activities.actions())
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, document.EventTypeDocumentUploaded, f.publisher.events[0].EventType())
}

func TestDocumentService_Upload_RejectsDisallowedType(t *testing.T) {
	f := newFixture(0)
	gif := "GIF89a\x01\x00\x01\x00\x00\x00\x00;"

	_, err := f.svc.Upload(context.Background(), f.actor(company.RoleOwner), UploadInput{
		FileName: "pixel.gif",
		Size:     int64(len(gif)),
		Content:  strings.NewReader(gif),
	})

	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Empty(t, f.storage.objects)
}

func TestDocumentService_Upload_RejectsUnidentifiedBytesWithOfficeName(t *testing.T) {
	blob := bytes.Repeat([]byte{0x00, 0x9c, 0x13, 0xd7}, 768)
	for _, name := range []string{"payload.xls", "payload.doc", "payload.xlsx", "payload.docx"} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(0)

			_, err := f.svc.Upload(context.Background(), f.actor(company.RoleOwner), UploadInput{
				FileName: name,
				Size:     int64(len(blob)),
				Content:  bytes.NewReader(blob),
			})

			assert.ErrorIs(t, err, shared.ErrInvalidInput)
			assert.Empty(t, f.storage.objects)
		})
	}
}

func TestDocumentService_Upload_RejectsOversize(t *testing.T) {
	f := newFixture(16)

	_, err := f.svc.Upload(context.Background(), f.actor(company.RoleOwner), UploadInput{
		FileName: "notes.txt",
		Size:     17,
		Content:  strings.NewReader(strings.Repeat("a", 17)),
	})

	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, shared.CodeInvalidInput, de.Code)
	assert.Equal(t, int64(16), de.Details["max_bytes"])
	assert.Empty(t, f.storage.objects)
}

func TestDocumentService_Upload_UnderstatedSizeIsCaught(t *testing.T) {
	f := newFixture(16)

	_, err := f.svc.Upload(context.Background(), f.actor(company.RoleOwner), UploadInput{
		FileName: "notes.txt",
		Size:     4,
		Content:  strings.NewReader(strings.Repeat("a", 40)),
	})

	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Empty(t, f.storage.objects, "the partial object is removed")
}

func TestDocumentService_Upload_RemovesObjectWhenSaveFails(t *testing.T) {
	f := newFixture(0)
	f.documents.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := f.svc.Upload(context.Background(), f.actor(company.RoleOwner), UploadInput{
		FileName: "notes.txt",
		Size:     5,
		Content:  strings.NewReader("hello"),
	})

	require.Error(t, err)
	assert.Empty(t, f.storage.objects)
	assert.Empty(t, f.activities.actions())
}

func TestDocumentService_Upload_ViewerForbidden(t *testing.T) {
	f := newFixture(0)

	_, err := f.svc.Upload(context.Background(), f.actor(company.RoleViewer), UploadInput{Size: 1, Content: strings.NewReader("a")})

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestDocumentService_Get_ConfidentialNeedsGrant(t *testing.T) {
	f := newFixture(0)
	viewer := f.actor(company.RoleViewer)
	doc := f.storedDocument(t, uuid.New(), true)
	f.grants.On("Find", mock.Anything, f.companyID, doc.ID, viewer.UserID).Return(nil, shared.NotFound("Document access")).Once()

	_, err := f.svc.Get(context.Background(), viewer, doc.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	grant := &document.Access{DocumentID: doc.ID, UserID: viewer.UserID, Permission: document.PermissionView}
	f.grants.On("Find", mock.Anything, f.companyID, doc.ID, viewer.UserID).Return(grant, nil).Once()

	resp, err := f.svc.Get(context.Background(), viewer, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, resp.ID)
	assert.Equal(t, []document.Action{document.ActionViewed}, f.activities.actions())
}

func TestDocumentService_Get_ExpiredGrantDenied(t *testing.T) {
	f := newFixture(0)
	viewer := f.actor(company.RoleViewer)
	doc := f.storedDocument(t, uuid.New(), true)
	past := time.Now().Add(-time.Hour)
	f.grants.On("Find", mock.Anything, f.companyID, doc.ID, viewer.UserID).
		Return(&document.Access{UserID: viewer.UserID, Permission: document.PermissionManage, ExpiresAt: &past}, nil)

	_, err := f.svc.Get(context.Background(), viewer, doc.ID)

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestDocumentService_List_RestrictsNonPrivileged(t *testing.T) {
	f := newFixture(0)
	accountant := f.actor(company.RoleAccountant)
	f.documents.On("FindAll", mock.Anything, f.companyID, mock.MatchedBy(func(filter document.Filter) bool {
		return filter.VisibleTo != nil && *filter.VisibleTo == accountant.UserID && filter.Tag == "tax"
	})).Return([]document.Document{}, int64(0), nil)

	_, _, err := f.svc.List(context.Background(), accountant, ListDocumentsRequest{Tag: " TAX "})

	require.NoError(t, err)
	f.documents.AssertExpectations(t)
}

func TestDocumentService_Download(t *testing.T) {
	f := newFixture(0)
	owner := f.actor(company.RoleOwner)
	doc := f.storedDocument(t, owner.UserID, false)

	stream, err := f.svc.Download(context.Background(), owner, doc.ID, false)
	require.NoError(t, err)
	body, err := io.ReadAll(stream.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(body))
	assert.Equal(t, "statutes.pdf", stream.FileName)

	redirect, err := f.svc.Download(context.Background(), owner, doc.ID, true)
	require.NoError(t, err)
	assert.Nil(t, redirect.Body)
	assert.Contains(t, redirect.RedirectURL, doc.StorageKey)

	assert.Equal(t, []document.Action{document.ActionDownloaded, document.ActionDownloaded}, f.activities.actions())
}

func TestDocumentService_GrantAccess(t *testing.T) {
	f := newFixture(0)
	admin := f.actor(company.RoleAdmin)
	doc := f.storedDocument(t, admin.UserID, true)
	member := uuid.New()
	f.members.members[member] = true
	f.grants.On("Find", mock.Anything, f.companyID, doc.ID, member).Return(nil, shared.NotFound("Document access"))
	f.grants.On("Save", mock.Anything, mock.AnythingOfType("*document.Access")).Return(nil)

	resp, err := f.svc.GrantAccess(context.Background(), admin, doc.ID, GrantAccessRequest{UserID: member, Permission: "EDIT"})

	require.NoError(t, err)
	assert.Equal(t, "EDIT", resp.Permission)
	assert.Equal(t, admin.UserID, resp.GrantedBy)
	assert.Equal(t, []document.Action{document.ActionShared}, f.activities.actions())
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, document.EventTypeDocumentShared, f.publisher.events[0].EventType())
}

func TestDocumentService_GrantAccess_ReplacesExistingGrant(t *testing.T) {
	f := newFixture(0)
	admin := f.actor(company.RoleAdmin)
	doc := f.storedDocument(t, admin.UserID, true)
	member := uuid.New()
	f.members.members[member] = true
	existing := &document.Access{ID: uuid.New(), DocumentID: doc.ID, UserID: member, Permission: document.PermissionView}
	f.grants.On("Find", mock.Anything, f.companyID, doc.ID, member).Return(existing, nil)
	f.grants.On("Save", mock.Anything, existing).Return(nil)

	resp, err := f.svc.GrantAccess(context.Background(), admin, doc.ID, GrantAccessRequest{UserID: member, Permission: "MANAGE"})

	require.NoError(t, err)
	assert.Equal(t, existing.ID, resp.ID)
	assert.Equal(t, document.PermissionManage, existing.Permission)
}

func TestDocumentService_GrantAccess_NonMember(t *testing.T) {
	f := newFixture(0)
	admin := f.actor(company.RoleAdmin)
	doc := f.storedDocument(t, admin.UserID, false)

	_, err := f.svc.GrantAccess(context.Background(), admin, doc.ID, GrantAccessRequest{UserID: uuid.New(), Permission: "VIEW"})

	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	f.grants.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestDocumentService_Delete(t *testing.T) {
	f := newFixture(0)
	accountant := f.actor(company.RoleAccountant)
	doc := f.storedDocument(t, accountant.UserID, false)
	f.grants.On("Find", mock.Anything, f.companyID, doc.ID, accountant.UserID).Return(nil, shared.NotFound("Document access"))

	err := f.svc.Delete(context.Background(), accountant, doc.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden, "uploading a document does not grant MANAGE")

	owner := f.actor(company.RoleOwner)
	f.documents.On("Delete", mock.Anything, f.companyID, doc.ID).Return(nil)
	require.NoError(t, f.svc.Delete(context.Background(), owner, doc.ID))
	assert.Empty(t, f.storage.objects)
	assert.Equal(t, []document.Action{document.ActionDeleted}, f.activities.actions())
}

func TestDocumentService_DeleteCategory_NotEmpty(t *testing.T) {
	f := newFixture(0)
	admin := f.actor(company.RoleAdmin)
	categoryID := uuid.New()
	f.categories.On("FindByID", mock.Anything, f.companyID, categoryID).Return(&document.Category{}, nil)
	f.categories.On("CountDocuments", mock.Anything, f.companyID, categoryID).Return(int64(3), nil)

	err := f.svc.DeleteCategory(context.Background(), admin, categoryID)

	assert.ErrorIs(t, err, shared.ErrInvalidState)
	f.categories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentService_CreateCategory_Duplicate(t *testing.T) {
	f := newFixture(0)
	admin := f.actor(company.RoleAdmin)
	f.categories.On("ExistsByName", mock.Anything, f.companyID, "Tax", (*uuid.UUID)(nil)).Return(true, nil)

	_, err := f.svc.CreateCategory(context.Background(), admin, CategoryRequest{Name: " Tax "})

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}
