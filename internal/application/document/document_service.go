package document

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/document"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/config"
	"github.com/rwbiz/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// DefaultMaxUploadSize caps uploads when no limit is configured
const DefaultMaxUploadSize int64 = 50 << 20

// sniffLen is how much of the content is inspected to detect its type
const sniffLen = 3072

// DocumentService runs the company document vault
type DocumentService struct {
	categoryRepo   document.CategoryRepository
	documentRepo   document.DocumentRepository
	accessRepo     document.AccessRepository
	activityRepo   document.ActivityRepository
	membershipRepo company.MembershipRepository
	storage        ObjectStorage
	allowList      document.MimeAllowList
	maxSize        int64
	publisher      shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewDocumentService creates a new document service
func NewDocumentService(
	categoryRepo document.CategoryRepository,
	documentRepo document.DocumentRepository,
	accessRepo document.AccessRepository,
	activityRepo document.ActivityRepository,
	membershipRepo company.MembershipRepository,
	storage ObjectStorage,
	cfg config.UploadConfig,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *DocumentService {
	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}
	return &DocumentService{
		categoryRepo:   categoryRepo,
		documentRepo:   documentRepo,
		accessRepo:     accessRepo,
		activityRepo:   activityRepo,
		membershipRepo: membershipRepo,
		storage:        storage,
		allowList:      document.NewMimeAllowList(cfg.AllowedMimeTypes),
		maxSize:        maxSize,
		publisher:      publisher,
		logger:         logger,
		now:            time.Now,
	}
}

// MaxUploadSize returns the configured upload limit in bytes
func (s *DocumentService) MaxUploadSize() int64 {
	return s.maxSize
}

// ---- categories ----

// CreateCategory adds a document category
func (s *DocumentService) CreateCategory(ctx context.Context, actor access.Actor, req CategoryRequest) (*CategoryResponse, error) {
	if err := actor.Require(company.ActionManageDocument); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCategory(ctx, actor.CompanyID, req.Name, nil); err != nil {
		return nil, err
	}
	c, err := document.NewCategory(actor.CompanyID, actor.UserID, req.Name, req.Description, req.Color, req.RetentionMonths)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// ListCategories lists all categories of the company
func (s *DocumentService) ListCategories(ctx context.Context, actor access.Actor) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out, nil
}

// UpdateCategory changes a category
func (s *DocumentService) UpdateCategory(ctx context.Context, actor access.Actor, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	if err := actor.Require(company.ActionManageDocument); err != nil {
		return nil, err
	}
	c, err := s.categoryRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCategory(ctx, actor.CompanyID, req.Name, &c.ID); err != nil {
		return nil, err
	}
	if err := c.Update(req.Name, req.Description, req.Color, req.RetentionMonths); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// DeleteCategory removes an empty category
func (s *DocumentService) DeleteCategory(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := actor.Require(company.ActionManageDocument); err != nil {
		return err
	}
	if _, err := s.categoryRepo.FindByID(ctx, actor.CompanyID, id); err != nil {
		return err
	}
	count, err := s.categoryRepo.CountDocuments(ctx, actor.CompanyID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.InvalidState("Category still contains documents").
			WithDetails(map[string]any{"documents": count})
	}
	return s.categoryRepo.Delete(ctx, actor.CompanyID, id)
}

func (s *DocumentService) ensureUniqueCategory(ctx context.Context, companyID uuid.UUID, name string, excludeID *uuid.UUID) error {
	exists, err := s.categoryRepo.ExistsByName(ctx, companyID, strings.TrimSpace(name), excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "A category with this name already exists")
	}
	return nil
}

// ---- documents ----

// Upload stores a file and records its metadata. The object is removed again
// when the metadata cannot be saved.
func (s *DocumentService) Upload(ctx context.Context, actor access.Actor, in UploadInput) (*DocumentResponse, error) {
	if err := actor.Require(company.ActionWrite); err != nil {
		return nil, err
	}
	if in.Size <= 0 {
		return nil, shared.InvalidInput("File is empty")
	}
	if in.Size > s.maxSize {
		return nil, s.tooLarge()
	}
	if in.Metadata.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, actor.CompanyID, *in.Metadata.CategoryID); err != nil {
			return nil, err
		}
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(in.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	fileName := document.SanitizeFileName(in.FileName)
	contentType := document.ResolveMimeType(mimetype.Detect(head).String(), fileName)
	if !s.allowList.Allows(contentType) {
		return nil, shared.InvalidInput("File type is not allowed").
			WithDetails(map[string]any{"mime_type": contentType})
	}

	key := fmt.Sprintf("companies/%s/documents/%s%s", actor.CompanyID, uuid.New(), strings.ToLower(filepath.Ext(fileName)))
	hasher := sha256.New()
	counter := &countingWriter{}
	body := io.TeeReader(
		io.LimitReader(io.MultiReader(bytes.NewReader(head), in.Content), s.maxSize+1),
		io.MultiWriter(hasher, counter),
	)
	if err := s.storage.Put(ctx, key, body, in.Size, contentType); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}
	if counter.n > s.maxSize {
		s.discardObject(ctx, key)
		return nil, s.tooLarge()
	}

	doc, err := document.NewDocument(actor.CompanyID, actor.UserID, document.StoredFile{
		FileName:   fileName,
		MimeType:   contentType,
		SizeBytes:  counter.n,
		Checksum:   hex.EncodeToString(hasher.Sum(nil)),
		StorageKey: key,
	}, in.Metadata.toMetadata())
	if err != nil {
		s.discardObject(ctx, key)
		return nil, err
	}
	if err := s.documentRepo.Save(ctx, doc); err != nil {
		s.discardObject(ctx, key)
		return nil, err
	}
	s.record(ctx, doc, actor, document.ActionUploaded, "")
	access.PublishEvents(ctx, s.publisher, s.logger, doc)

	s.logger.Info("Document uploaded",
		zap.String("company_id", actor.CompanyID.String()),
		zap.String("document_id", doc.ID.String()),
		zap.String("mime_type", contentType),
		zap.Int64("size_bytes", doc.SizeBytes))
	resp := ToDocumentResponse(doc, s.now())
	return &resp, nil
}

func (s *DocumentService) tooLarge() error {
	return shared.InvalidInput(fmt.Sprintf("File exceeds the maximum upload size of %d MB", s.maxSize>>20)).
		WithDetails(map[string]any{"max_bytes": s.maxSize})
}

func (s *DocumentService) discardObject(ctx context.Context, key string) {
	if err := s.storage.Delete(context.WithoutCancel(ctx), key); err != nil {
		logger.Enrich(ctx, s.logger).Error("Failed to remove orphaned object", zap.String("storage_key", key), zap.Error(err))
	}
}

// List lists documents visible to the caller
func (s *DocumentService) List(ctx context.Context, actor access.Actor, req ListDocumentsRequest) ([]DocumentResponse, int64, error) {
	filter := document.Filter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
			Search:   req.Search,
		},
		CategoryID: req.CategoryID,
		Status:     document.Status(req.Status),
		Tag:        strings.ToLower(strings.TrimSpace(req.Tag)),
	}
	if !actor.IsPrivileged() {
		filter.VisibleTo = &actor.UserID
	}
	docs, total, err := s.documentRepo.FindAll(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	out := make([]DocumentResponse, len(docs))
	for i := range docs {
		out[i] = ToDocumentResponse(&docs[i], now)
	}
	return out, total, nil
}

// Get returns a document's metadata and logs the view
func (s *DocumentService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*DocumentResponse, error) {
	doc, policy, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(doc, s.now()) {
		return nil, shared.Forbidden("You do not have access to this document")
	}
	s.record(ctx, doc, actor, document.ActionViewed, "")
	resp := ToDocumentResponse(doc, s.now())
	return &resp, nil
}

// Download opens the document content, or signs a URL for it when redirect is set
func (s *DocumentService) Download(ctx context.Context, actor access.Actor, id uuid.UUID, redirect bool) (*Download, error) {
	doc, policy, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(doc, s.now()) {
		return nil, shared.Forbidden("You do not have access to this document")
	}

	out := &Download{FileName: doc.FileName, ContentType: doc.MimeType, Size: doc.SizeBytes}
	if redirect {
		out.RedirectURL, out.ExpiresAt, err = s.storage.PresignGet(ctx, doc.StorageKey, doc.FileName, 0)
		if err != nil {
			return nil, err
		}
	} else {
		var info ObjectInfo
		out.Body, info, err = s.storage.Get(ctx, doc.StorageKey)
		if err != nil {
			return nil, err
		}
		if info.Size > 0 {
			out.Size = info.Size
		}
	}
	s.record(ctx, doc, actor, document.ActionDownloaded, "")
	return out, nil
}

// UpdateMetadata changes the descriptive fields of a document
func (s *DocumentService) UpdateMetadata(ctx context.Context, actor access.Actor, id uuid.UUID, req MetadataRequest) (*DocumentResponse, error) {
	doc, policy, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanEdit(doc, s.now()) {
		return nil, shared.Forbidden("You cannot edit this document")
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, actor.CompanyID, *req.CategoryID); err != nil {
			return nil, err
		}
	}
	if err := doc.UpdateMetadata(req.toMetadata()); err != nil {
		return nil, err
	}
	if err := s.documentRepo.Save(ctx, doc); err != nil {
		return nil, err
	}
	s.record(ctx, doc, actor, document.ActionUpdated, "")
	resp := ToDocumentResponse(doc, s.now())
	return &resp, nil
}

// Archive hides a document from active listings
func (s *DocumentService) Archive(ctx context.Context, actor access.Actor, id uuid.UUID) (*DocumentResponse, error) {
	return s.transition(ctx, actor, id, document.ActionArchived, (*document.Document).Archive)
}

// Restore brings an archived document back
func (s *DocumentService) Restore(ctx context.Context, actor access.Actor, id uuid.UUID) (*DocumentResponse, error) {
	return s.transition(ctx, actor, id, document.ActionRestored, (*document.Document).Restore)
}

func (s *DocumentService) transition(ctx context.Context, actor access.Actor, id uuid.UUID, action document.Action, apply func(*document.Document) error) (*DocumentResponse, error) {
	doc, policy, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanEdit(doc, s.now()) {
		return nil, shared.Forbidden("You cannot edit this document")
	}
	if err := apply(doc); err != nil {
		return nil, err
	}
	if err := s.documentRepo.Save(ctx, doc); err != nil {
		return nil, err
	}
	s.record(ctx, doc, actor, action, "")
	resp := ToDocumentResponse(doc, s.now())
	return &resp, nil
}

// Delete removes the stored object and soft-deletes the record. The audit trail is kept.
func (s *DocumentService) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	doc, policy, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if !policy.CanManage(doc, s.now()) {
		return shared.Forbidden("You cannot delete this document")
	}
	if err := s.documentRepo.Delete(ctx, actor.CompanyID, id); err != nil {
		return err
	}
	s.discardObject(ctx, doc.StorageKey)
	s.record(ctx, doc, actor, document.ActionDeleted, "")

	s.logger.Info("Document deleted",
		zap.String("company_id", actor.CompanyID.String()),
		zap.String("document_id", id.String()))
	return nil
}

// ---- access ----

// GrantAccess shares a document with another member. An existing grant is replaced.
func (s *DocumentService) GrantAccess(ctx context.Context, actor access.Actor, id uuid.UUID, req GrantAccessRequest) (*AccessResponse, error) {
	doc, policy, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManage(doc, s.now()) {
		return nil, shared.Forbidden("You cannot share this document")
	}
	if _, err := s.membershipRepo.Find(ctx, actor.CompanyID, req.UserID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.InvalidInput("User is not a member of this company")
		}
		return nil, err
	}

	grant, err := document.NewAccess(doc, req.UserID, actor.UserID, document.Permission(req.Permission), req.ExpiresAt)
	if err != nil {
		return nil, err
	}
	existing, err := s.findGrant(ctx, actor.CompanyID, doc.ID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Permission = grant.Permission
		existing.ExpiresAt = grant.ExpiresAt
		existing.GrantedBy = grant.GrantedBy
		existing.UpdatedAt = grant.UpdatedAt
		grant = existing
	}
	if err := s.accessRepo.Save(ctx, grant); err != nil {
		return nil, err
	}
	s.record(ctx, doc, actor, document.ActionShared, fmt.Sprintf("%s granted %s", req.UserID, grant.Permission))
	doc.AddDomainEvent(document.NewDocumentSharedEvent(doc, grant))
	access.PublishEvents(ctx, s.publisher, s.logger, doc)

	resp := ToAccessResponse(grant)
	return &resp, nil
}

// RevokeAccess removes a user's grant on a document
func (s *DocumentService) RevokeAccess(ctx context.Context, actor access.Actor, id, userID uuid.UUID) error {
	doc, policy, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if !policy.CanManage(doc, s.now()) {
		return shared.Forbidden("You cannot manage access to this document")
	}
	if err := s.accessRepo.Delete(ctx, actor.CompanyID, doc.ID, userID); err != nil {
		return err
	}
	s.record(ctx, doc, actor, document.ActionRevoked, userID.String())
	return nil
}

// ListAccess lists the grants on a document
func (s *DocumentService) ListAccess(ctx context.Context, actor access.Actor, id uuid.UUID) ([]AccessResponse, error) {
	doc, policy, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanManage(doc, s.now()) {
		return nil, shared.Forbidden("You cannot manage access to this document")
	}
	grants, err := s.accessRepo.FindByDocument(ctx, actor.CompanyID, doc.ID)
	if err != nil {
		return nil, err
	}
	out := make([]AccessResponse, len(grants))
	for i := range grants {
		out[i] = ToAccessResponse(&grants[i])
	}
	return out, nil
}

// Activities pages the audit trail of a document
func (s *DocumentService) Activities(ctx context.Context, actor access.Actor, id uuid.UUID, req ListActivitiesRequest) ([]ActivityResponse, int64, error) {
	doc, policy, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, 0, err
	}
	if !policy.CanView(doc, s.now()) {
		return nil, 0, shared.Forbidden("You do not have access to this document")
	}
	activities, total, err := s.activityRepo.FindByDocument(ctx, actor.CompanyID, doc.ID,
		shared.Filter{Page: req.Page, PageSize: req.PageSize})
	if err != nil {
		return nil, 0, err
	}
	out := make([]ActivityResponse, len(activities))
	for i := range activities {
		out[i] = ToActivityResponse(&activities[i])
	}
	return out, total, nil
}

// load fetches a document and builds the caller's access policy for it
func (s *DocumentService) load(ctx context.Context, actor access.Actor, id uuid.UUID) (*document.Document, document.Policy, error) {
	doc, err := s.documentRepo.FindByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, document.Policy{}, err
	}
	policy := document.Policy{Role: actor.Role, UserID: actor.UserID}
	if !actor.IsPrivileged() {
		policy.Grant, err = s.findGrant(ctx, actor.CompanyID, doc.ID, actor.UserID)
		if err != nil {
			return nil, document.Policy{}, err
		}
	}
	return doc, policy, nil
}

func (s *DocumentService) findGrant(ctx context.Context, companyID, documentID, userID uuid.UUID) (*document.Access, error) {
	grant, err := s.accessRepo.Find(ctx, companyID, documentID, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return grant, err
}

// record appends to the audit trail. A failed append is logged, not returned.
func (s *DocumentService) record(ctx context.Context, doc *document.Document, actor access.Actor, action document.Action, details string) {
	activity := document.NewActivity(doc, document.Actor{
		UserID:    actor.UserID,
		IPAddress: actor.IPAddress,
		UserAgent: actor.UserAgent,
	}, action, details)
	if err := s.activityRepo.Append(ctx, activity); err != nil {
		logger.Enrich(ctx, s.logger).Warn("Failed to record document activity",
			zap.String("document_id", doc.ID.String()),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}

type countingWriter struct {
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}
