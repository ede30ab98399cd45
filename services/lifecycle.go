package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/models"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Actor identifies who is performing a lifecycle operation.
type Actor struct {
	UserID uint
	Role   models.Role
}

// transitionRule describes one legal edge of the request lifecycle.
type transitionRule struct {
	Target      models.RequestStatus
	Roles       []models.Role
	OwnerOnly   bool
	NeedsReason bool
	NeedsPIN    bool
}

// transitionTable is the single declarative authorization table for
// status transitions; every (state, target, role) decision flows
// through it instead of ad hoc per-handler checks.
var transitionTable = map[models.RequestStatus][]transitionRule{
	models.StatusSubmitted: {
		{Target: models.StatusApproved, Roles: []models.Role{models.RoleAdmin}},
		{Target: models.StatusRejected, Roles: []models.Role{models.RoleAdmin}, NeedsReason: true},
	},
	models.StatusRejected: {
		{Target: models.StatusSubmitted, Roles: []models.Role{models.RoleWarga}, OwnerOnly: true},
	},
	models.StatusApproved: {
		{Target: models.StatusSigned, Roles: []models.Role{models.RoleKades}, NeedsPIN: true},
		{Target: models.StatusRejectedByKades, Roles: []models.Role{models.RoleKades}, NeedsPIN: true, NeedsReason: true},
	},
	models.StatusSigned: {
		{Target: models.StatusCompleted, Roles: []models.Role{models.RoleAdmin, models.RoleKades}},
	},
	models.StatusCompleted: {
		{Target: models.StatusArchived, Roles: []models.Role{models.RoleAdmin, models.RoleKades}},
	},
}

// ruleFor returns the rule for the (from, to) edge, or an
// invalid-transition error when no such edge exists.
func ruleFor(from, to models.RequestStatus) (*transitionRule, error) {
	for _, rule := range transitionTable[from] {
		if rule.Target == to {
			r := rule
			return &r, nil
		}
	}
	return nil, utils.NewValidationError(fmt.Sprintf("Invalid transition from %s to %s", from, to))
}

func (r *transitionRule) allowsRole(role models.Role) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// PrintRecorder is the document-generation side of the lifecycle:
// signing produces a letter, archiving marks the stored record.
type PrintRecorder interface {
	RecordSigned(request *models.LetterRequest, actorID uint) (*models.PrintedLetter, error)
	MarkArchived(requestID, actorID uint) error
}

// LetterRequestService owns the letter request lifecycle state machine.
type LetterRequestService struct {
	db       *gorm.DB
	notifier *Notifier
	recorder PrintRecorder
}

func NewLetterRequestService(db *gorm.DB, notifier *Notifier) *LetterRequestService {
	return &LetterRequestService{db: db, notifier: notifier}
}

// AttachRecorder wires the print side in after construction; the print
// service itself depends on this service for completion.
func (s *LetterRequestService) AttachRecorder(r PrintRecorder) {
	s.recorder = r
}

// AttachmentInput is an already-stored file to link to a request.
type AttachmentInput struct {
	FileName           string
	FileURL            string
	ResidentDocumentID *uint
}

// CreateRequestInput carries everything needed to open a request.
type CreateRequestInput struct {
	LetterTypeID     uint
	SecondResidentID *uint
	Notes            string
	Attachments      []AttachmentInput
}

// Create opens a new request in SUBMITTED. The resident's pre-uploaded
// documents are appended to the attachment set automatically. The
// one-open-request-per-(resident, letter type) invariant is enforced
// inside a transaction with a locked read so near-simultaneous creates
// cannot both pass the check.
func (s *LetterRequestService) Create(actor Actor, input CreateRequestInput) (*models.LetterRequest, error) {
	resident, err := s.residentByUser(actor.UserID)
	if err != nil {
		return nil, err
	}

	var letterType models.LetterType
	if err := s.db.Where("letter_type_id = ? AND delete_at IS NULL", input.LetterTypeID).
		First(&letterType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("Letter type not found")
		}
		return nil, fmt.Errorf("failed to load letter type: %w", err)
	}

	now := time.Now()
	request := models.LetterRequest{
		ResidentID:       resident.ResidentID,
		LetterTypeID:     letterType.LetterTypeID,
		SecondResidentID: input.SecondResidentID,
		Status:           models.StatusSubmitted,
		Notes:            input.Notes,
		RequestDate:      now,
		CreateAt:         now,
		UpdateAt:         now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var open int64
		if err := tx.Model(&models.LetterRequest{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("resident_id = ? AND letter_type_id = ? AND status NOT IN ? AND delete_at IS NULL",
				resident.ResidentID, letterType.LetterTypeID,
				[]models.RequestStatus{models.StatusCompleted, models.StatusArchived}).
			Count(&open).Error; err != nil {
			return fmt.Errorf("failed to check open requests: %w", err)
		}
		if open > 0 {
			return utils.NewConflictError("An unfinished request for this letter type already exists")
		}

		if err := tx.Create(&request).Error; err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		attachments := buildAttachmentRows(request.RequestID, resident.Documents, input.Attachments, now)
		if len(attachments) > 0 {
			if err := tx.Create(&attachments).Error; err != nil {
				return fmt.Errorf("failed to create attachments: %w", err)
			}
		}

		history := models.RequestStatusHistory{
			RequestID: request.RequestID,
			ToStatus:  models.StatusSubmitted,
			ChangedBy: actor.UserID,
			CreateAt:  now,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}

	return s.load(request.RequestID)
}

// buildAttachmentRows merges the resident's stored documents with the
// newly uploaded files into one attachment set.
func buildAttachmentRows(requestID uint, docs []models.ResidentDocument, uploads []AttachmentInput, now time.Time) []models.RequestAttachment {
	rows := make([]models.RequestAttachment, 0, len(docs)+len(uploads))
	for _, doc := range docs {
		if doc.DeleteAt != nil {
			continue
		}
		id := doc.DocumentID
		rows = append(rows, models.RequestAttachment{
			RequestID:          requestID,
			FileName:           doc.FileName,
			FileURL:            doc.FileURL,
			ResidentDocumentID: &id,
			CreateAt:           now,
		})
	}
	for _, up := range uploads {
		rows = append(rows, models.RequestAttachment{
			RequestID:          requestID,
			FileName:           up.FileName,
			FileURL:            up.FileURL,
			ResidentDocumentID: up.ResidentDocumentID,
			CreateAt:           now,
		})
	}
	return rows
}

// Get loads one request; WARGA callers only see their own.
func (s *LetterRequestService) Get(actor Actor, requestID uint) (*models.LetterRequest, error) {
	request, err := s.load(requestID)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleWarga {
		owner, err := s.residentByUser(actor.UserID)
		if err != nil || owner.ResidentID != request.ResidentID {
			return nil, utils.NewForbiddenError("You do not own this request")
		}
	}
	return request, nil
}

// Paging is the list envelope block.
type Paging struct {
	Size        int   `json:"size"`
	TotalPage   int   `json:"total_page"`
	CurrentPage int   `json:"current_page"`
	Total       int64 `json:"total"`
}

// ListParams narrows and pages request listings.
type ListParams struct {
	Page   int
	Size   int
	Status models.RequestStatus
	Search string
}

// List returns requests visible to the actor, newest first. WARGA see
// only their own; staff see everything.
func (s *LetterRequestService) List(actor Actor, params ListParams) ([]models.LetterRequest, Paging, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Size < 1 || params.Size > 100 {
		params.Size = 10
	}

	query := s.db.Model(&models.LetterRequest{}).
		Joins("LEFT JOIN residents ON residents.resident_id = letter_requests.resident_id").
		Joins("LEFT JOIN letter_types ON letter_types.letter_type_id = letter_requests.letter_type_id").
		Where("letter_requests.delete_at IS NULL")

	if actor.Role == models.RoleWarga {
		owner, err := s.residentByUser(actor.UserID)
		if err != nil {
			return nil, Paging{}, err
		}
		query = query.Where("letter_requests.resident_id = ?", owner.ResidentID)
	}

	if params.Status != "" {
		if !params.Status.Valid() {
			return nil, Paging{}, utils.NewValidationError("Unknown status filter")
		}
		query = query.Where("letter_requests.status = ?", params.Status)
	}

	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where(
			"residents.full_name LIKE ? OR letter_requests.letter_number LIKE ? OR letter_types.name LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Paging{}, fmt.Errorf("failed to count requests: %w", err)
	}

	var requests []models.LetterRequest
	if err := query.
		Preload("Resident").
		Preload("LetterType").
		Preload("Attachments").
		Order("letter_requests.create_at DESC").
		Limit(params.Size).
		Offset((params.Page - 1) * params.Size).
		Find(&requests).Error; err != nil {
		return nil, Paging{}, fmt.Errorf("failed to list requests: %w", err)
	}

	paging := Paging{
		Size:        params.Size,
		CurrentPage: params.Page,
		Total:       total,
		TotalPage:   totalPages(total, params.Size),
	}
	return requests, paging, nil
}

func totalPages(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	pages := int(total) / size
	if int(total)%size != 0 {
		pages++
	}
	return pages
}

// Update replaces the notes and the whole attachment set. Only the
// owning resident may update, and never once the request is finished.
func (s *LetterRequestService) Update(actor Actor, requestID uint, notes *string, uploads []AttachmentInput) (*models.LetterRequest, error) {
	request, err := s.load(requestID)
	if err != nil {
		return nil, err
	}

	owner, err := s.residentByUser(actor.UserID)
	if err != nil || owner.ResidentID != request.ResidentID {
		return nil, utils.NewForbiddenError("You do not own this request")
	}
	if request.Status.IsFinished() {
		return nil, utils.NewForbiddenError("Completed requests can no longer be changed")
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if notes != nil {
			if err := tx.Model(&models.LetterRequest{}).
				Where("request_id = ?", requestID).
				Updates(map[string]interface{}{"notes": *notes, "update_at": now}).Error; err != nil {
				return fmt.Errorf("failed to update request: %w", err)
			}
		}

		if uploads != nil {
			// Wholesale replacement: delete-all-then-recreate.
			if err := tx.Where("request_id = ?", requestID).
				Delete(&models.RequestAttachment{}).Error; err != nil {
				return fmt.Errorf("failed to clear attachments: %w", err)
			}
			attachments := buildAttachmentRows(requestID, owner.Documents, uploads, now)
			if len(attachments) > 0 {
				if err := tx.Create(&attachments).Error; err != nil {
					return fmt.Errorf("failed to recreate attachments: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.load(requestID)
}

// Delete soft-deletes a request. Permitted for the owning resident or
// an ADMIN, and only while the request is not finished.
func (s *LetterRequestService) Delete(actor Actor, requestID uint) error {
	request, err := s.load(requestID)
	if err != nil {
		return err
	}

	if actor.Role != models.RoleAdmin {
		owner, err := s.residentByUser(actor.UserID)
		if err != nil || owner.ResidentID != request.ResidentID {
			return utils.NewForbiddenError("You do not own this request")
		}
	}
	if request.Status.IsFinished() {
		return utils.NewForbiddenError("Completed requests can no longer be deleted")
	}

	now := time.Now()
	return s.db.Model(&models.LetterRequest{}).
		Where("request_id = ?", requestID).
		Updates(map[string]interface{}{"delete_at": now, "update_at": now}).Error
}

// TransitionInput carries the per-transition extras.
type TransitionInput struct {
	Reason string
	PIN    string
}

// Transition moves a request to target after validating the edge
// against the transition table, the caller's role and ownership, and
// (for KADES edges) the signing PIN. On success the new state is
// persisted with an audit row; signing additionally renders and
// records the letter, and every transition notifies the resident
// best-effort.
func (s *LetterRequestService) Transition(actor Actor, requestID uint, target models.RequestStatus, input TransitionInput) (*models.LetterRequest, error) {
	if !target.Valid() {
		return nil, utils.NewValidationError("Unknown target status")
	}

	request, err := s.load(requestID)
	if err != nil {
		return nil, err
	}
	from := request.Status

	rule, err := ruleFor(from, target)
	if err != nil {
		return nil, err
	}
	if !rule.allowsRole(actor.Role) {
		return nil, utils.NewForbiddenError("Your role may not perform this transition")
	}
	if rule.OwnerOnly {
		owner, err := s.residentByUser(actor.UserID)
		if err != nil || owner.ResidentID != request.ResidentID {
			return nil, utils.NewForbiddenError("You do not own this request")
		}
	}
	if rule.NeedsReason && input.Reason == "" {
		return nil, utils.NewValidationError("A rejection reason is required", "rejectionReason: required")
	}
	if rule.NeedsPIN {
		if err := s.verifyPIN(actor.UserID, input.PIN); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":    target,
		"update_at": now,
	}
	switch target {
	case models.StatusApproved:
		number, err := s.generateLetterNumber()
		if err != nil {
			return nil, err
		}
		updates["letter_number"] = number
	case models.StatusRejected, models.StatusRejectedByKades:
		updates["rejection_reason"] = input.Reason
	case models.StatusSubmitted:
		// Resubmit keeps the request id and attachments, clears the verdict.
		updates["rejection_reason"] = nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.LetterRequest{}).
			Where("request_id = ? AND status = ? AND delete_at IS NULL", requestID, from).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to persist transition: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return utils.NewConflictError("Request changed concurrently, please retry")
		}

		history := models.RequestStatusHistory{
			RequestID:  requestID,
			FromStatus: from,
			ToStatus:   target,
			ChangedBy:  actor.UserID,
			Reason:     input.Reason,
			CreateAt:   now,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}

	request, err = s.load(requestID)
	if err != nil {
		return nil, err
	}

	if target == models.StatusSigned && s.recorder != nil {
		if _, err := s.recorder.RecordSigned(request, actor.UserID); err != nil {
			// The signature stands; the letter can still be printed later.
			log.Printf("failed to render signed letter for request %d: %v", requestID, err)
		}
	}
	if target == models.StatusArchived && s.recorder != nil {
		if err := s.recorder.MarkArchived(requestID, actor.UserID); err != nil {
			log.Printf("failed to mark printed letter archived for request %d: %v", requestID, err)
		}
	}

	s.notifier.NotifyStatusChange(request, from, target, input.Reason)
	return request, nil
}

// Resubmit returns a rejected request to SUBMITTED, keeping its id and
// attachment set.
func (s *LetterRequestService) Resubmit(actor Actor, requestID uint) (*models.LetterRequest, error) {
	return s.Transition(actor, requestID, models.StatusSubmitted, TransitionInput{})
}

// CompleteOnFirstPrint promotes SIGNED to COMPLETED when the first
// letter is printed. Historically this was a hidden side effect of the
// print flow; it is an explicit, separately testable step here.
func (s *LetterRequestService) CompleteOnFirstPrint(requestID, actorID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var request models.LetterRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("request_id = ? AND delete_at IS NULL", requestID).
			First(&request).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewNotFoundError("Letter request not found")
			}
			return fmt.Errorf("failed to load request: %w", err)
		}
		if request.Status != models.StatusSigned {
			return nil
		}

		now := time.Now()
		if err := tx.Model(&models.LetterRequest{}).
			Where("request_id = ?", requestID).
			Updates(map[string]interface{}{"status": models.StatusCompleted, "update_at": now}).Error; err != nil {
			return fmt.Errorf("failed to complete request: %w", err)
		}

		history := models.RequestStatusHistory{
			RequestID:  requestID,
			FromStatus: models.StatusSigned,
			ToStatus:   models.StatusCompleted,
			ChangedBy:  actorID,
			Reason:     "first print",
			CreateAt:   now,
		}
		return tx.Create(&history).Error
	})
}

// verifyPIN checks the caller's configured 6-digit signing PIN.
// A mismatch fails the transition before any side effect.
func (s *LetterRequestService) verifyPIN(userID uint, pin string) error {
	if !utils.ValidatePIN(pin) {
		return utils.NewForbiddenError("A 6-digit PIN is required")
	}

	var user models.User
	if err := s.db.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		return utils.NewForbiddenError("Signing PIN not configured")
	}
	if !user.HasPIN() {
		return utils.NewForbiddenError("Signing PIN not configured")
	}
	if !utils.CheckPasswordHash(pin, *user.PinHash) {
		return utils.NewForbiddenError("Invalid PIN")
	}
	return nil
}

// generateLetterNumber assigns the LTR-<timestamp> number at approval,
// retrying on the rare same-millisecond collision.
func (s *LetterRequestService) generateLetterNumber() (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		candidate := fmt.Sprintf("LTR-%d", time.Now().UnixMilli())

		var existing int64
		if err := s.db.Model(&models.LetterRequest{}).
			Where("letter_number = ?", candidate).
			Count(&existing).Error; err != nil {
			return "", fmt.Errorf("failed to check letter number: %w", err)
		}
		if existing == 0 {
			return candidate, nil
		}
		time.Sleep(time.Millisecond)
	}
	return "", utils.NewInternalError("Failed to allocate a letter number")
}

func (s *LetterRequestService) load(requestID uint) (*models.LetterRequest, error) {
	var request models.LetterRequest
	if err := s.db.
		Preload("Resident").
		Preload("Resident.User").
		Preload("Resident.Documents", "delete_at IS NULL").
		Preload("SecondResident").
		Preload("LetterType").
		Preload("Attachments").
		Preload("History").
		Where("request_id = ? AND delete_at IS NULL", requestID).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("Letter request not found")
		}
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	return &request, nil
}

func (s *LetterRequestService) residentByUser(userID uint) (*models.Resident, error) {
	var resident models.Resident
	if err := s.db.
		Preload("Documents", "delete_at IS NULL").
		Where("user_id = ? AND delete_at IS NULL", userID).
		First(&resident).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("Resident profile not found")
		}
		return nil, fmt.Errorf("failed to load resident: %w", err)
	}
	return &resident, nil
}
