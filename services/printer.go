package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/models"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/utils"
	"gorm.io/gorm"
)

// PrintService renders letter requests into stored .docx documents and
// keeps the printed letter archive.
type PrintService struct {
	db        *gorm.DB
	storage   *Storage
	lifecycle *LetterRequestService
}

// NewPrintService wires the print side into the lifecycle: signing a
// request renders its letter, archiving marks the stored record.
func NewPrintService(db *gorm.DB, storage *Storage, lifecycle *LetterRequestService) *PrintService {
	p := &PrintService{db: db, storage: storage, lifecycle: lifecycle}
	lifecycle.AttachRecorder(p)
	return p
}

// Print renders the letter for a signed (or already finished) request,
// stores it, records the print event and returns the document for
// streaming. The first print after signing completes the request.
func (p *PrintService) Print(actor Actor, requestID uint) (*models.PrintedLetter, []byte, error) {
	request, err := p.lifecycle.load(requestID)
	if err != nil {
		return nil, nil, err
	}

	switch request.Status {
	case models.StatusSigned, models.StatusCompleted, models.StatusArchived:
	default:
		return nil, nil, utils.NewValidationError("Letter can only be printed after signing")
	}

	printed, rendered, err := p.record(request, actor.UserID)
	if err != nil {
		return nil, nil, err
	}

	if err := p.lifecycle.CompleteOnFirstPrint(request.RequestID, actor.UserID); err != nil {
		log.Printf("failed to complete request %d after first print: %v", request.RequestID, err)
	}

	return printed, rendered, nil
}

// RecordSigned renders and records the letter as part of the sign
// transition. Implements PrintRecorder.
func (p *PrintService) RecordSigned(request *models.LetterRequest, actorID uint) (*models.PrintedLetter, error) {
	printed, _, err := p.record(request, actorID)
	return printed, err
}

func (p *PrintService) record(request *models.LetterRequest, actorID uint) (*models.PrintedLetter, []byte, error) {
	rendered, err := p.render(request)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	fileName := fmt.Sprintf("letter_%d_%d.docx", request.RequestID, now.Unix())
	fileURL, err := p.storage.SaveBytes(DirPrintedLetters, fileName, rendered)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to store printed letter: %w", err)
	}

	printed := models.PrintedLetter{
		RequestID: request.RequestID,
		PrintedBy: actorID,
		PrintedAt: now,
		FileName:  fileName,
		FileURL:   fileURL,
		CreateAt:  now,
		UpdateAt:  now,
	}
	if err := p.db.Create(&printed).Error; err != nil {
		p.storage.Remove(fileURL)
		return nil, nil, fmt.Errorf("failed to record printed letter: %w", err)
	}

	return &printed, rendered, nil
}

// Preview renders the letter and converts it to PDF without recording
// a print event. Available once the request is approved.
func (p *PrintService) Preview(requestID uint) ([]byte, error) {
	request, err := p.lifecycle.load(requestID)
	if err != nil {
		return nil, err
	}

	switch request.Status {
	case models.StatusApproved, models.StatusSigned, models.StatusCompleted, models.StatusArchived:
	default:
		return nil, utils.NewValidationError("Letter can only be previewed after approval")
	}

	rendered, err := p.render(request)
	if err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "letter-preview-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	docxPath := filepath.Join(tmpDir, fmt.Sprintf("letter_%d.docx", request.RequestID))
	if err := os.WriteFile(docxPath, rendered, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write preview docx: %w", err)
	}

	return convertDocxToPDFBytes(docxPath)
}

// render loads the template for the request's letter type and fills it
// with the resident's data.
func (p *PrintService) render(request *models.LetterRequest) ([]byte, error) {
	if request.LetterType == nil || !request.LetterType.HasTemplate() {
		return nil, utils.NewNotFoundError("Letter template not uploaded for this letter type")
	}

	template, err := p.storage.Read(*request.LetterType.TemplatePath)
	if err != nil {
		if appErr, ok := utils.AsAppError(err); ok && appErr.Status == 404 {
			return nil, utils.NewNotFoundError("Letter template file is missing from storage")
		}
		return nil, err
	}

	values := buildReplacements(request)
	rendered, unmatched, err := RenderDocx(template, values)
	if err != nil {
		return nil, err
	}
	if len(unmatched) > 0 {
		log.Printf("letter type %d template left fields unfilled: %s",
			request.LetterTypeID, strings.Join(unmatched, ", "))
	}
	return rendered, nil
}

// buildReplacements flattens the request into the placeholder map the
// templates use. Second-party fields get the _2 suffix.
func buildReplacements(request *models.LetterRequest) map[string]string {
	values := map[string]string{
		"tanggal_surat": utils.FormatIndonesianDate(time.Now()),
		"catatan":       strings.TrimSpace(request.Notes),
	}
	if request.LetterNumber != nil {
		values["nomor_surat"] = *request.LetterNumber
	} else {
		values["nomor_surat"] = ""
	}
	if request.LetterType != nil {
		values["jenis_surat"] = request.LetterType.Name
	}

	if request.Resident != nil {
		addResidentFields(values, request.Resident, "")
		values["desa"] = request.Resident.Desa
		values["kecamatan"] = request.Resident.Kecamatan
		values["kabupaten"] = request.Resident.Kabupaten
	}
	if request.SecondResident != nil {
		addResidentFields(values, request.SecondResident, "_2")
	}

	return values
}

func addResidentFields(values map[string]string, r *models.Resident, suffix string) {
	values["nama_lengkap"+suffix] = r.FullName
	values["nik"+suffix] = r.NIK
	values["tempat_lahir"+suffix] = r.PlaceOfBirth
	values["tanggal_lahir"+suffix] = utils.FormatIndonesianDatePtr(r.DateOfBirth)
	values["tempat_tanggal_lahir"+suffix] = utils.FormatPlaceAndDateOfBirth(r.PlaceOfBirth, r.DateOfBirth)
	values["jenis_kelamin"+suffix] = r.Gender.Display()
	values["agama"+suffix] = r.Religion
	values["status_perkawinan"+suffix] = r.MaritalStatus
	values["pekerjaan"+suffix] = r.Occupation
	values["kewarganegaraan"+suffix] = r.Nationality
	values["alamat"+suffix] = r.FullAddress()
}

// Download looks up a printed letter by its stored file name.
func (p *PrintService) Download(fileName string) (*models.PrintedLetter, []byte, error) {
	if strings.ContainsAny(fileName, "/\\") {
		return nil, nil, utils.NewValidationError("Invalid file name")
	}

	var printed models.PrintedLetter
	if err := p.db.Where("file_name = ?", fileName).First(&printed).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, utils.NewNotFoundError("Printed letter not found")
		}
		return nil, nil, fmt.Errorf("failed to load printed letter: %w", err)
	}

	data, err := p.storage.Read(printed.FileURL)
	if err != nil {
		return nil, nil, err
	}
	return &printed, data, nil
}

// ListByResident returns the print history of one resident's requests.
func (p *PrintService) ListByResident(residentID uint) ([]models.PrintedLetter, error) {
	var printed []models.PrintedLetter
	if err := p.db.
		Joins("JOIN letter_requests ON letter_requests.request_id = printed_letters.request_id").
		Where("letter_requests.resident_id = ?", residentID).
		Preload("Request").
		Preload("Request.LetterType").
		Order("printed_letters.printed_at DESC").
		Find(&printed).Error; err != nil {
		return nil, fmt.Errorf("failed to list printed letters: %w", err)
	}
	return printed, nil
}

// MarkArchived stamps the most recent unarchived print of the request.
// Implements PrintRecorder; requests archived before any print exist
// are fine, there is simply nothing to mark.
func (p *PrintService) MarkArchived(requestID, actorID uint) error {
	var printed models.PrintedLetter
	err := p.db.
		Where("request_id = ? AND archived_at IS NULL", requestID).
		Order("printed_at DESC").
		First(&printed).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find printed letter: %w", err)
	}

	now := time.Now()
	return p.db.Model(&models.PrintedLetter{}).
		Where("printed_letter_id = ?", printed.PrintedLetterID).
		Updates(map[string]interface{}{
			"archived_at": now,
			"archived_by": actorID,
			"update_at":   now,
		}).Error
}

// convertDocxToPDFBytes shells out to headless LibreOffice for the PDF
// preview, the same way letters are converted for printing elsewhere.
func convertDocxToPDFBytes(docxPath string) ([]byte, error) {
	trimmed := strings.TrimSpace(docxPath)
	if trimmed == "" {
		return nil, fmt.Errorf("docx path is required")
	}

	info, err := os.Stat(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, utils.NewNotFoundError("Document not found")
		}
		return nil, fmt.Errorf("failed to access docx: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("docx path points to a directory")
	}

	tmpDir, err := os.MkdirTemp("", "letter-pdf-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	converter, err := lookupLibreOfficeBinary()
	if err != nil {
		return nil, err
	}

	profileDir := filepath.Join(tmpDir, "lo-profile")
	if err := os.MkdirAll(profileDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to prepare libreoffice profile: %w", err)
	}

	profileArg := fmt.Sprintf("-env:UserInstallation=file://%s", filepath.ToSlash(profileDir))
	args := []string{profileArg, "--headless", "--convert-to", "pdf", "--outdir", tmpDir, trimmed}
	cmd := exec.Command(converter, args...)

	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("failed to convert docx to pdf: %v", strings.TrimSpace(string(output)))
	}

	pdfName := strings.TrimSuffix(filepath.Base(trimmed), filepath.Ext(trimmed)) + ".pdf"
	data, err := os.ReadFile(filepath.Join(tmpDir, pdfName))
	if err != nil {
		return nil, fmt.Errorf("failed to read generated pdf: %w", err)
	}

	return data, nil
}

func lookupLibreOfficeBinary() (string, error) {
	if custom := os.Getenv("LIBREOFFICE_PATH"); custom != "" {
		return custom, nil
	}
	for _, candidate := range []string{"soffice", "libreoffice"} {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", utils.NewInternalError("LibreOffice is not installed on this server")
}
