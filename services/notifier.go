package services

import (
	"fmt"
	"html"
	"log"
	"time"

	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/config"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/models"
	"gorm.io/gorm"
)

// Notifier persists in-app notifications and fans them out over email.
// Dispatch is best-effort: failures are logged, never surfaced, and
// never roll back the transition that raised them.
type Notifier struct {
	db     *gorm.DB
	mailer *config.Mailer
}

func NewNotifier(db *gorm.DB, mailer *config.Mailer) *Notifier {
	return &Notifier{db: db, mailer: mailer}
}

// Create inserts one notification row for a user.
func (n *Notifier) Create(userID uint, title, message, ntype string, relatedRequestID *uint) error {
	notif := models.Notification{
		UserID:           userID,
		Title:            title,
		Message:          message,
		Type:             ntype,
		RelatedRequestID: relatedRequestID,
		IsRead:           false,
		CreateAt:         time.Now(),
	}
	return n.db.Create(&notif).Error
}

// NotifyStatusChange tells the owning resident about a lifecycle
// transition. Errors are logged and swallowed.
func (n *Notifier) NotifyStatusChange(request *models.LetterRequest, from, to models.RequestStatus, reason string) {
	if n == nil || request == nil {
		return
	}

	owner, err := n.ownerUser(request)
	if err != nil {
		log.Printf("notification skipped for request %d: %v", request.RequestID, err)
		return
	}

	letterName := "surat"
	if request.LetterType != nil && request.LetterType.Name != "" {
		letterName = request.LetterType.Name
	}

	title, message, ntype := statusChangeText(letterName, to, reason)
	requestID := request.RequestID
	if err := n.Create(owner.UserID, title, message, ntype, &requestID); err != nil {
		log.Printf("failed to store notification for user %d: %v", owner.UserID, err)
	}

	if owner.Email != "" {
		n.sendMailSafe([]string{owner.Email}, title, buildFormalEmailHTML(title, owner.Name, message))
	}
}

func (n *Notifier) ownerUser(request *models.LetterRequest) (*models.User, error) {
	if request.Resident != nil && request.Resident.User != nil {
		return request.Resident.User, nil
	}

	var resident models.Resident
	if err := n.db.Preload("User").
		Where("resident_id = ? AND delete_at IS NULL", request.ResidentID).
		First(&resident).Error; err != nil {
		return nil, fmt.Errorf("resident %d not found: %w", request.ResidentID, err)
	}
	if resident.User == nil {
		return nil, fmt.Errorf("resident %d has no user account", request.ResidentID)
	}
	return resident.User, nil
}

func statusChangeText(letterName string, to models.RequestStatus, reason string) (title, message, ntype string) {
	switch to {
	case models.StatusApproved:
		return "Permohonan disetujui",
			fmt.Sprintf("Permohonan %s Anda telah diverifikasi dan disetujui. Surat menunggu tanda tangan kepala desa.", letterName),
			"success"
	case models.StatusRejected:
		return "Permohonan ditolak",
			fmt.Sprintf("Permohonan %s Anda ditolak. Alasan: %s. Anda dapat memperbaiki dan mengajukan ulang.", letterName, reason),
			"error"
	case models.StatusSigned:
		return "Surat ditandatangani",
			fmt.Sprintf("Permohonan %s Anda telah ditandatangani oleh kepala desa.", letterName),
			"success"
	case models.StatusRejectedByKades:
		return "Permohonan ditolak kepala desa",
			fmt.Sprintf("Permohonan %s Anda ditolak oleh kepala desa. Alasan: %s", letterName, reason),
			"error"
	case models.StatusCompleted:
		return "Surat selesai",
			fmt.Sprintf("Surat %s Anda telah selesai dan dapat diambil atau diunduh.", letterName),
			"success"
	case models.StatusArchived:
		return "Surat diarsipkan",
			fmt.Sprintf("Surat %s Anda telah diarsipkan.", letterName),
			"info"
	case models.StatusSubmitted:
		return "Permohonan diajukan ulang",
			fmt.Sprintf("Permohonan %s Anda telah diajukan ulang dan menunggu verifikasi.", letterName),
			"info"
	}
	return "Status permohonan berubah",
		fmt.Sprintf("Status permohonan %s Anda kini %s.", letterName, to),
		"info"
}

func (n *Notifier) sendMailSafe(to []string, subject, htmlBody string) {
	if n.mailer == nil || !n.mailer.Configured() {
		return
	}
	if err := n.mailer.Send(to, subject, htmlBody); err != nil {
		log.Printf("notification email send failed (subject=%q to=%v): %v", subject, to, err)
	}
}

func buildFormalEmailHTML(subject, recipientName, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h3>%s</h3>
  <p>Yth. %s,</p>
  <p>%s</p>
  <p>Silakan masuk ke portal layanan desa untuk melihat detailnya.</p>
  <p>Hormat kami,<br/>Pemerintah Desa</p>
</body>
</html>`,
		html.EscapeString(subject),
		html.EscapeString(recipientName),
		html.EscapeString(message),
	)
}
