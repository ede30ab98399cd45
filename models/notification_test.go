package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNotificationSerializesTimestampLikeOtherModels(t *testing.T) {
	notif := Notification{
		NotificationID: 1,
		UserID:         5,
		Title:          "Permohonan disetujui",
		Message:        "Permohonan surat Anda telah disetujui.",
		Type:           "success",
		CreateAt:       time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(notif)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := string(data)
	if !strings.Contains(body, `"create_at"`) {
		t.Fatalf("expected create_at key, got %s", body)
	}
	if strings.Contains(body, `"created_at"`) {
		t.Fatalf("timestamp key diverges from the other models: %s", body)
	}
}
