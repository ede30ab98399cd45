package models

import "testing"

func TestRequestStatusValid(t *testing.T) {
	valid := []RequestStatus{
		StatusSubmitted, StatusApproved, StatusRejected, StatusSigned,
		StatusRejectedByKades, StatusCompleted, StatusArchived,
	}
	for _, status := range valid {
		if !status.Valid() {
			t.Errorf("expected %s to be valid", status)
		}
	}

	for _, status := range []RequestStatus{"", "PENDING", "submitted", "DONE"} {
		if status.Valid() {
			t.Errorf("expected %q to be invalid", status)
		}
	}
}

func TestRequestStatusIsFinished(t *testing.T) {
	finished := map[RequestStatus]bool{
		StatusSubmitted:       false,
		StatusApproved:        false,
		StatusRejected:        false,
		StatusSigned:          false,
		StatusRejectedByKades: false,
		StatusCompleted:       true,
		StatusArchived:        true,
	}
	for status, want := range finished {
		if got := status.IsFinished(); got != want {
			t.Errorf("%s.IsFinished() = %v, want %v", status, got, want)
		}
	}
}
