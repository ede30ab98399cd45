package services

import (
	"database/sql/driver"
	"regexp"
	"strings"
	"testing"

	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/models"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/utils"
)

func TestTransitionTableAllowsExactlyTheLifecycleEdges(t *testing.T) {
	allStatuses := []models.RequestStatus{
		models.StatusSubmitted,
		models.StatusApproved,
		models.StatusRejected,
		models.StatusSigned,
		models.StatusRejectedByKades,
		models.StatusCompleted,
		models.StatusArchived,
	}

	allowed := map[[2]models.RequestStatus]bool{
		{models.StatusSubmitted, models.StatusApproved}:       true,
		{models.StatusSubmitted, models.StatusRejected}:       true,
		{models.StatusRejected, models.StatusSubmitted}:       true,
		{models.StatusApproved, models.StatusSigned}:          true,
		{models.StatusApproved, models.StatusRejectedByKades}: true,
		{models.StatusSigned, models.StatusCompleted}:         true,
		{models.StatusCompleted, models.StatusArchived}:       true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			rule, err := ruleFor(from, to)
			if allowed[[2]models.RequestStatus{from, to}] {
				if err != nil {
					t.Errorf("expected %s -> %s to be legal, got %v", from, to, err)
				}
				if rule == nil {
					t.Errorf("expected a rule for %s -> %s", from, to)
				}
				continue
			}
			if err == nil {
				t.Errorf("expected %s -> %s to be rejected", from, to)
				continue
			}
			appErr, ok := utils.AsAppError(err)
			if !ok || appErr.Status != 400 {
				t.Errorf("expected validation error for %s -> %s, got %v", from, to, err)
			}
		}
	}
}

func TestTransitionRuleRequirements(t *testing.T) {
	tests := []struct {
		from, to    models.RequestStatus
		roles       []models.Role
		ownerOnly   bool
		needsReason bool
		needsPIN    bool
	}{
		{models.StatusSubmitted, models.StatusApproved, []models.Role{models.RoleAdmin}, false, false, false},
		{models.StatusSubmitted, models.StatusRejected, []models.Role{models.RoleAdmin}, false, true, false},
		{models.StatusRejected, models.StatusSubmitted, []models.Role{models.RoleWarga}, true, false, false},
		{models.StatusApproved, models.StatusSigned, []models.Role{models.RoleKades}, false, false, true},
		{models.StatusApproved, models.StatusRejectedByKades, []models.Role{models.RoleKades}, false, true, true},
		{models.StatusSigned, models.StatusCompleted, []models.Role{models.RoleAdmin, models.RoleKades}, false, false, false},
		{models.StatusCompleted, models.StatusArchived, []models.Role{models.RoleAdmin, models.RoleKades}, false, false, false},
	}

	for _, tc := range tests {
		rule, err := ruleFor(tc.from, tc.to)
		if err != nil {
			t.Fatalf("ruleFor(%s, %s): %v", tc.from, tc.to, err)
		}
		if rule.OwnerOnly != tc.ownerOnly {
			t.Errorf("%s -> %s: OwnerOnly = %v, want %v", tc.from, tc.to, rule.OwnerOnly, tc.ownerOnly)
		}
		if rule.NeedsReason != tc.needsReason {
			t.Errorf("%s -> %s: NeedsReason = %v, want %v", tc.from, tc.to, rule.NeedsReason, tc.needsReason)
		}
		if rule.NeedsPIN != tc.needsPIN {
			t.Errorf("%s -> %s: NeedsPIN = %v, want %v", tc.from, tc.to, rule.NeedsPIN, tc.needsPIN)
		}
		for _, role := range tc.roles {
			if !rule.allowsRole(role) {
				t.Errorf("%s -> %s: expected role %s to be allowed", tc.from, tc.to, role)
			}
		}
		for _, role := range []models.Role{models.RoleAdmin, models.RoleKades, models.RoleWarga} {
			if rule.allowsRole(role) != containsRole(tc.roles, role) {
				t.Errorf("%s -> %s: role %s allowance mismatch", tc.from, tc.to, role)
			}
		}
	}
}

func containsRole(roles []models.Role, role models.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func TestRejectedByKadesIsTerminal(t *testing.T) {
	if rules := transitionTable[models.StatusRejectedByKades]; len(rules) != 0 {
		t.Fatalf("expected no outgoing edges from REJECTED_BY_KADES, got %d", len(rules))
	}
	if rules := transitionTable[models.StatusArchived]; len(rules) != 0 {
		t.Fatalf("expected no outgoing edges from ARCHIVED, got %d", len(rules))
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		size  int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
		{5, 0, 0},
	}
	for _, tc := range tests {
		if got := totalPages(tc.total, tc.size); got != tc.want {
			t.Errorf("totalPages(%d, %d) = %d, want %d", tc.total, tc.size, got, tc.want)
		}
	}
}

func TestVerifyPINRejectsMalformedPINWithoutTouchingTheDatabase(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	svc := NewLetterRequestService(db, nil)

	for _, pin := range []string{"", "12345", "1234567", "12a456"} {
		err := svc.verifyPIN(7, pin)
		appErr, ok := utils.AsAppError(err)
		if !ok || appErr.Status != 403 {
			t.Errorf("pin %q: expected forbidden error, got %v", pin, err)
		}
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestVerifyPINChecksBcryptHash(t *testing.T) {
	hash, err := utils.HashPassword("123456")
	if err != nil {
		t.Fatalf("failed to hash pin: %v", err)
	}

	userStep := func() *queryStep {
		return &queryStep{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `users`"),
			args:    []driver.Value{int64(7), int64(1)},
			columns: []string{"user_id", "pin_hash"},
			rows:    [][]driver.Value{{int64(7), hash}},
		}
	}

	db, state, cleanup := newScriptedGormDB(t, []*queryStep{userStep(), userStep()})
	defer cleanup()

	svc := NewLetterRequestService(db, nil)

	if err := svc.verifyPIN(7, "123456"); err != nil {
		t.Fatalf("expected correct pin to verify, got %v", err)
	}

	err = svc.verifyPIN(7, "654321")
	appErr, ok := utils.AsAppError(err)
	if !ok || appErr.Status != 403 || appErr.Message != "Invalid PIN" {
		t.Fatalf("expected invalid pin error, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestVerifyPINRequiresConfiguredHash(t *testing.T) {
	steps := []*queryStep{{
		kind:    kindQuery,
		pattern: regexp.MustCompile("SELECT \\* FROM `users`"),
		args:    []driver.Value{int64(7), int64(1)},
		columns: []string{"user_id", "pin_hash"},
		rows:    [][]driver.Value{{int64(7), nil}},
	}}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewLetterRequestService(db, nil)

	err := svc.verifyPIN(7, "123456")
	appErr, ok := utils.AsAppError(err)
	if !ok || appErr.Message != "Signing PIN not configured" {
		t.Fatalf("expected missing pin error, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestGenerateLetterNumberUsesTimestampFormat(t *testing.T) {
	steps := []*queryStep{{
		kind:    kindQuery,
		pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM `letter_requests`"),
		columns: []string{"count(*)"},
		rows:    [][]driver.Value{{int64(0)}},
	}}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewLetterRequestService(db, nil)

	number, err := svc.generateLetterNumber()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(number, "LTR-") {
		t.Fatalf("expected LTR- prefix, got %q", number)
	}
	if !regexp.MustCompile(`^LTR-\d{13}$`).MatchString(number) {
		t.Fatalf("expected millisecond timestamp suffix, got %q", number)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
