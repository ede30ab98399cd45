package utils

import "testing"

func TestValidateNIK(t *testing.T) {
	valid := []string{"3209011701900001", "0000000000000000"}
	for _, nik := range valid {
		if !ValidateNIK(nik) {
			t.Errorf("expected %q to be a valid NIK", nik)
		}
	}

	invalid := []string{"", "320901170190000", "32090117019000011", "32090117019000a1", "3209 011701900001"}
	for _, nik := range invalid {
		if ValidateNIK(nik) {
			t.Errorf("expected %q to be rejected", nik)
		}
	}
}

func TestValidatePIN(t *testing.T) {
	if !ValidatePIN("123456") {
		t.Error("expected 123456 to be a valid PIN")
	}

	invalid := []string{"", "12345", "1234567", "12345a", "12 456"}
	for _, pin := range invalid {
		if ValidatePIN(pin) {
			t.Errorf("expected %q to be rejected", pin)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if !ValidateEmail("warga@desa.go.id") {
		t.Error("expected warga@desa.go.id to be valid")
	}
	for _, email := range []string{"", "warga", "warga@", "@desa.go.id", "warga@desa"} {
		if ValidateEmail(email) {
			t.Errorf("expected %q to be rejected", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, reason := ValidatePassword("password123"); !ok {
		t.Errorf("expected password123 to be valid, got %q", reason)
	}
	if ok, _ := ValidatePassword("short"); ok {
		t.Error("expected short password to be rejected")
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  halo\x00 dunia  "); got != "halo dunia" {
		t.Errorf("got %q", got)
	}
}
