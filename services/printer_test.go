package services

import (
	"testing"
	"time"

	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/models"
)

func TestBuildReplacementsFlattensResidentData(t *testing.T) {
	dob := time.Date(1990, time.August, 17, 0, 0, 0, 0, time.Local)
	number := "LTR-1756700000000"

	request := &models.LetterRequest{
		RequestID:    5,
		LetterNumber: &number,
		Notes:        "  untuk keperluan administrasi  ",
		LetterType:   &models.LetterType{Name: "Surat Keterangan Domisili"},
		Resident: &models.Resident{
			FullName:     "Budi Santoso",
			NIK:          "3209011701900001",
			PlaceOfBirth: "Kuningan",
			DateOfBirth:  &dob,
			Gender:       models.GenderMale,
			Religion:     "Islam",
			Desa:         "Sakerta Barat",
			Kecamatan:    "Darma",
			Kabupaten:    "Kuningan",
		},
	}

	values := buildReplacements(request)

	checks := map[string]string{
		"nomor_surat":          "LTR-1756700000000",
		"jenis_surat":          "Surat Keterangan Domisili",
		"catatan":              "untuk keperluan administrasi",
		"nama_lengkap":         "Budi Santoso",
		"nik":                  "3209011701900001",
		"tempat_tanggal_lahir": "Kuningan, 17 Agustus 1990",
		"jenis_kelamin":        "Laki-laki",
		"agama":                "Islam",
		"desa":                 "Sakerta Barat",
		"kecamatan":            "Darma",
		"kabupaten":            "Kuningan",
	}
	for key, want := range checks {
		if got := values[key]; got != want {
			t.Errorf("values[%q] = %q, want %q", key, got, want)
		}
	}

	if _, ok := values["nama_lengkap_2"]; ok {
		t.Error("second-party fields should be absent without a second resident")
	}
}

func TestBuildReplacementsAddsSecondPartyFields(t *testing.T) {
	request := &models.LetterRequest{
		Resident:       &models.Resident{FullName: "Budi Santoso", NIK: "3209011701900001"},
		SecondResident: &models.Resident{FullName: "Siti Aminah", NIK: "3209014505920002"},
	}

	values := buildReplacements(request)

	if values["nama_lengkap"] != "Budi Santoso" {
		t.Errorf("first party name = %q", values["nama_lengkap"])
	}
	if values["nama_lengkap_2"] != "Siti Aminah" {
		t.Errorf("second party name = %q", values["nama_lengkap_2"])
	}
	if values["nik_2"] != "3209014505920002" {
		t.Errorf("second party nik = %q", values["nik_2"])
	}
}

func TestBuildReplacementsWithoutLetterNumber(t *testing.T) {
	values := buildReplacements(&models.LetterRequest{})
	if values["nomor_surat"] != "" {
		t.Errorf("expected empty nomor_surat, got %q", values["nomor_surat"])
	}
	if values["tanggal_surat"] == "" {
		t.Error("expected tanggal_surat to be filled with today's date")
	}
}
