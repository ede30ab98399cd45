package models

import "testing"

func TestGenderDisplay(t *testing.T) {
	if got := GenderMale.Display(); got != "Laki-laki" {
		t.Errorf("got %q", got)
	}
	if got := GenderFemale.Display(); got != "Perempuan" {
		t.Errorf("got %q", got)
	}
	if got := Gender("").Display(); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestResidentFullAddress(t *testing.T) {
	full := Resident{
		DomicileAddress: "Jl. Raya No. 1",
		RT:              "01",
		RW:              "02",
		Dusun:           "Satu",
		Desa:            "Sakerta Barat",
		Kecamatan:       "Darma",
		Kabupaten:       "Kuningan",
	}
	want := "Jl. Raya No. 1, RT 01/RW 02, Dusun Satu, Desa Sakerta Barat, Kecamatan Darma, Kuningan"
	if got := full.FullAddress(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	partial := Resident{Desa: "Sakerta Barat", Kabupaten: "Kuningan"}
	if got := partial.FullAddress(); got != "Desa Sakerta Barat, Kuningan" {
		t.Errorf("got %q", got)
	}

	empty := Resident{}
	if got := empty.FullAddress(); got != "" {
		t.Errorf("got %q", got)
	}
}
