package utils

import (
	"strconv"
	"strings"
	"time"
)

var indonesianMonths = []string{
	"Januari",
	"Februari",
	"Maret",
	"April",
	"Mei",
	"Juni",
	"Juli",
	"Agustus",
	"September",
	"Oktober",
	"November",
	"Desember",
}

// FormatIndonesianDate returns the date the way it is written on
// official letters, e.g. "17 Agustus 2025".
func FormatIndonesianDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	localTime := t.In(time.Local)
	monthIndex := int(localTime.Month()) - 1
	if monthIndex < 0 || monthIndex >= len(indonesianMonths) {
		return localTime.Format("02/01/2006")
	}

	day := localTime.Day()
	monthName := indonesianMonths[monthIndex]
	year := localTime.Year()

	return strconv.Itoa(day) + " " + monthName + " " + strconv.Itoa(year)
}

// FormatIndonesianDatePtr formats pointer values, empty when nil.
func FormatIndonesianDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatIndonesianDate(*t)
}

// FormatPlaceAndDateOfBirth composes the "tempat, tanggal lahir" field,
// e.g. "Cirebon, 17 Agustus 1990".
func FormatPlaceAndDateOfBirth(place string, dob *time.Time) string {
	place = strings.TrimSpace(place)
	date := FormatIndonesianDatePtr(dob)
	switch {
	case place == "":
		return date
	case date == "":
		return place
	}
	return place + ", " + date
}
