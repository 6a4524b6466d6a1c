package advocate

import (
	"strings"
	"testing"
)

func TestLoadSeed(t *testing.T) {
	records, err := LoadSeed()
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if len(records) < 10 {
		t.Fatalf("seed has %d records; want at least 10", len(records))
	}

	var long, many bool
	for _, r := range records {
		if r.ID != 0 {
			t.Errorf("seed record %s %s has ID %d", r.FirstName, r.LastName, r.ID)
		}
		if r.Specialties == nil {
			t.Errorf("seed record %s %s has nil specialties", r.FirstName, r.LastName)
		}
		if len(r.Specialties) > 3 {
			many = true
		}
		for _, s := range r.Specialties {
			if len(s) > 30 {
				long = true
			}
		}
	}
	if !long || !many {
		t.Errorf("seed should exercise long tags (%v) and more than three tags (%v)", long, many)
	}
}

func TestParseSeed_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"not json", `{`, "decode seed"},
		{"empty", `[]`, "seed is empty"},
		{"unknown field", `[{"firstName":"A","lastName":"B","city":"C","degree":"MD","phoneNumber":"1","yearsOfExperience":1,"specialties":[],"nickname":"x"}]`, "decode seed"},
		{"missing name", `[{"lastName":"B","city":"C","degree":"MD","phoneNumber":"1","yearsOfExperience":1,"specialties":[]}]`, "FirstName"},
		{"negative years", `[{"firstName":"A","lastName":"B","city":"C","degree":"MD","phoneNumber":"1","yearsOfExperience":-1,"specialties":[]}]`, "YearsOfExperience"},
		{"blank tag", `[{"firstName":"A","lastName":"B","city":"C","degree":"MD","phoneNumber":"1","yearsOfExperience":1,"specialties":[""]}]`, "Specialties"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeed([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ParseSeed error = %v; want containing %q", err, tt.want)
			}
		})
	}
}

func TestParseSeed_NullSpecialties(t *testing.T) {
	records, err := ParseSeed([]byte(`[{"firstName":"A","lastName":"B","city":"C","degree":"MD","phoneNumber":"1","yearsOfExperience":0}]`))
	if err != nil {
		t.Fatalf("ParseSeed: %v", err)
	}
	if records[0].Specialties == nil {
		t.Error("missing specialties should become an empty list")
	}
}
