package advocate

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/advocates/internal/domain"
)

//go:embed seed.json
var seedJSON []byte

// LoadSeed decodes and validates the built-in seed batch.
func LoadSeed() ([]domain.Advocate, error) {
	return ParseSeed(seedJSON)
}

// ParseSeed decodes a JSON array of advocates and validates every record.
// Unknown fields are rejected so a typo in the fixture cannot drop data.
func ParseSeed(data []byte) ([]domain.Advocate, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var records []domain.Advocate
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("seed is empty")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	for i := range records {
		if err := validate.Struct(records[i]); err != nil {
			return nil, fmt.Errorf("seed record %d (%s %s): %w", i, records[i].FirstName, records[i].LastName, err)
		}
		if records[i].Specialties == nil {
			records[i].Specialties = domain.Specialties{}
		}
	}
	return records, nil
}

// freshBatch copies the seed so each insert starts from zero IDs and never
// shares specialty slices with the template.
func freshBatch(seed []domain.Advocate) []domain.Advocate {
	batch := make([]domain.Advocate, len(seed))
	for i, a := range seed {
		a.BaseModel = domain.BaseModel{}
		a.Specialties = append(domain.Specialties{}, a.Specialties...)
		batch[i] = a
	}
	return batch
}
