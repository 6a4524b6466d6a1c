package domain

import (
	"bytes"
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Advocate is a directory record. Records are created only by the bulk seed.
type Advocate struct {
	BaseModel
	FirstName         string      `gorm:"size:100;not null" json:"firstName" validate:"required"`
	LastName          string      `gorm:"size:100;not null" json:"lastName" validate:"required"`
	City              string      `gorm:"size:100;not null" json:"city" validate:"required"`
	Degree            string      `gorm:"size:50;not null" json:"degree" validate:"required"`
	Specialties       Specialties `gorm:"column:payload;type:text;not null" json:"specialties" validate:"dive,required"`
	YearsOfExperience int         `gorm:"not null" json:"yearsOfExperience" validate:"gte=0"`
	PhoneNumber       string      `gorm:"size:30;not null" json:"phoneNumber" validate:"required"`
	// Folded holds lower-cased copies of the text columns. The repository
	// fills it on insert and searches compare against it.
	Folded SearchIndex `gorm:"embedded;embeddedPrefix:search_" json:"-" validate:"-"`
}

// SearchIndex is the case-folded form of every searchable text column.
// SQL LOWER folds ASCII only on SQLite, so folding happens in Go before the
// row is written.
type SearchIndex struct {
	FirstName   string `gorm:"type:text;not null;default:''"`
	LastName    string `gorm:"type:text;not null;default:''"`
	City        string `gorm:"type:text;not null;default:''"`
	Degree      string `gorm:"type:text;not null;default:''"`
	Specialties string `gorm:"type:text;not null;default:''"`
}

// Specialties is an ordered list of tags. Duplicates are kept.
// It is stored as a JSON array in a single text column so the whole list can be
// matched by a substring search.
type Specialties []string

// Serialized returns the stored JSON text of the list.
func (s Specialties) Serialized() string {
	b, err := s.encode()
	if err != nil {
		return "[]"
	}
	return string(b)
}

// encode writes the list without HTML escaping so "&" and "<" stay searchable.
func (s Specialties) encode() ([]byte, error) {
	if s == nil {
		s = Specialties{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode([]string(s)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Value implements driver.Valuer.
func (s Specialties) Value() (driver.Value, error) {
	b, err := s.encode()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *Specialties) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = Specialties{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("scan specialties: unsupported type %T", src)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		*s = Specialties{}
		return nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return fmt.Errorf("scan specialties: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}
	*s = tags
	return nil
}

// MarshalJSON renders a nil list as [] rather than null.
func (s Specialties) MarshalJSON() ([]byte, error) {
	return s.encode()
}

// AdvocatePage is one page of search results.
type AdvocatePage struct {
	Data       []Advocate `json:"data"`
	Pagination PageMeta   `json:"pagination"`
	// Pages is the window of page numbers shown by a pager. Empty when the
	// requested page is out of range.
	Pages []int `json:"-"`
}

// AdvocateRepository defines the data access interface for advocates.
type AdvocateRepository interface {
	// Count returns the number of records matching search.
	Count(ctx context.Context, search string) (int64, error)
	// Find returns up to limit matching records ordered by ID, skipping offset.
	Find(ctx context.Context, search string, offset, limit int) ([]Advocate, error)
	// CreateBatch inserts all records in one transaction and fills their IDs.
	CreateBatch(ctx context.Context, advocates []Advocate) error
}

// AdvocateService defines the business logic interface for advocates.
type AdvocateService interface {
	Search(ctx context.Context, req SearchRequest) (*AdvocatePage, error)
	Seed(ctx context.Context) ([]Advocate, error)
}
