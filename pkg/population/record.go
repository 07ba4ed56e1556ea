// Package population models GASTAT population rows and aggregates them into
// the national, per-province and per-age-group views consumed by the site.
package population

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrMissingField is returned when a row lacks a required dimension or measure.
	ErrMissingField = errors.New("missing field")

	// ErrInvalidPopulation is returned when the population measure is not a
	// non-negative whole number.
	ErrInvalidPopulation = errors.New("invalid population")
)

// Sex is the sex dimension of a row.
type Sex int

const (
	SexUnknown Sex = iota
	SexMale
	SexFemale
	SexTotal
)

func (s Sex) String() string {
	switch s {
	case SexMale:
		return "male"
	case SexFemale:
		return "female"
	case SexTotal:
		return "total"
	default:
		return "unknown"
	}
}

// Nationality is the nationality dimension of a row.
type Nationality int

const (
	NationalityUnknown Nationality = iota
	NationalitySaudi
	NationalityNonSaudi
	NationalityTotal
)

func (n Nationality) String() string {
	switch n {
	case NationalitySaudi:
		return "saudi"
	case NationalityNonSaudi:
		return "non_saudi"
	case NationalityTotal:
		return "total"
	default:
		return "unknown"
	}
}

// Labels holds the localized category labels the API uses for the sex and
// nationality dimensions.
type Labels struct {
	Male             string
	Female           string
	SexTotal         string
	Saudi            string
	NonSaudi         string
	NationalityTotal string
}

// ArabicLabels are the labels returned for locale "ar".
var ArabicLabels = Labels{
	Male:             "ذكور",
	Female:           "إناث",
	SexTotal:         "الإجمالي",
	Saudi:            "سعودي",
	NonSaudi:         "غير سعودي",
	NationalityTotal: "الإجمالي",
}

// Sex classifies a sex label. Unrecognized labels map to SexUnknown.
func (l Labels) Sex(label string) Sex {
	switch strings.TrimSpace(label) {
	case l.Male:
		return SexMale
	case l.Female:
		return SexFemale
	case l.SexTotal:
		return SexTotal
	default:
		return SexUnknown
	}
}

// Nationality classifies a nationality label. Unrecognized labels map to
// NationalityUnknown.
func (l Labels) Nationality(label string) Nationality {
	switch strings.TrimSpace(label) {
	case l.Saudi:
		return NationalitySaudi
	case l.NonSaudi:
		return NationalityNonSaudi
	case l.NationalityTotal:
		return NationalityTotal
	default:
		return NationalityUnknown
	}
}

// FieldNames maps record fields to the row keys of a particular cube.
// An empty AgeRange or Year means the cube does not carry that dimension.
type FieldNames struct {
	Province    string
	Sex         string
	Nationality string
	AgeRange    string
	Year        string
	Population  string
}

// NationalFields are the row keys of the gastat_population_province_sex_nationality cube.
var NationalFields = FieldNames{
	Province:    "Province",
	Sex:         "Sex",
	Nationality: "Nationality",
	Year:        "Year",
	Population:  "Population",
}

// DetailedFields are the row keys of the gastat_detailed_population cube.
var DetailedFields = FieldNames{
	Province:    "Geography Province",
	Sex:         "Sex",
	Nationality: "Nationality",
	AgeRange:    "Age Range",
	Year:        "Year",
	Population:  "Population",
}

// Record is one observation from the statistics API.
type Record struct {
	Province    string
	Sex         Sex
	Nationality Nationality
	AgeRange    string
	Year        int
	Population  int64
}

// ParseRecord validates a raw API row and converts it to a Record.
func ParseRecord(raw json.RawMessage, fields FieldNames, labels Labels) (Record, error) {
	var row map[string]json.RawMessage
	if err := json.Unmarshal(raw, &row); err != nil {
		return Record{}, fmt.Errorf("decode row: %w", err)
	}
	if row == nil {
		return Record{}, fmt.Errorf("decode row: %w: row is null", ErrMissingField)
	}

	var rec Record
	var err error

	if fields.Province != "" {
		if rec.Province, err = stringField(row, fields.Province); err != nil {
			return Record{}, err
		}
	}

	sex, err := stringField(row, fields.Sex)
	if err != nil {
		return Record{}, err
	}
	rec.Sex = labels.Sex(sex)

	nationality, err := stringField(row, fields.Nationality)
	if err != nil {
		return Record{}, err
	}
	rec.Nationality = labels.Nationality(nationality)

	if fields.AgeRange != "" {
		if rec.AgeRange, err = stringField(row, fields.AgeRange); err != nil {
			return Record{}, err
		}
	}

	if fields.Year != "" {
		if v, ok := row[fields.Year]; ok {
			if rec.Year, err = parseYear(v); err != nil {
				return Record{}, fmt.Errorf("field %q: %w", fields.Year, err)
			}
		}
	}

	v, ok := row[fields.Population]
	if !ok || isNull(v) {
		return Record{}, fmt.Errorf("%w: %q", ErrMissingField, fields.Population)
	}
	if rec.Population, err = parsePopulation(v); err != nil {
		return Record{}, err
	}

	return rec, nil
}

// ParseRecords converts a page of raw rows. The first invalid row aborts
// the conversion.
func ParseRecords(rows []json.RawMessage, fields FieldNames, labels Labels) ([]Record, error) {
	records := make([]Record, 0, len(rows))
	for i, raw := range rows {
		rec, err := ParseRecord(raw, fields, labels)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func stringField(row map[string]json.RawMessage, key string) (string, error) {
	v, ok := row[key]
	if !ok || isNull(v) {
		return "", fmt.Errorf("%w: %q", ErrMissingField, key)
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", fmt.Errorf("field %q: expected string: %w", key, err)
	}
	return s, nil
}

func isNull(v json.RawMessage) bool {
	return strings.TrimSpace(string(v)) == "null"
}

// parseYear accepts both 2022 and "2022"; the API has used both forms.
func parseYear(v json.RawMessage) (int, error) {
	if isNull(v) {
		return 0, nil
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		year, err := strconv.Atoi(n.String())
		if err != nil {
			return 0, fmt.Errorf("invalid year %q", n)
		}
		return year, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, fmt.Errorf("invalid year %s", v)
	}
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return year, nil
}

func parsePopulation(v json.RawMessage) (int64, error) {
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPopulation, v)
	}
	if i, err := n.Int64(); err == nil {
		if i < 0 {
			return 0, fmt.Errorf("%w: negative value %d", ErrInvalidPopulation, i)
		}
		return i, nil
	}
	f, err := n.Float64()
	if err != nil || f < 0 || f != math.Trunc(f) || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPopulation, n)
	}
	return int64(f), nil
}
