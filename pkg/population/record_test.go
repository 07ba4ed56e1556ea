package population

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		fields  FieldNames
		want    Record
		wantErr error
	}{
		{
			name:   "detailed row",
			raw:    `{"Geography Province":"منطقة الرياض","Sex":"ذكور","Year":2022,"Nationality":"سعودي","Age Range":"20 - 24","Population":412345}`,
			fields: DetailedFields,
			want: Record{
				Province:    "منطقة الرياض",
				Sex:         SexMale,
				Nationality: NationalitySaudi,
				AgeRange:    "20 - 24",
				Year:        2022,
				Population:  412345,
			},
		},
		{
			name:   "national row with string year and float population",
			raw:    `{"Province":"الإجمالي","Sex":"الإجمالي","Year":"2024","Nationality":"غير سعودي","Population":13200000.0}`,
			fields: NationalFields,
			want: Record{
				Province:    "الإجمالي",
				Sex:         SexTotal,
				Nationality: NationalityNonSaudi,
				Year:        2024,
				Population:  13200000,
			},
		},
		{
			name:   "unknown labels are kept as unknown",
			raw:    `{"Province":"x","Sex":"other","Nationality":"other","Population":1}`,
			fields: NationalFields,
			want:   Record{Province: "x", Sex: SexUnknown, Nationality: NationalityUnknown, Population: 1},
		},
		{
			name:    "missing age range",
			raw:     `{"Geography Province":"x","Sex":"ذكور","Nationality":"سعودي","Population":1}`,
			fields:  DetailedFields,
			wantErr: ErrMissingField,
		},
		{
			name:    "missing population",
			raw:     `{"Province":"x","Sex":"ذكور","Nationality":"سعودي"}`,
			fields:  NationalFields,
			wantErr: ErrMissingField,
		},
		{
			name:    "null sex",
			raw:     `{"Province":"x","Sex":null,"Nationality":"سعودي","Population":1}`,
			fields:  NationalFields,
			wantErr: ErrMissingField,
		},
		{
			name:    "negative population",
			raw:     `{"Province":"x","Sex":"ذكور","Nationality":"سعودي","Population":-5}`,
			fields:  NationalFields,
			wantErr: ErrInvalidPopulation,
		},
		{
			name:    "fractional population",
			raw:     `{"Province":"x","Sex":"ذكور","Nationality":"سعودي","Population":1.5}`,
			fields:  NationalFields,
			wantErr: ErrInvalidPopulation,
		},
		{
			name:    "population beyond int64",
			raw:     `{"Province":"x","Sex":"ذكور","Nationality":"سعودي","Population":9223372036854775808}`,
			fields:  NationalFields,
			wantErr: ErrInvalidPopulation,
		},
		{
			name:    "population beyond int64 in exponent form",
			raw:     `{"Province":"x","Sex":"ذكور","Nationality":"سعودي","Population":1e19}`,
			fields:  NationalFields,
			wantErr: ErrInvalidPopulation,
		},
		{
			name:    "population as text",
			raw:     `{"Province":"x","Sex":"ذكور","Nationality":"سعودي","Population":"many"}`,
			fields:  NationalFields,
			wantErr: ErrInvalidPopulation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecord(json.RawMessage(tt.raw), tt.fields, ArabicLabels)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.GreaterOrEqual(t, got.Population, int64(0))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRecord_NotAnObject(t *testing.T) {
	for _, raw := range []string{`[]`, `"row"`, `null`, `{`} {
		_, err := ParseRecord(json.RawMessage(raw), NationalFields, ArabicLabels)
		assert.Error(t, err, "ParseRecord(%s)", raw)
	}
}

func TestParseRecords_StopsAtFirstInvalidRow(t *testing.T) {
	rows := []json.RawMessage{
		json.RawMessage(`{"Province":"a","Sex":"ذكور","Nationality":"سعودي","Population":1}`),
		json.RawMessage(`{"Province":"b","Sex":"ذكور","Nationality":"سعودي"}`),
	}

	records, err := ParseRecords(rows, NationalFields, ArabicLabels)
	require.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "row 1")
	assert.Nil(t, records)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, SexFemale, ArabicLabels.Sex(" إناث "))
	assert.Equal(t, NationalityNonSaudi, ArabicLabels.Nationality("غير سعودي"))
	assert.Equal(t, NationalityUnknown, ArabicLabels.Nationality("Saudi"))
}
