package population

// CanonicalAgeOrder is the display order of the GASTAT age brackets.
var CanonicalAgeOrder = []string{
	"0 - 4", "5 - 9", "10 - 14", "15 - 19", "20 - 24",
	"25 - 29", "30 - 34", "35 - 39", "40 - 44", "45 - 49",
	"50 - 54", "55 - 59", "60 - 64", "65 - 69", "70 - 74",
	"75 - 79", "80+",
}

// GenderSplit is a male/female breakdown with its reported total.
type GenderSplit struct {
	Male   int64 `json:"male"`
	Female int64 `json:"female"`
	Total  int64 `json:"total"`
}

// GenderTotals is the national male/female breakdown across nationalities.
type GenderTotals struct {
	Male   int64 `json:"male"`
	Female int64 `json:"female"`
}

// NationalSummary holds the pre-aggregated national totals.
type NationalSummary struct {
	TotalPopulation int64        `json:"total_population"`
	Saudi           GenderSplit  `json:"saudi"`
	NonSaudi        GenderSplit  `json:"non_saudi"`
	ByGender        GenderTotals `json:"by_gender"`
}

// SummarizeNational assigns each pre-aggregated national row to its summary
// field. Rows whose label combination is not recognized are ignored.
func SummarizeNational(records []Record) NationalSummary {
	var s NationalSummary
	for _, r := range records {
		var split *GenderSplit
		switch r.Nationality {
		case NationalitySaudi:
			split = &s.Saudi
		case NationalityNonSaudi:
			split = &s.NonSaudi
		case NationalityTotal:
			switch r.Sex {
			case SexMale:
				s.ByGender.Male = r.Population
			case SexFemale:
				s.ByGender.Female = r.Population
			case SexTotal:
				s.TotalPopulation = r.Population
			}
			continue
		default:
			continue
		}

		switch r.Sex {
		case SexMale:
			split.Male = r.Population
		case SexFemale:
			split.Female = r.Population
		case SexTotal:
			split.Total = r.Population
		}
	}
	return s
}

// Breakdown is the per-province and per-age-group view of the detail rows.
type Breakdown struct {
	// Provinces is ordered by descending total.
	Provinces *Table
	// AgeGroups follows CanonicalAgeOrder, unknown brackets last.
	AgeGroups *Table
}

// SummarizeByProvinceAndAge sums granular detail rows per province and per
// age bracket. Rows carrying a Total category are skipped since the API
// reports them alongside the granular rows they summarize; rows with an
// unrecognized category are dropped.
func SummarizeByProvinceAndAge(records []Record) Breakdown {
	provinces := NewTable()
	ages := NewTable()

	for _, r := range records {
		if !granular(r) {
			continue
		}
		provinces.entry(r.Province).add(r)
		ages.entry(r.AgeRange).add(r)
	}

	return Breakdown{
		Provinces: provinces.SortedByTotal(),
		AgeGroups: ages.Reordered(CanonicalAgeOrder),
	}
}

func granular(r Record) bool {
	switch r.Sex {
	case SexMale, SexFemale:
	default:
		return false
	}
	switch r.Nationality {
	case NationalitySaudi, NationalityNonSaudi:
	default:
		return false
	}
	return true
}
