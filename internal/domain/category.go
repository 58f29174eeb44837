package domain

// FlightCategory is the FAA ceiling/visibility category of a report.
type FlightCategory string

const (
	CategoryUnknown FlightCategory = ""
	CategoryVFR     FlightCategory = "VFR"
	CategoryMVFR    FlightCategory = "MVFR"
	CategoryIFR     FlightCategory = "IFR"
	CategoryLIFR    FlightCategory = "LIFR"
)

// rank orders categories from best (0) to worst (3); unknown is -1.
func (c FlightCategory) rank() int {
	switch c {
	case CategoryVFR:
		return 0
	case CategoryMVFR:
		return 1
	case CategoryIFR:
		return 2
	case CategoryLIFR:
		return 3
	default:
		return -1
	}
}

// Categorize derives the flight category from a ceiling and a visibility.
// The worse of the two governs. Either may be nil; with neither the category
// is unknown. A nil ceiling with reported clouds means no ceiling.
func Categorize(ceilingFt *int, visibilitySM *float64) FlightCategory {
	if ceilingFt == nil && visibilitySM == nil {
		return CategoryUnknown
	}
	cat := CategoryVFR
	worsen := func(c FlightCategory) {
		if c.rank() > cat.rank() {
			cat = c
		}
	}
	if ceilingFt != nil {
		switch c := *ceilingFt; {
		case c < 500:
			worsen(CategoryLIFR)
		case c < 1000:
			worsen(CategoryIFR)
		case c <= 3000:
			worsen(CategoryMVFR)
		}
	}
	if visibilitySM != nil {
		switch v := *visibilitySM; {
		case v < 1:
			worsen(CategoryLIFR)
		case v < 3:
			worsen(CategoryIFR)
		case v <= 5:
			worsen(CategoryMVFR)
		}
	}
	return cat
}

// MetarCategory is the flight category of an observation.
func MetarCategory(m *Metar) FlightCategory {
	if m == nil {
		return CategoryUnknown
	}
	return categorizeLayers(m.Clouds, m.VisibilitySM)
}

func periodCategory(p TafPeriod) FlightCategory {
	return categorizeLayers(p.Clouds, p.VisibilitySM)
}

func categorizeLayers(layers []CloudLayer, vis *float64) FlightCategory {
	var ceil *int
	if c, ok := Ceiling(layers); ok {
		ceil = &c
	}
	if ceil == nil && layers != nil && vis == nil {
		// sky reported without a ceiling, visibility unknown
		return CategoryVFR
	}
	return Categorize(ceil, vis)
}
