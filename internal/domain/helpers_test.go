package domain

import "time"

func ptr[T any](v T) *T { return &v }

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func layer(cover string, baseFt int) CloudLayer {
	return CloudLayer{Cover: cover, BaseFt: ptr(baseFt)}
}

// vfrMetar is a benign observation taken 20 minutes before testNow.
func vfrMetar() *Metar {
	return &Metar{
		ICAO:         "KDEN",
		Observed:     testNow.Add(-20 * time.Minute),
		TempC:        ptr(15.0),
		DewpointC:    ptr(2.0),
		WindDirDeg:   ptr(180),
		WindSpeedKt:  ptr(6),
		VisibilitySM: ptr(10.0),
		Clouds:       []CloudLayer{layer("FEW", 8000)},
	}
}
