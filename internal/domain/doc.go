// Package domain implements the flight weather risk engine.
//
// # Inputs
//
// The engine consumes already-decoded aviation weather: the latest METAR and
// optionally the one before it, the current TAF, airport reference data,
// area advisories (SIGMET, AIRMET, CWA) and pilot reports. Every field may be
// absent. Missing data lowers confidence instead of producing errors.
//
// # Factors
//
// Six assessors each score one dimension 0–100 and report a confidence
// penalty when their input is missing:
//
//	surface_wind     sustained, gust and runway crosswind
//	visibility       prevailing visibility and RVR
//	ceiling_clouds   lowest BKN/OVC/VV base, convective cloud
//	precipitation    present weather and the next 6 h of TAF
//	trend_stability  METAR-to-METAR change and TAF deterioration
//	temperature      airframe icing and hot-day performance
//
// Severity per factor: ≥70 high, ≥40 moderate, else low.
//
// # Aggregation
//
// [ResolvePhase] derives the flight phase from the schedule and an explicit
// now. [Aggregate] weights the factor scores by the phase table, substituting
// 0.1 for factors the table omits (temperature in the defaults), and derives
// confidence from data age:
//
//	≤3h 1.0 | ≤6h 0.95 | ≤12h 0.85 | ≤24h 0.7 | ≤36h 0.5 | else 0.2
//
// minus 0.15 when METAR or TAF is missing. Tiers: ≤30 OnTrack, ≤60 Monitor,
// else HighDisruption. Confidence below 0.15, or no dataset at all, yields
// InsufficientData with no score and no tier.
//
// [CombineFlightRisk] blends origin and destination by a second phase table
// and propagates InsufficientData from either side.
//
// # Briefings
//
// [BuildBriefing] filters advisories to those valid now, orders them by
// distance from the airport (or by severity when the airport position is
// unknown), groups them by hazard type and renders one sentence per group,
// followed by the three most severe pilot reports.
package domain
