package http

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/couchcryptid/flight-weather-risk/internal/domain"
)

// maxRequestBody bounds POST bodies.
const maxRequestBody = 64 << 10

type briefingResponse struct {
	ICAO        string                `json:"icao"`
	EvaluatedAt time.Time             `json:"evaluated_at"`
	Briefing    domain.HazardBriefing `json:"briefing"`
}

// debugAggregation is the arithmetic behind a result.
type debugAggregation struct {
	RawScore             int     `json:"raw_score"`
	DataAgeHours         float64 `json:"data_age_hours"`
	DatasetsAvailable    int     `json:"datasets_available"`
	MissingInputsPenalty float64 `json:"missing_inputs_penalty"`
	Confidence           float64 `json:"confidence"`
}

type debugResult struct {
	FinalScore *int          `json:"final_score"`
	Tier       *domain.Tier  `json:"tier"`
	Status     domain.Status `json:"status"`
}

type debugResponse struct {
	Inputs      domain.RiskInputs             `json:"inputs"`
	Factors     []domain.WeightedFactorResult `json:"factors"`
	Aggregation debugAggregation              `json:"aggregation"`
	Result      debugResult                   `json:"result"`
}

func (s *Server) handleAirportRisk(w http.ResponseWriter, r *http.Request) {
	phase, ok := phaseParam(w, r)
	if !ok {
		return
	}
	eval, ok := s.evaluate(w, r, phase)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, eval)
}

func (s *Server) handleAirportBriefing(w http.ResponseWriter, r *http.Request) {
	eval, ok := s.evaluate(w, r, domain.PhasePreflight)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, briefingResponse{
		ICAO:        eval.ICAO,
		EvaluatedAt: eval.EvaluatedAt,
		Briefing:    eval.Briefing,
	})
}

func (s *Server) handleDebugAirportRisk(w http.ResponseWriter, r *http.Request) {
	phase, ok := phaseParam(w, r)
	if !ok {
		return
	}
	eval, ok := s.evaluate(w, r, phase)
	if !ok {
		return
	}
	res := eval.Result
	writeJSON(w, http.StatusOK, debugResponse{
		Inputs:  eval.Inputs,
		Factors: res.Factors,
		Aggregation: debugAggregation{
			RawScore:             res.RawScore,
			DataAgeHours:         res.DataAgeHours,
			DatasetsAvailable:    eval.Inputs.DatasetsAvailable(),
			MissingInputsPenalty: res.MissingInputsPenalty,
			Confidence:           res.Confidence,
		},
		Result: debugResult{
			FinalScore: res.FinalScore,
			Tier:       res.Tier,
			Status:     res.Status,
		},
	})
}

func (s *Server) handleFlightRisk(w http.ResponseWriter, r *http.Request) {
	var f domain.Flight
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := dec.Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid flight body: "+err.Error())
		return
	}
	f, err := domain.NormalizeFlight(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a, err := s.evaluator.EvaluateFlight(r.Context(), f)
	if err != nil {
		s.evaluationFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) evaluate(w http.ResponseWriter, r *http.Request, phase domain.Phase) (domain.AirportEvaluation, bool) {
	icao, err := domain.NormalizeICAO(r.PathValue("icao"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return domain.AirportEvaluation{}, false
	}
	eval, err := s.evaluator.EvaluateAirport(r.Context(), icao, phase)
	if err != nil {
		s.evaluationFailed(w, r, err)
		return domain.AirportEvaluation{}, false
	}
	return eval, true
}

func (s *Server) evaluationFailed(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil {
		s.logger.Debug("client went away during evaluation", "path", r.URL.Path, "error", err)
		return
	}
	s.logger.Error("evaluation failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "evaluation failed")
}

// phaseParam reads ?phase=, defaulting to departure.
func phaseParam(w http.ResponseWriter, r *http.Request) (domain.Phase, bool) {
	v := r.URL.Query().Get("phase")
	if v == "" {
		return domain.PhaseDeparture, true
	}
	p, err := domain.ParsePhase(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return p, true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
