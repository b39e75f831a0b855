package handler

import (
	"net/http"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/internal/metrics"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/simulate"
)

// SimulateRequest runs one what-if scenario against an inline snapshot.
type SimulateRequest struct {
	Snapshot SnapshotInput     `json:"snapshot" validate:"required"`
	Scenario simulate.Scenario `json:"scenario" validate:"required"`
}

// runSimulation runs the baseline and modified pipelines and diffs them.
func (h *Handler) runSimulation(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.simulation.SimulateScenario(req.Snapshot.toSnapshot(), req.Scenario)
	if err != nil {
		metrics.IncSimulationRun("error")
		respondError(w, err)
		return
	}
	metrics.IncSimulationRun("ok")
	respond(w, http.StatusOK, result)
}

// CompareScenariosRequest runs two scenarios against the same snapshot.
type CompareScenariosRequest struct {
	Snapshot SnapshotInput     `json:"snapshot" validate:"required"`
	First    simulate.Scenario `json:"first" validate:"required"`
	Second   simulate.Scenario `json:"second" validate:"required"`
}

// compareSimulations recommends the scenario with the better composite score.
func (h *Handler) compareSimulations(w http.ResponseWriter, r *http.Request) {
	var req CompareScenariosRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	comparison, err := h.simulation.CompareScenarios(req.Snapshot.toSnapshot(), req.First, req.Second)
	if err != nil {
		metrics.IncSimulationRun("error")
		respondError(w, err)
		return
	}
	metrics.IncSimulationRun("ok")
	respond(w, http.StatusOK, comparison)
}
