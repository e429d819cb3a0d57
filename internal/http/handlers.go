package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"cashmentor/internal/core"
	"cashmentor/internal/engine"
	"cashmentor/internal/export"
	"cashmentor/internal/filter"
	applog "cashmentor/internal/log"
)

// handleCategories returns the fixed category taxonomy.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.eng.Categories())
}

// handleSummary derives the aggregated view. "now" is captured once here
// and reused for the entire filtering pass.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	mode, err := filter.ParseMode(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown filter mode")
		return
	}
	now := s.eng.Now()
	writeJSON(w, http.StatusOK, s.eng.Summarize(mode, now))
}

// handleListExpenses returns every recorded expense as flat export rows.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	rows := export.BuildRows(s.eng.Items())
	if rows == nil {
		rows = []export.Row{}
	}
	writeJSON(w, http.StatusOK, rows)
}

type addExpenseRequest struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type expenseResponse struct {
	Category string     `json:"category"`
	Amount   core.Money `json:"amount"`
	Date     time.Time  `json:"date"`
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req addExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := s.eng.AddExpense(r.Context(), req.Category, req.Amount)
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		writeError(w, http.StatusUnprocessableEntity, "please enter a valid amount")
		return
	case errors.Is(err, core.ErrUnknownCategory):
		writeError(w, http.StatusUnprocessableEntity, "unknown category")
		return
	case err != nil:
		s.logger.ErrorContext(r.Context(), "Add expense failed",
			applog.FieldOperation, applog.OpAddExpense, applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "could not record expense")
		return
	}

	writeJSON(w, http.StatusCreated, expenseResponse{
		Category: req.Category,
		Amount:   exp.Amount,
		Date:     exp.Date,
	})
}

type updateIncomeRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type incomeResponse struct {
	Salary      core.Money `json:"salary"`
	OtherIncome core.Money `json:"otherIncome"`
	TotalIncome core.Money `json:"totalIncome"`
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	var req updateIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	field, err := core.ParseIncomeField(req.Field)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "field must be salary or otherIncome")
		return
	}

	if _, err := s.eng.UpdateIncome(r.Context(), field, req.Value); err != nil {
		if errors.Is(err, core.ErrInvalidAmount) {
			writeError(w, http.StatusUnprocessableEntity, "please enter a valid amount")
			return
		}
		s.logger.ErrorContext(r.Context(), "Update income failed",
			applog.FieldOperation, applog.OpUpdateIncome, applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "could not update income")
		return
	}

	income := s.eng.Income()
	writeJSON(w, http.StatusOK, incomeResponse{
		Salary:      income.Salary,
		OtherIncome: income.Other,
		TotalIncome: income.Total(),
	})
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

// staticConfirmer carries a confirmation the client already gave through
// the engine's confirmation collaborator.
type staticConfirmer bool

func (c staticConfirmer) Confirm(context.Context, string) (bool, error) {
	return bool(c), nil
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.eng.Reset(r.Context(), staticConfirmer(req.Confirm))
	switch {
	case errors.Is(err, engine.ErrResetDeclined):
		writeError(w, http.StatusUnprocessableEntity, "reset not confirmed")
		return
	case err != nil:
		s.logger.ErrorContext(r.Context(), "Reset failed",
			applog.FieldOperation, applog.OpReset, applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "could not reset budget")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"reset": true})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.sink == nil {
		writeError(w, http.StatusNotImplemented, "no export sink configured")
		return
	}

	now := s.eng.Now()
	rows := export.BuildRows(s.eng.Items())
	name := export.Filename(now, s.sink.Ext())
	ref, err := s.sink.Write(r.Context(), name, rows)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Export failed",
			applog.FieldOperation, applog.OpExport, applog.FieldError, err)
		writeError(w, http.StatusBadGateway, "export failed")
		return
	}

	s.logger.InfoContext(r.Context(), "Export written",
		applog.FieldOperation, applog.OpExport,
		applog.FieldCount, len(rows),
		applog.FieldRef, ref)
	writeJSON(w, http.StatusOK, map[string]any{"ref": ref, "rows": len(rows)})
}
