package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"revloans/core"
	"revloans/handler/param"
	"revloans/handler/render"
	"revloans/handler/views"
	"revloans/internal/fees"
	"revloans/pkg/number"
)

func loanHandler(loanStr core.ILoanStore, oracleSrv core.IOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		loan, err := loanStr.Find(ctx, id)
		if err != nil {
			render.Coded(w, err)
			return
		}

		render.JSON(w, getLoanView(ctx, loan, oracleSrv))
	}
}

func getLoanView(ctx context.Context, loan *core.Loan, oracleSrv core.IOracleService) *views.Loan {
	view := views.Loan{
		Loan:      *loan,
		ExpiresAt: loan.CreatedAt.Add(fees.LiquidationDuration),
		Closed:    loan.Closed(),
	}
	view.Expired = time.Now().After(view.ExpiresAt)

	if ac, err := oracleSrv.AccountingContext(ctx, loan.Source()); err == nil {
		view.AmountDisplay = number.Humanize(&loan.Amount.Int, ac.Decimals)
		view.CollateralDisplay = number.Humanize(&loan.Collateral.Int, ac.Decimals)
	}

	return &view
}

func openLoanHandler(loanSrv core.ILoanService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req core.OpenRequest
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}
		req.Caller = callerOf(r)

		loan, err := loanSrv.Open(r.Context(), &req)
		if err != nil {
			render.Coded(w, err)
			return
		}

		render.JSON(w, loan)
	}
}

func adjustLoanHandler(loanSrv core.ILoanService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req core.AdjustRequest
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			render.BadRequest(w, err)
			return
		}
		req.LoanID = id
		req.Caller = callerOf(r)

		loan, err := loanSrv.Adjust(r.Context(), &req)
		if err != nil {
			render.Coded(w, err)
			return
		}

		render.JSON(w, loan)
	}
}

func sourcesHandler(loanStr core.ILoanStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		revnetID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		sources, err := loanStr.SourcesOf(r.Context(), revnetID)
		if err != nil {
			render.Coded(w, err)
			return
		}

		render.JSON(w, sources)
	}
}

func borrowableHandler(loanSrv core.ILoanService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Collateral string `json:"collateral"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		var collateral core.Amount
		if params.Collateral != "" {
			var err error
			collateral, err = core.AmountFromString(params.Collateral)
			if err != nil {
				render.BadRequest(w, err)
				return
			}
		}

		revnetID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		borrowable, err := loanSrv.MaxBorrowable(r.Context(), revnetID, collateral)
		if err != nil {
			render.Coded(w, err)
			return
		}

		render.JSON(w, render.H{"revnet_id": revnetID, "borrowable": borrowable})
	}
}

func totalsHandler(loanStr core.ILoanStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		revnetID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		sources, err := loanStr.SourcesOf(ctx, revnetID)
		if err != nil {
			render.Coded(w, err)
			return
		}

		totals := views.RevnetTotals{
			RevnetID: revnetID,
			Sources:  make([]*views.SourceTotal, 0, len(sources)),
		}

		for _, source := range sources {
			borrowed, err := loanStr.TotalBorrowedFrom(ctx, revnetID, source.Terminal, source.Token)
			if err != nil {
				render.Coded(w, err)
				return
			}
			totals.Sources = append(totals.Sources, &views.SourceTotal{
				LoanSource: *source,
				Borrowed:   borrowed,
			})
		}

		collateral, err := loanStr.TotalCollateralOf(ctx, revnetID)
		if err != nil {
			render.Coded(w, err)
			return
		}
		totals.Collateral = collateral

		count, err := loanStr.CountOf(ctx, revnetID)
		if err != nil {
			render.Coded(w, err)
			return
		}
		totals.Loans = count

		render.JSON(w, totals)
	}
}

func eventsHandler(eventStr core.IEventStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			LoanID uint64 `json:"loan_id"`
			From   uint64 `json:"from"`
			Limit  int    `json:"limit"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if params.LoanID > 0 {
			events, err := eventStr.FindByLoan(r.Context(), params.LoanID)
			if err != nil {
				render.Coded(w, err)
				return
			}
			render.JSON(w, events)
			return
		}

		if params.Limit <= 0 || params.Limit > 500 {
			params.Limit = 100
		}

		events, err := eventStr.List(r.Context(), params.From, params.Limit)
		if err != nil {
			render.Coded(w, err)
			return
		}
		render.JSON(w, events)
	}
}

func liquidateHandler(loanSrv core.ILoanService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Limit int `json:"limit"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if params.Limit <= 0 || params.Limit > 1000 {
			params.Limit = 100
		}

		count, err := loanSrv.LiquidateExpired(r.Context(), params.Limit)
		if err != nil {
			render.Coded(w, err)
			return
		}

		render.JSON(w, render.H{"liquidated": count})
	}
}
