package rest

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi"

	"revloans/core"
	"revloans/handler/render"
)

// Handle handle rest api request
func Handle(
	loanStore core.ILoanStore,
	eventStore core.IEventStore,
	loanService core.ILoanService,
	oracleService core.IOracleService,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/loans/{id}", loanHandler(loanStore, oracleService))
	router.Post("/loans", openLoanHandler(loanService))
	router.Post("/loans/{id}/adjust", adjustLoanHandler(loanService))

	router.Get("/revnets/{id}/sources", sourcesHandler(loanStore))
	router.Get("/revnets/{id}/borrowable", borrowableHandler(loanService))
	router.Get("/revnets/{id}/totals", totalsHandler(loanStore))

	router.Get("/events", eventsHandler(eventStore))

	router.Post("/liquidate", liquidateHandler(loanService))

	return router
}

func callerOf(r *http.Request) string {
	return r.Header.Get("X-Caller")
}
