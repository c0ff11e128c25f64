package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/expense-tracker/pkg/app"
	"github.com/ghuser/expense-tracker/services/item/application/handlers"
	appsvcs "github.com/ghuser/expense-tracker/services/item/application/services"
)

// ItemRoutes registers the welcome route and the item endpoints. Item
// endpoints sit behind a.Auth when it is set.
func ItemRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	log := a.Logger

	r.Get("/", handlers.Home)

	r.Group(func(r chi.Router) {
		if a.Auth != nil {
			r.Use(a.Auth)
		}

		r.Get("/items", handlers.NewListItemsHandler(svcs, log).Execute)
		r.Get("/chart-data", handlers.NewChartDataHandler(svcs, log).Execute)
		r.Post("/item", handlers.NewPostItemHandler(svcs, log).Execute)
		r.Route("/item/{id:[0-9]+}", func(r chi.Router) {
			r.Get("/", handlers.NewGetItemHandler(svcs, log).Execute)
			r.Put("/", handlers.NewPutItemHandler(svcs, log).Execute)
			r.Patch("/", handlers.NewPatchItemHandler(svcs, log).Execute)
			r.Delete("/", handlers.NewDeleteItemHandler(svcs, log).Execute)
		})
	})
}
