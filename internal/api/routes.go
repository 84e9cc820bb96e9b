package api

import (
	"net/http"

	"github.com/curator-io/curator/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Assets.Handler().Routes(),
	)
}
