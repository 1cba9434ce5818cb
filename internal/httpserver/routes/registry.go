package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
)

type (
	// Registrar mounts a group of routes.
	Registrar func(r chi.Router, d deps.Deps)
	// Guard builds a middleware from the server deps. Guards are resolved
	// when routes are registered, not at init time.
	Guard func(d deps.Deps) func(http.Handler) http.Handler
)

type entry struct {
	reg    Registrar
	guards []Guard
}

var registry []entry

// Register a registrar with optional guards applied to all of its routes.
func Register(reg Registrar, guards ...Guard) {
	registry = append(registry, entry{reg: reg, guards: guards})
}

// RegisterAll is called once from httpserver.New.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, e := range registry {
		if len(e.guards) == 0 {
			e.reg(r, d)
			continue
		}
		r.Group(func(g chi.Router) {
			for _, guard := range e.guards {
				g.Use(guard(d))
			}
			e.reg(g, d)
		})
	}
}
