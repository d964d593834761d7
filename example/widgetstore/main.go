// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command widgetstore is a small end-to-end example: a versioned widget
// catalog served through the chi adapter with the generated OpenAPI
// document at /openapi.json.
package main

import (
	"net/http"
	"os"
	"sort"
	"sync"

	"github.com/apiweave/apiweave"
	"github.com/apiweave/apiweave/api"
	"github.com/apiweave/apiweave/chiserve"
	"github.com/apiweave/apiweave/codec"
	"github.com/apiweave/apiweave/middleware"
	"github.com/apiweave/apiweave/resource"

	"github.com/go-chi/chi/v5"
)

type Widget struct {
	ID   int    `json:"id" api:"key"`
	Name string `json:"name" validate:"required"`
	Size int    `json:"size" validate:"gte=0"`
}

// store is an in-memory widget catalog.
type store struct {
	mu      sync.RWMutex
	widgets map[int]Widget
	nextID  int
}

func newStore() *store {
	return &store{
		widgets: make(map[int]Widget),
		nextID:  1,
	}
}

func (s *store) list(offset, limit int) ([]Widget, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]Widget, 0, len(s.widgets))
	for _, w := range s.widgets {
		all = append(all, w)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset >= len(all) {
		return []Widget{}, len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], len(all)
}

func (s *store) get(id int) (Widget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.widgets[id]
	return w, ok
}

func (s *store) create(w Widget) Widget {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.ID = s.nextID
	s.nextID++
	s.widgets[w.ID] = w
	return w
}

func (s *store) delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.widgets[id]
	delete(s.widgets, id)
	return ok
}

func buildApi(widgets *store) *api.Interface {
	log := apiweave.Logger("widgetstore")
	widgetType := resource.Of[Widget]()

	iface := api.NewInterface(
		api.WithCodec(codec.YAML()),
		api.WithMiddleware(
			middleware.RequestID{},
			middleware.NewRequestLogger(log),
		),
	)

	v1 := api.NewVersion(1)
	v1.Add(api.NewResourceAPI(widgetType, api.ResourceTags("widgets")).Route(
		api.NewListOperation(api.NoPath, func(ctx *api.Context, offset, limit int) (any, int, error) {
			page, total := widgets.list(offset, limit)
			return page, total, nil
		}, api.MaxLimit(100), api.Summary("List widgets.")),

		api.NewOperation(api.NoPath, func(ctx *api.Context) (any, error) {
			decoded, err := api.DecodeBody(ctx, widgetType, false)
			if err != nil {
				return nil, err
			}

			w := decoded.(*Widget)
			if err := resource.Validate(w); err != nil {
				return nil, err
			}

			created := widgets.create(*w)
			return nil, &api.ImmediateResponse{
				Resource: created,
				Status:   http.StatusCreated,
			}
		}, api.Methods(api.MethodPost), api.Summary("Create a widget.")),

		api.NewOperation(api.PathOf(api.KeyParam()), func(ctx *api.Context) (any, error) {
			w, ok := widgets.get(ctx.Arg("id").(int))
			if !ok {
				return nil, api.NewHTTPError(http.StatusNotFound,
					api.WithMessage("Widget could not be found."))
			}
			return w, nil
		}, api.Summary("Get a widget by id.")),

		api.NewOperation(api.PathOf(api.KeyParam()), func(ctx *api.Context) (any, error) {
			if !widgets.delete(ctx.Arg("id").(int)) {
				return nil, api.NewHTTPError(http.StatusNotFound,
					api.WithMessage("Widget could not be found."))
			}
			return nil, nil
		}, api.Methods(api.MethodDelete), api.Summary("Delete a widget.")),
	))
	iface.Add(v1)

	return iface
}

func main() {
	log := apiweave.Logger("widgetstore")

	mux := chi.NewMux()
	err := chiserve.Mount(mux, buildApi(newStore()),
		chiserve.WithOpenApi("Widget Store", "1.0.0"),
	)
	if err != nil {
		log.Error("failed to mount api", "error", err)
		os.Exit(1)
	}

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	log.Info("serving widget store", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
