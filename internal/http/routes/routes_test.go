package routes

import (
	"maps"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
)

func newTestAPI() (chi.Router, huma.API) {
	router := chi.NewRouter()
	cfg := huma.DefaultConfig("RoutesTest", "test")
	cfg.CreateHooks = nil
	api := humachi.New(router, cfg)
	Register(api)
	return router, api
}

func TestRegisterServesAllRoutes(t *testing.T) {
	router, _ := newTestAPI()

	for _, path := range []string{"/", "/health"} {
		t.Run(path, func(t *testing.T) {
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
			if resp.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.Code)
			}
		})
	}
}

func TestRegisterOnlyExposesReadOperations(t *testing.T) {
	_, api := newTestAPI()

	paths := api.OpenAPI().Paths
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(paths))
	}
	for path, item := range paths {
		if item.Get == nil {
			t.Fatalf("%s: expected a GET operation", path)
		}
		if item.Post != nil || item.Put != nil || item.Patch != nil || item.Delete != nil {
			t.Fatalf("%s: unexpected write operation", path)
		}
	}
}

func TestRegisterGivesEachBodyItsOwnSchema(t *testing.T) {
	router := chi.NewRouter()
	api := humachi.New(router, huma.DefaultConfig("RoutesTest", "test"))
	Register(api)

	schemas := api.OpenAPI().Components.Schemas.Map()
	for _, name := range []string{"Greeting", "Status"} {
		if _, ok := schemas[name]; !ok {
			t.Fatalf("expected schema %q, got %v", name, slices.Sorted(maps.Keys(schemas)))
		}
	}
}
