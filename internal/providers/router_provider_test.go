package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dummyHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func serve(rp RouterProviderInterface, method, url string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, nil)
	rr := httptest.NewRecorder()
	rp.Handler().ServeHTTP(rr, req)
	return rr
}

func TestRouterProvider_GetAddsRoute(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/test", dummyHandler())

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/test", routes[0].Url)
	assert.Equal(t, http.MethodGet, routes[0].Method)
}

func TestRouterProvider_MultipleRoutes(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/a", dummyHandler())
	rp.Post("/b", dummyHandler())
	rp.Put("/c", dummyHandler())
	rp.Delete("/d/{id}", dummyHandler())

	routes := rp.GetRoutes()
	require.Len(t, routes, 4)
	assert.Equal(t, http.MethodDelete, routes[3].Method)
}

func TestRouterProvider_CorrectMethod(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/test", dummyHandler())

	rr := serve(rp, http.MethodGet, "/test")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestRouterProvider_GetRouteRejectsPost(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/test", dummyHandler())

	rr := serve(rp, http.MethodPost, "/test")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRouterProvider_SamePathDifferentMethods(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/settings", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("get"))
	}))
	rp.Put("/settings", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("put"))
	}))

	assert.Equal(t, "get", serve(rp, http.MethodGet, "/settings").Body.String())
	assert.Equal(t, "put", serve(rp, http.MethodPut, "/settings").Body.String())
	assert.Equal(t, http.StatusMethodNotAllowed, serve(rp, http.MethodDelete, "/settings").Code)
}

func TestRouterProvider_PathVariables(t *testing.T) {
	rp := NewRouterProvider()
	rp.Delete("/history/{index:[0-9]+}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(mux.Vars(r)["index"]))
	}))

	assert.Equal(t, "12", serve(rp, http.MethodDelete, "/history/12").Body.String())
	assert.Equal(t, http.StatusNotFound, serve(rp, http.MethodDelete, "/history/abc").Code)
}

func TestRouterProvider_UnknownPath(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/test", dummyHandler())
	assert.Equal(t, http.StatusNotFound, serve(rp, http.MethodGet, "/missing").Code)
}
