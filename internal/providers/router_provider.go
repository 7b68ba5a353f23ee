package providers

import (
	"net/http"
	"qrkeep/internal/structures"

	"github.com/gorilla/mux"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	Put(url string, handler http.Handler)
	Delete(url string, handler http.Handler)
	Use(middleware ...mux.MiddlewareFunc)
	GetRoutes() []structures.Route
	Handler() http.Handler
}

// RouterProvider registers routes on a gorilla/mux router. A path registered for
// one method answers 405 to the others.
type RouterProvider struct {
	router *mux.Router
	routes []structures.Route
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.handle(http.MethodGet, url, handler)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.handle(http.MethodPost, url, handler)
}

func (rp *RouterProvider) Put(url string, handler http.Handler) {
	rp.handle(http.MethodPut, url, handler)
}

func (rp *RouterProvider) Delete(url string, handler http.Handler) {
	rp.handle(http.MethodDelete, url, handler)
}

func (rp *RouterProvider) handle(method, url string, handler http.Handler) {
	rp.router.Handle(url, handler).Methods(method)
	rp.routes = append(rp.routes, structures.Route{
		Url:     url,
		Method:  method,
		Handler: handler,
	})
}

func (rp *RouterProvider) Use(middleware ...mux.MiddlewareFunc) {
	rp.router.Use(middleware...)
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.routes
}

func (rp *RouterProvider) Handler() http.Handler {
	return rp.router
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{router: mux.NewRouter()}
}
