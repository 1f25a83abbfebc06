package server

import "net/http"

type Router interface {
	// Handle registers handler for pattern on the underlying mux
	Handle(pattern string, handler http.Handler)
	// HandleFunc registers a handler function for pattern on the underlying mux
	HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request))
	// ServeHTTP dispatches the request through the router middleware to the mux
	ServeHTTP(w http.ResponseWriter, r *http.Request)
	// Use adds middleware applied to every request served by the router
	Use(middleware ...Middleware)
	// Group creates a group with the given prefix below the root group
	Group(prefix string) *RouterGroup
}

// DefaultRouter is a Router backed by http.ServeMux.
type DefaultRouter struct {
	mux *http.ServeMux
	// middleware wraps the whole mux, outermost first
	middleware []Middleware
	rootGroup  *RouterGroup
	// Patterns lists every pattern registered so far, in order
	Patterns []string
}

// NewDefaultRouter creates a DefaultRouter whose groups share prefix.
func NewDefaultRouter(prefix string) *DefaultRouter {
	dr := &DefaultRouter{mux: http.NewServeMux()}
	dr.rootGroup = &RouterGroup{prefix: prefix, router: dr}
	return dr
}

func (dr *DefaultRouter) Handle(pattern string, handler http.Handler) {
	dr.Patterns = append(dr.Patterns, pattern)
	dr.mux.Handle(pattern, handler)
}

func (dr *DefaultRouter) HandleFunc(pattern string, handlerFunc func(http.ResponseWriter, *http.Request)) {
	dr.Handle(pattern, http.HandlerFunc(handlerFunc))
}

func (dr *DefaultRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	chain(dr.mux, dr.middleware).ServeHTTP(w, req)
}

func (dr *DefaultRouter) Use(middleware ...Middleware) {
	dr.middleware = append(dr.middleware, middleware...)
}

func (dr *DefaultRouter) Group(prefix string) *RouterGroup {
	return dr.rootGroup.Group(prefix)
}
