package server

import "net/http"

// RouterGroup registers routes under a common prefix with its own
// middleware stack. Groups created from a group inherit its middleware.
type RouterGroup struct {
	prefix     string
	middleware []Middleware
	router     Router
}

func (rg *RouterGroup) Use(middleware ...Middleware) {
	rg.middleware = append(rg.middleware, middleware...)
}

func (rg *RouterGroup) Handle(pattern string, handler http.Handler) {
	rg.router.Handle(rg.prefix+pattern, chain(handler, rg.middleware))
}

func (rg *RouterGroup) HandleFunc(pattern string, handlerFunc func(http.ResponseWriter, *http.Request)) {
	rg.Handle(pattern, http.HandlerFunc(handlerFunc))
}

func (rg *RouterGroup) Group(prefix string) *RouterGroup {
	return &RouterGroup{
		prefix:     rg.prefix + prefix,
		middleware: append([]Middleware{}, rg.middleware...),
		router:     rg.router,
	}
}
