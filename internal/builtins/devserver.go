package builtins

import (
	"fmt"
	"net/http"
)

// DevServer is the object handed to dev-server middlewares during setup.
// Starting and stopping the actual server is the embedding collaborator's
// concern; this type only collects what middlewares install.
type DevServer struct {
	Host string
	Port int

	mux      *http.ServeMux
	patterns []string
}

func NewDevServer(host string, port int) *DevServer {
	return &DevServer{Host: host, Port: port, mux: http.NewServeMux()}
}

// Handle installs an HTTP handler on the dev server.
func (s *DevServer) Handle(pattern string, h http.Handler) {
	s.mux.Handle(pattern, h)
	s.patterns = append(s.patterns, pattern)
}

// Handler exposes the composed mux.
func (s *DevServer) Handler() http.Handler { return s.mux }

// Patterns lists installed handler patterns in installation order.
func (s *DevServer) Patterns() []string {
	return append([]string(nil), s.patterns...)
}

// URL is the address the server would listen on.
func (s *DevServer) URL() string {
	return fmt.Sprintf("http://%s:%d/", s.Host, s.Port)
}
