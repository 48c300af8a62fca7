package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
)

type Method string

const (
	GET    Method = "GET"
	POST   Method = "POST"
	DELETE Method = "DELETE"
)

// Handler is the exec logic of a route. It returns the response payload,
// the http status code and any error encountered during execution.
// A non-nil error with a 2xx or zero code is reported as an internal error.
type Handler func(r *http.Request) ([]byte, int, error)

// Route binds a handler to a method and path pattern.
// Patterns follow the http.ServeMux syntax, path values included,
// e.g. "/networks/{id}/train".
type Route struct {
	Method Method
	Path   string
	Exec   Handler
}

// NewRoute creates a route for the given method and path.
func NewRoute(method Method, path string, exec Handler) Route {
	return Route{
		Method: method,
		Path:   path,
		Exec:   exec,
	}
}

// Server is a thin wrapper around an http mux that handles
// response encoding, error mapping and request logging.
type Server struct {
	name  string
	port  int
	debug bool
	mux   *http.ServeMux
}

// NewServer creates a new server listening on the given port.
func NewServer(name string, port int) *Server {
	return &Server{
		name: name,
		port: port,
		mux:  http.NewServeMux(),
	}
}

// Debug sets the server to debug mode.
func (s *Server) Debug() *Server {
	s.debug = true
	return s
}

// Add registers the given routes with the server.
func (s *Server) Add(routes ...Route) *Server {
	for _, route := range routes {
		s.mux.HandleFunc(fmt.Sprintf("%s %s", route.Method, route.Path), s.handle(route.Exec))
	}
	return s
}

// AddHandler mounts a raw http handler at the given pattern,
// for endpoints that manage the connection themselves.
func (s *Server) AddHandler(pattern string, handler http.Handler) *Server {
	s.mux.Handle(pattern, handler)
	return s
}

// Handler exposes the underlying mux.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run starts the server and blocks until it stops.
func (s *Server) Run() error {
	log.Info().Str("server", s.name).Int("port", s.port).Msg("starting server")
	if err := http.ListenAndServe(fmt.Sprintf(":%d", s.port), s.mux); err != nil {
		return fmt.Errorf("could not start %s server: %w", s.name, err)
	}
	return nil
}

func (s *Server) handle(handler Handler) http.HandlerFunc {
	name := runtime.FuncForPC(reflect.ValueOf(handler).Pointer()).Name()
	return func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		b, code, err := handler(r)
		if err != nil {
			code = s.error(w, code, err)
		} else {
			s.respond(w, b, code)
		}
		event := log.Debug()
		if s.debug {
			event = log.Info()
		}
		event.
			Str("handler", name).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("code", code).
			Float64("duration", time.Since(started).Seconds()).
			Msg("request")
	}
}

func (s *Server) respond(w http.ResponseWriter, b []byte, code int) {
	w.Header().Set("Content-Type", "application/json")
	if code == 0 {
		code = http.StatusOK
	}
	w.WriteHeader(code)
	if _, err := w.Write(b); err != nil {
		log.Error().Err(err).Msg("could not write response")
	}
}

func (s *Server) error(w http.ResponseWriter, code int, err error) int {
	if code < http.StatusBadRequest {
		code = http.StatusInternalServerError
	}
	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("error for http request")
	}
	b, mErr := json.Marshal(ErrorMessage{Error: err.Error()})
	if mErr != nil {
		b = []byte(err.Error())
	}
	s.respond(w, b, code)
	return code
}

// ErrorMessage is the payload returned for failed requests.
type ErrorMessage struct {
	Error string `json:"error"`
}

// Live returns a trivial liveness route.
func Live() Route {
	return NewRoute(GET, "/live", func(r *http.Request) ([]byte, int, error) {
		return []byte(`{}`), http.StatusOK, nil
	})
}

// JsonRead decodes the request body into the given value.
// An empty body leaves the value untouched.
func JsonRead(r *http.Request, debug bool, v interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if debug {
		log.Info().
			Str("url", fmt.Sprintf("%+v", r.URL)).
			Str("request", r.RequestURI).
			Str("remote-address", r.RemoteAddr).
			Str("method", r.Method).
			Str("body", string(body)).
			Msg("received payload")
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, v); err != nil {
			return err
		}
	}
	return nil
}
