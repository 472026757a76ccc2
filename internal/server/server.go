package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Action string

type Method string

const (
	Data Action = "data"
	Api  Action = "api"

	GET  Method = "GET"
	POST Method = "POST"
)

type Handler func(r *http.Request) ([]byte, int, error)

type Route struct {
	Action Action
	Path   string
	Method Method
	Exec   Handler
}

type Server struct {
	name    string
	port    int
	debug   bool
	lock    *sync.Mutex
	routes  []Route
	handles map[string]http.Handler
}

func NewServer(name string, port int) *Server {
	return &Server{
		name:    name,
		port:    port,
		lock:    new(sync.Mutex),
		routes:  make([]Route, 0),
		handles: make(map[string]http.Handler),
	}
}

// Debug sets the server to debug mode
func (s *Server) Debug() *Server {
	s.debug = true
	return s
}

// AddRoute adds a route for the given handler
func (s *Server) AddRoute(method Method, action Action, path string, exec Handler) *Server {
	s.routes = append(s.routes, Route{
		Action: action,
		Path:   path,
		Method: method,
		Exec:   exec,
	})
	return s
}

// Add adds the given routes to the server
func (s *Server) Add(route ...Route) *Server {
	s.routes = append(s.routes, route...)
	return s
}

// Handle serves the given path with a plain http handler e.g. the metrics endpoint.
func (s *Server) Handle(path string, handler http.Handler) *Server {
	s.handles[path] = handler
	return s
}

func (s *Server) handle(method Method, route string, handler Handler) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		// one request at a time, classifications are memory heavy
		s.lock.Lock()
		defer s.lock.Unlock()
		start := time.Now()
		defer func() {
			if s.debug {
				log.Info().
					Str("route", route).
					Str("method", r.Method).
					Float64("duration", time.Since(start).Seconds()).
					Msg("completed request")
			}
		}()
		switch Method(r.Method) {
		case method:
			b, code, err := handler(r)
			if err != nil {
				s.error(w, err, code)
			} else if code != http.StatusOK {
				s.code(w, b, code)
			} else {
				s.respond(w, b)
			}
		default:
			w.WriteHeader(http.StatusNotImplemented)
		}
	}
}

// Mux creates the http handler for all the routes of the server.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	for _, route := range s.routes {
		path := fmt.Sprintf("/%s", route.Action)
		if route.Path != "" {
			path = fmt.Sprintf("/%s/%s", route.Action, route.Path)
		}
		mux.HandleFunc(path, s.handle(route.Method, path, route.Exec))
	}
	for path, h := range s.handles {
		mux.Handle(path, h)
	}
	return mux
}

// Run starts the server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Mux(),
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			log.Error().Err(err).Str("server", s.name).Msg("could not stop server")
		}
	}()
	log.Warn().Str("server", s.name).Int("port", s.port).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) code(w http.ResponseWriter, b []byte, code int) {
	w.WriteHeader(code)
	s.respond(w, b)
}

func (s *Server) respond(w http.ResponseWriter, b []byte) {
	_, err := w.Write(b)
	if err != nil {
		log.Error().Err(err).Msg("could not write response")
	}
}

func (s *Server) error(w http.ResponseWriter, err error, code int) {
	log.Error().Err(err).Msg("error for http request")
	if code < http.StatusBadRequest {
		code = http.StatusInternalServerError
	}
	s.code(w, []byte(err.Error()), code)
}

func Live() Route {
	return Route{
		Action: Data,
		Path:   "live",
		Method: GET,
		Exec: func(r *http.Request) (payload []byte, code int, err error) {
			return []byte{}, 200, nil
		},
	}
}

func JsonRead(r *http.Request, debug bool, v interface{}) error {
	body, err := ioutil.ReadAll(r.Body)
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
		err = json.Unmarshal(body, v)
		if err != nil {
			return err
		}
	}
	return nil
}
