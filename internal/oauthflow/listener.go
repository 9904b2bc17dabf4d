package oauthflow

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/omjanipms/LinkedIn-Agent/internal/logger"
)

const successPage = `<html><body>
<h3>Authentication successful!</h3>
<p>You can close this window and return to the terminal.</p>
</body></html>`

const failurePage = `<html><body>
<h3>Authentication failed!</h3>
<p>Please check the terminal for details.</p>
</body></html>`

// Result is what the browser redirect delivered: either an authorization
// code (plus the echoed state) or a provider error.
type Result struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// CallbackServer is a single-use local HTTP endpoint that captures the
// browser redirect completing an OAuth authorization. Requests outside the
// configured path prefix get a 404 and do not terminate the wait.
type CallbackServer struct {
	host string
	port int
	path string

	server     *http.Server
	resultChan chan *Result
	errChan    chan error

	mu      sync.Mutex
	running bool
}

func NewCallbackServer(host string, port int, path string) *CallbackServer {
	if path == "" {
		path = "/"
	}
	return &CallbackServer{
		host:       host,
		port:       port,
		path:       path,
		resultChan: make(chan *Result, 1),
		errChan:    make(chan error, 1),
	}
}

// Start binds the listener socket. Binding happens synchronously so a port
// conflict surfaces here rather than mid-wait.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("callback server is already running")
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return NewAuthError(ReasonListener, fmt.Sprintf("cannot listen on %s", addr)).WithCause(err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRedirect)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	s.running = true

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errChan <- NewAuthError(ReasonListener, "callback server failed").WithCause(err)
		}
	}()

	logger.Debug("callback server listening", "addr", addr, "path", s.path)
	return nil
}

// Stop shuts the listener down and releases the socket. Safe to call on all
// exit paths, including after a failed Start.
func (s *CallbackServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := s.server.Shutdown(shutdownCtx)
	s.running = false
	s.server = nil

	return err
}

// WaitForRedirect blocks until the redirect arrives or the timeout expires.
func (s *CallbackServer) WaitForRedirect(timeout time.Duration) (*Result, error) {
	select {
	case result := <-s.resultChan:
		return result, nil
	case err := <-s.errChan:
		return nil, err
	case <-time.After(timeout):
		return nil, NewAuthError(ReasonTimeout,
			fmt.Sprintf("no redirect received within %s; the browser step may not have completed", timeout))
	}
}

func (s *CallbackServer) handleRedirect(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, s.path) {
		logger.Debug("ignoring request outside callback path", "path", r.URL.Path)
		http.NotFound(w, r)
		return
	}

	logger.Debug("received callback request", "path", r.URL.Path)
	query := r.URL.Query()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	switch {
	case query.Get("code") != "":
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(successPage))
		s.deliver(&Result{
			Code:  query.Get("code"),
			State: query.Get("state"),
		})
	case query.Get("error") != "":
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(failurePage))
		s.deliver(&Result{
			Error:            query.Get("error"),
			ErrorDescription: query.Get("error_description"),
		})
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(failurePage))
		s.deliver(&Result{
			Error:            "invalid_callback",
			ErrorDescription: "redirect contained neither code nor error",
		})
	}
}

// deliver hands the result to the waiter without blocking the handler.
// Only the first matching request counts; the listener is single-use.
func (s *CallbackServer) deliver(result *Result) {
	select {
	case s.resultChan <- result:
	default:
		logger.Warn("callback result dropped, redirect already handled")
	}
}
