package debugbar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"
)

var (
	// ErrAlreadyStarted indicates Start/Run was called more than once.
	ErrAlreadyStarted = errors.New("debugbar: service already started")
	// ErrNotStarted indicates Wait was called before Start.
	ErrNotStarted = errors.New("debugbar: service not started")
)

// Conservative default timeouts used only when the Service builds the *http.Server.
const (
	defaultReadHeaderTimeout = 5 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultShutdownTimeout   = 30 * time.Second
)

// ServiceSpec describes a Service.
type ServiceSpec struct {
	// Provide either Server (used as is) or Addr + Handler.
	Server  *http.Server
	Addr    string
	Handler http.Handler

	// Bar, when set, wraps Handler with Bar.Mount. Ignored when Server is set.
	Bar *Bar

	// Logger reports lifecycle events. Default is slog.Default().
	Logger *slog.Logger

	// Signals controls whether Run listens for OS signals.
	// Empty means SIGINT + SIGTERM on Unix, os.Interrupt elsewhere.
	Signals SignalSpec

	// ShutdownTimeout bounds graceful shutdown. <= 0 means 30s.
	ShutdownTimeout time.Duration

	Hooks ServiceHooks
}

// SignalSpec selects the signals Run stops on.
type SignalSpec struct {
	Disable bool
	Signals []os.Signal
}

// ServiceHooks integrate application resources into the lifecycle.
type ServiceHooks struct {
	// OnStart runs sequentially before serving. Any error fails Start.
	OnStart []func(context.Context) error
	// OnShutdown runs sequentially after the server stopped; errors are joined.
	OnShutdown []func(context.Context) error
}

// Service runs one http.Server with graceful shutdown.
type Service struct {
	Server *http.Server

	logger          *slog.Logger
	hooks           ServiceHooks
	signals         SignalSpec
	shutdownTimeout time.Duration

	mu       sync.Mutex
	started  bool
	stopping bool
	listener net.Listener
	addr     net.Addr
	cancel   context.CancelFunc

	primaryErr error

	shutdownOnce sync.Once
	shutdownErr  error
	doneCh       chan struct{}
	waitErr      error
}

// NewService assembles a Service.
//
// Assembly errors are fail-fast and will panic.
// Runtime errors are returned from Start/Wait/Run/Shutdown.
func NewService(spec ServiceSpec) *Service {
	s := &Service{
		logger:          spec.Logger,
		hooks:           spec.Hooks,
		signals:         spec.Signals,
		shutdownTimeout: spec.ShutdownTimeout,
		doneCh:          make(chan struct{}),
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = defaultShutdownTimeout
	}

	if spec.Server != nil {
		if spec.Server.Addr == "" {
			panic("debugbar: service: empty http.Server.Addr")
		}
		if spec.Server.Handler == nil {
			panic("debugbar: service: nil http.Server.Handler")
		}
		s.Server = spec.Server
		return s
	}

	addr := strings.TrimSpace(spec.Addr)
	if addr == "" {
		panic("debugbar: service: empty Addr")
	}
	h := spec.Handler
	if h == nil {
		panic("debugbar: service: nil Handler")
	}
	if spec.Bar != nil {
		h = spec.Bar.Mount(h)
	}
	s.Server = &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		IdleTimeout:       defaultIdleTimeout,
	}
	return s
}

// Addr returns the bound address, or nil before Start.
func (s *Service) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Run is Start, then wait for ctx, a signal or a server failure, then Shutdown.
//
// It is NOT idempotent. If called after Start, it returns ErrAlreadyStarted.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.Start(ctx); err != nil {
		return err
	}

	sigCh, stopSignals := s.signalWatcher()
	defer stopSignals()

	select {
	case <-s.doneCh:
	case <-ctx.Done():
		s.recordPrimary(ctx.Err())
		_ = s.Shutdown(context.Background())
	case sig := <-sigCh:
		s.logger.Info("debugbar: service stopping", "signal", sig.String())
		_ = s.Shutdown(context.Background())
	}
	return s.Wait()
}

// Start runs the OnStart hooks, binds the listener and starts serving. It is NOT idempotent.
func (s *Service) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	for i, h := range s.hooks.OnStart {
		if h == nil {
			continue
		}
		if err := safeCallHook(ctx, h); err != nil {
			err = fmt.Errorf("debugbar: OnStart[%d]: %w", i, err)
			s.recordPrimary(err)
			s.initiateShutdown()
			return err
		}
	}

	ln, err := net.Listen("tcp", s.Server.Addr)
	if err != nil {
		err = fmt.Errorf("debugbar: listen %q: %w", s.Server.Addr, err)
		s.recordPrimary(err)
		s.initiateShutdown()
		return err
	}
	s.mu.Lock()
	s.listener = ln
	s.addr = ln.Addr()
	s.mu.Unlock()
	s.logger.Info("debugbar: service listening", "addr", ln.Addr().String())

	go func() {
		s.onServeExit(s.Server.Serve(ln))
	}()
	return nil
}

// Wait waits until the service fully stops.
//
// It is idempotent. If Start was never called, it returns ErrNotStarted.
func (s *Service) Wait() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	s.mu.Unlock()

	<-s.doneCh

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waitErr
}

// Shutdown triggers shutdown and waits for it, bounded by ctx. It is idempotent.
//
// If Start was never called, Shutdown returns nil.
func (s *Service) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.initiateShutdown()

	select {
	case <-s.doneCh:
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.shutdownErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) onServeExit(err error) {
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return
	}
	s.mu.Lock()
	stopping := s.stopping
	s.mu.Unlock()
	if stopping {
		return
	}
	s.recordPrimary(fmt.Errorf("debugbar: serve: %w", err))
	s.initiateShutdown()
}

func (s *Service) recordPrimary(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	if s.primaryErr == nil {
		s.primaryErr = err
	}
	s.mu.Unlock()
}

func (s *Service) initiateShutdown() {
	s.shutdownOnce.Do(func() {
		go s.doShutdown()
	})
}

func (s *Service) doShutdown() {
	s.mu.Lock()
	s.stopping = true
	ln := s.listener
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	ctx, stop := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer stop()

	var errs []error
	if ln != nil {
		if err := s.Server.Shutdown(ctx); err != nil {
			_ = s.Server.Close()
			errs = append(errs, fmt.Errorf("server shutdown: %w", err))
		}
		_ = ln.Close()
	}
	for i, h := range s.hooks.OnShutdown {
		if h == nil {
			continue
		}
		if err := safeCallHook(ctx, h); err != nil {
			errs = append(errs, fmt.Errorf("OnShutdown[%d]: %w", i, err))
		}
	}
	shutdownErr := errors.Join(errs...)

	s.mu.Lock()
	s.shutdownErr = shutdownErr
	s.waitErr = errors.Join(s.primaryErr, shutdownErr)
	s.mu.Unlock()
	s.logger.Info("debugbar: service stopped")
	close(s.doneCh)
}

func (s *Service) signalWatcher() (<-chan os.Signal, func()) {
	if s.signals.Disable {
		return nil, func() {}
	}
	sigs := s.signals.Signals
	if len(sigs) == 0 {
		sigs = defaultSignals()
	}
	if len(sigs) == 0 {
		return nil, func() {}
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	return ch, func() { signal.Stop(ch) }
}

func safeCallHook(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(ctx)
}
