package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"imghost/logger"
)

const (
	_defaultAddr            = ":8007"
	_defaultReadTimeout     = 30 * time.Second
	_defaultWriteTimeout    = 60 * time.Second
	_defaultShutdownTimeout = 10 * time.Second
)

type Server struct {
	eg     *errgroup.Group
	srv    *http.Server
	notify chan error

	shutdownTimeout time.Duration

	logger logger.Interface
}

type Option func(*Server)

func Port(port string) Option {
	return func(s *Server) {
		s.srv.Addr = net.JoinHostPort("", port)
	}
}

func ReadTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.srv.ReadTimeout = d
	}
}

func WriteTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.srv.WriteTimeout = d
	}
}

func ShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.shutdownTimeout = d
	}
}

func New(handler http.Handler, l logger.Interface, opts ...Option) *Server {
	group := &errgroup.Group{}
	group.SetLimit(1)

	s := &Server{
		eg: group,
		srv: &http.Server{
			Addr:         _defaultAddr,
			Handler:      handler,
			ReadTimeout:  _defaultReadTimeout,
			WriteTimeout: _defaultWriteTimeout,
		},
		notify:          make(chan error, 1),
		shutdownTimeout: _defaultShutdownTimeout,
		logger:          l,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Server) Addr() string {
	return s.srv.Addr
}

func (s *Server) Start() {
	s.eg.Go(func() error {
		err := s.srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.notify <- err
			close(s.notify)

			return err
		}
		return nil
	})

	s.logger.Info("http server - Server - Started on %s", s.srv.Addr)
}

func (s *Server) Notify() <-chan error {
	return s.notify
}

func (s *Server) Shutdown() error {
	var shutdownErrors []error

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	err := s.srv.Shutdown(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error(err, "http server - Server - Shutdown - s.srv.Shutdown")

		shutdownErrors = append(shutdownErrors, err)
	}

	err = s.eg.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error(err, "http server - Server - Shutdown - s.eg.Wait")

		shutdownErrors = append(shutdownErrors, err)
	}

	s.logger.Info("http server - Server - Shutdown")

	return errors.Join(shutdownErrors...)
}
