package auth

import (
	"context"
	"log/slog"
)

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBcryptCost sets the hashing cost. Values outside bcrypt's range are
// ignored.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if validCost(cost) {
			s.bcryptCost = cost
		}
	}
}

func WithMinPasswordLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minPasswordLength = n
		}
	}
}

// WithAfterRegister sets a hook that runs after a successful registration.
func WithAfterRegister(fn func(ctx context.Context, email string) error) Option {
	return func(s *Service) {
		s.afterRegister = fn
	}
}

// WithAfterLogin sets a hook that runs after a successful login.
func WithAfterLogin(fn func(ctx context.Context, id Identity) error) Option {
	return func(s *Service) {
		s.afterLogin = fn
	}
}
