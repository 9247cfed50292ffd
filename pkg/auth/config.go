package auth

import "golang.org/x/crypto/bcrypt"

// Config holds the env-driven settings of Service.
type Config struct {
	BcryptCost        int `env:"AUTH_BCRYPT_COST" envDefault:"10"`
	MinPasswordLength int `env:"AUTH_MIN_PASSWORD_LENGTH" envDefault:"8"`
}

// NewFromConfig creates a Service from cfg. Explicit options win over cfg.
func NewFromConfig(creds CredentialStore, cfg Config, opts ...Option) *Service {
	base := []Option{
		WithBcryptCost(cfg.BcryptCost),
		WithMinPasswordLength(cfg.MinPasswordLength),
	}
	return NewService(creds, append(base, opts...)...)
}

func validCost(cost int) bool {
	return cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost
}
