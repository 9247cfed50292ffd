package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when no WithEnvFiles option is given.
const DefaultEnvFile = ".env"

type options struct {
	files       []string
	prefix      string
	environment map[string]string
}

type Option func(*options)

// WithEnvFiles sets the dotenv files to read, in order. Missing files are
// skipped; earlier files win over later ones.
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.files = files }
}

// WithPrefix requires every variable name to start with prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithEnvironment replaces the process environment as the source of
// variables. Values from env files still apply underneath it.
func WithEnvironment(environment map[string]string) Option {
	return func(o *options) { o.environment = environment }
}

// Load parses a T from the environment using its `env` and `envDefault`
// struct tags. Variables from dotenv files fill in names the environment
// does not set; the process environment is never modified.
//
//	type AppConfig struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//		Auth auth.Config
//	}
//
//	cfg, err := config.Load[AppConfig]()
func Load[T any](opts ...Option) (T, error) {
	o := options{files: []string{DefaultEnvFile}}
	for _, opt := range opts {
		opt(&o)
	}

	var zero T

	vars, err := readEnvFiles(o.files)
	if err != nil {
		return zero, err
	}

	source := o.environment
	if source == nil {
		source = processEnvironment()
	}
	for k, v := range source {
		vars[k] = v
	}

	cfg, err := env.ParseAsWithOptions[T](env.Options{
		Environment: vars,
		Prefix:      o.prefix,
	})
	if err != nil {
		return zero, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](opts ...Option) T {
	cfg, err := Load[T](opts...)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}

func readEnvFiles(files []string) (map[string]string, error) {
	vars := make(map[string]string)
	// Reverse order so that earlier files override later ones.
	for i := len(files) - 1; i >= 0; i-- {
		values, err := godotenv.Read(files[i])
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrReadingEnvFile, files[i], err)
		}
		for k, v := range values {
			vars[k] = v
		}
	}
	return vars, nil
}

func processEnvironment() map[string]string {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return vars
}
