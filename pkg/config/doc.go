// Package config loads typed configuration from environment variables.
//
// Every package that needs configuration declares a Config struct with
// `env` and `envDefault` tags; the application composes them into one
// struct and calls Load once at startup:
//
//	type AppConfig struct {
//		Env     string `env:"APP_ENV" envDefault:"development"`
//		Server  httpserver.Config
//		Session session.Config
//	}
//
//	cfg := config.MustLoad[AppConfig]()
//
// A .env file in the working directory is read when present. Its values
// only fill in variables the real environment leaves unset.
package config
