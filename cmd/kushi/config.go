package main

import (
	"time"

	"github.com/kushi-labs/kushi/modules/account"
	"github.com/kushi-labs/kushi/pkg/auth"
	"github.com/kushi-labs/kushi/pkg/clientip"
	"github.com/kushi-labs/kushi/pkg/cookie"
	"github.com/kushi-labs/kushi/pkg/httpserver"
	"github.com/kushi-labs/kushi/pkg/kv"
	"github.com/kushi-labs/kushi/pkg/logger"
	"github.com/kushi-labs/kushi/pkg/pg"
	"github.com/kushi-labs/kushi/pkg/redis"
	"github.com/kushi-labs/kushi/pkg/session"
)

// appConfig is every setting the server reads from the environment.
type appConfig struct {
	Env           string        `env:"APP_ENV" envDefault:"development"`
	Name          string        `env:"APP_NAME" envDefault:"kushi"`
	HealthTimeout time.Duration `env:"HEALTHCHECK_TIMEOUT" envDefault:"5s"`

	Log      logger.Config
	HTTP     httpserver.Config
	ClientIP clientip.Config
	KV       kv.Config
	Redis    redis.Config
	PG       pg.Config
	Cookie   cookie.Config
	Session  session.Config
	Auth     auth.Config
	Account  account.Config
}
