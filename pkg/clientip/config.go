package clientip

// Config lists the proxy headers the deployment sets, comma separated.
type Config struct {
	TrustedHeaders string `env:"CLIENTIP_TRUSTED_HEADERS" envDefault:""`
}
