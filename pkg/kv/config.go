package kv

// Driver names accepted by Config.Driver.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
)

// Config selects the backend for the shared durable store.
type Config struct {
	Driver    string `env:"KV_DRIVER" envDefault:"memory"`
	FilePath  string `env:"KV_FILE_PATH" envDefault:"data/kushi.json"`
	KeyPrefix string `env:"KV_KEY_PREFIX" envDefault:"kushi:"`
	S3        S3Config
}
