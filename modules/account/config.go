package account

// Config holds the paths the account pages redirect between.
type Config struct {
	LoginPath string `env:"ACCOUNT_LOGIN_PATH" envDefault:"/login"`
	HomePath  string `env:"ACCOUNT_HOME_PATH" envDefault:"/dashboard"`

	// JarMaxAge is the lifetime in seconds of the theme, remembered email
	// and SPA user cookies. Zero selects cookie.DefaultJarMaxAge.
	JarMaxAge int
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		LoginPath: "/login",
		HomePath:  "/dashboard",
	}
}

// RegisteredNotice is shown on the login page after a successful registration.
const RegisteredNotice = "Account created! Redirecting to login..."

const noticeFlashKey = "notice"
