package config

type App struct {
	APIBaseURL     string `env:"LOOP_API_URL,required"`
	SessionFile    string `env:"LOOP_SESSION_FILE" default:"~/.localloop/session.db"`
	HTTPTimeoutSec int    `env:"LOOP_HTTP_TIMEOUT_SEC" default:"10"`
	PayPalBaseURL  string `env:"LOOP_PAYPAL_URL" default:"https://api-m.sandbox.paypal.com"`
	Env            string `env:"APP_ENV" default:"dev"`
}
