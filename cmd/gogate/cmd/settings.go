package cmd

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/middleware"
)

const envPrefix = "GOGATE"

// Settings is the resolved configuration of gogate serve.
type Settings struct {
	Addr           string
	RedisAddr      string
	SigningKey     string
	SessionTTL     time.Duration
	CookieName     string
	CookieSecure   bool
	RequestTimeout time.Duration
	DemoUser       string
	DemoPassword   string
	CORSOrigins    []string
	Debug          bool
}

func registerFlags(fs *pflag.FlagSet) {
	fs.String("addr", ":8080", "listen address (env: GOGATE_ADDR)")
	fs.String("redis-addr", "", "Redis address; empty starts an embedded Redis (env: GOGATE_REDIS_ADDR)")
	fs.String("signing-key", "", "HS256 session token key, at least 32 bytes; empty generates one (env: GOGATE_SIGNING_KEY)")
	fs.Duration("session-ttl", 12*time.Hour, "session lifetime (env: GOGATE_SESSION_TTL)")
	fs.String("cookie-name", middleware.DefaultCookieName, "session cookie name (env: GOGATE_COOKIE_NAME)")
	fs.Bool("cookie-secure", false, "mark the session cookie Secure (env: GOGATE_COOKIE_SECURE)")
	fs.Duration("request-timeout", 10*time.Second, "per-request timeout (env: GOGATE_REQUEST_TIMEOUT)")
	fs.String("demo-user", "", "register a demo user with this identifier (env: GOGATE_DEMO_USER)")
	fs.String("demo-password", "", "password of the demo user (env: GOGATE_DEMO_PASSWORD)")
	fs.StringSlice("cors-origins", nil, "origins allowed cross-origin access (env: GOGATE_CORS_ORIGINS, space-separated)")
	fs.Bool("debug", false, "enable debug logging (env: GOGATE_DEBUG)")
	fs.String("config", "", "optional YAML config file (env: GOGATE_CONFIG)")
}

func newViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	return v, nil
}

// loadSettings resolves flags, environment and the optional config file, in
// that order of precedence.
func loadSettings(v *viper.Viper) (Settings, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	s := Settings{
		Addr:           v.GetString("addr"),
		RedisAddr:      v.GetString("redis-addr"),
		SigningKey:     v.GetString("signing-key"),
		SessionTTL:     v.GetDuration("session-ttl"),
		CookieName:     v.GetString("cookie-name"),
		CookieSecure:   v.GetBool("cookie-secure"),
		RequestTimeout: v.GetDuration("request-timeout"),
		DemoUser:       strings.TrimSpace(v.GetString("demo-user")),
		DemoPassword:   v.GetString("demo-password"),
		CORSOrigins:    v.GetStringSlice("cors-origins"),
		Debug:          v.GetBool("debug"),
	}
	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) validate() error {
	if s.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if s.SessionTTL <= 0 {
		return errors.New("session-ttl must be > 0")
	}
	if s.RequestTimeout <= 0 {
		return errors.New("request-timeout must be > 0")
	}
	if s.SigningKey != "" && len(s.SigningKey) < 32 {
		return errors.New("signing-key must be at least 32 bytes")
	}
	if s.DemoUser != "" && s.DemoPassword == "" {
		return errors.New("demo-password is required with demo-user")
	}
	return nil
}

// engineConfig maps the settings onto the library configuration. A missing
// signing key is replaced by a random one, so sessions do not survive a restart.
func (s Settings) engineConfig() (goGate.Config, bool, error) {
	cfg := goGate.DefaultConfig()
	generated := false
	key := []byte(s.SigningKey)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return goGate.Config{}, false, fmt.Errorf("generate signing key: %w", err)
		}
		generated = true
	}
	cfg.Token.PrivateKey = key
	cfg.Token.TTL = s.SessionTTL
	if cfg.Session.AbsoluteSessionLifetime < s.SessionTTL {
		cfg.Session.AbsoluteSessionLifetime = s.SessionTTL
	}
	return cfg, generated, nil
}

func (s Settings) cookie() middleware.CookieConfig {
	return middleware.CookieConfig{Name: s.CookieName, Secure: s.CookieSecure}
}
