package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	consul "github.com/hashicorp/consul/api"
	"github.com/ichigozero/taskdash/client"
	"github.com/ichigozero/taskdash/session"
	"github.com/ichigozero/taskdash/session/tokenstore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type Config struct {
	APIURL     string  `mapstructure:"api-url"`
	TokenStore string  `mapstructure:"token-store"`
	TokenDir   string  `mapstructure:"token-dir"`
	ConsulAddr string  `mapstructure:"consul-addr"`
	Breaker    bool    `mapstructure:"breaker"`
	RateLimit  float64 `mapstructure:"rate-limit"`
	Burst      int     `mapstructure:"burst"`
	Verbose    bool    `mapstructure:"verbose"`
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskdash"
	}
	return filepath.Join(home, ".taskdash")
}

func addGlobalFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("config", "", "config file (default ~/.taskdash/config.yaml)")
	f.String("api-url", client.DefaultURL, "task API base URL")
	f.String("token-store", "file", "where the session token is kept: file, consul or memory")
	f.String("token-dir", filepath.Join(configDir(), "session"), "directory of the file token store")
	f.String("consul-addr", "127.0.0.1:8500", "consul agent address of the consul token store")
	f.Bool("breaker", false, "trip a circuit breaker on repeated transport failures")
	f.Float64("rate-limit", 0, "maximum API calls per second, 0 for unlimited")
	f.Int("burst", 1, "rate limiter burst")
	f.BoolP("verbose", "v", false, "log debug messages")
}

// loadConfig merges, by decreasing precedence, flags, TASKDASH_* environment
// variables, the config file and defaults.
func loadConfig(cmd *cobra.Command) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TASKDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return Config{}, err
	}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = filepath.Join(configDir(), "config.yaml")
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg Config, w io.Writer) log.Logger {
	var logger log.Logger
	{
		logger = log.NewLogfmtLogger(w)
		logger = log.With(logger, "ts", log.DefaultTimestampUTC)
		logger = log.With(logger, "caller", log.DefaultCaller)
	}
	if cfg.Verbose {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowWarn())
}

func newTokenStore(cfg Config) (tokenstore.Store, error) {
	switch cfg.TokenStore {
	case "", "file":
		return tokenstore.NewFileStore(cfg.TokenDir)
	case "consul":
		consulConfig := consul.DefaultConfig()
		if cfg.ConsulAddr != "" {
			consulConfig.Address = cfg.ConsulAddr
		}
		c, err := consul.NewClient(consulConfig)
		if err != nil {
			return nil, err
		}
		return tokenstore.NewConsulStore(c, tokenstore.DefaultConsulPrefix), nil
	case "memory":
		return tokenstore.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown token store %q", cfg.TokenStore)
}

// app is shared by every command once the root pre-run has built it.
type app struct {
	cfg     Config
	logger  log.Logger
	session *session.Manager
	client  *client.Client
	ui      *terminalUI
}

func (a *app) init(cmd *cobra.Command, stderr io.Writer) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(cfg, stderr)

	store, err := newTokenStore(cfg)
	if err != nil {
		return err
	}
	a.session = session.New(store, a.logger)

	a.client, err = client.New(client.Config{
		URL:       cfg.APIURL,
		Breaker:   cfg.Breaker,
		RateLimit: cfg.RateLimit,
		Burst:     cfg.Burst,
	}, a.logger)
	return err
}
