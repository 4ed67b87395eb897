package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"movieflix/internal/config"
	"movieflix/internal/localstore"
	"movieflix/internal/logging"
	"movieflix/internal/services"
	"movieflix/internal/services/movieflix"
	"movieflix/internal/session"
)

type commandContext struct {
	configFlag *string
	apiURLFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

// runtime bundles what a command needs to talk to the backend. The store is
// closed when the command returns.
type runtime struct {
	cfg     *config.Config
	store   *localstore.Store
	session *session.Session
	client  *movieflix.Client
	logger  *slog.Logger
}

func newCommandContext(configFlag, apiURLFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		apiURLFlag: apiURLFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "cli", "load config", "", err)
			return
		}
		if c.apiURLFlag != nil {
			if override := strings.TrimRight(strings.TrimSpace(*c.apiURLFlag), "/"); override != "" {
				cfg.API.BaseURL = override
				if err := cfg.Validate(); err != nil {
					c.configErr = services.Wrap(services.ErrConfiguration, "cli", "api url", "", err)
					return
				}
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg := c.configValue()
		if cfg == nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) withRuntime(cmd *cobra.Command, fn func(context.Context, *runtime) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := localstore.Open(cfg)
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}
	defer store.Close()

	logger := c.loggerValue()
	sess := session.New(store)
	client, err := movieflix.New(cfg.API.BaseURL,
		movieflix.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout()}),
		movieflix.WithSession(sess),
		movieflix.WithLogger(logger),
		movieflix.WithBreaker(cfg.API.BreakerFailures, cfg.BreakerCooldown()),
	)
	if err != nil {
		return err
	}
	return fn(requestContext(cmd), &runtime{
		cfg:     cfg,
		store:   store,
		session: sess,
		client:  client,
		logger:  logger,
	})
}

// requestContext stamps the command's context with a fresh request ID and the
// command path for logging.
func requestContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = services.WithRequestID(ctx, services.NewRequestID())
	return services.WithCommand(ctx, cmd.CommandPath())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
