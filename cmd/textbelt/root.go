package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	textbelt "github.com/textbelt-utils/client-go"
	"github.com/textbelt-utils/client-go/internal/config"
	"github.com/textbelt-utils/client-go/internal/logger"
)

// Streams holds the I/O the command reads from and writes to.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultStreams returns the process streams.
func DefaultStreams() Streams {
	return Streams{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

const (
	flagAPIKey    = "api-key"
	flagBaseURL   = "base-url"
	flagSender    = "sender"
	flagTimeout   = "timeout"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
	flagConfig    = "config"
	flagEnvFile   = "env-file"
	flagAsync     = "async"
)

// app is the state shared by all subcommands once flags are parsed.
type app struct {
	streams    Streams
	v          *viper.Viper
	configFile string
	envFiles   []string
	async      bool

	cfg *config.Config
	log *logrus.Logger
}

func run(ctx context.Context, args []string, streams Streams) error {
	cmd := newRootCmd(streams)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(streams Streams) *cobra.Command {
	a := &app{streams: streams, v: config.New()}

	cmd := &cobra.Command{
		Use:           "textbelt",
		Short:         "Textbelt SMS API command-line interface",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	cmd.SetIn(streams.Stdin)
	cmd.SetOut(streams.Stdout)
	cmd.SetErr(streams.Stderr)

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, flagConfig, "", "config file (default $HOME/.textbelt.yaml)")
	flags.StringSliceVar(&a.envFiles, flagEnvFile, []string{".env"}, ".env files to load")
	flags.BoolVar(&a.async, flagAsync, false, "run requests through the asynchronous client")

	flags.String(flagAPIKey, "", "Textbelt API key")
	mustBind(a.v, config.KeyAPIKey, flags, flagAPIKey)
	flags.String(flagBaseURL, "https://textbelt.com", "Textbelt API base URL")
	mustBind(a.v, config.KeyBaseURL, flags, flagBaseURL)
	flags.String(flagSender, "", "default sender name")
	mustBind(a.v, config.KeySender, flags, flagSender)
	flags.Duration(flagTimeout, 30*time.Second, "HTTP request timeout")
	mustBind(a.v, config.KeyTimeout, flags, flagTimeout)
	flags.String(flagLogLevel, "info", "log level (debug, info, warn, error)")
	mustBind(a.v, config.KeyLogLevel, flags, flagLogLevel)
	flags.String(flagLogFormat, "text", "log format (text, json)")
	mustBind(a.v, config.KeyLogFormat, flags, flagLogFormat)

	cmd.AddCommand(
		a.sendCmd(),
		a.testCmd(),
		a.statusCmd(),
		a.quotaCmd(),
		a.otpCmd(),
		a.bulkCmd(),
		a.webhookCmd(),
	)
	return cmd
}

// mustBind binds key to the named flag. A missing flag is a programming
// error and panics at command construction.
func mustBind(v *viper.Viper, key string, flags *pflag.FlagSet, name string) {
	if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(fmt.Sprintf("bind %s to --%s: %v", key, name, err))
	}
}

func (a *app) init() error {
	if err := config.LoadDotEnv(a.envFiles...); err != nil {
		return err
	}
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, a.streams.Stderr)
	if err != nil {
		return err
	}
	if path := config.ConfigPath(a.v); path != "" {
		log.WithField("path", path).Debug("loaded config file")
	}
	a.cfg = cfg
	a.log = log
	return nil
}

// withClient runs fn against the synchronous or asynchronous client.
func (a *app) withClient(ctx context.Context, fn func(context.Context, operations) error) error {
	opts := a.cfg.ClientOptions(a.log)
	if a.async {
		return textbelt.WithAsyncClient(ctx, a.cfg.APIKey, func(ctx context.Context, c *textbelt.AsyncClient) error {
			return fn(ctx, asyncOperations{c})
		}, opts...)
	}

	client, err := textbelt.New(a.cfg.APIKey, opts...)
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(ctx, client)
}

func (a *app) print(v interface{}) error {
	enc := json.NewEncoder(a.streams.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
