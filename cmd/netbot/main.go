package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"netbot/internal/agent"
	"netbot/internal/bus"
	"netbot/internal/channel"
	"netbot/internal/config"
	"netbot/internal/device"
	"netbot/internal/domain"
	"netbot/internal/provider"
	"netbot/internal/tool"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = newLogger("info")

	root := &cobra.Command{
		Use:     "netbot",
		Short:   "netbot: LLM-driven assistant for a network device",
		Long:    "netbot drives a Cisco IOS style device over SSH through an LLM agent.\nIt exposes the device commands as tools and serves them over CLI and Telegram.",
		Version: version,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json (default: ~/.netbot/config.json)")

	root.AddCommand(initCmd())
	root.AddCommand(askCmd())
	root.AddCommand(chatCmd())
	root.AddCommand(runCmd())
	root.AddCommand(doctorCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// resolveConfigPath returns the config path from the --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func loadConfig() *config.Config {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Warn("config not found, using defaults", "path", cfgPath, "err", err)
		cfg = config.Defaults()
	}
	logger = newLogger(cfg.General.LogLevel)
	return cfg
}

const exampleInventory = `# netbot device inventory. The first entry is the managed device.
- device_type: cisco_ios
  host: 192.0.2.1
  username: admin
  password: changeme
`

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write default config and an example device inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg := config.Defaults()
			if err := config.Save(cfgPath, cfg); err != nil {
				return err
			}
			if _, err := os.Stat(cfg.Inventory.Path); os.IsNotExist(err) {
				if err := os.WriteFile(cfg.Inventory.Path, []byte(exampleInventory), 0o600); err != nil {
					return err
				}
				logger.Info("wrote example inventory", "path", cfg.Inventory.Path)
			}
			logger.Info("initialized", "config", cfgPath)
			return nil
		},
	}
}

// runtime bundles everything a command needs after configuration is loaded.
type runtime struct {
	cfg    *config.Config
	params device.Params
	dialer device.Dialer
	tools  *tool.Registry
}

// newRuntime loads the device inventory and wires the tool registry. A
// missing or incomplete device definition is fatal because every tool
// depends on it.
func newRuntime() (*runtime, error) {
	cfg := loadConfig()

	params, err := config.LoadDevice(cfg.Inventory.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("device inventory: %w", err)
	}
	logger.Info("managed device", "type", params.DeviceType, "host", params.Host)

	dialer := device.NewSSHDialer(device.SSHDialerConfig{Logger: logger})
	return &runtime{
		cfg:    cfg,
		params: params,
		dialer: dialer,
		tools:  registerTools(dialer, params),
	}, nil
}

// registerTools creates the registry with the five device tools.
func registerTools(dialer device.Dialer, params device.Params) *tool.Registry {
	reg := tool.NewRegistry(logger)
	reg.Register(tool.NewVersionTool(dialer, params, logger))
	reg.Register(tool.NewRouteTableTool(dialer, params, logger))
	reg.Register(tool.NewRouteProtoTool(dialer, params, logger))
	reg.Register(tool.NewPingTool(dialer, params, logger))
	reg.Register(tool.NewIfaceConfigTool(dialer, params, logger))
	return reg
}

func newAgentLoop(rt *runtime, messageBus domain.MessageBus) (*agent.Loop, error) {
	provFactory := provider.NewFactory(rt.cfg, logger)
	prov, err := provFactory.DefaultProvider()
	if err != nil {
		return nil, fmt.Errorf("provider: %w", err)
	}

	return agent.NewLoop(agent.LoopConfig{
		Provider:      prov,
		Prompt:        agent.NewPromptBuilder(rt.params),
		Tools:         rt.tools,
		Bus:           messageBus,
		Logger:        logger,
		MaxIterations: rt.cfg.General.MaxIterations,
	}), nil
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a one-shot question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			loop, err := newAgentLoop(rt, nil)
			if err != nil {
				return err
			}

			answer, err := loop.ProcessDirect(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Println(answer)
			return nil
		},
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <tool> [argument]",
		Short: "Run a device tool directly, bypassing the LLM",
		Long:  "Dispatches a single tool invocation and prints the raw result.\nTools: GetVersion, GetRouteTable, GetRouteProtoState, Ping, IfaceConfig.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}

			argument := ""
			if len(args) > 1 {
				argument = args[1]
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			output, err := rt.tools.Dispatch(ctx, args[0], argument)
			if err != nil {
				return err
			}
			fmt.Println(output)
			return nil
		},
	}
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the agent with all enabled channels (CLI, Telegram)",
		RunE:  runChat,
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	messageBus := bus.New(100, logger)
	defer messageBus.Close()

	loop, err := newAgentLoop(rt, messageBus)
	if err != nil {
		return err
	}
	go loop.Run(ctx)

	tg := rt.cfg.Channels.Telegram
	if tg.Enabled && tg.Token != "" {
		telegramCh := channel.NewTelegram(channel.TelegramConfig{
			Token:     tg.Token,
			AllowFrom: tg.AllowFrom,
			ParseMode: tg.ParseMode,
			Logger:    logger,
		})
		go func() {
			if err := telegramCh.Start(ctx, messageBus); err != nil {
				logger.Error("telegram channel error", "err", err)
			}
		}()
	}

	if rt.cfg.Channels.CLI.Enabled {
		cliCh := channel.NewCLI(channel.CLIConfig{Logger: logger})
		return cliCh.Start(ctx, messageBus)
	}

	logger.Info("running headless. Press Ctrl+C to stop.")
	<-ctx.Done()
	return nil
}
