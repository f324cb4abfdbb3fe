package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"factlens/internal/adapter/mcpserver"
	"factlens/internal/adapter/tool"
	"factlens/internal/adapter/verify"
	"factlens/internal/domain"
	"factlens/internal/infra/config"
	"factlens/internal/infra/logger"
	"factlens/internal/infra/tracer"
)

const version = "1.0.0"

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "--help", "-h", "help":
			showUsage()
			return
		case "check":
			if err := runCheck(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "check: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`factlens - Fact-verification tools for AI agents

USAGE:
    factlens [COMMAND] [FLAGS]

COMMANDS:
    check CLAIM    Verify a single claim and print the result

    (no command) - Serve verification tools over MCP stdio

FLAGS:
    -h, --help         Show this help message
    --config PATH      Config file path (default: ./config.yaml)

CONFIGURATION:
    Config file: ./config.yaml
    Environment: FACTLENS_* variables override config
                 (FACTLENS_API_KEY, FACTLENS_BASE_URL, ...)

EXAMPLES:
    factlens                              # MCP stdio server
    factlens check "The Nile is the longest river"
    factlens --config /etc/factlens.yaml`)
}

// run serves the MCP stdio server until the client disconnects or a signal
// arrives.
func run(args []string) error {
	fs := flag.NewFlagSet("factlens", flag.ExitOnError)
	configPath := fs.String("config", "./config.yaml", "config file path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, closeLog, shutdownTracer, err := bootstrap(ctx, *configPath)
	if err != nil {
		return err
	}
	defer closeLog()
	defer shutdownTracer(context.Background())

	registry, err := buildRegistry(cfg, log)
	if err != nil {
		return err
	}

	srv := mcpserver.New("factlens", version, registry, log)
	if err := srv.ServeStdio(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("serve: %w", err)
	}
	log.Info("shutting down")
	return nil
}

// bootstrap loads config and wires the ambient stack.
func bootstrap(ctx context.Context, configPath string) (*config.Config, *slog.Logger, func() error, func(context.Context) error, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, nil, domain.WrapOp("load config", err)
	}

	log, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, nil, nil, domain.WrapOp("init logger", err)
	}

	shutdownTracer, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		closeLog()
		return nil, nil, nil, nil, domain.WrapOp("init tracer", err)
	}

	return cfg, log, closeLog, shutdownTracer, nil
}

// buildRegistry constructs the verifier client and registers all tools.
func buildRegistry(cfg *config.Config, log *slog.Logger) (*tool.Registry, error) {
	var verifier domain.Verifier = verify.NewClient(cfg.Service, log)
	verifier = verify.NewBreakerVerifier(verifier, cfg.Service.Breaker, log)

	registry := tool.NewRegistry(log)
	tools := []domain.Tool{
		tool.NewVerifyTool(verifier, cfg.Tools.MaxSources, log),
		tool.NewDocumentTool(verifier, cfg.Tools.UploadMaxBytes, log),
		tool.NewThreadTool(verifier, log),
	}
	for _, t := range tools {
		if err := registry.Register(t); err != nil {
			return nil, domain.WrapOp("register tool", err)
		}
	}
	return registry, nil
}
