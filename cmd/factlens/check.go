package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"

	"factlens/internal/adapter/tool"
	"factlens/internal/adapter/verify"
	"factlens/internal/domain"
)

// runCheck performs a one-shot verification from the command line and renders
// the markdown result to the terminal.
func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", "./config.yaml", "config file path")
	maxSources := fs.Int("max-sources", 0, "maximum sources to consult")
	plain := fs.Bool("plain", false, "print raw markdown without terminal styling")
	if err := fs.Parse(args); err != nil {
		return err
	}

	claim := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if claim == "" {
		return fmt.Errorf("usage: factlens check [flags] CLAIM")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, closeLog, shutdownTracer, err := bootstrap(ctx, *configPath)
	if err != nil {
		return err
	}
	defer closeLog()
	defer shutdownTracer(context.Background())

	var verifier domain.Verifier = verify.NewClient(cfg.Service, log)

	outcome, err := verifier.VerifyStream(ctx, domain.VerifyRequest{
		Claim:      claim,
		MaxSources: *maxSources,
	})
	if err != nil {
		return err
	}

	md := tool.RenderOutcome(outcome)
	if *plain {
		fmt.Println(md)
		return nil
	}

	rendered, err := glamour.Render(md, "auto")
	if err != nil {
		// Styling failure is not worth losing the result over.
		fmt.Println(md)
		return nil
	}
	fmt.Fprint(os.Stdout, rendered)
	return nil
}
