package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/procscope/agent/internal/collectors"
	"github.com/procscope/agent/internal/config"
	"github.com/procscope/agent/internal/dispatch"
	"github.com/procscope/agent/internal/gpu"
	"github.com/procscope/agent/internal/logging"
	"github.com/procscope/agent/internal/monitor"
	"github.com/procscope/agent/internal/prockill"
	"github.com/procscope/agent/internal/procsource"
	"github.com/procscope/agent/internal/websocket"
	"github.com/procscope/agent/internal/workerpool"
)

var (
	version   = "0.1.0"
	cfgFile   string
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "procscope-agent",
	Short: "ProcScope process monitoring agent",
	Long:  `ProcScope Agent - process tree and resource usage backend for the ProcScope UI`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the agent",
	Run: func(cmd *cobra.Command, args []string) {
		runAgent()
	},
}

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "Print a one-shot process tree",
	Run: func(cmd *cobra.Command, args []string) {
		printProcessTree()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ProcScope Agent v%s\n", version)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check agent configuration status",
	Run: func(cmd *cobra.Command, args []string) {
		checkStatus()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/procscope/agent.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "ProcScope server URL")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(psCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newMonitor(cfg *config.Config) *monitor.Monitor {
	return monitor.New(
		procsource.NewSystemSource(),
		gpu.New(cfg.GPUResolver),
		prockill.New(),
		time.Duration(cfg.PollIntervalSeconds)*time.Second,
	)
}

func runAgent() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	if cfg.ServerURL == "" {
		fmt.Fprintln(os.Stderr, "Server URL required. Use --server flag or set server_url in config.")
		os.Exit(1)
	}

	logging.Init(cfg.LogFormat, cfg.LogLevel, os.Stdout)
	log := logging.L("main")
	log.Info("starting agent", "version", version, "server", cfg.ServerURL)

	mon := newMonitor(cfg)
	mon.Start()

	pool := workerpool.New(4, 64)
	dispatcher := dispatch.New(mon, collectors.NewMetricsCollector(), pool)

	ws := websocket.New(&websocket.Config{
		ServerURL: cfg.ServerURL,
		AgentID:   cfg.AgentID,
		AuthToken: cfg.AuthToken,
	}, dispatcher.Handle)
	go ws.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	ws.Stop()
	mon.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool.Shutdown(ctx)
}

func checkStatus() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Println("Status: Not configured")
		return
	}

	if cfg.ServerURL == "" {
		fmt.Println("Status: No server configured (local-only mode)")
	} else {
		fmt.Println("Status: Configured")
		fmt.Printf("Server: %s\n", cfg.ServerURL)
	}
	if cfg.AgentID != "" {
		fmt.Printf("Agent ID: %s\n", cfg.AgentID)
	}
	fmt.Printf("Poll interval: %ds\n", cfg.PollIntervalSeconds)
	fmt.Printf("GPU resolver: %s\n", cfg.GPUResolver)
}
