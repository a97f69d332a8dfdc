package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/identity"
	"github.com/jonathan/resume-builder/internal/server"
)

var (
	servePort       int
	serveConfigPath string
	serveDataDir    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for saving builder form sections and generating resume documents.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 3000, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "", "Directory for the file-backed record store")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.Config{
		Port:                servePort,
		DataDir:             serveDataDir,
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		OnInvalidCredential: os.Getenv("ON_INVALID_CREDENTIAL"),
	}
	if days := os.Getenv("RETENTION_DAYS"); days != "" {
		parsed, err := strconv.Atoi(days)
		if err != nil {
			return fmt.Errorf("invalid RETENTION_DAYS value %q: %w", days, err)
		}
		cfg.RetentionDays = parsed
	}
	cfg.PruneOnWrite = os.Getenv("PRUNE_ON_WRITE") == "true"

	if serveConfigPath != "" {
		fileCfg, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port:                cfg.Port,
		DataDir:             cfg.DataDir,
		DatabaseURL:         cfg.DatabaseURL,
		OnInvalidCredential: credentialPolicy(cfg.OnInvalidCredential),
		RetentionDays:       cfg.RetentionDays,
		PruneOnWrite:        cfg.PruneOnWrite,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

func credentialPolicy(value string) identity.Policy {
	if value == string(identity.PolicyReject) {
		return identity.PolicyReject
	}
	return identity.PolicyAnonymize
}
