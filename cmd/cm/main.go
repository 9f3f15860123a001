package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alfredjeanlab/cinemap/internal/client"
	"github.com/alfredjeanlab/cinemap/internal/config"
	"github.com/alfredjeanlab/cinemap/internal/model"
	"github.com/alfredjeanlab/cinemap/internal/ui"
	"github.com/spf13/cobra"
)

var (
	configPath string
	jsonOutput bool
	modeFlag   string
	ephemeral  bool
	remoteURL  string
	authToken  string

	cfg         *config.Config
	logger      *slog.Logger
	graphClient client.GraphClient
)

var rootCmd = &cobra.Command{
	Use:   "cm <command>",
	Short: "Explore and build the cinematic storytelling mind map",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSettings(); err != nil {
			return err
		}
		if remoteURL != "" {
			graphClient = client.NewHTTPClient(remoteURL, authToken)
			return nil
		}
		g, closer, err := openGraph(context.Background(), cfg, logger)
		if err != nil {
			return err
		}
		graphClient = client.NewLocalClient(g, closer)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if graphClient != nil {
			if err := graphClient.Close(); err != nil {
				logger.Error("closing client", "err", err)
			}
		}
	},
}

// loadSettings resolves the configuration and logger shared by every
// command, applying flag overrides on top of the file and environment.
func loadSettings() error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if modeFlag != "" {
		m := model.Mode(modeFlag)
		if !m.IsValid() {
			return fmt.Errorf("unknown mode %q (must be explore or build)", modeFlag)
		}
		c.Graph.Mode = m
	}
	if ephemeral {
		c.Storage.Backend = config.BackendMemory
	}
	if authToken == "" {
		authToken = c.Server.AuthToken
	}
	cfg = c
	logger = c.Log.NewLogger(os.Stderr)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/cinemap/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "", "initial mode for a local graph (explore or build)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "use an in-memory store seeded from the taxonomy")
	rootCmd.PersistentFlags().StringVar(&remoteURL, "url", os.Getenv("CINEMAP_URL"), "server URL (empty = open the local store)")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "bearer token for the server (default from config)")

	rootCmd.AddGroup(
		&cobra.Group{ID: "graph", Title: "Graph:"},
		&cobra.Group{ID: "views", Title: "Views:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Graph
	rootCmd.AddCommand(nodeCmd)
	rootCmd.AddCommand(connCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)

	// Views
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(modeCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(deselectCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(taxonomyCmd)
	rootCmd.AddCommand(watchCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	if !ui.ShouldUseColor() {
		ui.ForceNoColor()
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
