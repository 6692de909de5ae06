package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.BotCtl/internal/botstate"
	"github.com/LISSConsulting/LISSTech.BotCtl/internal/config"
)

func dashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Open the terminal dashboard (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeDash(configFlag(cmd))
		},
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Poll the bot status and print state changes without the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeWatch(configFlag(cmd), cmd.OutOrStdout())
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Query the bot status once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeStatus(configFlag(cmd), cmd.OutOrStdout())
		},
	}
}

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeTransition(configFlag(cmd), botstate.ActionStart, cmd.OutOrStdout())
		},
	}
}

func stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeTransition(configFlag(cmd), botstate.ActionStop, cmd.OutOrStdout())
		},
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bot backend: process supervisor and HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			listen, _ := cmd.Flags().GetString("listen")
			return executeServe(configFlag(cmd), listen)
		},
	}
	cmd.Flags().String("listen", "", "override the listen address (default: server.listen)")
	return cmd
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Scaffold botctl.toml and .env.example in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			created, err := config.ScaffoldProject(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(created) == 0 {
				fmt.Fprintln(out, "All files already exist, nothing to create.")
				return nil
			}
			for _, path := range created {
				fmt.Fprintf(out, "Created %s\n", path)
			}
			return nil
		},
	}
}

func logCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print the most recent session journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			tail, _ := cmd.Flags().GetInt("tail")
			return executeLog(configFlag(cmd), tail, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntP("tail", "n", 0, "print only the last n records (0 = all)")
	return cmd
}
