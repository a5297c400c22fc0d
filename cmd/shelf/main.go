package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/shelf/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "shelf: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "shelf [book-id]",
		Short:         "Terminal client for the books catalog",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := options(cmd)
			if len(args) == 1 {
				opts.BookID = args[0]
			}
			return app.Run(cmd.Context(), opts)
		},
	}
	rootCmd.PersistentFlags().String("config", "", "Path to config.toml (default ~/.config/shelf/config.toml)")
	rootCmd.PersistentFlags().String("prefs", "", "Path to prefs.toml (default ~/.config/shelf/prefs.toml)")

	rootCmd.AddCommand(newStatusCmd(), newLoginCmd(), newLogoutCmd())
	return rootCmd
}

func options(cmd *cobra.Command) app.Options {
	configPath, _ := cmd.Flags().GetString("config")
	prefsPath, _ := cmd.Flags().GetString("prefs")
	return app.Options{ConfigPath: configPath, PrefsPath: prefsPath}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the API endpoint and login state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Status(options(cmd), cmd.OutOrStdout())
		},
	}
}

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API token (from --token or stdin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, _ := cmd.Flags().GetString("token")
			if token == "" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read token: %w", err)
				}
				token = string(data)
			}
			if err := app.Login(options(cmd), token); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token stored.")
			return nil
		},
	}
	cmd.Flags().String("token", "", "API token; read from stdin when omitted")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.Logout(options(cmd)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}
