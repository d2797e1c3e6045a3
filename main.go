//go:build !lambda

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

var (
	configPath string
	verbose    bool
	jsonOut    bool
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "spell-optimizer",
	Short: "Find the spell combination that destroys a tower with the least wasted damage",
	Long: `spell-optimizer searches for a sequence of spells whose total damage
meets a tower's health with the smallest overshoot.

Run without arguments to enter tower health values interactively.
Spells, the accepted overshoot and the search budget are read from the
config file, which is created with defaults on first start.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		s := &Session{
			ConfigPath: configPath,
			In:         os.Stdin,
			Out:        cmd.OutOrStdout(),
			Prompt:     term.IsTerminal(int(os.Stdin.Fd())),
			JSON:       jsonOut,
			Log:        logger,
		}
		return s.Run(cmd.Context())
	},
}

var solveCmd = &cobra.Command{
	Use:   "solve TARGET...",
	Short: "Solve one or more tower health values and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		targets := make([]int, len(args))
		for i, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil {
				return fmt.Errorf("invalid target %q", a)
			}
			targets[i] = n
		}

		cfg, err := EnsureConfig(configPath, logger)
		if err != nil {
			return err
		}
		solver, err := NewSolver(cfg, logger, nil)
		if err != nil {
			return err
		}
		s := &Session{Out: cmd.OutOrStdout(), JSON: jsonOut}
		for _, t := range targets {
			if err := s.solve(solver, t); err != nil {
				return err
			}
		}
		return nil
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the enabled spells in search order",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := EnsureConfig(configPath, logger)
		if err != nil {
			return err
		}
		cat, err := cfg.Catalog()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOut {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(cat)
		}
		for i, s := range cat {
			fmt.Fprintf(out, "%2d %8s | %d\n", i, s.Name, s.Damage)
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve solve requests over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		cfg, err := EnsureConfig(configPath, logger)
		if err != nil {
			return err
		}
		metrics := NewMetrics()
		solver, err := NewSolver(cfg, logger, metrics)
		if err != nil {
			return err
		}
		srv := &http.Server{
			Addr:              addr,
			Handler:           NewRouter(solver, logger, metrics),
			ReadHeaderTimeout: 5 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			fmt.Fprintf(cmd.ErrOrStderr(), "Listening on %s\n", addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", DefaultConfigPath, "Config file (.json or .yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log search progress to stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output results as JSON")
	serveCmd.Flags().String("addr", ":8080", "Listen address")

	rootCmd.AddCommand(solveCmd, catalogCmd, serveCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
