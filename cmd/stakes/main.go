package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/Digital-Creators-Team/stakes-engine/config"
	"github.com/Digital-Creators-Team/stakes-engine/errors"
	"github.com/Digital-Creators-Team/stakes-engine/events/kafka"
	"github.com/Digital-Creators-Team/stakes-engine/game"
	"github.com/Digital-Creators-Team/stakes-engine/logging"
	"github.com/Digital-Creators-Team/stakes-engine/provider"
	"github.com/Digital-Creators-Team/stakes-engine/server"
	stakeswire "github.com/Digital-Creators-Team/stakes-engine/wire"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configPath string
	envFile    string
	verbose    bool
	username   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stakes",
		Short: "Stakes - a chat-style text economy game",
		Long: `Stakes runs the text economy game: earn, bank, trade, craft and gamble
Gcoins with dash-prefixed commands.

Example:
  stakes play --user alice
  stakes exec --user alice -- -dep 500
  stakes exec --user alice -- -customitem "Aegis" effect:"blocks one hit" cost:1000000
  stakes serve --config config/config.yaml
  stakes leaderboard level`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; a missing file is not an error
			if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before the config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr at debug level")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Play interactively on stdin",
		RunE:  runPlay,
	}
	playCmd.Flags().StringVarP(&username, "user", "u", "", "Account to play as (created if missing)")
	_ = playCmd.MarkFlagRequired("user")

	execCmd := &cobra.Command{
		Use:   "exec -- <command line>",
		Short: "Run a single command and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runExec,
	}
	execCmd.Flags().StringVarP(&username, "user", "u", "", "Account to run the command as")
	_ = execCmd.MarkFlagRequired("user")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the command API over HTTP and WebSocket",
		RunE:  runServe,
	}

	leaderboardCmd := &cobra.Command{
		Use:   "leaderboard [wealth|level]",
		Short: "Print the top players",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLeaderboard,
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Print the saved state as YAML",
		RunE:  runExport,
	}

	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the effective game rules as YAML",
		RunE:  runRules,
	}

	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Tail the command audit topic",
		RunE:  runAudit,
	}
	auditCmd.Flags().StringVarP(&username, "user", "u", "", "Only show commands from this account")
	auditCmd.Flags().Bool("from-start", false, "Replay the topic from the first offset")

	rootCmd.AddCommand(playCmd, execCmd, serveCmd, leaderboardCmd, exportCmd, rulesCmd, auditCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file. Interactive commands log to stderr so
// stdout stays readable.
func loadConfig(interactive bool) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	if interactive {
		cfg.Logging.Output = "stderr"
		cfg.Logging.Format = "console"
		cfg.Logging.Level = "warn"
	}
	if verbose {
		cfg.Logging.Output = "stderr"
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func initRuntime(interactive bool) (*stakeswire.Runtime, func(), error) {
	cfg, err := loadConfig(interactive)
	if err != nil {
		return nil, nil, err
	}
	return stakeswire.InitializeRuntime(cfg)
}

func ensureAccount(ctx context.Context, rt *stakeswire.Runtime, out io.Writer, name string) error {
	if _, err := rt.Dispatcher.Account(name); err == nil {
		fmt.Fprintf(out, "Welcome back, %s!\n", name)
		return nil
	} else if !errors.HasCode(err, errors.ErrAccountNotFound) {
		return err
	}

	acc, err := rt.Dispatcher.CreateAccount(ctx, name)
	if err != nil && acc == nil {
		return err
	}
	if err != nil {
		fmt.Fprintf(out, "warning: %v\n", err)
	}
	fmt.Fprintf(out, "Welcome, %s! You start with %d Gcoins. Type -help for commands.\n", acc.Username, acc.Balance)
	return nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	rt, cleanup, err := initRuntime(true)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	if err := ensureAccount(ctx, rt, out, username); err != nil {
		return err
	}

	return playLoop(ctx, rt, cmd.InOrStdin(), out, username)
}

func playLoop(ctx context.Context, rt *stakeswire.Runtime, in io.Reader, out io.Writer, name string) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			return nil
		}

		cc := game.NewCommandContext(rt.Logger, "", name, game.SourceREPL)
		result, err := rt.Dispatcher.Execute(game.WithContext(ctx, cc), name, line)
		if err != nil && !errors.HasCode(err, errors.ErrStoreError) {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, render(result))
		if err != nil {
			fmt.Fprintln(out, "warning: progress could not be saved")
		}
	}
}

func runExec(cmd *cobra.Command, args []string) error {
	rt, cleanup, err := initRuntime(true)
	if err != nil {
		return err
	}
	defer cleanup()

	cc := game.NewCommandContext(rt.Logger, "", username, game.SourceREPL)
	result, err := rt.Dispatcher.Execute(game.WithContext(cmd.Context(), cc), username, joinArgs(args))
	if err != nil && !errors.HasCode(err, errors.ErrStoreError) {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), render(result))
	return err
}

var clausePattern = regexp.MustCompile(`^([A-Za-z]+):(.*)$`)

// joinArgs rebuilds a command line from shell words, restoring the quotes the
// shell stripped. Words already carrying quotes are passed through as typed.
// Clause values (key:value) are quoted unless they are plain digits.
func joinArgs(args []string) string {
	if len(args) < 2 || lo.SomeBy(args, func(a string) bool { return strings.Contains(a, `"`) }) {
		return strings.Join(args, " ")
	}

	words := make([]string, 0, len(args))
	words = append(words, args[0])
	for _, arg := range args[1:] {
		if m := clausePattern.FindStringSubmatch(arg); m != nil {
			if isDigits(m[2]) {
				words = append(words, arg)
			} else {
				words = append(words, m[1]+`:"`+m[2]+`"`)
			}
			continue
		}
		words = append(words, `"`+arg+`"`)
	}
	return strings.Join(words, " ")
}

func isDigits(s string) bool {
	return s != "" && strings.Trim(s, "0123456789") == ""
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, cleanup, err := initRuntime(false)
	if err != nil {
		return err
	}
	defer cleanup()

	app := server.New(stakeswire.ProvideServerOptions(rt.Config, rt.Logger, rt.Dispatcher))
	app.UseCommonMiddlewares()
	app.RegisterHealthCheck()
	app.RegisterCommandRoutes()
	return app.Run()
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	rt, cleanup, err := initRuntime(true)
	if err != nil {
		return err
	}
	defer cleanup()

	category := ""
	if len(args) > 0 {
		category = args[0]
	}
	c, entries, err := rt.Dispatcher.Leaderboard(category)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Leaderboard (%s):\n", c)
	for _, e := range entries {
		fmt.Fprintf(out, "%d. %s - %d\n", e.Position, e.Username, e.Value)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	rt, cleanup, err := initRuntime(true)
	if err != nil {
		return err
	}
	defer cleanup()

	data, err := json.Marshal(rt.Store.Snapshot())
	if err != nil {
		return err
	}
	return writeYAML(cmd.OutOrStdout(), data)
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	rules, err := game.LoadRules(cfg.RulesPath)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(rules)
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	if len(cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	fromStart, _ := cmd.Flags().GetBool("from-start")

	consumer := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:   cfg.Kafka.Brokers,
		Topic:     cfg.Kafka.AuditTopic(),
		Logger:    logging.New(cfg.Logging),
		FromStart: fromStart,
	})
	sub := consumer.SubscribeAll()
	if username != "" {
		sub = consumer.Subscribe(username)
	}
	consumer.Start()
	defer consumer.Stop() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	for {
		select {
		case <-ctx.Done():
			return nil
		case rec, ok := <-sub.Channel:
			if !ok {
				return nil
			}
			fmt.Fprintln(out, formatAuditRecord(rec))
		}
	}
}

// formatAuditRecord prints one audit event as "time user command -> result"
func formatAuditRecord(rec kafka.Record) string {
	var event provider.AuditEvent
	if err := json.Unmarshal(rec.Value, &event); err != nil {
		return string(rec.Value)
	}
	line := fmt.Sprintf("%s %s %s", event.Timestamp.Format(time.RFC3339), event.UserID, event.Action)
	if len(event.Details.Args) > 0 {
		line += " " + strings.Join(event.Details.Args, " ")
	}
	return fmt.Sprintf("%s -> %s: %s", line, event.Result, event.Details.Message)
}

// writeYAML re-encodes a JSON document as YAML, keeping the JSON field names.
// Numbers stay json.Number so large balances print as integers.
func writeYAML(out io.Writer, data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(doc)
}
