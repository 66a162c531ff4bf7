// Package main provides the CLI entrypoint for planner.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/coderno/planner/internal/config"
	"github.com/coderno/planner/internal/demo"
	"github.com/coderno/planner/internal/export"
	"github.com/coderno/planner/internal/kv"
	"github.com/coderno/planner/internal/progress"
	"github.com/coderno/planner/internal/repo"
	"github.com/coderno/planner/internal/schedule"
	"github.com/coderno/planner/internal/service"
	"github.com/coderno/planner/internal/timeutil"
	"github.com/coderno/planner/internal/tui"
)

var (
	flagConfig string
	flagDB     string

	exportFormat string
	exportOut    string

	statsFrom string
	statsTo   string
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "planner",
		Short:         "TUI day planner with routines, pomodoros and progress tracking",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTUICmd,
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default: XDG config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "path to database file (default: from config)")

	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newSuggestCmd())
	rootCmd.AddCommand(newDemoCmd())

	return rootCmd
}

// env is everything a command needs, wired against one open store.
type env struct {
	cfg   config.Config
	store *kv.Store
	deps  tui.Deps
}

func openEnv() (*env, error) {
	configPath := flagConfig
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flagDB != "" {
		cfg.Database.Path = flagDB
	}

	store, err := kv.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	tasks := repo.NewTasks(store)
	routines := repo.NewRoutines(store)
	records := repo.NewProgress(store)
	rewards := repo.NewRewards(store)
	sessions := repo.NewPomodoros(store)
	engine := progress.NewEngine(records)

	return &env{
		cfg:   cfg,
		store: store,
		deps: tui.Deps{
			Config:   cfg,
			Tasks:    service.NewTaskService(tasks, engine),
			Pomodoro: service.NewPomodoroService(sessions, rewards, engine, cfg.Pomodoro),
			Focus:    service.NewFocusService(repo.NewFocus(store), tasks, engine),
			Rewards:  service.NewRewardService(rewards, sessions),
			Engine:   engine,
			Composer: schedule.NewComposer(tasks, routines),
			Records:  records,
			Routines: routines,
		},
	}, nil
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		slog.Warn("close database", "error", err)
	}
}

func runTUICmd(_ *cobra.Command, _ []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	app := tui.NewApp(e.deps)
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export progress history to CSV or JSON",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or json")
	cmd.Flags().StringVar(&exportOut, "out", "", "output path (default: planner-progress-<date>.<format>)")
	return cmd
}

func runExportCmd(_ *cobra.Command, _ []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	records, err := e.deps.Records.Records()
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	out := exportOut
	if out == "" {
		out = filepath.Join(".", fmt.Sprintf("planner-progress-%s.%s", time.Now().Format("2006-01-02"), exportFormat))
	}

	switch exportFormat {
	case "csv":
		err = export.ToCSV(records, out)
	case "json":
		err = export.ToJSON(records, out)
	default:
		return fmt.Errorf("unknown format %q (want csv or json)", exportFormat)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d record(s) to %s\n", len(records), out)
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print progress statistics",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsFrom, "from", "", "range start (YYYY-MM-DD, default: start of current week)")
	cmd.Flags().StringVar(&statsTo, "to", "", "range end (YYYY-MM-DD, default: today)")
	return cmd
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	from, err := parseDateFlag(statsFrom)
	if err != nil {
		return err
	}
	to, err := parseDateFlag(statsTo)
	if err != nil {
		return err
	}

	stats, err := e.deps.Engine.Stats(from, to)
	if err != nil {
		return fmt.Errorf("compute stats: %w", err)
	}

	fmt.Printf("Streak: %d day(s), longest %d\n", stats.Streak.CurrentStreak, stats.Streak.LongestStreak)
	if stats.BestDay != nil {
		fmt.Printf("Best day: %s (%d tasks, %d focus minutes)\n",
			stats.BestDay.Date, stats.BestDay.TasksCompleted, stats.BestDay.FocusMinutes)
	}
	fmt.Printf("Average focus on active days: %d minute(s)\n", stats.AverageFocusTime)

	for _, week := range stats.Weekly {
		fmt.Printf("\nWeek %s – %s: %d task(s), %d pomodoro(s), %d focus minute(s)\n",
			week.WeekStart, week.WeekEnd,
			week.TotalTasksCompleted, week.TotalPomodoroSessions, week.TotalFocusMinutes)
		for _, day := range week.DailyData {
			fmt.Printf("  %s  tasks %-3d pomodoros %-3d focus %dm\n",
				day.Date, day.TasksCompleted, day.PomodoroSessions, day.FocusMinutes)
		}
	}
	return nil
}

func parseDateFlag(v string) (timeutil.Date, error) {
	if v == "" {
		return "", nil
	}
	return timeutil.ParseDate(v)
}

func newSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest",
		Short: "Suggest routines from task scheduling habits",
		Args:  cobra.NoArgs,
		RunE:  runSuggestCmd,
	}
}

func runSuggestCmd(_ *cobra.Command, _ []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	suggestions, err := e.deps.Composer.SuggestRoutines()
	if err != nil {
		return fmt.Errorf("compute suggestions: %w", err)
	}
	if len(suggestions) == 0 {
		fmt.Println("Nothing to suggest yet. Schedule more tasks at consistent times.")
		return nil
	}

	for _, s := range suggestions {
		fmt.Printf("%s  %s (%d min, %s) — %s\n", s.Time, s.Name, s.Duration, s.Repeat, s.Notes)
	}
	return nil
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Seed the database with sample data",
		Args:  cobra.NoArgs,
		RunE:  runDemoCmd,
	}
}

func runDemoCmd(_ *cobra.Command, _ []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if err := demo.Seed(e.deps.Records, e.deps.Routines, nil); err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}
	fmt.Println("Seeded 14 days of progress history and the default routines.")
	return nil
}
