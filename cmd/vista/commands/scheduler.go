package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/clearview/vista/backend/internal/scheduler"
	"github.com/clearview/vista/backend/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Gerencia o agendador de tarefas",
	Long: `Inicia o agendador ou gerencia as tarefas em background.

Tarefas registradas:
  portfolio_rebuild - reconstrói a carteira recomendada (7h)
  alert_scan        - verifica alertas de preço (a cada hora)
  daily_newsletter  - monta e envia a newsletter diária (18h)
  market_open       - aviso de abertura do mercado (10h, dias úteis)
  market_close      - aviso de fechamento do mercado (17h30, dias úteis)

Example:
  go run ./cmd/vista scheduler start
  go run ./cmd/vista scheduler list
  go run ./cmd/vista scheduler run portfolio_rebuild
  go run ./cmd/vista scheduler status`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Inicia o agendador",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "Lista as tarefas registradas",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Executa uma tarefa imediatamente",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Mostra o histórico de execução",
		RunE:  showStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Clearview Vista Scheduler ===")

	a, sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	fmt.Printf("Running job: %s\n", jobName)

	a, sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	fmt.Println("Job started (running in background)")
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	stats := sched.GetJobStats()

	fmt.Println("Job Statistics:")
	fmt.Println()

	for jobName, stat := range stats {
		fmt.Printf("📊 %s\n", jobName)
		fmt.Printf("   Schedule: %s\n", stat.Schedule)
		fmt.Printf("   Total Runs: %d\n", stat.TotalRuns)
		fmt.Printf("   Success: %d (%.1f%%)\n", stat.SuccessCount, stat.SuccessRate*100)
		fmt.Printf("   Failures: %d\n", stat.FailureCount)

		if stat.LastRun != nil {
			fmt.Printf("   Last Run: %s\n", stat.LastRun.Format("2006-01-02 15:04:05"))
		}
		if stat.LastSuccess != nil {
			fmt.Printf("   Last Success: %s\n", stat.LastSuccess.Format("2006-01-02 15:04:05"))
		}
		if stat.LastFailure != nil {
			fmt.Printf("   Last Failure: %s\n", stat.LastFailure.Format("2006-01-02 15:04:05"))
		}

		fmt.Println()
	}

	return nil
}

func initScheduler() (*app, *scheduler.Scheduler, error) {
	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return nil, nil, err
	}

	sched := scheduler.New(a.log)
	schedule := a.cfg.Schedule

	register := []scheduler.Job{
		jobs.NewPortfolioRebuildJob(a.analyzer, schedule.PortfolioRebuild, a.log),
		jobs.NewAlertScanJob(a.analyzer, a.alerts, schedule.AlertScan, a.log),
		jobs.NewNewsletterJob(a.overview, a.analyzer, a.news, a.generator, a.subscribers, a.mailer(), a.telegramChannel(), schedule.DailyNewsletter, a.log),
		jobs.NewMarketOpenJob(a.dispatcher, schedule.MarketOpen, a.log),
		jobs.NewMarketCloseJob(a.dispatcher, schedule.MarketClose, a.log),
	}

	for _, job := range register {
		if err := sched.AddJob(job); err != nil {
			a.Close()
			return nil, nil, fmt.Errorf("register job %s: %w", job.Name(), err)
		}
	}

	return a, sched, nil
}
