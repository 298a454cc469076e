package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clearview/vista/backend/internal/report"
)

// newsletterCmd represents the newsletter command
var newsletterCmd = &cobra.Command{
	Use:   "newsletter",
	Short: "Gerencia a newsletter diária",
	Long: `Monta e envia a newsletter diária fora do horário agendado.

Example:
  go run ./cmd/vista newsletter send
  go run ./cmd/vista newsletter send --dry-run`,
}

var newsletterSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Monta e envia a edição de hoje",
	RunE:  sendNewsletter,
}

var newsletterDryRun bool

func init() {
	rootCmd.AddCommand(newsletterCmd)
	newsletterCmd.AddCommand(newsletterSendCmd)

	newsletterSendCmd.Flags().BoolVar(&newsletterDryRun, "dry-run", false, "imprime o HTML sem enviar")
}

func sendNewsletter(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	overview, err := a.overview.Overview(ctx)
	if err != nil {
		return fmt.Errorf("fetch market overview: %w", err)
	}

	portfolio, err := a.analyzer.Portfolio(ctx)
	if err != nil {
		return fmt.Errorf("load portfolio: %w (run 'portfolio rebuild' first)", err)
	}

	feed, err := a.news.Feed(ctx, "", 10)
	if err != nil {
		return fmt.Errorf("load news: %w", err)
	}

	edition, err := report.BuildNewsletter(ctx, a.generator, overview, portfolio, feed.News, time.Now())
	if err != nil {
		return fmt.Errorf("build newsletter: %w", err)
	}

	if newsletterDryRun {
		fmt.Printf("Subject: %s\n\n", edition.Subject)
		fmt.Println(edition.HTML)
		return nil
	}

	mailer := a.mailer()
	if mailer == nil {
		return fmt.Errorf("email channel is disabled (set EMAIL_ENABLED=true)")
	}

	subs, err := a.subscribers.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list subscribers: %w", err)
	}

	sent := 0
	for _, sub := range subs {
		if err := mailer.SendMail(sub.Email, edition.Subject, edition.HTML, true); err != nil {
			a.log.WithError(err).WithField("email", sub.Email).Warn("Failed to deliver newsletter")
			continue
		}
		sent++
	}

	fmt.Printf("✅ Newsletter sent to %d of %d subscribers\n", sent, len(subs))
	return nil
}
