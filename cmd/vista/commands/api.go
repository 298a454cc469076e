package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clearview/vista/backend/internal/api"
	"github.com/clearview/vista/backend/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Inicia o servidor da API REST",
	Long: `Inicia o servidor HTTP com a API completa da plataforma.

Endpoints:
  GET    /health                     - Health check
  GET    /api/stocks                 - Ações analisadas
  GET    /api/stock/{symbol}         - Análise de uma ação
  GET    /api/portfolio              - Carteira recomendada
  POST   /api/portfolio/rebuild      - Dispara reconstrução da carteira
  GET    /api/favorites              - Oportunidades da carteira
  GET    /api/report/{symbol}        - Relatório em linguagem natural
  GET    /api/search?q=              - Busca por símbolo ou nome
  GET    /api/news                   - Notícias classificadas
  GET    /api/market                 - Índices e câmbio
  POST   /api/newsletter/subscribe   - Assinar newsletter
  DELETE /api/newsletter/subscribe   - Cancelar assinatura
  POST   /api/alerts                 - Criar alerta
  GET    /api/alerts                 - Listar alertas
  PUT    /api/alerts/{id}            - Atualizar alerta
  DELETE /api/alerts/{id}            - Remover alerta
  GET    /api/notifications          - Histórico de notificações
  GET    /ws                         - Notificações em tempo real

Example:
  go run ./cmd/vista api
  go run ./cmd/vista api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "porta do servidor (default PORT ou 8090)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Clearview Vista API Server ===")

	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	router := api.NewRouter(
		handlers.NewStockHandler(a.analyzer, a.generator, a.log),
		handlers.NewMarketHandler(a.overview, a.news, a.log),
		handlers.NewNewsletterHandler(a.subscribers, a.log),
		handlers.NewAlertHandler(a.alerts, a.dispatcher, a.log),
		a.hub,
		a.log,
	)

	server := api.New(a.cfg, a.log, router)

	go func() {
		if err := server.Start(); err != nil {
			a.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	a.log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
