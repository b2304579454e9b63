package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudrange/aws-inventory-go/internal/adapter/driven/aws"
	"github.com/cloudrange/aws-inventory-go/internal/adapter/driven/config"
	"github.com/cloudrange/aws-inventory-go/internal/adapter/driven/export"
	"github.com/cloudrange/aws-inventory-go/internal/adapter/driving/cli"
	"github.com/cloudrange/aws-inventory-go/internal/application/usecase"
	"github.com/cloudrange/aws-inventory-go/pkg/console"
	"github.com/cloudrange/aws-inventory-go/pkg/version"
)

func main() {
	app := cli.NewCLIApp(version.Version)

	consoleImpl := console.NewConsole()
	exportRepo := export.NewExportRepository()
	configRepo := config.NewConfigRepository()

	scanUseCase := usecase.NewScanUseCase(
		aws.NewInventoryRepository,
		exportRepo,
		configRepo,
		consoleImpl,
	)
	app.SetScanUseCase(scanUseCase)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
