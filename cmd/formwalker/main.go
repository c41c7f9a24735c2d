package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fatih/color"

	"formwalker/internal/di"
	"formwalker/internal/infrastructure/env"
	"formwalker/internal/infrastructure/report"
)

func main() {
	envService := env.NewEnvService()

	startURL := envService.MustGet("WIZARD_URL")
	reportDir := envService.Get("REPORT_DIR")
	if reportDir == "" {
		reportDir = "reports"
	}
	artifactDir := envService.Get("ARTIFACT_DIR")
	if artifactDir == "" {
		artifactDir = "artifacts"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	container, err := di.NewContainer(ctx, di.Config{
		Headless:      envService.GetBool("BROWSER_HEADLESS", true),
		MaxIterations: envService.GetInt("MAX_ITERATIONS", 0),
		CatalogPath:   envService.Get("CATALOG_PATH"),
		TablesPath:    envService.Get("TABLES_PATH"),
		Profile:       envService.Profile(),
	})
	if err != nil {
		log.Fatalf("Ошибка инициализации: %v", err)
	}
	defer container.Close()

	container.Logger.Info("Run started", "url", startURL)
	container.Monitor.Start()

	if err := container.Page.Navigate(ctx, startURL); err != nil {
		container.Logger.Error("Initial navigation failed", "error", err)
		fmt.Printf("\nНе удалось открыть страницу: %v\n", err)
		os.Exit(1)
	}

	result := container.Controller.Run(ctx)
	container.Monitor.Stop()

	result.RunID = container.RunID
	result.Performance = container.Monitor.Summary()

	if result.StepsFailed > 0 || len(result.Failures) > 0 {
		saveFailureScreenshot(container, ctx, artifactDir)
	}

	path, err := report.Save(result, reportDir)
	if err != nil {
		container.Logger.Error("Report save failed", "error", err)
	} else {
		container.Logger.Info("Report saved", "path", path)
		fmt.Printf("\nОтчёт: %s\n", path)
	}

	if result.ApplicationComplete {
		green := color.New(color.FgGreen, color.Bold)
		green.Println("Форма отправлена полностью.")
	}

	if result.StepsCompleted == 0 {
		red := color.New(color.FgRed, color.Bold)
		red.Printf("Ни один шаг не завершён: %s\n", result.TerminationReason)
		os.Exit(1)
	}
}

func saveFailureScreenshot(container *di.Container, ctx context.Context, dir string) {
	shot, err := container.Page.Screenshot(ctx)
	if err != nil {
		container.Logger.Warn("Failure screenshot not captured", "error", err)
		return
	}
	name := fmt.Sprintf("failure_%s", container.RunID)
	if path, err := report.SaveScreenshot(shot, dir, name); err != nil {
		container.Logger.Warn("Failure screenshot not saved", "error", err)
	} else {
		container.Logger.Info("Failure screenshot saved", "path", path)
	}
}
