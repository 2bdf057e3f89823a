package main

import (
	"context"
	"fmt"
	"os"

	"github.com/airbusgeo/godal"
	"github.com/common-nighthawk/go-figure"
	bannercolor "github.com/fatih/color"
	"github.com/forest-guardian/canopy-height-poc/internal/delivery"
	"github.com/forest-guardian/canopy-height-poc/internal/notification"
	"github.com/joho/godotenv"
)

func printBanner() {
	figure1 := figure.NewFigure("Canopy", "isometric1", true)
	figure2 := figure.NewFigure("Height", "isometric1", true)
	bannercolor.Green(figure1.String())
	bannercolor.Green(figure2.String())
	fmt.Println()
}

func main() {
	printBanner()

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, relying on the environment")
	}
	godal.RegisterInternalDrivers()

	result, err := delivery.RunPipeline(context.Background())
	if err != nil {
		fmt.Printf("Run failed: %v\n", err)
		if notifyErr := notification.SendDiscordErrorNotification(err.Error()); notifyErr != nil {
			fmt.Printf("Warning: failed to send error notification: %v\n", notifyErr)
		}
		os.Exit(1)
	}

	fmt.Println("\nArtifacts:")
	failures := 0
	for _, artifact := range result.Artifacts {
		if artifact.Err != nil {
			failures++
			bannercolor.Red("  ✗ %s: %v", artifact.Name, artifact.Err)
			continue
		}
		fmt.Printf("  ✓ %s: %s\n", artifact.Name, artifact.Path)
	}

	fmt.Println("\nFeature importances:")
	for i, band := range result.FeatureBands {
		fmt.Printf("  %-5s %.4f\n", band, result.Importances[i])
	}

	summary := fmt.Sprintf("Trained on %d samples, tested on %d.\nRMSE %.3f m, MAE %.3f m.\n%d of %d artifacts written.",
		result.TrainingSamples, result.TestingSamples,
		result.Metrics.RMSE, result.Metrics.MAE,
		len(result.Artifacts)-failures, len(result.Artifacts))
	fmt.Println("\n" + summary)

	if failures > 0 {
		if notifyErr := notification.SendDiscordErrorNotification(summary); notifyErr != nil {
			fmt.Printf("Warning: failed to send error notification: %v\n", notifyErr)
		}
		os.Exit(1)
	}
	if notifyErr := notification.SendDiscordSuccessNotification(summary); notifyErr != nil {
		fmt.Printf("Warning: failed to send success notification: %v\n", notifyErr)
	}
}
