// Command phenoage estimates phenotypic age from blood biomarkers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/phenoage-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/phenoage-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/phenoage-cli/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
	"github.com/custodia-labs/phenoage-cli/internal/core/ports/driven"
	"github.com/custodia-labs/phenoage-cli/internal/core/services"
	"github.com/custodia-labs/phenoage-cli/internal/normalisers"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cleanup := wire(ctx)
	err := cli.Execute(ctx)
	cleanup()
	if err != nil {
		os.Exit(1)
	}
}

// wire builds the services and hands them to the CLI. The returned func
// releases the LLM client.
func wire(ctx context.Context) func() {
	var configStore driven.ConfigStore
	fileStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: settings cannot be saved: %v\n", err)
		configStore = memory.NewConfigStore()
	} else {
		configStore = fileStore
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	calculator := services.NewCalculatorService()

	svcs := cli.Services{
		Calculator: calculator,
		Settings:   settingsService,
		Reports:    services.NewReportService(normalisers.Default()),
	}

	settings, err := settingsService.Get()
	if err != nil {
		defaults := domain.DefaultAppSettings()
		settings = &defaults
	}

	llm := ai.Initialise(ctx, &settings.LLM)
	cli.SetWarnings(llm.Warnings)

	if llm.LLMService != nil {
		extractor := services.NewExtractorService(llm.LLMService, services.ExtractorConfigFromSettings(settings))
		if prompts, err := file.NewPromptStore(""); err == nil {
			extractor.SetPromptStore(prompts)
		}
		svcs.Extractor = extractor
		svcs.Assessment = services.NewAssessmentService(extractor, calculator)
	}

	cli.SetServices(svcs)
	cli.SetVersion(version)
	return llm.Close
}
