// Package cli implements the command-line interface. Commands talk to
// the core services through the driving ports; all wiring of adapters
// happens here.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/helmsman-ai/helmsman/internal/adapters/driven/ai"
	configfile "github.com/helmsman-ai/helmsman/internal/adapters/driven/config/file"
	warehousedb "github.com/helmsman-ai/helmsman/internal/adapters/driven/database/sqlite"
	corpusdb "github.com/helmsman-ai/helmsman/internal/adapters/driven/storage/sqlite"
	vecmem "github.com/helmsman-ai/helmsman/internal/adapters/driven/vector/memory"
	"github.com/helmsman-ai/helmsman/internal/core/ports/driven"
	"github.com/helmsman-ai/helmsman/internal/core/ports/driving"
	"github.com/helmsman-ai/helmsman/internal/core/services"
	"github.com/helmsman-ai/helmsman/internal/logger"
	"github.com/helmsman-ai/helmsman/internal/normalisers"
	"github.com/helmsman-ai/helmsman/internal/normalisers/docx"
	"github.com/helmsman-ai/helmsman/internal/normalisers/markdown"
	"github.com/helmsman-ai/helmsman/internal/normalisers/pdf"
	"github.com/helmsman-ai/helmsman/internal/normalisers/plaintext"
	"github.com/helmsman-ai/helmsman/internal/postprocessors"
)

// version is set by Execute from the build.
var version = "dev"

// verboseFlag enables debug logging on stderr.
var verboseFlag bool

// Services shared by all commands, wired in initServices.
var (
	configStore     driven.ConfigStore
	warehouse       *warehousedb.Store
	routerService   driving.RouterService
	documentService driving.DocumentService
	schemaService   driving.SchemaService
	harnessService  driving.HarnessService
)

var rootCmd = &cobra.Command{
	Use:   "helmsman",
	Short: "Route natural-language questions to SQL, documents or the web",
	Long: `Helmsman answers natural-language questions by choosing, per query,
among three strategies: translating the question to SQL against a local
warehouse, retrieving passages from an indexed document corpus, or
falling back to web search for current information.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

// Execute runs the root command. v is the build version string.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	defer closeServices()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose logging")
}

// initServices wires adapters and services from configuration. Optional
// backends that fail to initialise are logged and left nil; commands
// that need them report the gap instead of crashing at startup.
func initServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)

	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	configStore = cfg

	settings := ai.SettingsFromConfig(cfg)
	dataDir := cfg.GetString(configfile.KeyDataDir)
	ctx := context.Background()

	// Relational warehouse, optionally bootstrapped from CSV files.
	wh, err := warehousedb.NewStore(dataDir)
	if err != nil {
		logger.Warn("warehouse unavailable: %v", err)
	} else {
		warehouse = wh
		if csvDir := cfg.GetString(configfile.KeyWarehouseCSV); csvDir != "" {
			if tables, err := warehouse.ImportCSVDir(ctx, csvDir); err != nil {
				logger.Warn("CSV import from %s failed: %v", csvDir, err)
			} else if len(tables) > 0 {
				logger.Info("imported %d table(s) from %s", len(tables), csvDir)
			}
		}
	}

	// Document corpus.
	var docStore driven.DocumentStore
	corpus, err := corpusdb.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening document store: %w", err)
	}
	docStore = corpus

	embedder, err := ai.CreateEmbeddingService(settings.Embedding)
	if err != nil {
		return fmt.Errorf("creating embedding service: %w", err)
	}
	index := vecmem.NewIndex()

	registry := normalisers.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(markdown.New())
	registry.Register(docx.New())
	registry.Register(pdf.New())

	pipeline, err := buildPipeline(cfg)
	if err != nil {
		return fmt.Errorf("building processing pipeline: %w", err)
	}

	docSvc := services.NewDocumentService(docStore, registry, pipeline, embedder, index)
	documentService = docSvc

	// The vector index is in-memory; rebuild it from the stored corpus.
	if err := docSvc.Reindex(ctx); err != nil {
		logger.Warn("corpus reindex failed: %v", err)
	}

	llm, err := ai.CreateLLMService(settings.LLM)
	if err != nil {
		logger.Warn("LLM unavailable: %v", err)
	}
	searcher, err := ai.CreateWebSearcher(settings.WebSearch)
	if err != nil {
		logger.Warn("web search unavailable: %v", err)
	}

	var rel driven.RelationalStore
	if warehouse != nil {
		rel = warehouse
	}

	retrieval := services.NewRetrievalService(embedder, index, docStore,
		services.WithTopK(cfg.GetInt(configfile.KeyRetrievalTopK)))
	routerService = services.NewRouterService(llm, rel, retrieval, docStore, searcher)
	schemaService = services.NewSchemaService(rel)
	harnessService = services.NewHarnessService(
		routerService, rel, docStore, cfg.GetInt(configfile.KeyHarnessWorkers))

	return nil
}

// buildPipeline assembles the document processing chain from config.
// The docs.processors key names the processors in execution order; it
// defaults to the built-in chunker.
func buildPipeline(cfg driven.ConfigStore) (*postprocessors.Pipeline, error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	names := cfg.GetStringSlice(configfile.KeyDocsProcessors)
	if len(names) == 0 {
		names = []string{"chunker"}
	}

	procCfg := map[string]any{}
	if size := cfg.GetInt(configfile.KeyChunkSize); size > 0 {
		procCfg["chunk_size"] = size
	}
	if overlap := cfg.GetInt(configfile.KeyChunkOverlap); overlap > 0 {
		procCfg["overlap"] = overlap
	}

	pipeline := postprocessors.NewPipeline()
	for _, name := range names {
		proc, err := registry.Build(name, procCfg)
		if err != nil {
			return nil, err
		}
		pipeline.Add(proc)
	}
	return pipeline, nil
}

func closeServices() {
	if warehouse != nil {
		warehouse.Close() //nolint:errcheck
	}
}

// askTimeout bounds a single routed answer end to end.
const askTimeout = 2 * time.Minute
