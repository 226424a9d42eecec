// Command tracekb builds a traceability knowledge base from parsed-code
// descriptors and project documents.
//
// Build from existing documents:
//
//	go run -tags sqlite_fts5 ./cmd/tracekb \
//	  --code ./code.json \
//	  --design-doc ./design.md \
//	  --requirements-doc ./requirements.md \
//	  --test-doc "LoginService=./tests/login.md" \
//	  --out kb.json
//
// Generate documents from code first (requires a chat provider):
//
//	go run -tags sqlite_fts5 ./cmd/tracekb \
//	  --code ./code.json \
//	  --generate \
//	  --chat-provider groq --chat-model llama-3.3-70b-versatile \
//	  --out kb.json --xlsx trace.xlsx
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"tracekb"
	"tracekb/docload"
	"tracekb/export"
	"tracekb/gendoc"
	"tracekb/kb"
	"tracekb/textparse"
)

// stringSlice implements flag.Value for multi-value string flags.
type stringSlice []string

func (s *stringSlice) String() string { return strings.Join(*s, ", ") }
func (s *stringSlice) Set(val string) error {
	*s = append(*s, val)
	return nil
}

func main() {
	var testDocs stringSlice

	var (
		configPath  = flag.String("config", "", "Path to JSON config file (overridden by flags)")
		codePath    = flag.String("code", "", "Path to parsed-code descriptor JSON (required)")
		designDoc   = flag.String("design-doc", "", "Path to design document (txt, md, pdf)")
		reqDoc      = flag.String("requirements-doc", "", "Path to requirements document (txt, md, pdf)")
		generate    = flag.Bool("generate", false, "Generate missing documents from code via the chat provider")
		background  = flag.String("background", "", "Project background context")
		summary     = flag.String("summary", "", "Project executive summary")
		projectType = flag.String("project-type", "", "Project type context")
		strategy    = flag.String("strategy", "by component", "Breakdown strategy for generated design documents")

		chatProvider = flag.String("chat-provider", "", "Chat LLM provider (ollama, lmstudio, openrouter, openai, groq, custom)")
		chatModel    = flag.String("chat-model", "", "Chat model name")
		chatBaseURL  = flag.String("chat-base-url", "", "Chat provider base URL override")
		chatAPIKey   = flag.String("chat-api-key", "", "Chat provider API key (default: from env)")

		embedProvider = flag.String("embed-provider", "", "Embedding provider (for persisted vector search)")
		embedModel    = flag.String("embed-model", "", "Embedding model name")
		embedBaseURL  = flag.String("embed-base-url", "", "Embedding provider base URL override")
		embedDim      = flag.Int("embed-dim", 0, "Embedding dimension (must match model)")

		persist = flag.Bool("persist", false, "Persist the knowledge base to SQLite")
		dbPath  = flag.String("db", "", "Path to SQLite database (default: ~/.tracekb/tracekb.db)")
		runName = flag.String("name", "", "Run name for the persisted knowledge base")

		outPath  = flag.String("out", "", "Path to write knowledge base JSON (default: stdout)")
		xlsxPath = flag.String("xlsx", "", "Path to write traceability workbook (xlsx)")
		verbose  = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Var(&testDocs, "test-doc", "Test case document as component=path (repeatable)")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := tracekb.DefaultConfig()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("reading config: %v", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("parsing config: %v", err)
		}
	} else {
		// Without a config file, providers are opt-in via flags.
		cfg.Chat = tracekb.LLMConfig{}
		cfg.Embedding = tracekb.LLMConfig{}
	}

	if *chatProvider != "" {
		cfg.Chat.Provider = *chatProvider
	}
	if *chatModel != "" {
		cfg.Chat.Model = *chatModel
	}
	if *chatBaseURL != "" {
		cfg.Chat.BaseURL = *chatBaseURL
	}
	if *chatAPIKey != "" {
		cfg.Chat.APIKey = *chatAPIKey
	}
	if *embedProvider != "" {
		cfg.Embedding.Provider = *embedProvider
	}
	if *embedModel != "" {
		cfg.Embedding.Model = *embedModel
	}
	if *embedBaseURL != "" {
		cfg.Embedding.BaseURL = *embedBaseURL
	}
	if *embedDim != 0 {
		cfg.EmbeddingDim = *embedDim
	}
	if *persist {
		cfg.Persist = true
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	if *codePath == "" {
		log.Fatal("--code flag is required")
	}
	code := loadCode(*codePath)

	engine, err := tracekb.New(cfg)
	if err != nil {
		log.Fatalf("creating engine: %v", err)
	}
	defer engine.Close()

	ctx := context.Background()
	meta := gendoc.Meta{
		Background:        *background,
		ExecutiveSummary:  *summary,
		ProjectType:       *projectType,
		BreakdownStrategy: *strategy,
	}

	var base *kb.KnowledgeBase
	if *generate {
		base, err = engine.BuildFromCode(ctx, code, meta)
		if err != nil {
			log.Fatalf("building knowledge base: %v", err)
		}
	} else {
		in := tracekb.BuildInput{
			Name: *runName,
			Context: kb.Context{
				Background:       *background,
				ExecutiveSummary: *summary,
				ProjectType:      *projectType,
			},
			Code: code,
		}
		if *designDoc != "" {
			text, err := docload.Load(*designDoc)
			if err != nil {
				log.Fatalf("loading design document: %v", err)
			}
			in.Design = textparse.ParseDesign(text)
		}
		if *reqDoc != "" {
			text, err := docload.Load(*reqDoc)
			if err != nil {
				log.Fatalf("loading requirements document: %v", err)
			}
			in.Requirements = textparse.ParseRequirements(text)
		}
		if len(testDocs) > 0 {
			in.TestCases = loadTestDocs(testDocs, cfg.MaxTotalTestCases)
		}

		base, err = engine.Build(ctx, in)
		if err != nil {
			log.Fatalf("building knowledge base: %v", err)
		}
	}

	if err := writeJSON(base, *outPath); err != nil {
		log.Fatalf("writing knowledge base: %v", err)
	}
	if *xlsxPath != "" {
		if err := export.WriteWorkbook(base, *xlsxPath); err != nil {
			log.Fatalf("writing workbook: %v", err)
		}
		slog.Info("workbook written", "path", *xlsxPath)
	}
}

// loadCode reads a parsed-code descriptor map from a JSON file.
func loadCode(path string) kb.CodeMap {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("reading code descriptors: %v", err)
	}
	var code kb.CodeMap
	if err := json.Unmarshal(data, &code); err != nil {
		log.Fatalf("parsing code descriptors: %v", err)
	}
	return code
}

// loadTestDocs parses component=path pairs into per-component test cases.
func loadTestDocs(pairs []string, maxPerDoc int) map[string][]textparse.TestCase {
	out := make(map[string][]textparse.TestCase)
	for _, pair := range pairs {
		component, path, ok := strings.Cut(pair, "=")
		if !ok {
			log.Fatalf("invalid --test-doc %q: expected component=path", pair)
		}
		text, err := docload.Load(path)
		if err != nil {
			log.Fatalf("loading test document %s: %v", path, err)
		}
		out[component] = textparse.ParseTestCases(text, component, maxPerDoc)
	}
	return out
}

// writeJSON writes the knowledge base as indented JSON to path or stdout.
func writeJSON(base *kb.KnowledgeBase, path string) error {
	data, err := json.MarshalIndent(base, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
