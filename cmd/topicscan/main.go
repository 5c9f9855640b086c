package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agenthands/topicscan/internal/config"
	"github.com/agenthands/topicscan/internal/corpus"
	"github.com/agenthands/topicscan/internal/llm"
	"github.com/agenthands/topicscan/internal/logger"
	"github.com/agenthands/topicscan/internal/report"
	"github.com/agenthands/topicscan/internal/triage"
)

type clientFactory func(ctx context.Context, cfg *config.Config, log *zap.Logger) (llm.LLMClient, error)

type options struct {
	configPath  string
	dir         string
	topic       string
	extensions  []string
	format      string
	concurrency int
	failFast    bool
	noColor     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(llm.NewFromConfig).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(newClient clientFactory) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "topicscan [files...]",
		Short: "Find which transcripts discuss a topic",
		Long: `topicscan asks a language model whether a topic is discussed in each
transcript, buckets the transcripts by relevance (definitely, moderately,
barely, not mentioned, unparseable) and then asks for the exact sentences
in every relevant transcript.

Transcripts are read from --dir, or from the files given as arguments.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts, newClient)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "config/config.toml", "path to the TOML config file (optional)")
	f.StringVarP(&opts.dir, "dir", "d", "", "directory of transcripts (overrides corpus.dir)")
	f.StringVarP(&opts.topic, "topic", "t", "", "topic, phrase or concept to look for (overrides triage.topic)")
	f.StringSliceVar(&opts.extensions, "ext", nil, "file extensions to load (overrides corpus.extensions)")
	f.StringVarP(&opts.format, "format", "f", "text", "output format: text, json or yaml")
	f.IntVar(&opts.concurrency, "concurrency", 0, "parallel model calls per pass (overrides [concurrency])")
	f.BoolVar(&opts.failFast, "fail-fast", false, "abort on the first model error instead of recording it")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	return cmd
}

func run(cmd *cobra.Command, args []string, opts options, newClient clientFactory) error {
	ctx := cmd.Context()
	_ = godotenv.Load()

	// an explicit --config must exist; the default path is optional
	loadConfig := config.LoadOrDefault
	if cmd.Flags().Changed("config") {
		loadConfig = config.Load
	}
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Corpus.Dir = opts.dir
	}
	if flags.Changed("topic") {
		cfg.Triage.Topic = opts.topic
	}
	if flags.Changed("ext") {
		cfg.Corpus.Extensions = opts.extensions
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency.Classify = opts.concurrency
		cfg.Concurrency.Refine = opts.concurrency
	}
	if flags.Changed("fail-fast") {
		cfg.Triage.FailFast = opts.failFast
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	var docs *corpus.Corpus
	if len(args) > 0 {
		docs, err = corpus.LoadFiles(args)
	} else {
		docs, err = corpus.LoadDir(cfg.Corpus.Dir, cfg.Corpus.Extensions)
	}
	if err != nil {
		return err
	}
	log.Info("corpus loaded", zap.Int("documents", docs.Len()))

	client, err := newClient(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	rep, err := triage.NewPipeline(client, cfg, log).Run(ctx, cfg.Triage.Topic, docs)
	if err != nil {
		return err
	}

	r := report.Renderer{Format: format, NoColor: opts.noColor}
	return r.Render(cmd.OutOrStdout(), rep)
}
