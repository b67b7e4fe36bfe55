package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/align"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/catalog"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/duckdb"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/event"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/integrate"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/majiq"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/output"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/phase"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/pipeline"
)

type classifyOptions struct {
	a5ssPath    string
	extraTables []string // class=path pairs, regulation calling only
	gtfPath     string
	genomePath  string
	proteinPath string
	outDir      string
	dbPath      string
	workers     int
}

func newClassifyCmd(verbose *bool) *cobra.Command {
	var opts classifyOptions

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Run the A5SS classification and protein integration pipeline",
		Long: `Classify alternative 5' splice site events as regulated, build their
three-exon geometry, resolve the reading frame against the coding-exon
annotation, translate both splice variants, and integrate accepted
peptides into the reference proteome.`,
		Example: `  spliceprot classify --a5ss alt5prime.tsv \
      --gtf gencode.v41.annotation.gtf.gz \
      --genome GRCh38.fa --proteins gencode.v41.pc_translations.fa \
      --out-dir results/

  # additional event classes, regulation calling only
  spliceprot classify --a5ss alt5prime.tsv --table cassette=cassette.tsv ...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(*verbose)
			if err != nil {
				return err
			}
			defer logger.Sync()
			return runClassify(&opts, logger)
		},
	}

	cmd.Flags().StringVar(&opts.a5ssPath, "a5ss", "", "A5SS junction quantification table (required)")
	cmd.Flags().StringArrayVar(&opts.extraTables, "table", nil, "additional class=path quantification tables (regulation calling only)")
	cmd.Flags().StringVar(&opts.gtfPath, "gtf", "", "GTF annotation with CDS features (required)")
	cmd.Flags().StringVar(&opts.genomePath, "genome", "", "genome FASTA (required)")
	cmd.Flags().StringVar(&opts.proteinPath, "proteins", "", "reference protein FASTA (required)")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", ".", "output directory")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "optional DuckDB database for results")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "worker count (0 = one per CPU)")

	cmd.MarkFlagRequired("a5ss")
	cmd.MarkFlagRequired("gtf")
	cmd.MarkFlagRequired("genome")
	cmd.MarkFlagRequired("proteins")

	return cmd
}

func runClassify(opts *classifyOptions, logger *zap.Logger) error {
	thresholds := event.Thresholds{
		Probability: viper.GetFloat64("thresholds.probability"),
		DeltaPSI:    viper.GetFloat64("thresholds.dpsi"),
		Fraction:    viper.GetFloat64("thresholds.fraction"),
	}
	scoring := align.Scoring{
		Match:    viper.GetInt("align.match"),
		Mismatch: viper.GetInt("align.mismatch"),
		Gap:      viper.GetInt("align.gap"),
	}

	if err := os.MkdirAll(opts.outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Regulation calling across all supplied class tables.
	tables := map[string]string{event.ClassA5SS: opts.a5ssPath}
	for _, spec := range opts.extraTables {
		class, path, ok := strings.Cut(spec, "=")
		if !ok {
			return fmt.Errorf("invalid --table value %q, expected class=path", spec)
		}
		tables[class] = path
	}

	var includedCalls []*event.Call
	rowsByClass := make(map[string][]*majiq.Junction)
	droppedIncomplete := 0

	for class, path := range tables {
		rows, err := loadJunctions(path)
		if err != nil {
			return fmt.Errorf("load %s table: %w", class, err)
		}
		rowsByClass[class] = rows

		calls, dropped := event.ClassifyRegulation(class, rows, thresholds)
		droppedIncomplete += dropped

		included := 0
		for _, c := range calls {
			if c.Included() {
				includedCalls = append(includedCalls, c)
				included++
			}
		}
		logger.Info("regulation calling done",
			zap.String("class", class),
			zap.Int("rows", len(rows)),
			zap.Int("events", len(calls)),
			zap.Int("regulated", included),
			zap.Int("dropped_incomplete", dropped))
	}

	if err := writeCalls(filepath.Join(opts.outDir, "regulated_events.tsv"), includedCalls); err != nil {
		return err
	}

	// Geometry for regulated A5SS events.
	a5ssRows := make(map[string][]*majiq.Junction)
	for _, j := range rowsByClass[event.ClassA5SS] {
		a5ssRows[j.EventID] = append(a5ssRows[j.EventID], j)
	}

	var geometries []*event.Geometry
	geometryFailures := 0
	for _, c := range includedCalls {
		if c.EventClass != event.ClassA5SS {
			continue
		}
		g, err := event.BuildA5SS(a5ssRows[c.EventID])
		if err != nil {
			geometryFailures++
			logger.Warn("failed to build event geometry",
				zap.String("event", c.EventID),
				zap.Error(err))
			continue
		}
		geometries = append(geometries, g)
	}

	// Reference catalogues, loaded once and shared read-only.
	logger.Info("loading coding-exon annotation", zap.String("gtf", opts.gtfPath))
	codingExons, err := catalog.NewGTFLoader(opts.gtfPath).Load()
	if err != nil {
		return fmt.Errorf("load annotation: %w", err)
	}
	resolver := phase.NewResolver(catalog.BuildGeneExonIndex(codingExons))

	logger.Info("loading genome", zap.String("fasta", opts.genomePath))
	genome, err := catalog.LoadGenome(opts.genomePath)
	if err != nil {
		return fmt.Errorf("load genome: %w", err)
	}

	logger.Info("loading reference proteins", zap.String("fasta", opts.proteinPath))
	proteins, err := catalog.LoadProteins(opts.proteinPath)
	if err != nil {
		return fmt.Errorf("load proteins: %w", err)
	}
	logger.Info("catalogues ready",
		zap.Int("coding_exons", len(codingExons)),
		zap.Int("isoforms", proteins.Count()))

	p := pipeline.New(resolver, genome, integrate.NewIntegrator(proteins, scoring))
	p.SetLogger(logger)
	p.SetWorkers(opts.workers)

	records, stats := p.Run(geometries)
	stats.DroppedIncomplete = droppedIncomplete
	stats.Failed += geometryFailures

	if err := writeResults(opts.outDir, records); err != nil {
		return err
	}

	if opts.dbPath != "" {
		if err := storeResults(opts, records, logger); err != nil {
			return err
		}
	}

	stats.LogSummary(logger)
	return nil
}

func loadJunctions(path string) ([]*majiq.Junction, error) {
	parser, err := majiq.NewParser(path)
	if err != nil {
		return nil, err
	}
	defer parser.Close()
	return parser.All()
}

func writeCalls(path string, calls []*event.Call) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := output.NewCallWriter(f)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	for _, c := range calls {
		if err := cw.Write(c); err != nil {
			return err
		}
	}
	return cw.Flush()
}

func writeResults(outDir string, records []*pipeline.Record) error {
	eventsFile, err := os.Create(filepath.Join(outDir, "events.tsv"))
	if err != nil {
		return fmt.Errorf("create events output: %w", err)
	}
	defer eventsFile.Close()

	integrationsFile, err := os.Create(filepath.Join(outDir, "integrations.tsv"))
	if err != nil {
		return fmt.Errorf("create integrations output: %w", err)
	}
	defer integrationsFile.Close()

	fastaFile, err := os.Create(filepath.Join(outDir, "proteins.fasta"))
	if err != nil {
		return fmt.Errorf("create FASTA output: %w", err)
	}
	defer fastaFile.Close()

	ew := output.NewEventWriter(eventsFile)
	iw := output.NewIntegrationWriter(integrationsFile)
	fw := output.NewFASTAWriter(fastaFile)

	if err := ew.WriteHeader(); err != nil {
		return err
	}
	if err := iw.WriteHeader(); err != nil {
		return err
	}

	for _, rec := range records {
		if err := ew.Write(rec); err != nil {
			return err
		}
		if err := iw.Write(rec); err != nil {
			return err
		}
		for _, in := range rec.Integrations {
			if err := fw.Write(in); err != nil {
				return err
			}
		}
	}

	if err := ew.Flush(); err != nil {
		return err
	}
	if err := iw.Flush(); err != nil {
		return err
	}
	return fw.Flush()
}

func storeResults(opts *classifyOptions, records []*pipeline.Record, logger *zap.Logger) error {
	store, err := duckdb.Open(opts.dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.WriteRecords(records); err != nil {
		return fmt.Errorf("store results: %w", err)
	}

	if n, err := store.ImportJunctions(event.ClassA5SS, opts.a5ssPath); err != nil {
		logger.Warn("could not import junction table", zap.Error(err))
	} else {
		logger.Info("imported junction table",
			zap.String("class", event.ClassA5SS),
			zap.Int64("rows", n))
	}

	logger.Info("results stored", zap.String("db", opts.dbPath))
	return nil
}
