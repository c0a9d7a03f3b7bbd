package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"path/filepath"

	"localize-collector/internal/catalog"
	"localize-collector/internal/config"
	"localize-collector/internal/diag"
	"localize-collector/internal/export"
	"localize-collector/internal/extract"
	"localize-collector/internal/filewalker"
	"localize-collector/internal/graph"
	"localize-collector/internal/ignore"
	"localize-collector/internal/msgid"
	"localize-collector/internal/parser"
	"localize-collector/internal/xliff"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

type collectOptions struct {
	dryRun bool
	// keep buffers the merged fragments and every occurrence for the
	// publishers.
	keep bool
}

type collectResult struct {
	extract   extract.Stats
	merge     xliff.Stats
	diag      []diag.Entry
	fragments []parser.Fragment
	usages    []parser.Fragment
}

// runCollect merges the fragments of cfg.SourceDir into the interchange
// document of cfg.TranslationsDir. Nothing is written when the merge fails.
func runCollect(cfg *config.Config, opts collectOptions) (*collectResult, error) {
	collector := diag.NewCollector(log.Logger)

	translationsDir, err := absDir(cfg.TranslationsDir)
	if err != nil {
		return nil, err
	}
	path := xliff.Path(translationsDir)

	doc, err := xliff.Load(path, xliff.Options{
		Indent:      cfg.Indent,
		LineNumbers: cfg.LineNumbers,
		Diag:        collector,
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s not found, run init first: %w", path, err)
		}
		return nil, err
	}
	log.Info().Str("path", path).Int("units", doc.Len()).Msg("Loaded interchange document")

	driver, err := newDriver(cfg, collector)
	if err != nil {
		return nil, err
	}

	res := &collectResult{}
	fragments := driver.Fragments()
	if opts.keep {
		fragments = tee(fragments, &res.fragments)
		driver.OnOccurrence(func(f parser.Fragment) { res.usages = append(res.usages, f) })
	}

	res.merge, err = doc.Merge(fragments)
	if err != nil {
		return nil, fmt.Errorf("merge into %s: %w", path, err)
	}
	res.extract = driver.Stats()
	res.diag = collector.Entries()

	if opts.dryRun {
		log.Info().Str("path", path).Msg("Dry run, document not written")
	} else if err := doc.Save(); err != nil {
		return nil, err
	}

	log.Info().
		Int("dirs", res.extract.Dirs).
		Int("files", res.extract.Files).
		Int("messages", res.extract.Fragments).
		Int("created", res.merge.Created).
		Int("updated", res.merge.Updated).
		Int("conflicts", res.extract.Conflicts).
		Int("unreadable", collector.Count(diag.UnreadableDir)+collector.Count(diag.UnreadableFile)).
		Int("diagnostics", len(res.diag)).
		Msg("Collection complete")

	return res, nil
}

// newDriver wires the ignore rules, walker and parser for cfg.SourceDir. An
// unreadable ignore file is reported and the tree is walked without it.
func newDriver(cfg *config.Config, collector *diag.Collector) (*extract.Driver, error) {
	sourceDir, err := absDir(cfg.SourceDir)
	if err != nil {
		return nil, err
	}

	rules, err := ignore.Load(sourceDir, cfg.IgnoreFile, cfg.NestedIgnore)
	if err != nil {
		collector.Report(diag.Entry{
			Kind:    diag.UnreadableFile,
			Path:    filepath.ToSlash(cfg.IgnoreFile),
			Message: "Ignore rules not applied",
			Err:     err,
		})
	}
	log.Debug().Int("patterns", rules.Len()).Msg("Loaded ignore rules")

	walker, err := filewalker.NewWalker(sourceDir, rules, collector)
	if err != nil {
		return nil, err
	}

	p := parser.NewTemplateParser(cfg.Marker, cfg.Extension)
	return extract.NewDriver(walker, p, msgid.Localize{}, collector), nil
}

// tee records every fragment the consumer pulls from seq.
func tee(seq iter.Seq[parser.Fragment], dst *[]parser.Fragment) iter.Seq[parser.Fragment] {
	return func(yield func(parser.Fragment) bool) {
		for f := range seq {
			*dst = append(*dst, f)
			if !yield(f) {
				return
			}
		}
	}
}

func runInit(cfg *config.Config) error {
	translationsDir, err := absDir(cfg.TranslationsDir)
	if err != nil {
		return err
	}

	doc, err := xliff.Create(xliff.Path(translationsDir), cfg.SourceLanguage, xliff.Options{Indent: cfg.Indent})
	if err != nil {
		return err
	}
	if err := doc.Save(); err != nil {
		return err
	}

	log.Info().Str("path", xliff.Path(translationsDir)).Str("source_language", cfg.SourceLanguage).Msg("Created interchange document")
	return nil
}

func runList(cfg *config.Config, format string, w io.Writer) error {
	write := export.WriteJSON
	switch format {
	case "json":
	case "tsv":
		write = export.WriteTSV
	default:
		return fmt.Errorf("unknown format %q (use json or tsv)", format)
	}

	driver, err := newDriver(cfg, diag.NewCollector(log.Logger))
	if err != nil {
		return err
	}

	var fragments []parser.Fragment
	for f := range driver.Fragments() {
		fragments = append(fragments, f)
	}
	return write(w, fragments)
}

// runPublish mirrors a collect run into the configured sinks. The catalog
// holds one row per message; the graph also records every file using it.
func runPublish(ctx context.Context, cfg *config.Config, res *collectResult) error {
	if cfg.DatabaseURL != "" {
		if err := publishCatalog(ctx, cfg, res.fragments); err != nil {
			return err
		}
	}
	if cfg.Neo4jURI != "" {
		if err := publishGraph(ctx, cfg, res.fragments, res.usages); err != nil {
			return err
		}
	}
	return nil
}

func publishCatalog(ctx context.Context, cfg *config.Config, fragments []parser.Fragment) error {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect PostgreSQL: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping PostgreSQL: %w", err)
	}

	store := catalog.NewStore(pool, cfg.BatchSize)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	n, err := store.Publish(ctx, fragments)
	if err != nil {
		return err
	}

	log.Info().Int("changed", n).Int("messages", len(fragments)).Msg("Catalog published")
	return nil
}

func publishGraph(ctx context.Context, cfg *config.Config, messages, usages []parser.Fragment) error {
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		return fmt.Errorf("connect Neo4j: %w", err)
	}
	defer driver.Close(ctx)

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("verify Neo4j connectivity: %w", err)
	}

	g := graph.NewUsageGraph(driver, cfg.BatchSize)
	if err := g.EnsureSchema(ctx); err != nil {
		return err
	}
	n, err := g.Publish(ctx, messages, usages)
	if err != nil {
		return err
	}

	log.Info().Int("messages", len(messages)).Int("usages", n).Msg("Usage graph published")
	return nil
}
