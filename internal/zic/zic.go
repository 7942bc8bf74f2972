// Package zic runs the conversion of tzdata files into rule and zone documents.
package zic

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/ngrash/tzjson/internal/config"
	"github.com/ngrash/tzjson/internal/metrics"
	"github.com/ngrash/tzjson/tzc"
	"github.com/ngrash/tzjson/tzdata"
	"github.com/ngrash/tzjson/tzdb/ianadist"
	"github.com/ngrash/tzjson/tzjson"
)

// etagFile keeps the ETag of the release stored in the cache directory.
const etagFile = ".etag"

// Runner converts tzdata files according to a Config.
type Runner struct {
	Fs      afero.Fs
	Logger  *zap.Logger
	Metrics *metrics.Recorder
	// Client downloads releases; ianadist.DefaultClient if nil.
	Client *ianadist.Client
}

// Summary describes a finished run.
type Summary struct {
	Version   string // Release version, if known.
	Files     int
	Rules     int // Rule sets written.
	Zones     int // Zones written.
	Documents int
}

// Run reads the configured files, compiles them and writes the documents. With
// cfg.MetricsFile set, the metrics of the run are written there even if it fails.
func (r *Runner) Run(ctx context.Context, cfg *config.Config) (sum Summary, err error) {
	start := time.Now()
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rec := r.Metrics
	if rec == nil {
		rec = metrics.NewRecorder(logger)
	}
	defer func() {
		rec.Finish(start, err)
		if cfg.MetricsFile == "" {
			return
		}
		if werr := rec.WriteTextfile(cfg.MetricsFile); werr != nil {
			logger.Warn("cannot write metrics", zap.String("file", cfg.MetricsFile), zap.Error(werr))
		}
	}()

	now := cfg.NowTime()
	opts := []tzdata.Option{tzdata.WithNow(now.Unix())}
	if cfg.Lenient {
		opts = append(opts, tzdata.SkipInvalid(func(pe *tzdata.ParseError) {
			rec.ObserveParseError(pe)
			logger.Warn("skipping malformed line",
				zap.String("file", pe.Source), zap.Int("line", pe.Line), zap.Error(pe.Err))
		}))
	}

	files, version, err := r.load(ctx, cfg, logger, opts)
	if err != nil {
		var pe *tzdata.ParseError
		if errors.As(err, &pe) {
			rec.ObserveParseError(pe)
		}
		return sum, err
	}
	sum.Version = version
	sum.Files = len(files)
	for _, f := range files {
		rec.ObserveFile(f)
		logger.Info("read file",
			zap.String("file", f.Source),
			zap.Int("rules", len(f.Transitions)),
			zap.Int("zones", len(f.RawZones)),
			zap.Int("links", len(f.Links)))
	}

	compiled, err := tzc.Compile(files...)
	if err != nil {
		if !cfg.Lenient || compiled == nil {
			return sum, fmt.Errorf("compile: %w", err)
		}
		logger.Warn("skipping zones that cannot be compiled", zap.Error(err))
	}
	if cfg.Current {
		compiled = compiled.Restrict(now.Unix())
		logger.Info("restricted to current rules and zones", zap.Time("at", now))
	}
	rec.ObserveCompiled(compiled)
	sum.Rules = len(compiled.Rules)
	sum.Zones = len(compiled.Zones)

	format, err := tzjson.ParseFormat(cfg.Format)
	if err != nil {
		return sum, err
	}
	rulesDir := filepath.Join(cfg.TargetDir, tzjson.RulesDir) + string(filepath.Separator)
	w := tzjson.NewWriter(r.Fs, cfg.TargetDir,
		tzjson.WithFormat(format),
		tzjson.WithIndent(strings.Repeat(" ", cfg.Indent)),
		tzjson.OnWrite(func(p string) {
			kind := "zone"
			if strings.HasPrefix(p, rulesDir) {
				kind = "rules"
			}
			rec.ObserveDocument(kind)
			logger.Debug("wrote document", zap.String("path", p))
		}))
	sum.Documents, err = w.WriteCompiled(compiled)
	if err != nil {
		return sum, fmt.Errorf("write documents: %w", err)
	}

	logger.Info("done",
		zap.String("target", cfg.TargetDir),
		zap.Int("rules", sum.Rules),
		zap.Int("zones", sum.Zones),
		zap.Int("documents", sum.Documents),
		zap.Duration("took", time.Since(start)))
	return sum, nil
}

// load parses the configured files from a download, an archive or a directory.
func (r *Runner) load(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts []tzdata.Option) ([]tzdata.File, string, error) {
	switch {
	case cfg.Download:
		return r.download(ctx, cfg, logger, opts)
	case cfg.Archive != "":
		logger.Info("reading archive", zap.String("archive", cfg.Archive))
		release, err := ianadist.ReadArchiveFile(r.Fs, cfg.Archive)
		if err != nil {
			return nil, "", err
		}
		files, err := release.Parse(cfg.Files, opts...)
		return files, release.Version, err
	default:
		logger.Info("reading source directory", zap.String("dir", cfg.SourceDir), zap.Strings("files", cfg.Files))
		files, err := ianadist.LoadDir(r.Fs, cfg.SourceDir, cfg.Files, opts...)
		return files, readVersion(r.Fs, cfg.SourceDir), err
	}
}

// download fetches the latest release. With a cache directory, an unchanged release
// is read from the cache and a new one replaces it.
func (r *Runner) download(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts []tzdata.Option) ([]tzdata.File, string, error) {
	client := r.Client
	if client == nil {
		client = ianadist.DefaultClient
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.DownloadTimeout)
	defer cancel()

	var etag string
	if cfg.CacheDir != "" {
		if b, err := afero.ReadFile(r.Fs, path.Join(cfg.CacheDir, etagFile)); err == nil {
			etag = strings.TrimSpace(string(b))
		}
	}

	release, newEtag, err := client.Latest(ctx, etag)
	if err != nil {
		return nil, "", fmt.Errorf("download: %w", err)
	}
	if release == nil {
		logger.Info("release not modified, using cache", zap.String("dir", cfg.CacheDir), zap.String("etag", etag))
		files, err := ianadist.LoadDir(r.Fs, cfg.CacheDir, cfg.Files, opts...)
		return files, readVersion(r.Fs, cfg.CacheDir), err
	}
	logger.Info("downloaded release", zap.String("version", release.Version), zap.String("etag", newEtag))

	if cfg.CacheDir != "" {
		if err := release.WriteDir(r.Fs, cfg.CacheDir); err != nil {
			return nil, "", fmt.Errorf("cache release: %w", err)
		}
		if err := afero.WriteFile(r.Fs, path.Join(cfg.CacheDir, etagFile), []byte(newEtag+"\n"), 0o644); err != nil {
			return nil, "", fmt.Errorf("cache release: %w", err)
		}
	}
	files, err := release.Parse(cfg.Files, opts...)
	return files, release.Version, err
}

// readVersion returns the contents of the version file of dir, if there is one.
func readVersion(fs afero.Fs, dir string) string {
	b, err := afero.ReadFile(fs, path.Join(dir, "version"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
