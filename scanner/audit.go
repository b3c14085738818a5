package scanner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"suppressaudit/suppress"
)

// Auditor runs the suppression engine over a set of files.
type Auditor struct {
	workers  int
	logger   zerolog.Logger
	metrics  *Metrics
	readFile func(string) ([]byte, error)
}

// NewAuditor creates an auditor reading at most workers files at once;
// workers <= 0 means one per CPU. metrics may be nil.
func NewAuditor(workers int, logger zerolog.Logger, metrics *Metrics) *Auditor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Auditor{
		workers:  workers,
		logger:   logger,
		metrics:  metrics,
		readFile: os.ReadFile,
	}
}

// Audit scans every file (paths relative to root) and collects its issues.
// Files that cannot be read are logged and listed in Report.Skipped; only
// context cancellation makes Audit fail. Issues keep the order of files, and
// within a file the order the engine produced them.
func (a *Auditor) Audit(ctx context.Context, root string, files []FileInfo) (*Report, error) {
	results := make([][]Issue, len(files))
	failed := make([]bool, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := a.readFile(filepath.Join(root, f.Path))
			if err != nil {
				a.logger.Warn().Err(err).Str("file", f.Path).Msg("Unable to read file, skipping suppression audit")
				a.metrics.observeReadError()
				failed[i] = true
				return nil
			}
			results[i] = IssuesFor(f.Path, f.Language, suppress.FindSuppressions(string(content)))
			a.metrics.observeFile(f.Language, results[i])
			if n := len(results[i]); n > 0 {
				a.logger.Debug().Str("file", f.Path).Int("count", n).Msg("Found suppressions")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Root: root, Issues: []Issue{}}
	for i, f := range files {
		if failed[i] {
			report.Skipped = append(report.Skipped, f.Path)
			continue
		}
		report.FilesScanned++
		report.Issues = append(report.Issues, results[i]...)
	}
	return report, nil
}

// IssuesFor binds engine findings for one file to the rule repository of lang.
func IssuesFor(path, lang string, findings []suppress.Finding) []Issue {
	issues := make([]Issue, 0, len(findings))
	for _, f := range findings {
		issues = append(issues, Issue{
			Path:         path,
			Language:     lang,
			Repository:   RepositoryKey(lang),
			Rule:         RuleKey,
			Line:         f.ReportLine,
			EvidenceLine: f.EvidenceLine,
			Category:     f.Category,
			Message:      f.Message,
			Rules:        f.Rules,
			Blanket:      f.Blanket,
		})
	}
	return issues
}
