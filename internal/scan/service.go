// Package scan orchestrates the extraction pipeline: it walks a contracts
// directory, parses each .docx, detects day-clause obligations, resolves
// anchor dates and keywords through the oracle, and persists the assembled
// nomination records.
package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/nominationd/internal/contract"
	"github.com/fyrsmithlabs/nominationd/internal/docx"
	"github.com/fyrsmithlabs/nominationd/internal/oracle"
)

// Recorder is the slice of the store the pipeline needs.
type Recorder interface {
	Exists(ctx context.Context, contractName string) (bool, error)
	InsertBatch(ctx context.Context, records []contract.Record) (int, error)
}

// Config controls scan behavior.
type Config struct {
	// ContractsDir is the directory scanned for .docx contracts.
	ContractsDir string
	// DocumentDelay is the minimum spacing between oracle-bound documents,
	// to stay under the completion provider's rate limits.
	DocumentDelay time.Duration
	// KeywordConcurrency bounds concurrent keyword extraction calls per
	// document.
	KeywordConcurrency int
}

// Result summarizes one directory scan.
type Result struct {
	// Scanned counts .docx files considered.
	Scanned int `json:"scanned"`
	// Skipped counts documents whose contract was already persisted.
	Skipped int `json:"skipped"`
	// Failed counts documents abandoned on error.
	Failed int `json:"failed"`
	// Inserted counts nomination records persisted.
	Inserted int `json:"inserted"`
	// Records are the nomination records persisted by this scan.
	Records []contract.Record `json:"records,omitempty"`
}

// Service runs the extraction pipeline.
type Service struct {
	cfg     Config
	store   Recorder
	oracle  oracle.Oracle
	logger  *zap.Logger
	limiter *rate.Limiter
}

// New creates a scan service.
func New(cfg Config, store Recorder, orc oracle.Oracle, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.KeywordConcurrency < 1 {
		cfg.KeywordConcurrency = 4
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.DocumentDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.DocumentDelay), 1)
	}

	return &Service{
		cfg:     cfg,
		store:   store,
		oracle:  orc,
		logger:  logger,
		limiter: limiter,
	}
}

// ScanDir processes every contract document in the configured directory.
// A failing document is logged and skipped; it never aborts the scan.
func (s *Service) ScanDir(ctx context.Context) (*Result, error) {
	start := time.Now()
	defer func() { scanDuration.Observe(time.Since(start).Seconds()) }()

	entries, err := os.ReadDir(s.cfg.ContractsDir)
	if err != nil {
		return nil, fmt.Errorf("reading contracts directory: %w", err)
	}

	result := &Result{}
	for _, entry := range entries {
		if entry.IsDir() || !isContractFile(entry.Name()) {
			continue
		}
		result.Scanned++

		name := docx.ContractName(entry.Name())
		logger := s.logger.With(zap.String("contract", name))

		exists, err := s.store.Exists(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("checking contract %s: %w", name, err)
		}
		if exists {
			logger.Debug("contract already persisted, skipping")
			documentsTotal.WithLabelValues("skipped").Inc()
			result.Skipped++
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		records, err := s.scanDocument(ctx, filepath.Join(s.cfg.ContractsDir, entry.Name()))
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			logger.Error("document scan failed", zap.Error(err))
			documentsTotal.WithLabelValues("error").Inc()
			result.Failed++
			continue
		}

		inserted, err := s.store.InsertBatch(ctx, records)
		if err != nil {
			return nil, fmt.Errorf("persisting records for %s: %w", name, err)
		}
		documentsTotal.WithLabelValues("processed").Inc()
		nominationsInserted.Add(float64(inserted))
		result.Inserted += inserted
		result.Records = append(result.Records, records...)
		logger.Info("contract processed", zap.Int("records", inserted))
	}

	s.logger.Info("scan complete",
		zap.Int("scanned", result.Scanned),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.Int("inserted", result.Inserted))
	return result, nil
}

// scanDocument extracts nomination records from one contract file. The anchor
// date is resolved once per document from the first table; a resolution
// failure yields zero records, never a guessed date.
func (s *Service) scanDocument(ctx context.Context, path string) ([]contract.Record, error) {
	doc, err := docx.Parse(path)
	if err != nil {
		return nil, err
	}
	if len(doc.Tables) == 0 {
		s.logger.Warn("no tables in document", zap.String("contract", doc.ContractName))
		return nil, nil
	}

	// Only the first table carries the nomination schedule.
	rows := contract.NormalizeTable(doc.Tables[0])

	clauses := contract.DetectClauses(rows)
	if len(clauses) == 0 {
		return nil, nil
	}

	parties := contract.ExtractParties(rows)
	if !parties.Complete() {
		s.logger.Warn("document missing buyer or seller, skipping",
			zap.String("contract", doc.ContractName),
			zap.String("buyer", parties.Buyer), zap.String("seller", parties.Seller))
		return nil, nil
	}

	anchor, err := s.oracle.ResolveArrivalDate(ctx, doc.Tables[0])
	recordOracleCall("date", err)
	if err != nil {
		if errors.Is(err, oracle.ErrUnresolvedDate) {
			s.logger.Warn("anchor date unresolved, dropping document",
				zap.String("contract", doc.ContractName))
			return nil, nil
		}
		return nil, fmt.Errorf("resolving arrival date: %w", err)
	}

	keyworded, err := s.extractKeywords(ctx, clauses)
	if err != nil {
		return nil, err
	}

	return contract.Assemble(doc.ContractName, anchor, parties, keyworded), nil
}

// extractKeywords resolves one keyword per clause with bounded concurrency.
// A failed extraction falls back to the placeholder keyword; only context
// cancellation aborts.
func (s *Service) extractKeywords(ctx context.Context, clauses []contract.Clause) ([]contract.KeywordedClause, error) {
	keyworded := make([]contract.KeywordedClause, len(clauses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.KeywordConcurrency)
	for i, c := range clauses {
		i, c := i, c
		g.Go(func() error {
			keyword, err := s.oracle.ExtractKeyword(gctx, c.FullContext)
			recordOracleCall("keyword", err)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Warn("keyword extraction failed",
					zap.String("type", c.NominationType), zap.Error(err))
				keyword = oracle.FallbackKeyword
			}
			keyworded[i] = contract.KeywordedClause{Clause: c, Keyword: keyword}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return keyworded, nil
}

// isContractFile reports whether a path names a scannable contract.
// Office lock files ("~$...") are excluded.
func isContractFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".docx") &&
		!strings.HasPrefix(filepath.Base(path), "~$")
}
