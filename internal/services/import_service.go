package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/settleops/tradeflow/config"
	"github.com/settleops/tradeflow/internal/cache"
	"github.com/settleops/tradeflow/internal/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ImportService runs the trade reconciliation pipeline: resolve against the
// masters, backfill missing prices, normalize into the staging schema, load
// and post. One invocation processes one file to completion; the stages
// consume each other's output in full, there is no per-row interleaving.
type ImportService struct {
	refs       ReferenceReader
	feed       PriceLookup
	poster     TradePoster
	priceCache *cache.MemoryCache

	partner      string
	stagingTable string
	normOpts     NormalizeOptions
}

// NewImportService creates a new ImportService
func NewImportService(refs ReferenceReader, feed PriceLookup, poster TradePoster, priceCache *cache.MemoryCache, cfg *config.Config) *ImportService {
	return &ImportService{
		refs:         refs,
		feed:         feed,
		poster:       poster,
		priceCache:   priceCache,
		partner:      cfg.PartnerCode,
		stagingTable: cfg.StagingTable,
		normOpts: NormalizeOptions{
			DelMonthStyle:   cfg.DelMonthStyle,
			LegacyRateSplit: cfg.LegacyRateSplit,
		},
	}
}

// Run executes the pipeline over already-parsed trade rows and returns the
// ordered message lines plus the structured run report.
func (s *ImportService) Run(ctx context.Context, trades []models.TradeRow) (*models.PipelineResult, error) {
	defer TrackTime("ImportService.Run", time.Now())

	runID := uuid.New()
	logger := log.WithFields(log.Fields{"run_id": runID, "input_rows": len(trades)})
	logger.Info("starting trade import run")

	var secs []models.SecurityReference
	var clients []models.ClientReference
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		secs, err = s.refs.FetchSecurityReferences(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		clients, err = s.refs.FetchClientReferences(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch reference data: %w", err)
	}

	resolved, unmatched := ResolveTrades(trades, secs, clients)

	var postable []models.ResolvedTrade
	unresolvedCount := 0
	for _, r := range resolved {
		if r.Unresolved {
			unresolvedCount++
			continue
		}
		postable = append(postable, r)
	}
	if unresolvedCount > 0 {
		logger.WithFields(log.Fields{"unresolved": unresolvedCount, "codes": unmatched}).
			Warn("trades excluded: instrument code matched no identifier column")
	}

	backfill, err := BackfillPrices(ctx, s.feed, s.priceCache, postable)
	if err != nil {
		return nil, err
	}

	staged := NormalizeTrades(backfill.Kept, s.normOpts)

	procLines, err := s.poster.LoadAndPost(ctx, staged, s.partner)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(procLines)+3)
	lines = append(lines, fmt.Sprintf("%s: loaded %d trades", s.stagingTable, len(staged)))
	lines = append(lines, procLines...)
	lines = append(lines, fmt.Sprintf("%d rows unresolved", unresolvedCount))
	lines = append(lines, fmt.Sprintf("%d prices missing", backfill.Missing))

	logger.WithFields(log.Fields{
		"loaded":         len(staged),
		"unresolved":     unresolvedCount,
		"missing_prices": backfill.Missing,
	}).Info("trade import run finished")

	return &models.PipelineResult{
		Lines: lines,
		Report: models.RunReport{
			RunID:          runID,
			InputRows:      len(trades),
			ResolvedRows:   len(postable),
			UnresolvedRows: unresolvedCount,
			UnmatchedCodes: unmatched,
			BackfilledRows: backfill.Backfilled,
			MissingPrices:  backfill.Missing,
			DroppedTickers: backfill.DroppedTickers,
			LoadedRows:     len(staged),
		},
	}, nil
}
