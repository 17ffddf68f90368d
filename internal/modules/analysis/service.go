// Package analysis orchestrates the full valuation pipeline: fetch the
// provider data, resolve the derived metrics, classify the company,
// project the fair-value band, and assemble the verdict.
package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/lynchlens/internal/clientdata"
	"github.com/aristath/lynchlens/internal/clients/groq"
	"github.com/aristath/lynchlens/internal/clients/yahoo"
	"github.com/aristath/lynchlens/internal/domain"
	"github.com/aristath/lynchlens/internal/modules/charts"
	"github.com/aristath/lynchlens/internal/modules/classification"
	"github.com/aristath/lynchlens/internal/modules/fairvalue"
	"github.com/aristath/lynchlens/internal/modules/metrics"
)

// Service runs analyses and caches the results.
type Service struct {
	yahoo      *yahoo.Client
	groq       *groq.Client
	cache      *clientdata.Repository
	peg        *metrics.PegResolver
	classifier *classification.Classifier
	projector  *fairvalue.Projector
	log        zerolog.Logger
}

// NewService creates the analysis service.
// cache is optional - if nil, every request recomputes from the clients
// (which carry their own caches).
func NewService(yahooClient *yahoo.Client, groqClient *groq.Client, cache *clientdata.Repository, log zerolog.Logger) *Service {
	return &Service{
		yahoo:      yahooClient,
		groq:       groqClient,
		cache:      cache,
		peg:        metrics.NewPegResolver(),
		classifier: classification.New(),
		projector:  fairvalue.NewProjector(),
		log:        log.With().Str("module", "analysis").Logger(),
	}
}

// ProjectionSummary is the fair-value outcome without the full series;
// the chart endpoint serves the series itself.
type ProjectionSummary struct {
	HasData bool   `json:"has_data"`
	Reason  string `json:"reason,omitempty"`

	FairMultiplier         float64              `json:"fair_multiplier,omitempty"`
	ConservativeMultiplier float64              `json:"conservative_multiplier,omitempty"`
	GrowthRate             domain.OptionalFloat `json:"growth_rate"`
	Method                 string               `json:"method,omitempty"`
	HasProjection          bool                 `json:"has_projection"`

	FairValue         domain.OptionalFloat `json:"fair_value"`
	ConservativeValue domain.OptionalFloat `json:"conservative_value"`
}

// Report is one complete analysis of a symbol.
type Report struct {
	ID          string    `json:"id"`
	Symbol      string    `json:"symbol"`
	GeneratedAt time.Time `json:"generated_at"`

	Snapshot   domain.FinancialSnapshot `json:"snapshot"`
	Valuation  domain.DerivedValuation  `json:"valuation"`
	Badges     metrics.Badges           `json:"badges"`
	Projection ProjectionSummary        `json:"projection"`

	// Verdict is nil when the projection has no data to price against.
	Verdict *fairvalue.Verdict `json:"verdict,omitempty"`
}

// ChartData is the price history with the fair-value band and the
// descriptive period statistics.
type ChartData struct {
	Symbol     string                `json:"symbol"`
	Prices     domain.PriceSeries    `json:"prices"`
	Projection *fairvalue.Projection `json:"projection"`
	Stats      *charts.PeriodStats   `json:"stats,omitempty"`
	Verdict    *fairvalue.Verdict    `json:"verdict,omitempty"`
}

func normalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", fmt.Errorf("symbol is required")
	}
	return s, nil
}

// Analyze produces the full report for a symbol, cache-first.
func (s *Service) Analyze(symbol string) (*Report, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	if cached := s.cachedReport(symbol); cached != nil {
		s.log.Debug().Str("symbol", symbol).Msg("Analysis cache hit")
		return cached, nil
	}

	snap, err := s.yahoo.GetOverview(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overview for %s: %w", symbol, err)
	}

	// Balance sheet and news are best-effort: the analysis degrades to
	// summary figures / no headlines rather than failing.
	if sheet, err := s.yahoo.GetBalanceSheet(symbol); err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Balance sheet unavailable")
	} else {
		snap.TotalDebtBalance = sheet.TotalDebt
		snap.TotalCashBalance = sheet.Cash
		snap.NetDebt = sheet.NetDebt
		snap.BalanceSheetDate = sheet.Date
	}

	if news, err := s.yahoo.GetNews(symbol); err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("News unavailable")
	} else {
		snap.News = news
	}

	report := s.buildReport(symbol, snap)

	if s.cache != nil {
		if err := s.cache.Store("analysis", symbol, report, clientdata.TTLAnalysis); err != nil {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache analysis")
		}
	}

	s.log.Info().
		Str("symbol", symbol).
		Str("category", string(report.Valuation.Category)).
		Str("peg_source", string(report.Valuation.PegSource)).
		Msg("Analysis completed")

	return report, nil
}

// buildReport runs the derivation pipeline over a complete snapshot.
func (s *Service) buildReport(symbol string, snap *domain.FinancialSnapshot) *Report {
	dividendYield := metrics.ResolveDividendYield(snap)

	pegResult := s.peg.Resolve(snap.TrailingPE, snap.TrailingPEG, snap.TrailingEPS, snap.ForwardEPS, snap.GrowthEstimateNextYear)
	debtResult := metrics.ResolveDebtCoverage(snap)
	classResult := s.classifier.Classify(snap, dividendYield)
	badges := metrics.ComputeBadges(snap, pegResult.Peg)

	projection := s.project(symbol, snap)

	report := &Report{
		ID:          uuid.New().String(),
		Symbol:      symbol,
		GeneratedAt: time.Now().UTC(),
		Snapshot:    *snap,
		Badges:      badges,
		Valuation: domain.DerivedValuation{
			Symbol: symbol,

			Peg:           pegResult.Peg,
			PegSource:     pegResult.Source,
			PegNote:       pegResult.Note,
			ImpliedGrowth: pegResult.ImpliedGrowth,

			Debt:          debtResult.Debt,
			Cash:          debtResult.Cash,
			DebtSource:    debtResult.DebtSource,
			CashSource:    debtResult.CashSource,
			CoverageRatio: debtResult.CoverageRatio,
			CoverageTier:  debtResult.Tier,

			DividendYield: dividendYield,

			Category:  classResult.Category,
			Rationale: classResult.Rationale,
		},
		Projection: ProjectionSummary{
			HasData:                projection.HasData,
			Reason:                 projection.Reason,
			FairMultiplier:         projection.FairMultiplier,
			ConservativeMultiplier: projection.ConservativeMultiplier,
			GrowthRate:             projection.GrowthRate,
			Method:                 projection.Method,
			HasProjection:          projection.HasProjection,
		},
	}

	if projection.HasData {
		fair, conservative := projection.LastHistorical()
		report.Projection.FairValue = fair
		report.Projection.ConservativeValue = conservative

		price, okPrice := snap.CurrentPrice.Get()
		fairValue, okFair := fair.Get()
		if okPrice && price > 0 && okFair && fairValue > 0 {
			verdict := fairvalue.ResolveVerdict(price, fairValue, conservative, projection.FairMultiplier)
			report.Verdict = &verdict
		}
	}

	return report
}

// project fetches the series inputs and runs the projector. Fetch
// failures surface as a no-data projection, same as thin data.
func (s *Service) project(symbol string, snap *domain.FinancialSnapshot) *fairvalue.Projection {
	prices, err := s.yahoo.GetHistory(symbol)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Price history unavailable")
		prices = nil
	}

	var points []domain.EarningsPoint
	method := ""
	if earnings, err := s.yahoo.GetEarnings(symbol); err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Earnings history unavailable")
	} else {
		points = earnings.Points
		method = earnings.Method
	}

	return s.projector.Project(prices, points, method, snap.TrailingEPS, snap.ForwardEPS)
}

// Chart returns the price history with the fair-value band overlay.
func (s *Service) Chart(symbol string) (*ChartData, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	prices, err := s.yahoo.GetHistory(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price history for %s: %w", symbol, err)
	}

	snap, err := s.yahoo.GetOverview(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overview for %s: %w", symbol, err)
	}

	data := &ChartData{
		Symbol:     symbol,
		Prices:     prices,
		Projection: s.project(symbol, snap),
	}

	if stats, ok := charts.Compute(prices); ok {
		data.Stats = &stats
	}

	if data.Projection.HasData {
		fair, conservative := data.Projection.LastHistorical()
		price, okPrice := snap.CurrentPrice.Get()
		fairValue, okFair := fair.Get()
		if okPrice && price > 0 && okFair && fairValue > 0 {
			verdict := fairvalue.ResolveVerdict(price, fairValue, conservative, data.Projection.FairMultiplier)
			data.Verdict = &verdict
		}
	}

	return data, nil
}

// cachedNarrative is the stored narrative payload.
type cachedNarrative struct {
	Narrative   string    `json:"narrative"`
	Model       string    `json:"model,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Narrative generates (or returns the cached) Lynch-style analyst text
// for a symbol.
func (s *Service) Narrative(symbol string) (string, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return "", err
	}

	if s.groq == nil || !s.groq.Configured() {
		return "", fmt.Errorf("narrative generation not configured")
	}

	if s.cache != nil {
		if data, err := s.cache.GetIfFresh("narrative", symbol); err == nil && data != nil {
			var cached cachedNarrative
			if json.Unmarshal(data, &cached) == nil && cached.Narrative != "" {
				s.log.Debug().Str("symbol", symbol).Msg("Narrative cache hit")
				return cached.Narrative, nil
			}
		}
	}

	report, err := s.Analyze(symbol)
	if err != nil {
		return "", err
	}

	narrative, err := s.groq.Complete(SystemInstruction, BuildPrompt(report))
	if err != nil {
		return "", fmt.Errorf("failed to generate narrative for %s: %w", symbol, err)
	}

	if s.cache != nil {
		cached := cachedNarrative{Narrative: narrative, GeneratedAt: time.Now().UTC()}
		if err := s.cache.Store("narrative", symbol, cached, clientdata.TTLNarrative); err != nil {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache narrative")
		}
	}

	s.log.Info().Str("symbol", symbol).Msg("Narrative generated")
	return narrative, nil
}

// Invalidate drops every cached artifact for a symbol, forcing the next
// request to refetch from the provider.
func (s *Service) Invalidate(symbol string) error {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return err
	}
	if s.cache == nil {
		return nil
	}
	if err := s.cache.DeleteSymbol(symbol); err != nil {
		return fmt.Errorf("failed to invalidate cache for %s: %w", symbol, err)
	}
	s.log.Info().Str("symbol", symbol).Msg("Cache invalidated")
	return nil
}

// cachedReport returns a fresh cached report, or nil.
func (s *Service) cachedReport(symbol string) *Report {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.GetIfFresh("analysis", symbol)
	if err != nil || data == nil {
		return nil
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Corrupt cached analysis")
		return nil
	}
	return &report
}
