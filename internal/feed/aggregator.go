package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"arbscan/internal/models"
	"arbscan/pkg/utils"
)

// Aggregator собирает котировки со всех площадок параллельно.
//
// Неудачные и невалидные ответы отбрасываются: частичный снимок рынка
// лучше отсутствия снимка, а детектору всё равно нужны минимум две
// котировки на символ.
type Aggregator struct {
	sources      []QuoteSource
	fetchTimeout time.Duration
	logger       *utils.Logger
}

// NewAggregator создаёт агрегатор.
// Возвращает ошибку при менее чем двух источниках или дубликатах имён.
func NewAggregator(sources []QuoteSource, fetchTimeout time.Duration, logger *utils.Logger) (*Aggregator, error) {
	if len(sources) < 2 {
		return nil, fmt.Errorf("%w, got %d", ErrNotEnoughSources, len(sources))
	}

	seen := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		if _, ok := seen[src.Name()]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSource, src.Name())
		}
		seen[src.Name()] = struct{}{}
	}

	if fetchTimeout <= 0 {
		fetchTimeout = 3 * time.Second
	}
	if logger == nil {
		logger = utils.L()
	}

	return &Aggregator{
		sources:      sources,
		fetchTimeout: fetchTimeout,
		logger:       logger.WithComponent("aggregator"),
	}, nil
}

// Venues возвращает имена источников в порядке регистрации
func (a *Aggregator) Venues() []string {
	names := make([]string, len(a.sources))
	for i, src := range a.sources {
		names[i] = src.Name()
	}
	return names
}

// FetchAll опрашивает все площадки параллельно и возвращает пригодные
// котировки символа в порядке регистрации источников.
//
// Каждый источник получает собственный таймаут, медленная площадка
// не задерживает остальных дольше fetchTimeout.
func (a *Aggregator) FetchAll(ctx context.Context, symbol string) []models.Quote {
	results := make([]*models.Quote, len(a.sources))

	var wg sync.WaitGroup
	for i, src := range a.sources {
		wg.Add(1)
		go func(i int, src QuoteSource) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
			defer cancel()

			start := time.Now()
			quote, err := src.FetchQuote(fetchCtx, symbol)
			QuoteFetchLatency.WithLabelValues(src.Name()).Observe(float64(time.Since(start).Milliseconds()))
			if err != nil {
				QuotesFetched.WithLabelValues(src.Name(), "error").Inc()
				a.logger.Warn("не удалось получить котировку",
					utils.Venue(src.Name()),
					utils.Symbol(symbol),
					utils.Err(err),
				)
				return
			}

			if !quote.Usable() {
				QuotesFetched.WithLabelValues(src.Name(), "unusable").Inc()
				a.logger.Warn("котировка отброшена как непригодная",
					utils.Venue(src.Name()),
					utils.Symbol(symbol),
					utils.Float64("bid", quote.Bid),
					utils.Float64("ask", quote.Ask),
				)
				return
			}

			QuotesFetched.WithLabelValues(src.Name(), "ok").Inc()
			a.logger.Debug("котировка получена",
				utils.Venue(src.Name()),
				utils.Symbol(symbol),
				utils.Latency(float64(time.Since(start).Milliseconds())),
			)
			results[i] = &quote
		}(i, src)
	}
	wg.Wait()

	// Компактизация с сохранением порядка источников
	quotes := make([]models.Quote, 0, len(a.sources))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}

	return quotes
}

// FetchSnapshot собирает котировки для набора символов.
// Символы опрашиваются последовательно, площадки внутри символа - параллельно.
func (a *Aggregator) FetchSnapshot(ctx context.Context, symbols []string) map[string][]models.Quote {
	snapshot := make(map[string][]models.Quote, len(symbols))
	for _, symbol := range symbols {
		if ctx.Err() != nil {
			break
		}
		snapshot[symbol] = a.FetchAll(ctx, symbol)
	}
	return snapshot
}
