package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"arbscan/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TickerDecoder извлекает bid/ask из тела ответа площадки
type TickerDecoder func(body []byte) (bid, ask float64, err error)

// RESTSourceConfig - конфигурация REST-источника котировок
type RESTSourceConfig struct {
	// Name - имя площадки (ключ таблицы комиссий)
	Name string

	// URLTemplate - шаблон URL тикера, %s заменяется на символ площадки
	URLTemplate string

	// SymbolSeparator - чем площадка заменяет '/' в символе ("" = убрать)
	SymbolSeparator string

	// Decoder разбирает ответ площадки. Пустое значение = стандартный
	// формат {"bid": "...", "ask": "..."}.
	Decoder TickerDecoder

	// Client - HTTP клиент, nil = общий клиент с пулом соединений
	Client *http.Client
}

// RESTSource опрашивает тикер площадки по HTTP.
// Каждая площадка отличается только шаблоном URL, форматом символа
// и декодером ответа.
type RESTSource struct {
	name      string
	url       string
	separator string
	decoder   TickerDecoder
	client    *http.Client
}

// NewRESTSource создаёт REST-источник котировок
func NewRESTSource(cfg RESTSourceConfig) (*RESTSource, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("source name is required")
	}
	if !strings.Contains(cfg.URLTemplate, "%s") {
		return nil, fmt.Errorf("URL template for %q must contain %%s placeholder", cfg.Name)
	}

	src := &RESTSource{
		name:      cfg.Name,
		url:       cfg.URLTemplate,
		separator: cfg.SymbolSeparator,
		decoder:   cfg.Decoder,
		client:    cfg.Client,
	}
	if src.decoder == nil {
		src.decoder = DecodeBidAsk
	}
	if src.client == nil {
		src.client = SharedHTTPClient()
	}

	return src, nil
}

// Name возвращает имя площадки
func (s *RESTSource) Name() string {
	return s.name
}

// FetchQuote запрашивает тикер и приводит его к внутреннему формату
func (s *RESTSource) FetchQuote(ctx context.Context, symbol string) (models.Quote, error) {
	url := fmt.Sprintf(s.url, s.venueSymbol(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Quote{}, fmt.Errorf("%s: build request: %w", s.name, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return models.Quote{}, fmt.Errorf("%s: fetch ticker: %w", s.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.Quote{}, fmt.Errorf("%s: %s: %w", s.name, symbol, ErrSymbolNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return models.Quote{}, fmt.Errorf("%s: unexpected status %d", s.name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return models.Quote{}, fmt.Errorf("%s: read body: %w", s.name, err)
	}

	bid, ask, err := s.decoder(body)
	if err != nil {
		return models.Quote{}, fmt.Errorf("%s: decode ticker: %w", s.name, err)
	}

	return models.Quote{
		Symbol:    symbol,
		Venue:     s.name,
		Bid:       bid,
		Ask:       ask,
		Timestamp: time.Now().UTC(),
	}, nil
}

// venueSymbol переводит "BTC/USDT" в формат площадки
func (s *RESTSource) venueSymbol(symbol string) string {
	return strings.ReplaceAll(symbol, "/", s.separator)
}

// DecodeBidAsk разбирает стандартный ответ {"bid": ..., "ask": ...}.
// Числа принимаются и строками, и числами - площадки делают по-разному.
func DecodeBidAsk(body []byte) (float64, float64, error) {
	var payload struct {
		Bid jsoniter.RawMessage `json:"bid"`
		Ask jsoniter.RawMessage `json:"ask"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, 0, err
	}

	bid, err := parseNumber(payload.Bid)
	if err != nil {
		return 0, 0, fmt.Errorf("bid: %w", err)
	}
	ask, err := parseNumber(payload.Ask)
	if err != nil {
		return 0, 0, fmt.Errorf("ask: %w", err)
	}

	return bid, ask, nil
}

func parseNumber(raw jsoniter.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("field is missing")
	}
	s := strings.Trim(string(raw), `"`)
	return strconv.ParseFloat(s, 64)
}
