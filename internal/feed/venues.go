package feed

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// venues.go - встроенные конфигурации известных площадок
//
// Каждая площадка отдаёт тикер в собственном формате, поэтому для
// каждой свой шаблон URL и декодер. Площадки без встроенной
// конфигурации подключаются через NewRESTSource напрямую.

// builtinVenues - реестр известных площадок
var builtinVenues = map[string]RESTSourceConfig{
	"binance": {
		Name:            "binance",
		URLTemplate:     "https://api.binance.com/api/v3/ticker/bookTicker?symbol=%s",
		SymbolSeparator: "",
		Decoder:         decodeBinanceTicker,
	},
	"kraken": {
		Name:            "kraken",
		URLTemplate:     "https://api.kraken.com/0/public/Ticker?pair=%s",
		SymbolSeparator: "",
		Decoder:         decodeKrakenTicker,
	},
	"bybit": {
		Name:            "bybit",
		URLTemplate:     "https://api.bybit.com/v5/market/tickers?category=spot&symbol=%s",
		SymbolSeparator: "",
		Decoder:         decodeBybitTicker,
	},
}

// BuiltinVenues возвращает имена площадок со встроенной конфигурацией
func BuiltinVenues() []string {
	names := make([]string, 0, len(builtinVenues))
	for name := range builtinVenues {
		names = append(names, name)
	}
	return names
}

// NewBuiltinSource создаёт источник котировок известной площадки
func NewBuiltinSource(name string) (*RESTSource, error) {
	cfg, ok := builtinVenues[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("no builtin configuration for venue %q", name)
	}
	return NewRESTSource(cfg)
}

// decodeBinanceTicker разбирает ответ bookTicker:
// {"symbol":"BTCUSDT","bidPrice":"50000.00","askPrice":"50001.00",...}
func decodeBinanceTicker(body []byte) (float64, float64, error) {
	var payload struct {
		BidPrice jsoniter.RawMessage `json:"bidPrice"`
		AskPrice jsoniter.RawMessage `json:"askPrice"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, 0, err
	}

	bid, err := parseNumber(payload.BidPrice)
	if err != nil {
		return 0, 0, fmt.Errorf("bidPrice: %w", err)
	}
	ask, err := parseNumber(payload.AskPrice)
	if err != nil {
		return 0, 0, fmt.Errorf("askPrice: %w", err)
	}
	return bid, ask, nil
}

// decodeKrakenTicker разбирает ответ public/Ticker:
// {"error":[],"result":{"XXBTZUSD":{"a":["50001.0","1","1.0"],"b":["50000.0","1","1.0"]}}}
//
// Ключ в result зависит от внутреннего имени пары, поэтому берётся
// первая (и единственная) запись.
func decodeKrakenTicker(body []byte) (float64, float64, error) {
	var payload struct {
		Error  []string `json:"error"`
		Result map[string]struct {
			Ask []jsoniter.RawMessage `json:"a"`
			Bid []jsoniter.RawMessage `json:"b"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, 0, err
	}
	if len(payload.Error) > 0 {
		return 0, 0, fmt.Errorf("venue error: %s", strings.Join(payload.Error, "; "))
	}

	for _, ticker := range payload.Result {
		if len(ticker.Bid) == 0 || len(ticker.Ask) == 0 {
			return 0, 0, fmt.Errorf("ticker entry has no bid/ask")
		}
		bid, err := parseNumber(ticker.Bid[0])
		if err != nil {
			return 0, 0, fmt.Errorf("bid: %w", err)
		}
		ask, err := parseNumber(ticker.Ask[0])
		if err != nil {
			return 0, 0, fmt.Errorf("ask: %w", err)
		}
		return bid, ask, nil
	}
	return 0, 0, fmt.Errorf("empty ticker result")
}

// decodeBybitTicker разбирает ответ v5/market/tickers:
// {"retCode":0,"result":{"list":[{"bid1Price":"50000","ask1Price":"50001",...}]}}
func decodeBybitTicker(body []byte) (float64, float64, error) {
	var payload struct {
		RetCode int    `json:"retCode"`
		RetMsg  string `json:"retMsg"`
		Result  struct {
			List []struct {
				Bid jsoniter.RawMessage `json:"bid1Price"`
				Ask jsoniter.RawMessage `json:"ask1Price"`
			} `json:"list"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, 0, err
	}
	if payload.RetCode != 0 {
		return 0, 0, fmt.Errorf("venue error %d: %s", payload.RetCode, payload.RetMsg)
	}
	if len(payload.Result.List) == 0 {
		return 0, 0, fmt.Errorf("empty ticker list")
	}

	bid, err := parseNumber(payload.Result.List[0].Bid)
	if err != nil {
		return 0, 0, fmt.Errorf("bid1Price: %w", err)
	}
	ask, err := parseNumber(payload.Result.List[0].Ask)
	if err != nil {
		return 0, 0, fmt.Errorf("ask1Price: %w", err)
	}
	return bid, ask, nil
}
