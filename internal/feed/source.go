// Package feed отвечает за получение котировок с торговых площадок.
package feed

import (
	"context"
	"errors"

	"arbscan/internal/models"
)

// Ошибки пакета
var (
	ErrNotEnoughSources = errors.New("at least 2 quote sources are required")
	ErrDuplicateSource  = errors.New("duplicate quote source name")
	ErrSymbolNotFound   = errors.New("symbol not available on this source")
)

// QuoteSource определяет унифицированный интерфейс источника котировок
type QuoteSource interface {
	// Name возвращает имя площадки
	Name() string

	// FetchQuote получает текущую котировку символа
	FetchQuote(ctx context.Context, symbol string) (models.Quote, error)
}
