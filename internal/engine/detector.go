package engine

import (
	"fmt"

	"arbscan/internal/models"
	"arbscan/pkg/utils"
)

// Detector ищет арбитражные возможности в снимке котировок.
//
// Чистая логика без состояния рынка: весь вход передаётся аргументами,
// результат детерминирован. Порядок возможностей повторяет порядок
// перебора пар котировок.
type Detector struct {
	fees      *FeeTable
	threshold float64 // минимальный чистый профит в процентах, строго больше
	logger    *utils.Logger
}

// NewDetector создаёт детектор
func NewDetector(fees *FeeTable, thresholdPct float64, logger *utils.Logger) *Detector {
	if fees == nil {
		fees = NewFeeTable(nil)
	}
	if logger == nil {
		logger = utils.L()
	}
	return &Detector{
		fees:      fees,
		threshold: thresholdPct,
		logger:    logger.WithComponent("detector"),
	}
}

// Threshold возвращает текущий порог профита в процентах
func (d *Detector) Threshold() float64 {
	return d.threshold
}

// SetThreshold меняет порог на лету.
// Вызывается сервисом настроек, гонок нет: сканер однопоточный.
func (d *Detector) SetThreshold(thresholdPct float64) {
	d.threshold = thresholdPct
}

// FindOpportunities перебирает упорядоченные пары котировок символа.
//
// Для пары (buy, sell) покупка идёт по ask площадки buy, продажа по bid
// площадки sell. Прибыль считается на одну единицу базового актива:
//
//	buyFee    = buyPrice * taker(buy)
//	totalCost = buyPrice + buyFee
//	sellFee   = sellPrice * taker(sell)
//	withdraw  = withdrawalFee(buy, base) * buyPrice
//	netProfit = (sellPrice - sellFee) - totalCost - withdraw
//
// Возможность публикуется только при netProfit > 0 и проценте профита
// строго выше порога. Комиссия вывода задана в базовом активе и
// конвертируется в USD по цене покупки.
func (d *Detector) FindOpportunities(quotes []models.Quote) []models.Opportunity {
	if len(quotes) < 2 {
		return nil
	}

	var opportunities []models.Opportunity

	for i, buy := range quotes {
		for j, sell := range quotes {
			if i == j {
				continue
			}
			if !buy.Usable() || !sell.Usable() {
				continue
			}

			buyPrice := buy.Ask
			sellPrice := sell.Bid
			if buyPrice >= sellPrice {
				continue
			}

			buySchedule := d.fees.Lookup(buy.Venue)
			sellSchedule := d.fees.Lookup(sell.Venue)

			buyFee := buyPrice * buySchedule.TakerFeeRate
			totalCost := buyPrice + buyFee

			sellFee := sellPrice * sellSchedule.TakerFeeRate
			netRevenue := sellPrice - sellFee

			baseAsset := models.BaseAsset(buy.Symbol)
			withdrawalFeeUSD := buySchedule.WithdrawalFee(baseAsset) * buyPrice

			netProfit := netRevenue - totalCost - withdrawalFeeUSD
			if netProfit <= 0 {
				continue
			}

			profitPct := netProfit / totalCost * 100
			if profitPct <= d.threshold {
				continue
			}

			opp := models.Opportunity{
				ID:          fmt.Sprintf("%s-%s-%s", buy.Symbol, buy.Venue, sell.Venue),
				Symbol:      buy.Symbol,
				BuyVenue:    buy.Venue,
				SellVenue:   sell.Venue,
				BuyPrice:    utils.Round4(buyPrice),
				SellPrice:   utils.Round4(sellPrice),
				GrossProfit: utils.Round4(sellPrice - buyPrice),
				TotalFees:   utils.Round4(buyFee + sellFee + withdrawalFeeUSD),
				NetProfit:   utils.Round4(netProfit),
				ProfitPct:   utils.Round4(profitPct),
			}
			opportunities = append(opportunities, opp)

			d.logger.Debug("найдена возможность",
				utils.Symbol(opp.Symbol),
				utils.String("buy_at", opp.BuyVenue),
				utils.String("sell_at", opp.SellVenue),
				utils.Profit(opp.NetProfit),
				utils.Spread(opp.ProfitPct),
			)
		}
	}

	return opportunities
}

// Scan прогоняет детектор по снимку нескольких символов.
// Символы обходятся в порядке переданного списка.
func (d *Detector) Scan(symbols []string, snapshot map[string][]models.Quote) []models.Opportunity {
	var all []models.Opportunity
	for _, symbol := range symbols {
		all = append(all, d.FindOpportunities(snapshot[symbol])...)
	}
	return all
}
