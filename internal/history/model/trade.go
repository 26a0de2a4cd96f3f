package model

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
)

// ErrMalformedPage 分页响应缺少 items/hasNextPage，或声明有下一页却没有游标
var ErrMalformedPage = errors.New("malformed trade history page")

// Page tradeHistory 接口的一页返回
type Page struct {
	Items         []RawRecord `json:"items"`
	HasNextPage   bool        `json:"hasNextPage"`
	NextPageToken Scalar      `json:"nextPageToken"`

	hasItems    bool
	hasNextFlag bool
}

// UnmarshalJSON 记录 items/hasNextPage 是否出现，供 Validate 使用
func (p *Page) UnmarshalJSON(data []byte) error {
	var wire struct {
		Items         *[]RawRecord `json:"items"`
		HasNextPage   *bool        `json:"hasNextPage"`
		NextPageToken Scalar       `json:"nextPageToken"`
	}
	if err := sonic.Unmarshal(data, &wire); err != nil {
		return err
	}
	*p = Page{NextPageToken: wire.NextPageToken}
	if wire.Items != nil {
		p.Items, p.hasItems = *wire.Items, true
	}
	if wire.HasNextPage != nil {
		p.HasNextPage, p.hasNextFlag = *wire.HasNextPage, true
	}
	return nil
}

// Validate 检查分页响应的结构，不检查 items 里的记录
func (p *Page) Validate() error {
	if !p.hasItems {
		return fmt.Errorf("%w: missing items", ErrMalformedPage)
	}
	if !p.hasNextFlag {
		return fmt.Errorf("%w: missing hasNextPage", ErrMalformedPage)
	}
	if p.HasNextPage && (p.NextPageToken.IsNull() || p.NextPageToken.String() == "") {
		return fmt.Errorf("%w: hasNextPage without nextPageToken", ErrMalformedPage)
	}
	return nil
}

// RawRecord 接口返回的原始成交事件，只在分页和标准化之间短暂存在
type RawRecord struct {
	Timestamp       Scalar    `json:"timestamp"` // unix 秒
	Action          Scalar    `json:"action"`
	TransactionHash Scalar    `json:"transactionHash"`
	Token           *Token    `json:"token"`
	Price           Scalar    `json:"price"`
	Amount          Scalar    `json:"amount"` // 按 token.decimals 放大的整数
	Fees            Scalar    `json:"fees"`   // 18 位定点
	PnL             Scalar    `json:"pnl"`    // 18 位定点，"0" 表示无盈亏
	ROI             Scalar    `json:"roi"`
	Position        *Position `json:"position"`
	Market          *Market   `json:"market"`
	OrderType       Scalar    `json:"orderType"`
	Data            *Data     `json:"data,omitempty"`
}

type Token struct {
	Symbol   Scalar `json:"symbol"`
	Name     Scalar `json:"name"`
	Decimals Scalar `json:"decimals"`
}

type Position struct {
	ID          Scalar `json:"id"`
	Side        Scalar `json:"side"`
	Leverage    Scalar `json:"leverage"`
	EntryPrice  Scalar `json:"entryPrice"`
	DownPayment Scalar `json:"downPayment"`
	Principal   Scalar `json:"principal"`
}

type Market struct {
	Name  Scalar `json:"name"`
	Chain Scalar `json:"chain"`
}

// Data 与订单类型相关的可选字段（开仓/平仓/清算）
type Data struct {
	InterestPaid     Scalar `json:"interestPaid"`
	PrincipalRepaid  Scalar `json:"principalRepaid"`
	CollateralAmount Scalar `json:"collateralAmount"`
}

// 导出列名
const (
	ColDate             = "date"
	ColAction           = "action"
	ColTransactionHash  = "transaction_hash"
	ColTokenSymbol      = "token_symbol"
	ColTokenName        = "token_name"
	ColPrice            = "price"
	ColAmount           = "amount"
	ColFees             = "fees"
	ColPnL              = "pnl"
	ColROI              = "roi"
	ColPositionID       = "position_id"
	ColSide             = "side"
	ColLeverage         = "leverage"
	ColEntryPrice       = "entry_price"
	ColDownPayment      = "down_payment"
	ColPrincipal        = "principal"
	ColMarketName       = "market_name"
	ColChain            = "chain"
	ColOrderType        = "order_type"
	ColInterestPaid     = "interest_paid"
	ColPrincipalRepaid  = "principal_repaid"
	ColCollateralAmount = "collateral_amount"
)

// NormalizedRecord 一条可直接展示的成交记录
type NormalizedRecord struct {
	Date            string          // 2006-01-02 15:04:05
	Action          string
	TransactionHash string
	TokenSymbol     string
	TokenName       string
	Price           decimal.Decimal
	Amount          decimal.Decimal
	Fees            decimal.Decimal
	PnL             decimal.Decimal
	ROI             string
	PositionID      string
	Side            string
	Leverage        string
	EntryPrice      string
	DownPayment     string
	Principal       string
	MarketName      string
	Chain           string
	OrderType       string

	// 以下字段仅当原始记录 data 中存在对应 key 时才有值
	InterestPaid     decimal.NullDecimal
	PrincipalRepaid  decimal.NullDecimal
	CollateralAmount *string
}

// Fields 返回该记录所有出现的字段，未出现的可选字段不包含在内
func (r *NormalizedRecord) Fields() map[string]string {
	fields := map[string]string{
		ColDate:            r.Date,
		ColAction:          r.Action,
		ColTransactionHash: r.TransactionHash,
		ColTokenSymbol:     r.TokenSymbol,
		ColTokenName:       r.TokenName,
		ColPrice:           r.Price.String(),
		ColAmount:          r.Amount.String(),
		ColFees:            r.Fees.String(),
		ColPnL:             r.PnL.String(),
		ColROI:             r.ROI,
		ColPositionID:      r.PositionID,
		ColSide:            r.Side,
		ColLeverage:        r.Leverage,
		ColEntryPrice:      r.EntryPrice,
		ColDownPayment:     r.DownPayment,
		ColPrincipal:       r.Principal,
		ColMarketName:      r.MarketName,
		ColChain:           r.Chain,
		ColOrderType:       r.OrderType,
	}
	if r.InterestPaid.Valid {
		fields[ColInterestPaid] = r.InterestPaid.Decimal.String()
	}
	if r.PrincipalRepaid.Valid {
		fields[ColPrincipalRepaid] = r.PrincipalRepaid.Decimal.String()
	}
	if r.CollateralAmount != nil {
		fields[ColCollateralAmount] = *r.CollateralAmount
	}
	return fields
}
