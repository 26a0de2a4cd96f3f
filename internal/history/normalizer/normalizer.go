package normalizer

import (
	"errors"
	"fmt"
	"time"

	"wasabi-history/internal/history/model"
	"wasabi-history/pkg/utils"

	"github.com/shopspring/decimal"
)

const (
	// DateLayout 导出时间格式
	DateLayout = "2006-01-02 15:04:05"

	// fees / pnl / interest / principal 固定按 18 位定点编码，与 token 精度无关
	weiDecimals = 18
)

var maxTokenDecimals = decimal.NewFromInt(255)

var (
	ErrMissingField  = errors.New("missing required field")
	ErrInvalidNumber = errors.New("invalid numeric field")
)

type Normalizer struct {
	loc *time.Location
}

// New 创建标准化器，loc 为空时使用本地时区
func New(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{loc: loc}
}

// NormalizeAll 按顺序标准化整批记录，任意一条失败则整批失败
func (n *Normalizer) NormalizeAll(raws []*model.RawRecord) ([]*model.NormalizedRecord, error) {
	records := make([]*model.NormalizedRecord, 0, len(raws))
	for i, raw := range raws {
		rec, err := n.Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("normalize record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Normalize 将一条原始记录转换为展示用记录
func (n *Normalizer) Normalize(raw *model.RawRecord) (*model.NormalizedRecord, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: record", ErrMissingField)
	}
	if raw.Token == nil {
		return nil, fmt.Errorf("%w: token", ErrMissingField)
	}
	if raw.Position == nil {
		return nil, fmt.Errorf("%w: position", ErrMissingField)
	}
	if raw.Market == nil {
		return nil, fmt.Errorf("%w: market", ErrMissingField)
	}

	r := &reader{}
	ts := r.number("timestamp", raw.Timestamp)
	decimals := r.number("token.decimals", raw.Token.Decimals)
	amount := r.number("amount", raw.Amount)
	fees := r.number("fees", raw.Fees)

	rec := &model.NormalizedRecord{
		Action:          r.text("action", raw.Action),
		TransactionHash: r.text("transactionHash", raw.TransactionHash),
		TokenSymbol:     r.text("token.symbol", raw.Token.Symbol),
		TokenName:       r.text("token.name", raw.Token.Name),
		Price:           r.number("price", raw.Price),
		Fees:            utils.AdjustDecimals(fees, weiDecimals),
		ROI:             r.text("roi", raw.ROI),
		PositionID:      r.text("position.id", raw.Position.ID),
		Side:            r.text("position.side", raw.Position.Side),
		Leverage:        r.text("position.leverage", raw.Position.Leverage),
		EntryPrice:      r.text("position.entryPrice", raw.Position.EntryPrice),
		DownPayment:     r.text("position.downPayment", raw.Position.DownPayment),
		Principal:       r.text("position.principal", raw.Position.Principal),
		MarketName:      r.text("market.name", raw.Market.Name),
		Chain:           r.text("market.chain", raw.Market.Chain),
		OrderType:       r.text("orderType", raw.OrderType),
	}

	// 上游约定 "0" 表示没有盈亏
	if r.text("pnl", raw.PnL) == "0" {
		rec.PnL = decimal.Zero
	} else {
		rec.PnL = utils.AdjustDecimals(r.number("pnl", raw.PnL), weiDecimals)
	}
	if r.err != nil {
		return nil, r.err
	}

	// token 精度是 uint8，超出范围的值不能直接截断
	if !decimals.IsInteger() || decimals.IsNegative() || decimals.GreaterThan(maxTokenDecimals) {
		return nil, fmt.Errorf("%w: token.decimals=%s", ErrInvalidNumber, decimals.String())
	}

	rec.Date = time.Unix(ts.IntPart(), 0).In(n.loc).Format(DateLayout)
	rec.Amount = utils.AdjustDecimals(amount, uint8(decimals.IntPart()))

	if data := raw.Data; data != nil {
		if data.InterestPaid.Present() {
			rec.InterestPaid = decimal.NewNullDecimal(utils.AdjustDecimals(r.number("data.interestPaid", data.InterestPaid), weiDecimals))
		}
		if data.PrincipalRepaid.Present() {
			rec.PrincipalRepaid = decimal.NewNullDecimal(utils.AdjustDecimals(r.number("data.principalRepaid", data.PrincipalRepaid), weiDecimals))
		}
		if data.CollateralAmount.Present() {
			collateral := data.CollateralAmount.String()
			rec.CollateralAmount = &collateral
		}
		if r.err != nil {
			return nil, r.err
		}
	}

	return rec, nil
}

// reader 读取字段并记录第一个错误
type reader struct {
	err error
}

func (r *reader) text(name string, s model.Scalar) string {
	if r.err != nil {
		return ""
	}
	if !s.Present() {
		r.err = fmt.Errorf("%w: %s", ErrMissingField, name)
		return ""
	}
	return s.String()
}

func (r *reader) number(name string, s model.Scalar) decimal.Decimal {
	v := r.text(name, s)
	if r.err != nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		r.err = fmt.Errorf("%w: %s=%q", ErrInvalidNumber, name, v)
		return decimal.Zero
	}
	return d
}
