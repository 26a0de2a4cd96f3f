package utils

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// ChecksumAddress 将 EVM 地址转换为 EIP-55 Checksum 格式
func ChecksumAddress(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if !common.IsHexAddress(addr) {
		return "", fmt.Errorf("invalid evm address: %q", addr)
	}
	return common.HexToAddress(addr).Hex(), nil
}

// AdjustDecimals 按精度缩小定点数，value / 10^decimals
func AdjustDecimals(value decimal.Decimal, decimals uint8) decimal.Decimal {
	return value.Shift(-int32(decimals))
}

// TradesFileName 导出文件默认名
func TradesFileName(trader string) string {
	return fmt.Sprintf("wasabi_trades-%s.csv", trader)
}
