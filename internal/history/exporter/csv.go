package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"wasabi-history/internal/history/monitor"
)

// Row 可导出的一行记录，只返回实际出现的字段
type Row interface {
	Fields() map[string]string
}

// Columns 所有行字段名的并集，按字典序排列
func Columns[R Row](rows []R) []string {
	set := make(map[string]struct{})
	for _, row := range rows {
		for k := range row.Fields() {
			set[k] = struct{}{}
		}
	}
	columns := make([]string, 0, len(set))
	for k := range set {
		columns = append(columns, k)
	}
	sort.Strings(columns)
	return columns
}

// WriteCSV 将 rows 写入 path，返回写入的行数（不含表头）。
// rows 为空时不创建文件，返回 0。
// 先写同目录下的临时文件再 rename，失败时不会留下写了一半的文件。
func WriteCSV[R Row](path string, rows []R) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	columns := Columns(rows)

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // rename 成功后为 no-op

	w := csv.NewWriter(tmp)
	if err := w.Write(columns); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(columns))
	for i, row := range rows {
		fields := row.Fields()
		for j, col := range columns {
			record[j] = fields[col] // 缺失字段为空串
		}
		if err := w.Write(record); err != nil {
			tmp.Close()
			return 0, fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("rename %s: %w", path, err)
	}

	monitor.RowsExported.WithLabelValues("file").Add(float64(len(rows)))
	return len(rows), nil
}
