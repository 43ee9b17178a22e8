package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"feedback-pipeline/internal/models"
)

// ContentType 报表文件固定内容类型
const ContentType = "text/csv; charset=utf-8"

// utf8BOM 报表以 BOM 开头，保证电子表格软件按 UTF-8 打开
const utf8BOM = "\uFEFF"

const separator = ";"

// 自由文本字段的有损净化：替换而非转义，保证列对齐
var fieldSanitizer = strings.NewReplacer(
	";", ",",
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
	`"`, "'",
)

var bucketLabels = map[models.Bucket]string{
	models.BucketHigh:   "Alta",
	models.BucketMedium: "Média",
	models.BucketLow:    "Baixa",
}

var bucketGlyphs = map[models.Bucket]string{
	models.BucketHigh:   "🔴",
	models.BucketMedium: "🟡",
	models.BucketLow:    "🟢",
}

var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "domingo",
	time.Monday:    "segunda-feira",
	time.Tuesday:   "terça-feira",
	time.Wednesday: "quarta-feira",
	time.Thursday:  "quinta-feira",
	time.Friday:    "sexta-feira",
	time.Saturday:  "sábado",
}

// Render 把聚合指标渲染成分号分隔的周报文档
// 返回：文档字节、确定性的存储 key、内容类型
func Render(m *models.ReportMetrics, generatedAt time.Time) ([]byte, string, string) {
	generatedAt = generatedAt.UTC()

	var b strings.Builder
	b.WriteString(utf8BOM)

	// 头部
	b.WriteString("RELATÓRIO SEMANAL DE FEEDBACKS\n")
	writeRow(&b, "Gerado em", generatedAt.Format("2006-01-02T15:04:05Z"))
	writeRow(&b, "Período", "Últimos 7 dias")
	b.WriteString("\n")

	// 执行摘要
	b.WriteString("RESUMO EXECUTIVO\n")
	writeRow(&b, "Total de feedbacks", strconv.FormatInt(m.TotalCount, 10))
	writeRow(&b, "Nota média", FormatScore(m.AverageRating))
	writeRow(&b, "Satisfação", satisfactionLabel(m.AverageRating))
	b.WriteString("\n")

	// 按紧急度统计，严重优先
	b.WriteString("FEEDBACKS POR URGÊNCIA\n")
	writeRow(&b, "Urgência", "Quantidade", "Percentual")
	for _, bucket := range []models.Bucket{models.BucketHigh, models.BucketMedium, models.BucketLow} {
		count := m.CountByBucket[bucket]
		writeRow(&b, bucketLabels[bucket], strconv.Itoa(count), percentage(count, m.TotalCount))
	}
	b.WriteString("\n")

	// 按天统计，时间顺序
	b.WriteString("FEEDBACKS POR DIA\n")
	writeRow(&b, "Data", "Dia da semana", "Quantidade")
	days := make([]string, 0, len(m.CountByDay))
	for day := range m.CountByDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		writeRow(&b, day, weekdayName(day), strconv.Itoa(m.CountByDay[day]))
	}
	b.WriteString("\n")

	// 明细，按投递顺序
	b.WriteString("DETALHAMENTO\n")
	writeRow(&b, "Indicador", "Urgência", "Descrição", "Data de criação")
	for _, row := range m.Details {
		writeRow(&b, bucketGlyphs[row.Bucket], bucketLabels[row.Bucket], row.Description, row.CreatedAt)
	}

	return []byte(b.String()), StorageKey(generatedAt), ContentType
}

// StorageKey 由生成时间派生的确定性存储 key
func StorageKey(generatedAt time.Time) string {
	generatedAt = generatedAt.UTC()
	return fmt.Sprintf("reports/%04d/%02d/relatorio-semanal-%s.csv",
		generatedAt.Year(), int(generatedAt.Month()), generatedAt.Format("2006-01-02"))
}

// FormatScore 均值展示格式：去掉多余的尾零但至少保留一位小数
// 4.57 -> "4.57"，5 -> "5.0"
func FormatScore(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func writeRow(b *strings.Builder, fields ...string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteString(separator)
		}
		b.WriteString(fieldSanitizer.Replace(field))
	}
	b.WriteString("\n")
}

func satisfactionLabel(average float64) string {
	switch {
	case average >= 4.5:
		return "Excelente"
	case average >= 4.0:
		return "Muito Bom"
	case average >= 3.0:
		return "Bom"
	case average >= 2.0:
		return "Regular"
	default:
		return "Crítico"
	}
}

func percentage(count int, total int64) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(count)*100/float64(total))
}

func weekdayName(isoDay string) string {
	t, err := time.Parse("2006-01-02", isoDay)
	if err != nil {
		return ""
	}
	return weekdayNames[t.Weekday()]
}
