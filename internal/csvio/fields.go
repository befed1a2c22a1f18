package csvio

import "strings"

// Column headers of the exchange format. Input matches by header name, not
// position; output emits them in this fixed order.
const (
	headerTitle      = "电影/电视剧/番组"
	headerRating     = "个人评分"
	headerRatingDate = "观影日期"
	headerReview     = "我的短评"
	headerYear       = "上映年份"
	headerCountry    = "制片国家"
	headerLink       = "条目链接"
	headerDirector   = "导演"
	headerCoverURL   = "海报URL"
	headerID         = "内部ID"
	headerCreatedAt  = "添加日期"
	headerUpdatedAt  = "最后修改日期"
)

var requiredHeaders = []string{headerTitle, headerRatingDate}

var exportHeaders = []string{
	headerTitle, headerRating, headerRatingDate, headerReview, headerYear,
	headerCountry, headerLink, headerDirector, headerCoverURL, headerID,
	headerCreatedAt, headerUpdatedAt,
}

// EncodeField escapes one CSV field: the value is wrapped in double quotes,
// with internal quotes doubled, iff it contains a comma, a newline, or a
// double quote. Anything else is emitted verbatim.
func EncodeField(value string) string {
	if !strings.ContainsAny(value, ",\n\"") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// DecodeField reverses EncodeField for a single field value.
func DecodeField(value string) string {
	fields := splitRow(value)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// splitRow splits one CSV row on top-level commas only, tracking quote state
// per character. A doubled quote inside a quoted span is a literal quote.
// Unquoted fields are trimmed; quoted fields keep their content exactly.
func splitRow(row string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false
	wasQuoted := false

	flush := func() {
		value := current.String()
		if !wasQuoted {
			value = strings.TrimSpace(value)
		}
		fields = append(fields, value)
		current.Reset()
		wasQuoted = false
	}

	for i := 0; i < len(row); i++ {
		switch ch := row[i]; {
		case ch == '"':
			if inQuotes && i+1 < len(row) && row[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
				wasQuoted = true
			}
		case ch == ',' && !inQuotes:
			flush()
		default:
			current.WriteByte(ch)
		}
	}
	flush()
	return fields
}
