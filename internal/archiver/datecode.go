package archiver

import (
	"path/filepath"
	"strings"
	"time"
)

// dateTokens maps date-code tokens to Go reference-time fields.
// Longer tokens come first so yyyy wins over yy.
var dateTokens = strings.NewReplacer(
	"yyyy", "2006",
	"yy", "06",
	"MM", "01",
	"dd", "02",
	"HH", "15",
	"mm", "04",
	"ss", "05",
)

// FormatDateCode renders t with a date code such as "yyyyMMdd-HHmmss".
func FormatDateCode(code string, t time.Time) string {
	return t.Format(dateTokens.Replace(code))
}

// spliceDateCode inserts "_<stamp>" between the name and the extension.
func spliceDateCode(path, stamp string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + stamp + ext
}
