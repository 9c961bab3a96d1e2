package exporters

import (
	"fmt"
	"strings"
	"time"

	"gst_invoicing_backend/pkg/utils"
)

// Content types for exported documents.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// FormatIndian renders an amount with two decimals and Indian digit grouping,
// e.g. 118000 -> "1,18,000.00".
func FormatIndian(v float64) string {
	fixed := utils.FormatINR(v)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")
	if len(whole) <= 3 {
		return sign + whole + "." + frac
	}

	head, tail := whole[:len(whole)-3], whole[len(whole)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return sign + strings.Join(groups, ",") + "," + tail + "." + frac
}

// DisplayDate turns a stored YYYY-MM-DD date into DD/MM/YYYY. Other values are
// returned as they are.
func DisplayDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}

// Filename builds a download name such as "Invoice-24-03-001.pdf".
func Filename(prefix, name, ext string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '"', ' ':
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	if safe == "" {
		return fmt.Sprintf("%s.%s", prefix, ext)
	}
	return fmt.Sprintf("%s-%s.%s", prefix, safe, ext)
}
