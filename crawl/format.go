package crawl

import "fmt"

// FormatStatus formats harvest progress as "Status : done/total".
func FormatStatus(done, total int) string {
	return fmt.Sprintf("Status : %d/%d", done, total)
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}
