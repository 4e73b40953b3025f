package table

import (
	"net/url"
	"strconv"
	"strings"
	"unicode"
)

// Placeholder is replaced with the table number in custom links.
const Placeholder = "{table}"

// DefaultQRTemplate renders a 300x300 PNG for the URL-encoded link.
const DefaultQRTemplate = "https://api.qrserver.com/v1/create-qr-code/?size=300x300&data=%s&format=png"

// Link computes the URL a table's QR code points to.
func Link(link, number, baseURL string) string {
	link = strings.TrimSpace(link)
	base := strings.TrimRight(baseURL, "/")

	switch {
	case strings.Contains(link, Placeholder):
		return strings.ReplaceAll(link, Placeholder, number)
	case isAbsoluteHTTP(link):
		return link
	case link != "":
		return base + "/" + strings.TrimLeft(link, "/")
	default:
		return base + "/order/" + url.PathEscape(number)
	}
}

func isAbsoluteHTTP(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// QRImageURL puts the query-escaped outgoing link in place of the first %s
// in template. Other % sequences, such as escapes, are left as written.
func QRImageURL(template, outgoing string) string {
	if template == "" {
		template = DefaultQRTemplate
	}
	return strings.Replace(template, "%s", url.QueryEscape(outgoing), 1)
}

// NextNumber returns the number to give a new table. Non-digit characters
// are stripped from existing numbers; values that still do not parse are
// skipped rather than counted as zero.
func NextNumber(numbers []string) string {
	max, found := 0, false
	for _, n := range numbers {
		digits := strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) {
				return r
			}
			return -1
		}, n)
		v, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		if !found || v > max {
			max, found = v, true
		}
	}
	if !found {
		return strconv.Itoa(len(numbers) + 1)
	}
	return strconv.Itoa(max + 1)
}
