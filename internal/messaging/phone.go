package messaging

import (
	"regexp"
	"strings"
)

var phoneDigitsRe = regexp.MustCompile(`\d+`)

const whatsAppPrefix = "whatsapp:"

// NormalizeE164 ensures the value begins with + and only contains digits afterward.
// A leading whatsapp: channel prefix is dropped.
func NormalizeE164(value string) string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, whatsAppPrefix)
	if value == "" {
		return ""
	}
	digits := strings.Join(phoneDigitsRe.FindAllString(value, -1), "")
	if digits == "" {
		return ""
	}
	return "+" + digits
}

// WhatsAppAddress formats a number as a WhatsApp channel address.
func WhatsAppAddress(value string) string {
	if strings.HasPrefix(value, whatsAppPrefix) {
		return value
	}
	return whatsAppPrefix + NormalizeE164(value)
}
