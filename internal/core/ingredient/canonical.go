package ingredient

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var parenthesized = regexp.MustCompile(`\([^)]*\)`)

// trailingQualifiers 名稱結尾可移除的處理狀態
var trailingQualifiers = map[string]struct{}{
	"raw": {}, "fresh": {}, "whole": {}, "uncooked": {}, "unprepared": {},
	"ripe": {}, "mature": {}, "plain": {}, "regular": {}, "nfs": {},
}

// CanonicalName 由參考描述推導去重用的標準名稱
// "Tomatoes, red, ripe, raw" → "Tomatoes"
func CanonicalName(description string) string {
	s := parenthesized.ReplaceAllString(description, " ")
	s = strings.SplitN(s, ",", 2)[0]

	fields := strings.Fields(s)
	for len(fields) > 1 {
		if _, ok := trailingQualifiers[strings.ToLower(fields[len(fields)-1])]; !ok {
			break
		}
		fields = fields[:len(fields)-1]
	}

	name := strings.ToLower(strings.Join(fields, " "))
	if name == "" {
		return ""
	}

	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

// canonicalKey 去重分組鍵
func canonicalKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
