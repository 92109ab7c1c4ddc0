package util

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

var (
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9]+`)
	htmlTags      = regexp.MustCompile(`<[^>]*>`)
	wordsPerMin   = 200
	excerptLength = 300
)

// Slugify 根据标题生成 slug，附加时间戳保证唯一
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "post"
	}
	return fmt.Sprintf("%s-%d", slug, time.Now().UnixMilli())
}

// ReadingTime 按每分钟200词估算阅读时长（分钟，向上取整）
func ReadingTime(content string) int {
	words := len(strings.FieldsFunc(content, unicode.IsSpace))
	if words == 0 {
		return 0
	}
	return (words + wordsPerMin - 1) / wordsPerMin
}

// GenerateExcerpt 去掉HTML标签后截取前300个字符作为摘要
func GenerateExcerpt(content string) string {
	plain := htmlTags.ReplaceAllString(content, "")
	runes := []rune(plain)
	if len(runes) <= excerptLength {
		return plain
	}
	return string(runes[:excerptLength]) + "..."
}
