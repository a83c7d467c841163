package metadata

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// pageMetadata はHTMLから解析したメタデータ。
type pageMetadata struct {
	title       string
	description string
}

// parsePageMetadata はHTMLのheadタグからOpen Graphプロパティと
// titleタグを解析する。og:title / og:description を優先し、
// なければ <title> と meta name="description" にフォールバックする。
func parsePageMetadata(htmlBody []byte) pageMetadata {
	var meta pageMetadata
	var fallbackTitle, fallbackDescription string

	tokenizer := html.NewTokenizer(bytes.NewReader(htmlBody))
	inTitle := false

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return finishMetadata(meta, fallbackTitle, fallbackDescription)

		case html.StartTagToken, html.SelfClosingTagToken:
			tn, hasAttr := tokenizer.TagName()
			tagName := string(tn)

			if tagName == "body" {
				// bodyに入ったらheadの解析を終了
				return finishMetadata(meta, fallbackTitle, fallbackDescription)
			}
			if tagName == "title" {
				inTitle = true
				continue
			}
			if tagName != "meta" || !hasAttr {
				continue
			}

			var property, name, content string
			for {
				key, val, more := tokenizer.TagAttr()
				switch strings.ToLower(string(key)) {
				case "property":
					property = strings.ToLower(string(val))
				case "name":
					name = strings.ToLower(string(val))
				case "content":
					content = string(val)
				}
				if !more {
					break
				}
			}

			switch property {
			case "og:title":
				meta.title = content
			case "og:description":
				meta.description = content
			}
			if name == "description" && fallbackDescription == "" {
				fallbackDescription = content
			}

		case html.TextToken:
			if inTitle && fallbackTitle == "" {
				fallbackTitle = strings.TrimSpace(string(tokenizer.Text()))
			}

		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "title" {
				inTitle = false
			}
		}
	}
}

// finishMetadata はOGプロパティの欠けをフォールバック値で補う。
func finishMetadata(meta pageMetadata, fallbackTitle, fallbackDescription string) pageMetadata {
	if meta.title == "" {
		meta.title = fallbackTitle
	}
	if meta.description == "" {
		meta.description = fallbackDescription
	}
	return meta
}
