package form

import (
	"fmt"
	"regexp"

	"github.com/hitoshi/onmind/internal/model"
)

// 気分は本文先頭のマーカー行と気分タグの二重表現で保存される。
// 両者は保存時に必ず同期され、編集時には両方とも剥がされる。

var moodPrefixPattern = regexp.MustCompile(`^Mood: ([a-z]+)\n---\n`)

// EncodeMoodContent は本文の先頭に気分マーカーを付与する。
// 気分が未指定なら本文をそのまま返す。
func EncodeMoodContent(mood model.Mood, body string) string {
	if mood == "" {
		return body
	}
	return fmt.Sprintf("Mood: %s\n---\n%s", mood, body)
}

// DecodeMoodContent は保存済み本文から気分マーカーを取り除き、
// 気分と本文を復元する。マーカーがない場合は気分なしとして本文を返す。
func DecodeMoodContent(content string) (model.Mood, string) {
	m := moodPrefixPattern.FindStringSubmatch(content)
	if m == nil {
		return "", content
	}
	mood := model.Mood(m[1])
	if !model.IsValidMood(mood) {
		// 未知の気分はマーカーごと本文の一部として扱う
		return "", content
	}
	return mood, content[len(m[0]):]
}

// MoodFromTags はタグ列から気分タグを探して気分を返す。
func MoodFromTags(tags []string) model.Mood {
	for _, tag := range tags {
		if isMoodTag(tag) {
			mood := model.Mood(tag[len(model.MoodTagPrefix):])
			if model.IsValidMood(mood) {
				return mood
			}
		}
	}
	return ""
}
