package catalog

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fold は大文字小文字を区別しない比較のために文字列を畳み込む。
// cases.Caserはゴルーチン間で共有できないため呼び出しごとに生成する。
func Fold(s string) string {
	return cases.Fold().String(s)
}

// EqualFold は2つの文字列を大文字小文字を区別せずに比較する。
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// Capitalize は先頭の1文字を大文字に、残りを小文字にする。
// "ДИВАН" -> "Диван", "синий" -> "Синий"
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	head := cases.Upper(language.Russian).String(s[:size])
	tail := cases.Lower(language.Russian).String(s[size:])
	return head + tail
}

// FirstWord は空白区切りの最初の語を返す。空白のみの場合は空文字列を返す。
func FirstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
