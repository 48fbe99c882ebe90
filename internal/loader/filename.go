package loader

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/hitoshi/cozyyu/internal/catalog"
)

var (
	childrenPrefix = regexp.MustCompile(`(?i)^детям\d*\s*`)
	// 種類名に続く連番（例: "кровать1 "）
	gluedDigits = regexp.MustCompile(`^([\p{L}\p{N}_]+?)(\p{N}+)\s+`)
)

// ParseFilename は画像ファイル名から商品の種類・スタイル・色を取り出す。
// 名前が2語未満の場合はok=falseを返す。styleとcolorは該当しない場合は空文字列。
//
//	"кровать1 Стандарт Белый.jpg" -> ("кровать", "стандарт", "белый")
//	"плед красный.png"            -> ("плед", "", "красный")
func ParseFilename(filename string) (itemType, style, color string, ok bool) {
	name := norm.NFC.String(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = childrenPrefix.ReplaceAllString(name, "")
	name = gluedDigits.ReplaceAllString(name, "$1 ")

	parts := strings.Fields(strings.ToLower(name))
	if len(parts) < 2 {
		return "", "", "", false
	}

	itemType = parts[0]
	if _, known := catalog.StyleKey(parts[1]); known {
		style = parts[1]
	}

	switch {
	case len(parts) >= 3:
		color = parts[len(parts)-1]
	case style == "":
		color = parts[1]
	}
	return itemType, style, color, true
}
