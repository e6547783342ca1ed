// Package validate は入力フィールドの検証を提供する。
// すべて純粋な全域関数であり、I/Oを行わない。
// 上限はすべて「未満」で判定する（上限値ちょうどの入力は拒否される）。
package validate

import (
	"strings"

	"github.com/hitoshi/notetalk/internal/model"
)

const (
	// TitleLimit はタイトルの文字数上限（この値未満を許容）。
	TitleLimit = 15
	// ContentLimit は本文の文字数上限（この値未満を許容）。
	ContentLimit = 700
	// TagsLimit はスペース区切りタグ数の上限（この値未満を許容）。
	TagsLimit = 6
	// passwordMinLen はパスワードの最小文字数。
	passwordMinLen = 8
	// passwordSymbols はパスワードに使用できる記号の固定セット。
	passwordSymbols = "@$!%*?&"
)

// Title はノートのタイトルを検証する。
func Title(title string) *model.DialogError {
	if len([]rune(title)) >= TitleLimit {
		return model.NewTitleTooLongError(TitleLimit)
	}
	return nil
}

// Content はノートの本文を検証する。
func Content(content string) *model.DialogError {
	if len([]rune(content)) >= ContentLimit {
		return model.NewContentTooLongError(ContentLimit)
	}
	return nil
}

// Tags はスペース区切りのタグ列を検証する。
// strings.Fieldsで分割するため、連続スペースや前後の空白は無視される。
func Tags(tags string) *model.DialogError {
	if len(strings.Fields(tags)) >= TagsLimit {
		return model.NewTooManyTagsError(TagsLimit)
	}
	return nil
}

// Password はパスワード強度を検証する。
// 8文字以上で、小文字・大文字・数字・記号（@$!%*?&）を各1文字以上含み、
// かつそれら以外の文字を含まないことを要求する。
func Password(password string) *model.DialogError {
	if len(password) < passwordMinLen {
		return model.NewWeakPasswordError()
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, c := range password {
		switch {
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= '0' && c <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, c):
			hasSymbol = true
		default:
			// 許可セット外の文字
			return model.NewWeakPasswordError()
		}
	}

	if !hasLower || !hasUpper || !hasDigit || !hasSymbol {
		return model.NewWeakPasswordError()
	}
	return nil
}
