// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer は顧客メモや施術メニュー説明などの自由記述欄から
// HTMLマークアップを取り除き、プレーンテキストとして保存できるようにする。
// bluemondayのStrictPolicyを使用し、タグを一切通過させない。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService は自由記述欄のサニタイズ機能のインターフェースを定義する。
// 各ドメインサービスが保存前に使用する。
type ContentSanitizerService interface {
	// Sanitize はマークアップを含む入力からタグを除去する。
	// '<' と '>' を含まない入力はそのまま返す。
	Sanitize(text string) string
	// SanitizeOptional はnilを許容する自由記述欄向けのSanitize。
	SanitizeOptional(text *string) *string
}

// TextSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーはスレッドセーフなため、1インスタンスを共有してよい。
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerを生成する。
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はマークアップを含む入力からタグを除去する。
// プレーンテキストはエスケープも含めて一切変更しない。
// 保存先はHTMLではないため、bluemondayが付与した文字参照は元の文字に戻す。
func (s *TextSanitizer) Sanitize(text string) string {
	if !strings.ContainsAny(text, "<>") {
		return text
	}
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(text)))
}

// SanitizeOptional はnilの場合nilを返し、それ以外はSanitizeの結果へのポインタを返す。
func (s *TextSanitizer) SanitizeOptional(text *string) *string {
	if text == nil {
		return nil
	}
	sanitized := s.Sanitize(*text)
	return &sanitized
}

var _ ContentSanitizerService = (*TextSanitizer)(nil)
