package dialog

import (
	"fmt"
	"strings"

	"github.com/hitoshi/notetalk/internal/model"
)

// 状態ごとの定型プロンプト。
const (
	mainMenuText      = "メインメニューです。ボタンを選ぶか、タグを入力してノートを検索してください。"
	titlePromptText   = "ノートのタイトルを入力してください（15文字未満）。"
	contentPromptText = "本文を入力してください（700文字未満）。"
	tagsPromptText    = "タグをスペース区切りで入力してください（6個未満）。"
	cancelledText     = "ノートの作成をキャンセルしました。"
)

// buttonsForState は遷移後の状態で押せるボタンの一覧を返す。
// 薄いチャットトランスポートがそのままキーボードを描画できるようにする。
func buttonsForState(state model.DialogState) []string {
	switch state {
	case model.StateMain:
		return []string{model.ButtonCreateNote, model.ButtonMyNotes}
	case model.StateTitle, model.StateContent, model.StateTags:
		return []string{model.ButtonCancel}
	case model.StateComplete:
		return []string{model.ButtonConfirm, model.ButtonCancel}
	default:
		return nil
	}
}

// formatDraftSummary は確認画面に提示する下書きの要約を組み立てる。
// Title→Content→Tagsで積んだ3つの値がそのまま読み戻される。
func formatDraftSummary(d model.Draft) string {
	var b strings.Builder
	b.WriteString("以下の内容でノートを作成します。\n\n")
	fmt.Fprintf(&b, "タイトル: %s\n", d.Title)
	fmt.Fprintf(&b, "本文: %s\n", d.Content)
	fmt.Fprintf(&b, "タグ: %s", d.Tags)
	return b.String()
}

// formatNotes はバックエンドから受け取ったノート一覧を応答本文に整形する。
// タイトル・本文・タグはサニタイズしてから埋め込む。
func (e *Engine) formatNotes(notes []model.Note) string {
	parts := make([]string, 0, len(notes))
	for _, n := range notes {
		var b strings.Builder
		fmt.Fprintf(&b, "【%s】\n", e.sanitizer.Sanitize(n.Title))
		b.WriteString(e.sanitizer.Sanitize(n.Content))
		if tags := e.sanitizer.Sanitize(n.Tags); tags != "" {
			fmt.Fprintf(&b, "\nタグ: %s", tags)
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n\n")
}
