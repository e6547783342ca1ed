package model

// DialogState は対話の状態を表す。会話ごとに1つ持ち、外部ストレージに永続化される。
type DialogState string

const (
	// StateRegistration は未登録ユーザーのパスワード入力待ち状態。
	StateRegistration DialogState = "registration"
	// StateLogin はログインパスワード入力待ち状態。
	StateLogin DialogState = "login"
	// StateMain はメインメニュー。定常状態であり、対話はここに帰着する。
	StateMain DialogState = "main"
	// StateTitle はノートのタイトル入力待ち状態。
	StateTitle DialogState = "title"
	// StateContent はノートの本文入力待ち状態。
	StateContent DialogState = "content"
	// StateTags はノートのタグ入力待ち状態。
	StateTags DialogState = "tags"
	// StateComplete は下書きの確認待ち状態。
	StateComplete DialogState = "complete"
)

// Valid は既知のDialogStateかどうかを返す。
func (s DialogState) Valid() bool {
	switch s {
	case StateRegistration, StateLogin, StateMain,
		StateTitle, StateContent, StateTags, StateComplete:
		return true
	}
	return false
}

// EventKind は受信イベントの種別を表す。
type EventKind string

const (
	// EventStart は会話の開始イベント（/startコマンド相当）。
	EventStart EventKind = "start"
	// EventText は自由入力テキスト。
	EventText EventKind = "text"
	// EventButton はボタン押下。Payloadにボタンのコールバックトークンが入る。
	EventButton EventKind = "button"
)

// Valid は既知のEventKindかどうかを返す。
func (k EventKind) Valid() bool {
	switch k {
	case EventStart, EventText, EventButton:
		return true
	}
	return false
}

// ボタンのコールバックトークン。チャット側のキーボード定義と一致させる。
const (
	ButtonCreateNote = "create_note"
	ButtonMyNotes    = "my_notes"
	ButtonConfirm    = "confirm"
	ButtonCancel     = "cancel"
)

// Event は1件の受信イベントを表す。
// 同一ConversationIDのイベントは直列に処理される前提（トランスポート側の契約）。
type Event struct {
	ID             string    // ログ相関用。未指定なら受信時に採番される
	ConversationID string
	UserID         string
	Username       string
	Kind           EventKind
	Payload        string // テキスト本文またはボタンのコールバックトークン
}

// Reply は1イベントに対する唯一の応答を表す。
// Buttonsは遷移後の状態で押せるボタンの一覧で、薄いチャットトランスポートが
// そのままキーボードを描画できるようにする。
type Reply struct {
	Text    string      `json:"text"`
	Buttons []string    `json:"buttons,omitempty"`
	State   DialogState `json:"state"`
}
