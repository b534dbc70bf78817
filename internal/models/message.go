package models

import "encoding/json"

type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client → Server message types
const (
	MsgTypeCreateRoom        = "create-room"
	MsgTypeJoinRoom          = "join-room"
	MsgTypeStartGame         = "start-game"
	MsgTypeRevealRole        = "reveal-role"
	MsgTypeMantriCallSipahi  = "mantri-call-sipahi"
	MsgTypeSipahiGuess       = "sipahi-guess"
	MsgTypeRequestRoomUpdate = "request-room-update"
	MsgTypeSendChatMessage   = "send-chat-message"
	MsgTypeSendEmoji         = "send-emoji"
	MsgTypeRemovePlayer      = "remove-player"
	MsgTypeUpdateBotSettings = "update-bot-settings"
)

// Server → Client message types
const (
	MsgTypeRoomCreated        = "room-created"
	MsgTypeRoomJoined         = "room-joined"
	MsgTypeRoomUpdated        = "room-updated"
	MsgTypePlayerJoined       = "player-joined"
	MsgTypePlayerRevealed     = "player-revealed"
	MsgTypeAllRolesRevealed   = "all-roles-revealed"
	MsgTypeMantriCalledSipahi = "mantri-called-sipahi"
	MsgTypeSipahiGuessed      = "sipahi-guessed"
	MsgTypeGuessProcessed     = "guess-processed"
	MsgTypeNextRoundStarted   = "next-round-started"
	MsgTypeGameFinished       = "game-finished"
	MsgTypeNewChatMessage     = "new-chat-message"
	MsgTypeKickedFromRoom     = "kicked-from-room"
	MsgTypeError              = "error"
)

// Inbound payloads. These form the closed set of intents the ws handler
// decodes; the dispatch switch in handlers covers every variant.

type CreateRoomPayload struct {
	Username    string     `json:"username"`
	RoundTarget int        `json:"rounds"`
	BotConfig   *BotConfig `json:"botConfig,omitempty"`
}

type JoinRoomPayload struct {
	Code     string `json:"code"`
	Username string `json:"username"`
}

type RoomOnlyPayload struct {
	Code string `json:"code"`
}

type TargetPayload struct {
	Code     string `json:"code"`
	TargetID string `json:"targetId"`
}

type ChatPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type EmojiPayload struct {
	Code  string `json:"code"`
	Emoji string `json:"emoji"`
}

type BotSettingsPayload struct {
	Code      string    `json:"code"`
	BotConfig BotConfig `json:"botConfig"`
}

// Outbound payloads.

type PlayerRevealedPayload struct {
	PlayerID    string `json:"playerId"`
	AllRevealed bool   `json:"allRevealed"`
}

type MantriCalledSipahiPayload struct {
	MantriID string `json:"mantriId"`
	SipahiID string `json:"sipahiId"`
}

type SipahiGuessedPayload struct {
	SipahiID string `json:"sipahiId"`
	TargetID string `json:"targetId"`
}

type ChatMessagePayload struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
	System    bool   `json:"system,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// NewMessage marshals payload into a ready-to-send frame. Marshaling our own
// payload types cannot fail; an error here is a programming bug.
func NewMessage(msgType string, payload any) *WSMessage {
	raw, err := json.Marshal(payload)
	if err != nil {
		panic("models: unmarshalable outbound payload: " + err.Error())
	}
	return &WSMessage{Type: msgType, Payload: raw}
}
