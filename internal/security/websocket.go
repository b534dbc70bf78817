package security

import (
	"github.com/coder/websocket"

	"github.com/Abhishek8211/Rajamantri/internal/models"
)

// WebSocket message type validation
var validMessageTypes = map[string]bool{
	models.MsgTypeCreateRoom:        true,
	models.MsgTypeJoinRoom:          true,
	models.MsgTypeStartGame:         true,
	models.MsgTypeRevealRole:        true,
	models.MsgTypeMantriCallSipahi:  true,
	models.MsgTypeSipahiGuess:       true,
	models.MsgTypeRequestRoomUpdate: true,
	models.MsgTypeSendChatMessage:   true,
	models.MsgTypeSendEmoji:         true,
	models.MsgTypeRemovePlayer:      true,
	models.MsgTypeUpdateBotSettings: true,
}

// IsValidMessageType checks if a WebSocket message type is valid
func IsValidMessageType(msgType string) bool {
	return validMessageTypes[msgType]
}

// OriginValidator validates WebSocket connection origins
type OriginValidator struct {
	allowedPatterns []string
}

// NewOriginValidator creates a new origin validator
func NewOriginValidator(patterns []string) *OriginValidator {
	return &OriginValidator{
		allowedPatterns: patterns,
	}
}

// GetAcceptOptions returns websocket.AcceptOptions with origin patterns
func (ov *OriginValidator) GetAcceptOptions() *websocket.AcceptOptions {
	return &websocket.AcceptOptions{
		OriginPatterns: ov.allowedPatterns,
	}
}
