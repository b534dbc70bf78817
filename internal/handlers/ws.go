package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/Abhishek8211/Rajamantri/internal/config"
	"github.com/Abhishek8211/Rajamantri/internal/game"
	"github.com/Abhishek8211/Rajamantri/internal/models"
	"github.com/Abhishek8211/Rajamantri/internal/security"
	"github.com/Abhishek8211/Rajamantri/internal/services"
)

const maxEmojiLength = 16

type WSHandler struct {
	hub      *services.Hub
	registry *game.Registry
	metrics  *services.Metrics
	origins  *security.OriginValidator
}

func NewWSHandler(hub *services.Hub, registry *game.Registry, metrics *services.Metrics, origins *security.OriginValidator) *WSHandler {
	return &WSHandler{
		hub:      hub,
		registry: registry,
		metrics:  metrics,
		origins:  origins,
	}
}

// HandleWebSocket upgrades the connection and runs its read loop. The seat
// id is minted per connection; it is the identity for every intent on this
// socket until it closes.
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, h.origins.GetAcceptOptions())
	if err != nil {
		h.metrics.IncrementConnectionErrors()
		log.Printf("❌ WebSocket accept failed: %v", err)
		return
	}

	h.metrics.IncrementConnections()
	seatID := uuid.NewString()
	client := services.NewClient(conn, h.hub, "", seatID)
	client.StartWritePump()

	log.Printf("✓ Connection opened: seat=%s", seatID)

	sess := &connSession{handler: h, client: client, seatID: seatID}
	defer func() {
		if sess.room != nil {
			sess.room.HandleDisconnect(seatID)
			h.hub.Unregister(sess.room.Code(), client)
		}
		client.Close()
		h.metrics.DecrementConnections()
		log.Printf("✓ Connection closed: seat=%s", seatID)
	}()

	for {
		data, err := client.Read()
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure &&
				websocket.CloseStatus(err) != websocket.StatusGoingAway {
				h.metrics.IncrementConnectionErrors()
			}
			return
		}

		if !client.CheckRateLimit() {
			h.metrics.IncrementRateLimitViolations()
			sess.sendError("Rate limit exceeded. Please slow down.")
			continue
		}
		h.metrics.IncrementMessagesReceived()

		var msg models.WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sess.sendError("Malformed message")
			continue
		}
		if !security.IsValidMessageType(msg.Type) {
			sess.sendError("Unknown message type")
			continue
		}

		if err := sess.dispatch(&msg); err != nil {
			sess.sendError(err.Error())
		}
	}
}

// connSession is the per-connection state: which room (if any) this seat
// currently occupies.
type connSession struct {
	handler *WSHandler
	client  *services.Client
	seatID  string
	room    *game.Room
}

// dispatch routes one decoded intent. The switch is exhaustive over the
// closed set of inbound message types; IsValidMessageType has already
// rejected anything else.
func (s *connSession) dispatch(msg *models.WSMessage) error {
	switch msg.Type {
	case models.MsgTypeCreateRoom:
		var p models.CreateRoomPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("malformed payload")
		}
		return s.createRoom(p)

	case models.MsgTypeJoinRoom:
		var p models.JoinRoomPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("malformed payload")
		}
		return s.joinRoom(p)

	case models.MsgTypeStartGame:
		room, err := s.resolveRoom(msg.Payload)
		if err != nil {
			return err
		}
		return room.Start(s.seatID)

	case models.MsgTypeRevealRole:
		room, err := s.resolveRoom(msg.Payload)
		if err != nil {
			return err
		}
		return room.Reveal(s.seatID)

	case models.MsgTypeMantriCallSipahi:
		var p models.TargetPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("malformed payload")
		}
		room, err := s.lookup(p.Code)
		if err != nil {
			return err
		}
		return room.CallSipahi(s.seatID, p.TargetID)

	case models.MsgTypeSipahiGuess:
		var p models.TargetPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("malformed payload")
		}
		room, err := s.lookup(p.Code)
		if err != nil {
			return err
		}
		return room.SipahiGuess(s.seatID, p.TargetID)

	case models.MsgTypeRequestRoomUpdate:
		room, err := s.resolveRoom(msg.Payload)
		if err != nil {
			return err
		}
		return room.RequestUpdate(s.seatID)

	case models.MsgTypeSendChatMessage:
		var p models.ChatPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("malformed payload")
		}
		text, err := security.ValidateChatMessage(p.Message)
		if err != nil {
			return err
		}
		room, err := s.lookup(p.Code)
		if err != nil {
			return err
		}
		return room.Chat(s.seatID, text)

	case models.MsgTypeSendEmoji:
		var p models.EmojiPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("malformed payload")
		}
		if p.Emoji == "" || len(p.Emoji) > maxEmojiLength {
			return fmt.Errorf("invalid emoji")
		}
		room, err := s.lookup(p.Code)
		if err != nil {
			return err
		}
		return room.Chat(s.seatID, p.Emoji)

	case models.MsgTypeRemovePlayer:
		var p models.TargetPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("malformed payload")
		}
		room, err := s.lookup(p.Code)
		if err != nil {
			return err
		}
		return room.RemovePlayer(s.seatID, p.TargetID)

	case models.MsgTypeUpdateBotSettings:
		var p models.BotSettingsPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("malformed payload")
		}
		room, err := s.lookup(p.Code)
		if err != nil {
			return err
		}
		return room.UpdateBotSettings(s.seatID, p.BotConfig)
	}

	return fmt.Errorf("unknown message type")
}

func (s *connSession) createRoom(p models.CreateRoomPayload) error {
	s.syncRoom()
	if s.room != nil {
		return fmt.Errorf("already in a room")
	}
	username, err := security.ValidateUsername(p.Username)
	if err != nil {
		return err
	}
	rounds := p.RoundTarget
	if rounds == 0 {
		rounds = config.DefaultRoundTarget
	}
	botCfg := models.DefaultBotConfig()
	if p.BotConfig != nil {
		botCfg = *p.BotConfig
	}

	room, err := s.handler.registry.CreateRoom(s.seatID, username, rounds, botCfg)
	if err != nil {
		return err
	}

	s.enterRoom(room)
	s.client.SendMessage(models.NewMessage(models.MsgTypeRoomCreated, room.Snapshot(s.seatID)))
	return nil
}

func (s *connSession) joinRoom(p models.JoinRoomPayload) error {
	s.syncRoom()
	if s.room != nil {
		return fmt.Errorf("already in a room")
	}
	code, err := security.ValidateRoomCode(p.Code)
	if err != nil {
		return err
	}
	username, err := security.ValidateUsername(p.Username)
	if err != nil {
		return err
	}
	room, err := s.handler.registry.Get(code)
	if err != nil {
		return err
	}

	// Register with the hub first so the room-joined frame and everything
	// after it reaches this connection.
	s.enterRoom(room)
	if err := room.Join(s.seatID, username); err != nil {
		s.leaveRoom()
		return err
	}
	return nil
}

// syncRoom drops a stale room binding so the connection can create or join
// again: a kicked seat, a torn-down room, or a finished game must not hold
// the socket hostage. Leaving a finished room is a departure like any other,
// so the room is told before the binding is cleared.
func (s *connSession) syncRoom() {
	if s.room == nil {
		return
	}
	if s.room.Phase() == models.PhaseFinished && s.room.Seated(s.seatID) {
		s.room.HandleDisconnect(s.seatID)
	}
	if !s.room.Seated(s.seatID) {
		s.leaveRoom()
	}
}

// enterRoom binds the connection to a room's fan-out.
func (s *connSession) enterRoom(room *game.Room) {
	s.room = room
	s.client.SetRoomCode(room.Code())
	s.handler.hub.Register(room.Code(), s.client)
}

func (s *connSession) leaveRoom() {
	s.handler.hub.Unregister(s.room.Code(), s.client)
	s.client.SetRoomCode("")
	s.room = nil
}

// resolveRoom handles the intents whose payload is just {code}.
func (s *connSession) resolveRoom(payload json.RawMessage) (*game.Room, error) {
	var p models.RoomOnlyPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("malformed payload")
	}
	return s.lookup(p.Code)
}

func (s *connSession) lookup(code string) (*game.Room, error) {
	code, err := security.ValidateRoomCode(code)
	if err != nil {
		return nil, err
	}
	return s.handler.registry.Get(code)
}

// sendError delivers a rejection to the offending connection only; other
// seats never see it.
func (s *connSession) sendError(message string) {
	s.client.SendMessage(models.NewMessage(models.MsgTypeError, models.ErrorPayload{Message: message}))
}
