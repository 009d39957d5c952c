package player

import (
	"encoding/json"
	"fmt"
	"sync"

	"ctchen222/tictactoe-minimax/pkg/proto"

	"github.com/gorilla/websocket"
)

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// Player is a connected websocket client watching one game. Send may be
// called from several goroutines.
type Player struct {
	ID     string
	GameID string

	mu   sync.Mutex
	conn Connection
}

// NewPlayer creates a Player over conn.
func NewPlayer(id, gameID string, conn Connection) *Player {
	return &Player{ID: id, GameID: gameID, conn: conn}
}

// Send encodes msg as JSON and writes it as a text frame.
func (p *Player) Send(msg *proto.ServerToClientMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %w", msg.Type, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write to player %s: %w", p.ID, err)
	}
	return nil
}

// Read blocks until the next message from the client arrives.
func (p *Player) Read() ([]byte, error) {
	_, data, err := p.conn.ReadMessage()
	return data, err
}

// Close closes the underlying connection.
func (p *Player) Close() error {
	return p.conn.Close()
}
