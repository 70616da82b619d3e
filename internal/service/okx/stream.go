package okx

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"CoinSight/internal/domain/models"
	drepo "CoinSight/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Stream implements a CandleStream backed by the OKX public WebSocket
// candle channel.
type Stream struct {
	websocketURL   string
	channel        string // e.g. candle1D
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// New creates a new OKX CandleStream.
func New(websocketURL, channel string, symbols []string, reconnectDelay, pingInterval time.Duration) drepo.CandleStream {
	return &Stream{
		websocketURL:   websocketURL,
		channel:        channel,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (s *Stream) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.websocketURL, nil)
	if err != nil {
		return fmt.Errorf("okx connect: %w", err)
	}
	s.conn = conn
	s.connected = true
	log.Printf("okx: connected")
	return nil
}

type subArg struct {
	Channel string `json:"channel"`
	InstID  string `json:"instId"`
}

// Subscribe subscribes the configured symbols to the candle channel.
func (s *Stream) Subscribe(ctx context.Context) error {
	if s.conn == nil || !s.connected {
		return fmt.Errorf("okx not connected")
	}
	args := make([]subArg, len(s.symbols))
	for i, sym := range s.symbols {
		args[i] = subArg{Channel: s.channel, InstID: sym}
	}
	msg := map[string]interface{}{"op": "subscribe", "args": args}
	if err := s.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("okx subscribe: %w", err)
	}
	log.Printf("okx: subscribed %d symbols on %s", len(s.symbols), s.channel)
	return nil
}

type candleFrame struct {
	Event string `json:"event"`
	Arg   subArg `json:"arg"`
	// each row: [ts, o, h, l, c, vol, volCcy, volCcyQuote, confirm]
	Data [][]string `json:"data"`
}

// Read streams candle updates and errors.
func (s *Stream) Read(ctx context.Context) (<-chan *models.BarUpdate, <-chan error) {
	updates := make(chan *models.BarUpdate, 1024)
	errs := make(chan error, 1)

	// ping loop; OKX expects a textual "ping" every <30s of idle
	go func() {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if s.conn != nil {
					_ = s.conn.WriteMessage(websocket.TextMessage, []byte("ping"))
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(updates)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if s.conn == nil {
					errs <- fmt.Errorf("okx conn nil")
					return
				}
				_, b, err := s.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("okx read: %w", err)
					return
				}
				if string(b) == "pong" {
					continue
				}
				var m candleFrame
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-candle frames
					continue
				}
				if m.Event != "" || len(m.Data) == 0 {
					continue
				}
				for _, row := range m.Data {
					u, err := parseCandleRow(m.Arg.InstID, row)
					if err != nil {
						continue
					}
					select {
					case updates <- u:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return updates, errs
}

func parseCandleRow(symbol string, row []string) (*models.BarUpdate, error) {
	if len(row) < 6 {
		return nil, fmt.Errorf("short candle row")
	}
	ms, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return nil, err
	}
	vals := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(row[i+1], 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	confirmed := len(row) > 8 && row[8] == "1"
	return &models.BarUpdate{
		Bar: models.Bar{
			Date:   time.UnixMilli(ms).UTC(),
			Symbol: symbol,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		},
		Confirmed: confirmed,
	}, nil
}

// Reconnect closes and reconnects.
func (s *Stream) Reconnect(ctx context.Context) error {
	_ = s.Close()
	time.Sleep(s.reconnectDelay)
	if err := s.Connect(ctx); err != nil {
		return err
	}
	return s.Subscribe(ctx)
}

// Close closes the WS connection.
func (s *Stream) Close() error {
	s.connected = false
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (s *Stream) IsConnected() bool { return s.connected }
