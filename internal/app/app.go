package app

import (
	"context"
	"strings"
	"time"
)

// Application wires the stores and the client together and exposes the
// operations the TUI and the subcommands call.
type Application struct {
	Config    Config
	Logger    *Logger
	KV        KVStore
	Endpoints *EndpointStore
	Client    *Client
	Sessions  *SessionManager
	History   *HistoryStore
}

// Turn is one completed exchange as the UI consumes it: the text to display,
// the learning item the normalizer accepted, and whether that item is the
// generic fallback (worth a notice, never an error).
type Turn struct {
	Display  string
	Item     LearningItem
	Fallback bool
	Endpoint string
}

func NewApplication(cfg Config) *Application {
	logger := NewLogger(DefaultLogWriter())
	kv := OpenDefaultKV(cfg.StorageRoot)
	endpoints := NewEndpointStore(kv, logger, cfg.PrimaryURL, cfg.AlternateURL)
	client := NewClient(endpoints, logger, time.Duration(cfg.TimeoutSecs)*time.Second)

	return &Application{
		Config:    cfg,
		Logger:    logger,
		KV:        kv,
		Endpoints: endpoints,
		Client:    client,
		Sessions:  NewSessionManager(kv, logger),
		History:   NewHistoryStore(kv, logger),
	}
}

// Chat sends one user message, normalizes the reply and appends the accepted
// item to the tail of the history log.
func (a *Application) Chat(ctx context.Context, message string) (*Turn, error) {
	resp, err := a.Client.Chat(ctx, ChatRequest{
		SessionID: a.Sessions.GetOrCreate(),
		Message:   strings.TrimSpace(message),
		Level:     a.Config.Level,
		Topic:     a.Config.Topic,
		Mode:      a.Config.Mode,
	})
	if err != nil {
		return nil, err
	}
	norm := Normalize(resp)
	a.History.AppendMany(norm.Item)
	if norm.Fallback {
		a.Logger.Warn("reply fell back to generic item", map[string]interface{}{
			"reply_len": len(resp.Reply),
		})
	}
	return &Turn{
		Display:  norm.Display,
		Item:     norm.Item,
		Fallback: norm.Fallback,
		Endpoint: a.Endpoints.Current(),
	}, nil
}

// LoadSuggestion asks for the word of the day and inserts the item at the
// head of the history log.
func (a *Application) LoadSuggestion(ctx context.Context) (*Turn, error) {
	resp, err := a.Client.Chat(ctx, ChatRequest{
		SessionID: a.Sessions.GetOrCreate(),
		Message:   "Give me today's word",
		Level:     a.Config.Level,
		Topic:     a.Config.Topic,
		Mode:      "daily",
	})
	if err != nil {
		return nil, err
	}
	norm := Normalize(resp)
	a.History.Prepend(norm.Item)
	return &Turn{
		Display:  norm.Display,
		Item:     norm.Item,
		Fallback: norm.Fallback,
		Endpoint: a.Endpoints.Current(),
	}, nil
}

// NewSession rotates the local session id and tells the server to drop the
// old conversation. The server call is cleanup, not correctness: its failure
// is logged and the rotation stands.
func (a *Application) NewSession(ctx context.Context) string {
	old := a.Sessions.GetOrCreate()
	id := a.Sessions.Rotate()
	if err := a.Client.Reset(ctx, old); err != nil {
		a.Logger.Warn("server reset failed", map[string]interface{}{
			"session": ShortForm(old),
			"error":   err.Error(),
		})
	}
	return id
}

func (a *Application) ClearHistory() {
	a.History.Clear()
}
