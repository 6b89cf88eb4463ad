package telegram

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fareleap/traveldeals/internal/engine"
	"github.com/fareleap/traveldeals/internal/observability/metrics"
	"github.com/fareleap/traveldeals/pkg/logging"
)

// BotAPI is the slice of the Telegram client the adapter uses.
type BotAPI interface {
	GetUpdates(ctx context.Context, offset int64) ([]Update, error)
	SendMessage(ctx context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) error
	EditMessageText(ctx context.Context, chatID, messageID int64, text string, markup *InlineKeyboardMarkup) error
	AnswerCallbackQuery(ctx context.Context, callbackID, text string, showAlert bool) error
}

// Adapter is the Telegram presentation-channel adapter. It long-polls for
// updates, translates them into engine events, and renders engine replies
// back as messages with inline keyboards.
//
// The engine requires per-user serialized delivery, so the adapter keeps a
// worker goroutine with an ordered queue per user. Different users' events
// run in parallel.
type Adapter struct {
	client  BotAPI
	engine  *engine.Engine
	logger  *logging.Logger
	metrics *metrics.BotMetrics

	mu     sync.Mutex
	queues map[int64]chan Update
	wg     sync.WaitGroup
}

// NewAdapter creates a Telegram adapter around a client and the engine.
func NewAdapter(client BotAPI, eng *engine.Engine, logger *logging.Logger, m *metrics.BotMetrics) *Adapter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Adapter{
		client:  client,
		engine:  eng,
		logger:  logger,
		metrics: m,
		queues:  make(map[int64]chan Update),
	}
}

// Run polls for updates until ctx is canceled, then waits for in-flight
// per-user workers to drain.
func (a *Adapter) Run(ctx context.Context) error {
	var offset int64
	for {
		updates, err := a.client.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			a.logger.Error("telegram: poll failed", "error", err)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
			}
			continue
		}
		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			a.dispatch(ctx, u)
		}
		if ctx.Err() != nil {
			break
		}
	}

	a.mu.Lock()
	for _, q := range a.queues {
		close(q)
	}
	a.queues = nil
	a.mu.Unlock()
	a.wg.Wait()
	return nil
}

// dispatch routes an update onto the owning user's ordered queue. Events
// for an overloaded user are dropped rather than stalling the poll loop.
func (a *Adapter) dispatch(ctx context.Context, u Update) {
	userID, ok := updateUser(u)
	if !ok {
		return
	}

	a.mu.Lock()
	if a.queues == nil {
		a.mu.Unlock()
		return
	}
	q, ok := a.queues[userID]
	if !ok {
		q = make(chan Update, 16)
		a.queues[userID] = q
		a.wg.Add(1)
		go a.worker(ctx, q)
	}
	a.mu.Unlock()

	select {
	case q <- u:
	default:
		a.logger.Warn("telegram: dropping update, user queue full", "user_id", userID)
	}
}

func (a *Adapter) worker(ctx context.Context, q chan Update) {
	defer a.wg.Done()
	for u := range q {
		a.handleUpdate(ctx, u)
	}
}

func updateUser(u Update) (int64, bool) {
	if u.Message != nil && u.Message.From != nil {
		return u.Message.From.ID, true
	}
	if u.CallbackQuery != nil {
		return u.CallbackQuery.From.ID, true
	}
	return 0, false
}

func (a *Adapter) handleUpdate(ctx context.Context, u Update) {
	switch {
	case u.Message != nil && u.Message.From != nil:
		a.handleMessage(ctx, u.Message)
	case u.CallbackQuery != nil:
		a.handleCallback(ctx, u.CallbackQuery)
	}
}

func (a *Adapter) handleMessage(ctx context.Context, msg *Message) {
	userID := msg.From.ID
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	var reply *engine.Reply
	if strings.HasPrefix(text, "/") {
		a.metrics.ObserveUpdate("command")
		switch strings.ToLower(strings.Fields(text)[0]) {
		case "/start", "/restart":
			reply = a.engine.Start(ctx, userID)
		case "/help":
			reply = a.engine.Help(ctx, userID)
		default:
			return
		}
	} else {
		a.metrics.ObserveUpdate("message")
		reply = a.engine.HandleText(ctx, userID, text)
	}
	if reply == nil {
		return
	}

	if err := a.client.SendMessage(ctx, msg.Chat.ID, reply.Text, keyboard(reply.Buttons)); err != nil {
		a.logger.Error("telegram: failed to send message", "user_id", userID, "error", err)
	}
}

func (a *Adapter) handleCallback(ctx context.Context, cb *CallbackQuery) {
	a.metrics.ObserveUpdate("callback")
	userID := cb.From.ID

	action, ok := ParseAction(cb.Data)
	if !ok {
		// Malformed payloads are acknowledged and otherwise ignored.
		a.logger.Warn("telegram: ignoring malformed callback", "user_id", userID, "data", cb.Data)
		a.answer(ctx, cb.ID, "", false)
		return
	}

	reply := a.engine.HandleAction(ctx, userID, action)
	if reply == nil {
		a.answer(ctx, cb.ID, "", false)
		return
	}
	if reply.Notice != "" {
		a.answer(ctx, cb.ID, reply.Notice, true)
		return
	}
	a.answer(ctx, cb.ID, "", false)

	if cb.Message == nil {
		return
	}
	err := a.client.EditMessageText(ctx, cb.Message.Chat.ID, cb.Message.MessageID, reply.Text, keyboard(reply.Buttons))
	if err != nil {
		a.logger.Error("telegram: failed to edit message", "user_id", userID, "error", err)
	}
}

func (a *Adapter) answer(ctx context.Context, callbackID, text string, alert bool) {
	if err := a.client.AnswerCallbackQuery(ctx, callbackID, text, alert); err != nil {
		a.logger.Error("telegram: failed to answer callback", "error", err)
	}
}

// keyboard lays out one button per row.
func keyboard(buttons []engine.Button) *InlineKeyboardMarkup {
	if len(buttons) == 0 {
		return nil
	}
	rows := make([][]InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, []InlineKeyboardButton{{
			Text:         b.Label,
			CallbackData: EncodeAction(b.Action),
		}})
	}
	return &InlineKeyboardMarkup{InlineKeyboard: rows}
}
