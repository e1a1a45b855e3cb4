package notifier

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"
)

const pollTimeoutSeconds = 30

// CommandHandler answers a normalized chat command such as "/signal".
type CommandHandler func(ctx context.Context, command string) string

type chatUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// StartPolling long-polls for chat commands until ctx is cancelled.
// Only messages from the configured chat are answered.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	offset := 0
	for ctx.Err() == nil {
		updates, err := t.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Printf("[WARN] polling request failed: %v", err)
			select {
			case <-ctx.Done():
			case <-time.After(5 * time.Second):
			}
			continue
		}
		offset = t.dispatch(ctx, updates, offset, handler)
	}
	log.Println("[INFO] Telegram polling stopped")
}

func (t *TelegramNotifier) getUpdates(ctx context.Context, offset int) ([]chatUpdate, error) {
	var updates []chatUpdate
	err := t.call(ctx, "getUpdates", map[string]any{
		"offset":          offset,
		"timeout":         pollTimeoutSeconds,
		"allowed_updates": []string{"message"},
	}, &updates)
	return updates, err
}

// dispatch answers each update and returns the next offset.
func (t *TelegramNotifier) dispatch(ctx context.Context, updates []chatUpdate, offset int, handler CommandHandler) int {
	for _, u := range updates {
		offset = u.UpdateID + 1
		if u.Message == nil {
			continue
		}
		chatID := strconv.FormatInt(u.Message.Chat.ID, 10)
		if chatID != t.ChatID {
			log.Printf("[WARN] ignoring message from chat %s", chatID)
			continue
		}
		cmd := parseCommand(u.Message.Text)
		if cmd == "" {
			continue
		}
		log.Printf("[INFO] received command: %s", cmd)
		if reply := handler(ctx, cmd); reply != "" {
			if err := t.sendTo(ctx, chatID, reply); err != nil {
				log.Printf("[ERROR] send reply: %v", err)
			}
		}
	}
	return offset
}

// parseCommand reduces "/Signal@MyBot extra" to "/signal".
func parseCommand(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	cmd, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(cmd)
}
