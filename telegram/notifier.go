package telegram

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/KryptoMuratLive/kryptomuratv4/db"
)

// Notifier pushes story milestone messages to subscribed wallets. It
// implements the story engine's notification hook; delivery is best-effort
// and every failure is logged, never propagated.
type Notifier struct {
	bot *Client
}

// NewNotifier wraps a bot client.
func NewNotifier(bot *Client) *Notifier {
	return &Notifier{bot: bot}
}

// ChapterCompleted notifies the wallet's Telegram chat that a chapter was
// finished, if the wallet is subscribed to story notifications.
func (n *Notifier) ChapterCompleted(wallet, chapterID, chapterTitle string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sub, err := db.GetTelegramSubscription(ctx, wallet)
	if err != nil {
		if !db.IsNotFound(err) {
			log.Printf("[NOTIFY_SKIP] subscription lookup for %s failed: %v", wallet, err)
		}
		return
	}
	if !sub.Subscribed || !sub.Notifications.Story {
		return
	}

	text := fmt.Sprintf("🎮 Kapitel abgeschlossen: %s\nDie Jagd auf den Bitcoin geht weiter!", chapterTitle)
	if err := n.bot.SendMessage(ctx, sub.ChatID, text); err != nil {
		log.Printf("[NOTIFY_SKIP] telegram push for %s (chapter %s) failed: %v", wallet, chapterID, err)
	}
}
