package telegram

import (
	"context"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"github.com/mee-advisor/mee-assistant-go/internal/config"
	"github.com/mee-advisor/mee-assistant-go/internal/logger"
	"github.com/mee-advisor/mee-assistant-go/internal/metrics"
	"github.com/mee-advisor/mee-assistant-go/internal/rag"
	"github.com/mee-advisor/mee-assistant-go/internal/ratelimit"
)

// maxConcurrentQueries bounds in-flight pipeline runs so a burst of
// questions cannot pile up unbounded LLM calls.
const maxConcurrentQueries = 8

// Answerer runs the question pipeline. Satisfied by *rag.System;
// tests substitute fakes.
type Answerer interface {
	Query(ctx context.Context, question string) rag.QueryResult
}

// Bot is the Telegram front-end. It long-polls for updates and answers
// text messages through the pipeline.
type Bot struct {
	api     *tgbotapi.BotAPI
	system  Answerer
	limiter *ratelimit.PerKeyLimiter
	cfg     config.BotConfig
	m       *metrics.Metrics
	log     *logger.Logger
}

// New connects to the Telegram API and builds the bot.
func New(token string, system Answerer, cfg config.BotConfig, m *metrics.Metrics, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.NewPerKeyLimiter(ratelimit.PerKeyConfig{
		MaxTokens:  cfg.UserRateLimitBurst,
		RefillRate: cfg.UserRateLimitRefillPerSec,
	})
	limiter.OnDrop(func() {
		m.RateLimiterDropped.Inc()
	})

	botLog := log.WithModule("telegram")
	botLog.WithField("username", api.Self.UserName).Info("Telegram bot authorized")

	return &Bot{
		api:     api,
		system:  system,
		limiter: limiter,
		cfg:     cfg,
		m:       m,
		log:     botLog,
	}, nil
}

// Run polls for updates until ctx is canceled, then waits for in-flight
// answers to finish.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(b.cfg.PollTimeout.Seconds())
	updates := b.api.GetUpdatesChan(u)

	var g errgroup.Group
	g.SetLimit(maxConcurrentQueries)

	b.log.Info("Polling for updates")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.limiter.Stop()
			err := g.Wait()
			b.log.Info("Bot stopped")
			return err
		case update, ok := <-updates:
			if !ok {
				b.limiter.Stop()
				return g.Wait()
			}
			b.dispatch(ctx, &g, update)
		}
	}
}

// dispatch routes one update. Questions run on the worker group since
// they block on LLM calls; everything else is answered inline.
func (b *Bot) dispatch(ctx context.Context, g *errgroup.Group, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message == nil || update.Message.From == nil:
		// Edits, channel posts, and other update kinds are ignored.
	case update.Message.IsCommand():
		b.handleCommand(update.Message)
	case update.Message.Text != "":
		msg := update.Message
		g.Go(func() error {
			b.handleQuestion(ctx, msg)
			return nil
		})
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	b.m.BotUpdatesTotal.WithLabelValues("command", "ok").Inc()

	switch msg.Command() {
	case "start":
		reply := tgbotapi.NewMessage(msg.Chat.ID, welcomeText)
		reply.ParseMode = tgbotapi.ModeHTML
		reply.ReplyMarkup = startKeyboard()
		b.send(reply)
	case "help":
		b.sendHTML(msg.Chat.ID, helpText)
	case "examples":
		b.sendHTML(msg.Chat.ID, examplesText)
	default:
		b.sendHTML(msg.Chat.ID, "Unknown command. Try /help.")
	}
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	b.m.BotUpdatesTotal.WithLabelValues("callback", "ok").Inc()

	// Acknowledge first so the client stops its spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.log.WithError(err).Warn("Failed to answer callback query")
	}

	suggestion, ok := categorySuggestions[cq.Data]
	if !ok {
		suggestion = "Ask me anything about the MEE program!"
	}

	if cq.Message == nil {
		return
	}
	edit := tgbotapi.NewEditMessageText(cq.Message.Chat.ID, cq.Message.MessageID, "Perfect! "+suggestion)
	if _, err := b.api.Request(edit); err != nil {
		b.log.WithError(err).Warn("Failed to edit callback message")
	}
}

func (b *Bot) handleQuestion(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	log := b.log.WithFields(map[string]any{
		"user_id": userID,
		"chat_id": msg.Chat.ID,
	})

	if !b.limiter.Allow(userID) {
		b.m.BotUpdatesTotal.WithLabelValues("message", "rate_limited").Inc()
		log.Debug("Rate limited user message")
		b.sendHTML(msg.Chat.ID, rateLimitedText)
		return
	}

	if b.system == nil {
		b.sendHTML(msg.Chat.ID, initializingText)
		return
	}

	b.m.BotUpdatesTotal.WithLabelValues("message", "ok").Inc()
	log.WithField("length", len(msg.Text)).Info("Handling question")

	if _, err := b.api.Request(tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)); err != nil {
		log.WithError(err).Debug("Failed to send typing action")
	}

	start := time.Now()
	result := b.system.Query(ctx, msg.Text)
	log.WithFields(map[string]any{
		"category": result.Category,
		"duration": time.Since(start).String(),
	}).Info("Question answered")

	if result.Category == rag.CategoryError {
		b.sendHTML(msg.Chat.ID, errorText)
		return
	}

	b.sendHTML(msg.Chat.ID, BuildReply(result))
}

func (b *Bot) sendHTML(chatID int64, text string) {
	reply := tgbotapi.NewMessage(chatID, text)
	reply.ParseMode = tgbotapi.ModeHTML
	b.send(reply)
}

// send delivers a message; if Telegram rejects the HTML entities it
// falls back to plain text so the user still gets an answer.
func (b *Bot) send(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).Warn("Failed to send message, retrying as plain text")
		msg.ParseMode = ""
		msg.ReplyMarkup = nil
		if _, err := b.api.Send(msg); err != nil {
			b.log.WithError(err).Error("Failed to send message")
		}
	}
}

func startKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Courses & Curriculum", "courses_and_curriculum"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏭 Training Rules", "training_rules"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Results Statistics", "results_statistics"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ General Information", "general_info"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❓ Ask Any Question", "ask_question"),
		),
	)
}
