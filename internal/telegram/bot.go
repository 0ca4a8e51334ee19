package telegram

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"papas-chatbot/internal/actions"
	"papas-chatbot/internal/analytics"
	"papas-chatbot/internal/auth"
)

const (
	cmdStart    = "start"
	cmdHelp     = "help"
	cmdVariedad = "variedad"
	cmdReceta   = "receta"
	cmdStats    = "stats"
)

const (
	msgWelcome = "¡Hola! Soy el asistente de papas nativas del Perú 🥔\n" +
		"Pregúntame lo que quieras o usa:\n" +
		"/variedad <nombre> para conocer una variedad\n" +
		"/receta <plato> para buscar una receta"
	msgUnauthorized  = "No tienes acceso a este bot."
	msgAdminOnly     = "Este comando está disponible solo para el administrador."
	msgUsageVariedad = "Uso: /variedad <nombre de la variedad>"
	msgUsageReceta   = "Uso: /receta <nombre del plato>"
	msgUnknown       = "No conozco ese comando. Usa /help para ver las opciones."
)

// sender is the part of the Bot API used for replies; tests replace it.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api      *tgbotapi.BotAPI
	s        sender
	authSvc  *auth.Service
	registry *actions.Registry
	logPath  string
	now      func() time.Time
	logger   *log.Logger
}

func New(botToken string, authSvc *auth.Service, registry *actions.Registry, logPath string, logger *log.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Bot{
		api:      api,
		s:        api,
		authSvc:  authSvc,
		registry: registry,
		logPath:  logPath,
		now:      time.Now,
		logger:   logger,
	}, nil
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("telegram bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.handleIncomingMessage(ctx, update.Message)
			}
		}
	}
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	if !b.authSvc.IsAllowed(msg.From.ID) {
		b.logger.Warn("unauthorized access attempt", "user_id", msg.From.ID, "username", msg.From.UserName)
		b.sendMessage(msg.Chat.ID, msgUnauthorized)
		return
	}

	b.logger.Debug("incoming message", "user_id", msg.From.ID, "text", msg.Text)

	if !msg.IsCommand() {
		if strings.TrimSpace(msg.Text) == "" {
			return
		}
		b.runTurn(ctx, actions.NameRespuestaIA, msg, msg.Text)
		return
	}

	args := strings.TrimSpace(msg.CommandArguments())
	switch msg.Command() {
	case cmdStart, cmdHelp:
		b.sendMessage(msg.Chat.ID, msgWelcome)
	case cmdVariedad:
		if args == "" {
			b.sendMessage(msg.Chat.ID, msgUsageVariedad)
			return
		}
		b.runTurn(ctx, actions.NameConsultarVariedad, msg, args)
	case cmdReceta:
		if args == "" {
			b.sendMessage(msg.Chat.ID, msgUsageReceta)
			return
		}
		b.runTurn(ctx, actions.NameBuscarReceta, msg, args)
	case cmdStats:
		b.handleStats(msg)
	default:
		b.sendMessage(msg.Chat.ID, msgUnknown)
	}
}

// runTurn runs the named action and then records the interaction,
// the same sequence a dialogue engine rule would trigger.
func (b *Bot) runTurn(ctx context.Context, name string, msg *tgbotapi.Message, text string) {
	turn := &botTurn{bot: b, chatID: msg.Chat.ID, userID: msg.From.ID, text: text}
	for _, n := range []string{name, actions.NameRegistrarConversacion} {
		action, ok := b.registry.Get(n)
		if !ok {
			b.logger.Error("action not registered", "action", n)
			continue
		}
		outcome := action.Run(ctx, turn)
		b.logger.Info("action executed", "action", n, "outcome", outcome, "sender", turn.SenderID())
	}
}

func (b *Bot) handleStats(msg *tgbotapi.Message) {
	if !b.authSvc.IsAdmin(msg.From.ID) {
		b.sendMessage(msg.Chat.ID, msgAdminOnly)
		return
	}
	var buf bytes.Buffer
	if err := analytics.Generate(&buf, analytics.ModeRecent, b.logPath, b.now()); err != nil {
		b.logger.Error("failed to render report", "error", err)
		return
	}
	b.sendMessage(msg.Chat.ID, buf.String())
}

func (b *Bot) sendMessage(chatID int64, text string) {
	out := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(out); err != nil {
		b.logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

// botTurn adapts one Telegram message to actions.Turn. Telegram has no
// intent classifier, so the intent is empty and no confidence is reported.
type botTurn struct {
	bot    *Bot
	chatID int64
	userID int64
	text   string
}

func (t *botTurn) SendMessage(text string)     { t.bot.sendMessage(t.chatID, text) }
func (t *botTurn) LastUserText() string        { return t.text }
func (t *botTurn) SenderID() string            { return strconv.FormatInt(t.userID, 10) }
func (t *botTurn) Intent() string              { return "" }
func (t *botTurn) Confidence() (float64, bool) { return 0, false }
