package telegram

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papas-chatbot/internal/actions"
	"papas-chatbot/internal/auth"
	"papas-chatbot/internal/llm"
	"papas-chatbot/internal/storage"
)

type fakeSender struct{ sent []string }

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	sw := c.(tgbotapi.MessageConfig)
	f.sent = append(f.sent, sw.Text)
	return tgbotapi.Message{}, nil
}

type fakeLLM struct {
	resp  llm.Response
	err   error
	calls []string
}

func (f *fakeLLM) Generate(_ context.Context, msgs []llm.Message) (llm.Response, error) {
	f.calls = append(f.calls, msgs[len(msgs)-1].Content)
	return f.resp, f.err
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestBot(t *testing.T, client llm.Client, authSvc *auth.Service) (*Bot, *fakeSender, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chatbot_analytics.log")
	rec, err := storage.NewFileRecorder(path)
	require.NoError(t, err)

	logger := log.New(os.Stderr)
	registry := actions.Default(actions.Deps{
		LLM:    client,
		Events: actions.NewEventLog(rec, logger),
		Now:    func() time.Time { return fixedNow },
		Logger: logger,
	})
	fs := &fakeSender{}
	b := &Bot{
		s:        fs,
		authSvc:  authSvc,
		registry: registry,
		logPath:  path,
		now:      func() time.Time { return fixedNow },
		logger:   logger,
	}
	return b, fs, path
}

func textMessage(userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
	}
}

func commandMessage(userID int64, text string) *tgbotapi.Message {
	msg := textMessage(userID, text)
	cmd, _, _ := strings.Cut(text, " ")
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	return msg
}

func TestPlainTextRunsRespuestaIAAndRecords(t *testing.T) {
	client := &fakeLLM{resp: llm.Response{Content: "La papa amarilla es ideal para causa."}}
	b, fs, path := newTestBot(t, client, auth.New(nil, 0))

	b.handleIncomingMessage(context.Background(), textMessage(42, "¿Qué papa uso para causa?"))

	require.Equal(t, []string{"La papa amarilla es ideal para causa."}, fs.sent)
	require.Len(t, client.calls, 1)
	assert.Contains(t, client.calls[0], "¿Qué papa uso para causa?")

	events, err := storage.ReadEvents(path)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, storage.KindAIResponse, events[0].Kind)
	assert.Equal(t, "42", events[0].UserID)
	assert.True(t, events[0].Succeeded)
	assert.Equal(t, storage.KindInteraction, events[1].Kind)
	assert.Equal(t, storage.UnknownIntent, events[1].Intent)
	assert.False(t, events[1].HasConfidence())
}

func TestVariedadCommand(t *testing.T) {
	client := &fakeLLM{resp: llm.Response{Content: "La huayro es harinosa."}}
	b, fs, _ := newTestBot(t, client, nil)

	b.handleIncomingMessage(context.Background(), commandMessage(7, "/variedad huayro"))

	require.Equal(t, []string{"La huayro es harinosa."}, fs.sent)
	require.Len(t, client.calls, 1)
	assert.Contains(t, client.calls[0], "huayro")
}

func TestCommandsWithoutArgumentsShowUsage(t *testing.T) {
	client := &fakeLLM{}
	b, fs, _ := newTestBot(t, client, nil)

	b.handleIncomingMessage(context.Background(), commandMessage(7, "/variedad"))
	b.handleIncomingMessage(context.Background(), commandMessage(7, "/receta"))

	assert.Equal(t, []string{msgUsageVariedad, msgUsageReceta}, fs.sent)
	assert.Empty(t, client.calls)
}

func TestRecetaCommandFallback(t *testing.T) {
	client := &fakeLLM{err: &llm.Error{Kind: llm.KindTimeout, Provider: llm.ProviderGemini}}
	b, fs, _ := newTestBot(t, client, nil)

	b.handleIncomingMessage(context.Background(), commandMessage(7, "/receta papa a la huancaína"))

	require.Len(t, fs.sent, 1)
	assert.Contains(t, fs.sent[0], "No encontré la receta")
}

func TestUnauthorizedUser(t *testing.T) {
	client := &fakeLLM{resp: llm.Response{Content: "hola"}}
	b, fs, path := newTestBot(t, client, auth.New([]int64{1}, 0))

	b.handleIncomingMessage(context.Background(), textMessage(2, "hola"))

	assert.Equal(t, []string{msgUnauthorized}, fs.sent)
	assert.Empty(t, client.calls)
	events, err := storage.ReadEvents(path)
	require.NoError(t, err)
	assert.Empty(t, events, "nothing should be recorded")
}

func TestStatsAdminOnly(t *testing.T) {
	client := &fakeLLM{resp: llm.Response{Content: "ok"}}
	b, fs, _ := newTestBot(t, client, auth.New(nil, 100))

	b.handleIncomingMessage(context.Background(), commandMessage(5, "/stats"))
	require.Equal(t, []string{msgAdminOnly}, fs.sent)

	b.handleIncomingMessage(context.Background(), textMessage(5, "hola"))
	b.handleIncomingMessage(context.Background(), commandMessage(100, "/stats"))
	require.Len(t, fs.sent, 3)
	assert.Contains(t, fs.sent[2], "Interacciones")
}

func TestStartAndUnknownCommand(t *testing.T) {
	b, fs, _ := newTestBot(t, &fakeLLM{}, nil)

	b.handleIncomingMessage(context.Background(), commandMessage(1, "/start"))
	b.handleIncomingMessage(context.Background(), commandMessage(1, "/foo"))

	assert.Equal(t, []string{msgWelcome, msgUnknown}, fs.sent)
}
