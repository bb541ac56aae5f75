package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/sandevgo/pdfchat/internal/config"
	"github.com/sandevgo/pdfchat/internal/core"
	"github.com/sandevgo/pdfchat/internal/service/ingest"
	"github.com/sandevgo/pdfchat/internal/service/session"
	"github.com/sandevgo/pdfchat/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

// Sessions is the part of the session manager the bot drives.
type Sessions interface {
	Initialize(ctx context.Context, pdfs []ingest.Source, creds session.Credentials) (string, error)
	Reingest(ctx context.Context, handle string, pdfs []ingest.Source) error
	Ask(ctx context.Context, handle, question string) (string, error)
	Close(handle string) error
}

type Bot struct {
	bot      *tele.Bot
	sender   *sender
	sessions Sessions
	router   core.CmdRouter
	chats    *chats
	ownerID  int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	sessions Sessions,
	router core.CmdRouter,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:      b,
		sender:   newSender(b),
		sessions: sessions,
		router:   router,
		chats:    newChats(),
		ownerID:  cfg.OwnerID,
	}

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: Only allow the owner
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || c.Sender().ID != bot.ownerID {
				return nil
			}
			return next(c)
		}
	})

	b.Handle("/start", bot.handleStart)
	b.Handle("/init", bot.handleInit)
	b.Handle("/close", bot.handleClose)
	b.Handle(tele.OnDocument, bot.handleDocument)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func requestContext(c tele.Context) context.Context {
	ctx := c.Get(baseContextKey).(context.Context)
	return log.WithFields(ctx, map[string]string{
		"chat": fmt.Sprint(c.Chat().ID),
	})
}

func (b *Bot) handleStart(c tele.Context) error {
	return c.Send("Send me one or more PDF files, then /init to start asking questions about them.")
}

func (b *Bot) handleDocument(c tele.Context) error {
	ctx := requestContext(c)
	doc := c.Message().Document
	if doc == nil {
		return nil
	}
	if !isPDF(doc) {
		return c.Send(fmt.Sprintf("%s is not a PDF, skipped.", doc.FileName))
	}
	if doc.FileSize > ingest.MaxFileSize {
		return c.Send(fmt.Sprintf("%s is larger than %d MB, skipped.", doc.FileName, ingest.MaxFileSize>>20))
	}

	rc, err := b.bot.File(&doc.File)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("file", doc.FileName).Msg("failed to download document")
		return c.Send(fmt.Sprintf("Could not download %s.", doc.FileName))
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, ingest.MaxFileSize))
	if err != nil {
		return c.Send(fmt.Sprintf("Could not download %s.", doc.FileName))
	}

	n, ok := b.chats.addUpload(c.Chat().ID, ingest.Source{Name: doc.FileName, Data: data})
	if !ok {
		return c.Send(fmt.Sprintf("Already holding %d files. Send /init first.", n))
	}
	return c.Send(fmt.Sprintf("Got %s (%d waiting). Send more or /init.", doc.FileName, n))
}

func isPDF(doc *tele.Document) bool {
	return doc.MIME == "application/pdf" || strings.EqualFold(path.Ext(doc.FileName), ".pdf")
}

func (b *Bot) handleInit(c tele.Context) error {
	ctx := requestContext(c)
	chatID := c.Chat().ID

	pending := b.chats.takePending(chatID)
	if len(pending) == 0 {
		return c.Send("No PDFs received yet. Send some files first.")
	}

	_ = c.Notify(tele.Typing)

	handle := b.chats.handle(chatID)
	var err error
	if handle != "" {
		err = b.sessions.Reingest(ctx, handle, pending)
		if errors.Is(err, core.ErrSessionNotFound) {
			handle = ""
		}
	}
	if handle == "" {
		handle, err = b.sessions.Initialize(ctx, pending, session.Credentials{})
	}

	if err != nil {
		b.chats.restorePending(chatID, pending)
		log.FromCtx(ctx).Error().Err(err).Msg("ingestion failed")
		return c.Send(describeError(err))
	}

	b.chats.setHandle(chatID, handle)
	return c.Send(fmt.Sprintf("Indexed %s. Ask away!", strings.Join(ingest.Names(pending), ", ")))
}

func (b *Bot) handleClose(c tele.Context) error {
	chatID := c.Chat().ID
	handle := b.chats.handle(chatID)
	if handle == "" {
		return c.Send("No active session.")
	}
	_ = b.sessions.Close(handle)
	b.chats.setHandle(chatID, "")
	return c.Send("Session closed.")
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := requestContext(c)
	logger := log.FromCtx(ctx)
	handle := b.chats.handle(c.Chat().ID)

	if out, ok := b.router.Execute(ctx, handle, c.Text()); ok {
		return b.sender.sendMarkdown(ctx, c.Chat(), out)
	}

	if handle == "" {
		return c.Send("Send me PDFs and /init before asking.")
	}

	_ = c.Notify(tele.Typing)

	answer, err := b.sessions.Ask(ctx, handle, c.Text())
	if err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			b.chats.setHandle(c.Chat().ID, "")
		}
		logger.Error().Err(err).Msg("question failed")
		return c.Send(describeError(err))
	}

	return b.sender.sendMarkdown(ctx, c.Chat(), answer)
}

func describeError(err error) string {
	var (
		genErr *core.GenerationError
		ingErr *core.IngestionError
	)
	switch {
	case errors.Is(err, core.ErrSessionNotFound):
		return "The session expired. Upload the PDFs again and send /init."
	case errors.Is(err, core.ErrNoExtractableText):
		return "None of the files contain extractable text (scanned PDFs are not supported)."
	case errors.As(err, &ingErr):
		return fmt.Sprintf("Could not index the documents: %v", ingErr.Err)
	case errors.As(err, &genErr):
		return fmt.Sprintf("Could not answer (%s step). Try again later.", genErr.Stage)
	default:
		return fmt.Sprintf("error: %v", err)
	}
}
