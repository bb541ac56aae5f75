package telegram

import (
	"context"
	"strings"

	"github.com/sandevgo/pdfchat/pkg/conv"
	"github.com/sandevgo/pdfchat/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const (
	maxTelegramMsgLen = 4000 // Safety margin below 4096
	maxMarkdownChunk  = 2000 // rendering adds tags and entities
)

type sender struct {
	bot *tele.Bot
}

func newSender(bot *tele.Bot) *sender {
	return &sender{bot: bot}
}

// chunk is one message worth of an answer. An empty html means the rendered
// form did not fit and only plain is sent.
type chunk struct {
	html  string
	plain string
}

// splitAnswer cuts md into messages. Splitting happens on the Markdown so
// every rendered chunk is a complete HTML fragment.
func splitAnswer(md string) []chunk {
	var out []chunk
	for _, part := range conv.SplitMessage(strings.TrimSpace(md), maxMarkdownChunk) {
		html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(part)))
		plain := strings.TrimSpace(conv.MarkdownToPlain(part))
		if html == "" && plain == "" {
			continue
		}
		if len(html) > maxTelegramMsgLen {
			html = ""
		}
		out = append(out, chunk{html: html, plain: plain})
	}
	return out
}

// sendMarkdown sends md as Telegram HTML. A chunk Telegram refuses is resent
// as plain text.
func (s *sender) sendMarkdown(ctx context.Context, to tele.Recipient, md string) error {
	logger := log.FromCtx(ctx)
	for i, c := range splitAnswer(md) {
		if c.html != "" {
			_, err := s.bot.Send(to, c.html, tele.ModeHTML)
			if err == nil {
				continue
			}
			logger.Warn().Err(err).Int("chunk", i).Int("len", len(c.html)).Msg("html rejected, sending plain text")
		}
		if err := s.sendPlain(to, c.plain); err != nil {
			logger.Error().Err(err).Int("chunk", i).Msg("failed to send telegram message")
			return err
		}
	}
	return nil
}

func (s *sender) sendPlain(to tele.Recipient, text string) error {
	if text == "" {
		return nil
	}
	for _, part := range conv.SplitMessage(text, maxTelegramMsgLen) {
		if _, err := s.bot.Send(to, part); err != nil {
			return err
		}
	}
	return nil
}
