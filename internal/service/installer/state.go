package installer

import (
	"strings"

	"github.com/sandevgo/pdfchat/internal/config"
	"github.com/sandevgo/pdfchat/pkg/env"
)

// InstallState accumulates the answers of the wizard. Only non-zero fields
// end up in the .env file, everything else keeps its default.
type InstallState struct {
	App      config.AppConfig
	RAG      config.RAGConfig
	Telegram config.TelegramConfig
}

func NewInstallState() *InstallState {
	return &InstallState{}
}

func (s *InstallState) Provider() string {
	return s.App.GetProvider()
}

// Render produces the .env content for the collected answers.
func (s *InstallState) Render() (string, error) {
	var sb strings.Builder
	for _, section := range []any{&s.App, &s.RAG, &s.Telegram} {
		out, err := env.MarshalEnv(section)
		if err != nil {
			return "", err
		}
		sb.WriteString(out)
	}
	return sb.String(), nil
}
