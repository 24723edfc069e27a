package assistant

import (
	"github.com/samber/do/v2"
	"github.com/uzulab/soudanin/internal/assistant"
	"github.com/uzulab/soudanin/internal/config"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (assistant.Assistant, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewOpenAIAssistant(c.OpenAIAPIKey, c.OpenAIModel, c.ConsultationTopic, WithBaseURL(c.OpenAIBaseURL))
	})
}
