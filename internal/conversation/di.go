package conversation

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/uzulab/soudanin/internal/assistant"
	"github.com/uzulab/soudanin/internal/calendar"
	"github.com/uzulab/soudanin/internal/config"
	"github.com/uzulab/soudanin/internal/messenger"
	"github.com/uzulab/soudanin/internal/repository"
	"github.com/uzulab/soudanin/internal/webhook"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Engine, error) {
		cfg := do.MustInvoke[*config.Config](i)
		as := do.MustInvoke[assistant.Assistant](i)
		cal := do.MustInvoke[calendar.Client](i)
		mc := do.MustInvoke[messenger.Client](i)
		repo := do.MustInvoke[repository.Repository](i)
		wh := do.MustInvoke[webhook.Sender](i)
		location, err := cfg.Location()
		if err != nil {
			return nil, fmt.Errorf("failed to load meeting timezone: %w", err)
		}
		return NewEngine(cfg, as, cal, mc, repo, wh, location), nil
	})
}
