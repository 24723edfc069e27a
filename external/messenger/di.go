package messenger

import (
	"github.com/samber/do/v2"
	"github.com/uzulab/soudanin/internal/config"
	messengerpkg "github.com/uzulab/soudanin/internal/messenger"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (messengerpkg.Client, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewClient(c.DiscordToken), nil
	})
}
