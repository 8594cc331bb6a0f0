package auth

import (
	"go.uber.org/fx"

	"github.com/polkiloo/atmterminal/internal/config"
)

// Module provides the PIN hashing scheme selected in configuration.
var Module = fx.Options(
	fx.Provide(newPinHasher),
)

type hasherParams struct {
	fx.In

	Config *config.Config
}

func newPinHasher(p hasherParams) PinHasher {
	if p.Config.PinScheme == config.PinSchemeBcrypt {
		return NewBcryptHasher(0)
	}
	return NewPlainHasher()
}
