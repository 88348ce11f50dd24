// Package idgen produces document identifiers. Stores never assign ids; the
// services ask an injected Generator before writing.
package idgen

import (
	"strings"

	"todoapi/config"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	StrategyUUIDv4 = "uuidv4"
	StrategyUUIDv7 = "uuidv7"
)

type Generator interface {
	NewID() string
}

// New returns the generator named by the configured strategy, UUIDv7 by default.
func New(cfg *config.Config) Generator {
	switch strings.ToLower(cfg.App.IDStrategy) {
	case StrategyUUIDv4:
		return UUIDv4{}
	case StrategyUUIDv7, "":
		return UUIDv7{}
	default:
		log.Warn().Str("strategy", cfg.App.IDStrategy).Msg("Unknown id strategy, using uuidv7")

		return UUIDv7{}
	}
}

// UUIDv4 generates random identifiers.
type UUIDv4 struct{}

func (UUIDv4) NewID() string {
	return uuid.NewString()
}

// UUIDv7 generates time-ordered identifiers; ids created later in the same
// process sort after earlier ones.
type UUIDv7 struct{}

func (UUIDv7) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate uuidv7, falling back to uuidv4")

		return uuid.NewString()
	}

	return id.String()
}
