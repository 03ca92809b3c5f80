package widget

import (
	"context"

	"dashgrid/internal/settings"
)

// Base supplies the Contract plumbing shared by built-in widgets: metadata
// with settings overrides applied, no-op lifecycle hooks and settings
// validation. Embed it and implement Render.
type Base struct {
	Env
	Metadata Metadata
}

// NewBase builds a Base for env with default metadata overlaid by the
// environment's [Module] settings section.
func NewBase(env Env) Base {
	meta := DefaultMetadata(env.ID)
	meta.Apply(env.Settings)
	return Base{Env: env, Metadata: meta}
}

func (b *Base) Meta() Metadata { return b.Metadata }

func (b *Base) Init(ctx context.Context) error {
	b.Log().Debug("module initialized", "name", b.Metadata.Name)
	return nil
}

func (b *Base) Cleanup(ctx context.Context) error {
	b.Log().Debug("module cleaned up", "name", b.Metadata.Name)
	return nil
}

// RequireSettings checks that every named key is present, returning the
// settings error for the first gap found.
func (b *Base) RequireSettings(required map[string][]string) error {
	if b.Settings == nil {
		b.Settings = settings.New()
	}
	return b.Settings.Validate(required)
}
