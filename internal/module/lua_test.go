package module

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashgrid/internal/settings"
	"dashgrid/internal/widget"
)

func loadTestScript(t *testing.T, body string, s *settings.Settings) widget.Contract {
	t.Helper()
	root := t.TempDir()
	dir := writeScript(t, root, "probe", body)
	if s == nil {
		s = settings.New()
	}
	env := widget.Env{ID: "probe", Dir: dir, Settings: s}
	w, err := loadScript(env, filepath.Join(dir, "probe.lua"))
	require.NoError(t, err)
	return w
}

func TestScriptRenderReceivesSurface(t *testing.T) {
	w := loadTestScript(t, `
local w = {}
function w.render(self, width, height)
	return width .. "x" .. height
end
return w
`, nil)

	out, err := w.Render(widget.Surface{Width: 42, Height: 7})
	require.NoError(t, err)
	assert.Equal(t, "42x7", out)
}

func TestScriptRenderNilMeansNoData(t *testing.T) {
	w := loadTestScript(t, `
local w = {}
function w.render(self, width, height)
	return nil
end
return w
`, nil)

	_, err := w.Render(widget.Surface{Width: 10, Height: 2})
	assert.ErrorIs(t, err, widget.ErrNoData)
}

func TestScriptRenderRuntimeError(t *testing.T) {
	w := loadTestScript(t, `
local w = {}
function w.render(self, width, height)
	error("data source exploded")
end
return w
`, nil)

	_, err := w.Render(widget.Surface{Width: 10, Height: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data source exploded")

	// The state must stay usable for the next pass.
	_, err = w.Render(widget.Surface{Width: 10, Height: 2})
	require.Error(t, err)
}

func TestScriptRenderNonStringRejected(t *testing.T) {
	w := loadTestScript(t, `
local w = {}
function w.render(self, width, height)
	return { nested = true }
end
return w
`, nil)

	_, err := w.Render(widget.Surface{Width: 10, Height: 2})
	require.Error(t, err)
	require.NotErrorIs(t, err, widget.ErrNoData)
}

func TestScriptGlobals(t *testing.T) {
	s := settings.New()
	s.Set("Feed", "url", "http://localhost/feed")

	w := loadTestScript(t, `
local w = { url = settings.Feed.url }
function w.render(self, width, height)
	return module_id .. " " .. self.url
end
return w
`, s)

	out, err := w.Render(widget.Surface{Width: 80, Height: 10})
	require.NoError(t, err)
	assert.Equal(t, "probe http://localhost/feed", out)
}

func TestScriptInitAndCleanupHooks(t *testing.T) {
	w := loadTestScript(t, `
local w = { phase = "constructed" }
function w.init(self)
	self.phase = "initialized"
end
function w.render(self, width, height)
	return self.phase
end
function w.cleanup(self)
	self.phase = "cleaned"
end
return w
`, nil)

	require.NoError(t, w.Init(context.Background()))
	out, err := w.Render(widget.Surface{Width: 20, Height: 4})
	require.NoError(t, err)
	assert.Equal(t, "initialized", out)

	require.NoError(t, w.Cleanup(context.Background()))
	snap := w.(widget.Snapshotter).Snapshot()
	assert.Equal(t, "cleaned", snap["phase"])
}

func TestScriptSnapshotScalarsOnly(t *testing.T) {
	w := loadTestScript(t, `
local w = {
	count = 3,
	label = "cpu",
	enabled = true,
	name = "identity, not state",
	path = "/tmp/x",
	settings_path = "/tmp/x/settings.ini",
	history = { 1, 2, 3 },
}
function w.render(self, width, height)
	return ""
end
return w
`, nil)

	snap := w.(widget.Snapshotter).Snapshot()
	assert.Equal(t, "3", snap["count"])
	assert.Equal(t, "cpu", snap["label"])
	assert.Equal(t, "true", snap["enabled"])
	assert.NotContains(t, snap, "name")
	assert.NotContains(t, snap, "path")
	assert.NotContains(t, snap, "settings_path")
	assert.NotContains(t, snap, "history", "tables are not scalars")
	assert.NotContains(t, snap, "render")
}

func TestScriptMetadata(t *testing.T) {
	s := settings.New()
	s.Set(settings.ModuleSection, settings.VersionKey, "9.9")

	w := loadTestScript(t, `
local w = {
	name = "Probe Widget",
	version = "1.2",
	description = "test probe",
	author = "somebody",
	license = "MIT",
	dependencies = { "curl", "jq" },
}
function w.render(self, width, height)
	return ""
end
return w
`, s)

	meta := w.Meta()
	assert.Equal(t, "Probe Widget", meta.Name)
	assert.Equal(t, "9.9", meta.Version, "[Module] overrides beat script fields")
	assert.Equal(t, "test probe", meta.Description)
	assert.Equal(t, "somebody", meta.Author)
	assert.Equal(t, "MIT", meta.License)
	assert.Equal(t, []string{"curl", "jq"}, meta.Dependencies)
}
