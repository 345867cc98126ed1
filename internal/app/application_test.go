package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"happydash.dev/internal/appconf"
	"happydash.dev/internal/happiness"
)

func newTestApplication(t *testing.T, prefs []string) *Application {
	t.Helper()
	manager, err := happiness.InitManager(happiness.Config{
		DataPath: filepath.Join("..", "..", "testdata", "happiness.csv"),
	}, nil, nil)
	require.NoError(t, err)
	return &Application{
		Config:  appconf.Config{Preferences: prefs},
		Manager: manager,
	}
}

func TestApplicationRegions(t *testing.T) {
	app := newTestApplication(t, nil)
	regions := app.Regions()
	require.Len(t, regions, 6)
	assert.Equal(t, happiness.AllRegions, regions[0])
	assert.Equal(t, "Western Europe", regions[1])
}

func TestApplicationPreferences(t *testing.T) {
	assert.Equal(t, happiness.DefaultPreferences, newTestApplication(t, nil).Preferences())

	app := newTestApplication(t, []string{"Rent Index", "Happiness Quotient"})
	assert.Equal(t, []string{"Rent Index"}, app.Preferences())
}
