package bootstrap

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/config"
)

func TestRunRequiresConfig(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	require.Error(t, err)
}

func TestRunRecordsDegradedSeeders(t *testing.T) {
	var (
		mu  sync.Mutex
		ran []string
	)
	mark := func(name string) {
		mu.Lock()
		ran = append(ran, name)
		mu.Unlock()
	}
	opts := Options{
		Config:     &coreconfig.Config{},
		LoggerInit: func(*coreconfig.Config) error { return nil },
		Modules: Modules{Seeders: []NamedSeeder{
			{Name: "document", Seeder: SeederFunc(func(context.Context) error {
				mark("document")
				return errors.New("missing file")
			})},
			{Name: "tuition", Seeder: SeederFunc(func(context.Context) error {
				mark("tuition")
				return nil
			})},
		}},
	}

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"document", "tuition"}, ran)
	assert.Equal(t, []string{"document"}, res.Degraded)
}

func TestRunLoggerFailureIsFatal(t *testing.T) {
	_, err := Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		LoggerInit: func(*coreconfig.Config) error { return errors.New("no sink") },
	})
	require.Error(t, err)
}

func TestRunSeedersConcurrently(t *testing.T) {
	release := make(chan struct{})
	waiting := func(context.Context) error {
		<-release
		return nil
	}
	opts := Options{
		Config:     &coreconfig.Config{},
		LoggerInit: func(*coreconfig.Config) error { return nil },
		Modules: Modules{Seeders: []NamedSeeder{
			{Name: "slow", Seeder: SeederFunc(waiting)},
			{Name: "opener", Seeder: SeederFunc(func(context.Context) error {
				close(release)
				return nil
			})},
			{Name: "skipped"},
		}},
	}
	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, res.Degraded)
}
