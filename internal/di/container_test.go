package di

import (
	"context"
	"testing"
	"time"

	"github.com/Yashvvvv/VenueSync/pkg/config"
	"github.com/Yashvvvv/VenueSync/pkg/database"
	"github.com/stretchr/testify/assert"
)

func TestNewContainer_WithoutRedis(t *testing.T) {
	loc, err := time.LoadLocation("UTC")
	assert.NoError(t, err)

	c := NewContainer(&ContainerConfig{
		DB:        &database.PostgresDB{},
		Location:  loc,
		Ticketing: config.TicketingConfig{QRIssueRetries: 2},
		Scheduler: config.SchedulerConfig{Interval: time.Minute},
	})

	assert.Nil(t, c.SweepLock)
	assert.NotNil(t, c.EventPublisher)
	assert.NotNil(t, c.PurchaseService)
	assert.NotNil(t, c.ValidationService)
	assert.NotNil(t, c.TicketService)
	assert.NotNil(t, c.SweepWorker)
	assert.NotNil(t, c.HealthHandler)
	assert.NotNil(t, c.PurchaseHandler)
	assert.NotNil(t, c.TicketHandler)
	assert.NotNil(t, c.ValidationHandler)
	assert.NoError(t, c.LoadScripts(context.Background()))
	assert.Equal(t, loc, c.Clock.Now().Location())
}
