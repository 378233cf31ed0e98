package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ClinicBoxService/pkg/logger"
)

func TestPublisher_InvalidURL(t *testing.T) {
	p := NewPublisher("http://not-amqp", "clinic.reservations", logger.NewNop())

	err := p.PublishReservationsCancelled(context.Background(), ReservationsCancelledEvent{
		OrgID:          "org-1",
		Mode:           "single",
		ReservationIDs: []string{"r1"},
	})

	assert.ErrorIs(t, err, ErrConnect)
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher

	assert.NoError(t, p.PublishReservationsCreated(context.Background(), ReservationsCreatedEvent{}))
	assert.NoError(t, p.PublishReservationsCancelled(context.Background(), ReservationsCancelledEvent{}))
}
