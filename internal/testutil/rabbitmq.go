package testutil

import (
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// StartRabbitMQ launches a RabbitMQ container and returns a ready AMQP
// connection, closed through t.Cleanup.
func StartRabbitMQ(t *testing.T) *amqp.Connection {
	t.Helper()

	_, addr := startContainer(t, testcontainers.ContainerRequest{
		Image:        "rabbitmq:3.13-alpine",
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor:   wait.ForListeningPort("5672/tcp").WithStartupTimeout(90 * time.Second),
	}, "5672")

	conn, err := amqp.DialConfig("amqp://guest:guest@"+addr+"/", amqp.Config{
		Dial: amqp.DefaultDial(10 * time.Second),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}
