package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aboubacarelhacen/silo/pkg/config"
	"github.com/Aboubacarelhacen/silo/pkg/models"
)

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestLiveChannel(t *testing.T) {
	env := newTestEnv(t, config.HTTPConfig{}, plainSource{})

	srv := httptest.NewServer(env.server.Router())
	defer srv.Close()

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws"), nil)
	require.NoError(t, err)

	defer func() {
		_ = conn.Close()
		_ = resp.Body.Close()
	}()

	// Subscription registration races the dial returning; wait for it.
	require.Eventually(t, func() bool {
		return env.hub.SubscriberCount() == 1
	}, time.Second, 10*time.Millisecond)

	update := models.LevelUpdate{
		LevelPercent: 62.5,
		Status:       models.StatusNormal,
		Timestamp:    time.Now().UTC(),
	}
	env.hub.Publish(models.TopicLevelUpdated, update)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))

	var event struct {
		Type    string             `json:"type"`
		Payload models.LevelUpdate `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&event))

	assert.Equal(t, models.TopicLevelUpdated, event.Type)
	assert.Equal(t, 62.5, event.Payload.LevelPercent)
	assert.Equal(t, models.StatusNormal, event.Payload.Status)
}

func TestLiveChannelReceivesBothTopics(t *testing.T) {
	env := newTestEnv(t, config.HTTPConfig{}, plainSource{})

	srv := httptest.NewServer(env.server.Router())
	defer srv.Close()

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws"), nil)
	require.NoError(t, err)

	defer func() {
		_ = conn.Close()
		_ = resp.Body.Close()
	}()

	require.Eventually(t, func() bool {
		return env.hub.SubscriberCount() == 1
	}, time.Second, 10*time.Millisecond)

	env.hub.Publish(models.TopicLevelUpdated, models.LevelUpdate{LevelPercent: 10})
	env.hub.Publish(models.TopicTemperatureUpdated, models.TemperatureUpdate{TemperatureC: 75})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))

	seen := make(map[string]bool)

	for i := 0; i < 2; i++ {
		var event wsEvent
		require.NoError(t, conn.ReadJSON(&event))

		seen[event.Type] = true
	}

	assert.True(t, seen[models.TopicLevelUpdated])
	assert.True(t, seen[models.TopicTemperatureUpdated])
}

func TestLiveChannelAuthGate(t *testing.T) {
	env := newTestEnv(t, config.HTTPConfig{RequireTelemetryAuth: true}, plainSource{})

	srv := httptest.NewServer(env.server.Router())
	defer srv.Close()

	t.Run("rejected without token", func(t *testing.T) {
		conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws"), nil)
		require.Error(t, err)

		if conn != nil {
			_ = conn.Close()
		}

		require.NotNil(t, resp)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("accepted with access_token query parameter", func(t *testing.T) {
		token := env.loginAs(t, "admin", "admin123")

		conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws?access_token="+token), nil)
		require.NoError(t, err)

		defer func() {
			_ = conn.Close()
			_ = resp.Body.Close()
		}()

		require.Eventually(t, func() bool {
			return env.hub.SubscriberCount() == 1
		}, time.Second, 10*time.Millisecond)
	})
}

func TestLiveChannelUnsubscribesOnClose(t *testing.T) {
	env := newTestEnv(t, config.HTTPConfig{}, plainSource{})

	srv := httptest.NewServer(env.server.Router())
	defer srv.Close()

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws"), nil)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Eventually(t, func() bool {
		return env.hub.SubscriberCount() == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return env.hub.SubscriberCount() == 0
	}, time.Second, 10*time.Millisecond)
}
