package httpserver

import (
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	h := http.NotFoundHandler()

	t.Run("defaults", func(t *testing.T) {
		srv := New(":8080", h)
		assert.Equal(t, ":8080", srv.Addr)
		assert.Equal(t, defaultWriteTimeout, srv.WriteTimeout)
		assert.Equal(t, readHeaderTimeout, srv.ReadHeaderTimeout)
		assert.Nil(t, srv.ErrorLog)
	})

	t.Run("write timeout follows slow gateways", func(t *testing.T) {
		srv := New(":8080", h, WithWriteTimeout(45*time.Second))
		assert.Equal(t, 45*time.Second, srv.WriteTimeout)
	})

	t.Run("write timeout never shrinks", func(t *testing.T) {
		srv := New(":8080", h, WithWriteTimeout(time.Second))
		assert.Equal(t, defaultWriteTimeout, srv.WriteTimeout)
	})

	t.Run("logger", func(t *testing.T) {
		srv := New(":8080", h, WithLogger(slog.Default()))
		assert.NotNil(t, srv.ErrorLog)
	})
}
