package handlers

import (
	"bufio"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/trentd187/golf-wagers/internal/middleware"
	"github.com/trentd187/golf-wagers/internal/notify"
)

// keepAliveInterval keeps proxies (the ALB idles out at 60s) from closing a quiet stream.
const keepAliveInterval = 25 * time.Second

// NotificationStream handles GET /api/v1/notifications/stream.
//
// The connection is held open as a server-sent event stream. Every notification for
// the caller (settlement created, settlement paid) arrives as one "data:" line holding
// the JSON-encoded notify.Event. The stream ends when the client goes away or the
// server shuts the hub down.
func NotificationStream(hub *notify.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		client := notify.NewClient(middleware.UserID(c))
		if err := hub.Register(client); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "notifications are unavailable"})
		}

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")
		c.Set("X-Accel-Buffering", "no")

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			defer hub.Unregister(client)
			ticker := time.NewTicker(keepAliveInterval)
			defer ticker.Stop()
			writeEvents(w, client.Send, ticker.C)
		}))
		return nil
	}
}

// writeEvents copies messages to w until messages is closed or a flush fails,
// which is how a disconnected client shows up.
func writeEvents(w *bufio.Writer, messages <-chan []byte, keepAlive <-chan time.Time) {
	fmt.Fprint(w, ": connected\n\n")
	if err := w.Flush(); err != nil {
		return
	}
	for {
		select {
		case data, ok := <-messages:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
		case <-keepAlive:
			fmt.Fprint(w, ": ping\n\n")
		}
		if err := w.Flush(); err != nil {
			return
		}
	}
}
