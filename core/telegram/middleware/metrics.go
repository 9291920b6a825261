package middleware

import (
	tele "gopkg.in/telebot.v4"

	"kinobot/core/metrics"
)

// metricsContext wraps tele.Context to count messages sent while handling
// one update. The count feeds the per-update summary log line.
type metricsContext struct{ tele.Context }

func (m metricsContext) incMessages() {
	n := 0
	if v := m.Get("messages"); v != nil {
		if nv, ok := v.(int); ok {
			n = nv
		}
	}
	m.Set("messages", n+1)
	metrics.RepliesSent.WithLabelValues("ok").Inc()
}

// Send proxies tele.Context.Send while updating message counters.
func (m metricsContext) Send(what interface{}, opts ...interface{}) error {
	err := m.Context.Send(what, opts...)
	if err == nil {
		m.incMessages()
	} else {
		metrics.RepliesSent.WithLabelValues("fail").Inc()
	}
	return err
}

// Reply proxies tele.Context.Reply while updating message counters.
func (m metricsContext) Reply(what interface{}, opts ...interface{}) error {
	err := m.Context.Reply(what, opts...)
	if err == nil {
		m.incMessages()
	} else {
		metrics.RepliesSent.WithLabelValues("fail").Inc()
	}
	return err
}

func updateKind(upd tele.Update) string {
	msg := upd.Message
	if msg == nil {
		return "other"
	}
	switch {
	case msg.Text != "":
		return "text"
	case msg.Photo != nil:
		return "photo"
	case msg.Sticker != nil:
		return "sticker"
	case msg.Document != nil:
		return "document"
	case msg.Voice != nil:
		return "voice"
	case msg.Video != nil:
		return "video"
	default:
		return "message_other"
	}
}

// MessageMetricsMiddleware instruments the context to track per-update reply
// counts and feeds the Prometheus update counter.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		c.Set("messages", 0)
		metrics.UpdatesReceived.WithLabelValues(updateKind(c.Update())).Inc()
		return next(metricsContext{Context: c})
	}
}

// GetCounters reads the per-update reply count from context.
func GetCounters(c tele.Context) int {
	msgs := 0
	if v := c.Get("messages"); v != nil {
		if n, ok := v.(int); ok {
			msgs = n
		}
	}
	return msgs
}
