package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	OnlineConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_ws_connections",
		Help: "Current open websocket connections.",
	})
	OnlineUsers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_online_users",
		Help: "Users currently present in the registry.",
	})

	WSPushOK = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_ws_push_ok_total",
		Help: "Total ws events queued successfully.",
	})
	WSPushDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_ws_push_dropped_total",
		Help: "Total ws events dropped (closed client or full egress).",
	})
	WSPushOffline = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_ws_push_offline_total",
		Help: "Total new-message events handed to the offline pusher.",
	})

	OfflinePushOK = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_offline_push_ok_total",
		Help: "Total offline notifications enqueued.",
	})
	OfflinePushFail = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_offline_push_fail_total",
		Help: "Total offline notification enqueue failures (logged, not retried).",
	})
)

func Register() {
	prometheus.MustRegister(
		OnlineConns, OnlineUsers,
		WSPushOK, WSPushDropped, WSPushOffline,
		OfflinePushOK, OfflinePushFail,
	)
}
