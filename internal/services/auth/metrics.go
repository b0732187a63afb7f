package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	secureLogins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nasauth_secure_logins_total",
		Help: "Logins completed with the handshake mechanism.",
	})

	legacyLogins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nasauth_legacy_logins_total",
		Help: "Logins completed with RSA password encryption.",
	})

	loginFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nasauth_login_failures_total",
		Help: "Login attempts that ended in an error.",
	})
)
