package handler

import (
	"net/http"
	"sync"

	"todoapi/config"
	"todoapi/di"
	"todoapi/shared/logger"
	"todoapi/shared/timezone"
)

var (
	app  http.Handler
	once sync.Once
)

// Handler is the serverless entry point. The service graph is built on the
// first request and reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.Setup(cfg)
		timezone.Init(cfg.App.Timezone)

		app = di.InitializeService().Handler()
	})

	r.RequestURI = r.URL.String()

	app.ServeHTTP(w, r)
}
