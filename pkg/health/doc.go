// Package health provides liveness and readiness HTTP handlers.
//
// Readiness runs named checks in parallel under a shared timeout and answers
// 503 when any of them fails:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "database": db.Healthcheck(engine),
//	}, health.WithTimeout(3*time.Second), health.WithLogger(log)))
//
// Plain text is the default response. Send Accept: application/json or
// ?format=json for the per-check report:
//
//	{"status":"unhealthy","checks":{"database":{"status":"unhealthy","error":"..."}}}
package health
