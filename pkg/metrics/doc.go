// Package metrics exports request-scoped session lifecycle metrics to Prometheus.
//
//	collector, err := metrics.NewSessionCollector(prometheus.DefaultRegisterer)
//	if err != nil {
//		return err
//	}
//	sessions, err := dbsession.New(factory, dbsession.WithObserver(collector))
//
// Exported series (default namespace "dbscope"):
//
//	dbscope_db_session_opened_total
//	dbscope_db_session_open_failures_total
//	dbscope_db_session_active
//	dbscope_db_session_finished_total{outcome}
//	dbscope_db_session_duration_seconds{outcome}
//	dbscope_db_session_teardown_failures_total{stage}
//
// A non-zero active gauge at rest points to scopes that were never ended.
package metrics
