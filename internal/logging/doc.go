// Package logging provides structured logging with per-module log levels.
//
// Records are routed to stdout (text or json), to the systemd journal when
// journald is reachable, and always to an in-memory ring buffer that backs the
// /api/logs endpoints.
//
// Initialize once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"capture": "debug",
//			"api":     "warn",
//		},
//	})
//
// Then fetch a logger per module:
//
//	logger := logging.GetLogger("view")
//	logger.Info("Snapshot saved", "path", path)
//
// Journal output is tagged with SYSLOG_IDENTIFIER=camview:
//
//	journalctl -t camview MODULE=capture -f
package logging
