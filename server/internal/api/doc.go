// Package api implements the brewstack-server REST API.
//
// Routes (all JSON):
//
//	GET    /api/v1/health                  status, session count, cache stats
//	GET    /api/v1/defaults                parameters new sessions start from
//	GET    /api/v1/options                 enum choices, slider ranges, locales
//	GET    /api/v1/guide[?topic=id]        brewing-basics topics
//	POST   /api/v1/simulate                one-shot simulation of a partial body
//	GET    /api/v1/sessions                list live sessions
//	POST   /api/v1/sessions                create a session (optional patch body)
//	GET    /api/v1/sessions/{id}           session plus its simulation
//	PATCH  /api/v1/sessions/{id}           apply a partial parameter update
//	DELETE /api/v1/sessions/{id}           drop the session
//	POST   /api/v1/sessions/{id}/reset     restore the defaults
//
// Every endpoint accepts ?locale=en|zh-TW. Invalid parameters return 400 with
// {"error": ..., "field": ...}; unknown sessions return 404.
package api
