package main

import (
	"net/http"
)

// healthcheck reports the running version and the storage driver behind the catalog.
func (app *Application) healthcheck(w http.ResponseWriter, r *http.Request) {
	app.Http.Ok(w, r, envelop{
		"status":  "available",
		"storage": app.cfg.DB.Driver,
		"debug":   app.cfg.Debug,
		"version": version,
	}, "")
}
