package main

import "net/http"

type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Env     string `json:"env" example:"development"`
	Version string `json:"version" example:"1.0.0"`
}

// healthCheckHandler godoc
//
//	@Summary	Health check
//	@Tags		ops
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Security	BasicAuth
//	@Router		/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	_ = app.jsonResponse(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Env:     app.config.env,
		Version: version,
	})
}
