package models

// RunningMessage is the fixed text returned by the status endpoint
const RunningMessage = "API está rodando"

// StatusResponse is the body of the status endpoint
type StatusResponse struct {
	Message string `json:"message" example:"API está rodando"`
}
