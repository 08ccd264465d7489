package api

// HTTP routes served by the filter API.
const (
	RouteHealth         = "GET /healthz"
	RouteFilter         = "POST /v1/filter"
	RouteFilterRequests = "GET /v1/filter/requests"
	RouteFilterRequest  = "GET /v1/filter/requests/{request_id}"
)
