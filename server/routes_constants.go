package server

const (
	RouteHealth         = "/health"
	RouteHealthDetailed = "/health/detailed"
	RoutePing           = "/ping"
	RouteMetrics        = "/metrics"

	APIPrefix = "/api/v1"

	RouteAuthRegister = APIPrefix + "/auth/register"
	RouteAuthLogin    = APIPrefix + "/auth/login"
	RouteAuthRefresh  = APIPrefix + "/auth/refresh"
	RouteAuthMe       = APIPrefix + "/auth/me"

	RouteItems    = APIPrefix + "/items"
	RouteItemByID = APIPrefix + "/items/{id}"

	RouteUsers    = APIPrefix + "/users"
	RouteUserByID = APIPrefix + "/users/{id}"
)
