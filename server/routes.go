package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	api := s.APIMiddleware()
	authed := s.APIMiddleware(s.RequireAuth())
	admin := s.APIMiddleware(s.RequireAuth(), s.RequireSuperuser())

	// Health and observability (governor-exempt by configuration)
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), api...))
	s.RegisterRouteHandler("GET "+RouteHealthDetailed, ChainMiddleware(s.DetailedHealthHandler(), api...))
	s.RegisterRouteHandler("GET "+RoutePing, ChainMiddleware(s.PingHandler(), api...))
	s.RegisterRouteHandler("GET "+RouteMetrics, ChainMiddleware(promhttp.Handler().ServeHTTP, api...))

	// Authentication
	s.RegisterRouteHandler("POST "+RouteAuthRegister, ChainMiddleware(s.RegisterHandler(), api...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), api...))
	s.RegisterRouteHandler("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), api...))
	s.RegisterRouteHandler("GET "+RouteAuthMe, ChainMiddleware(s.CurrentUserHandler(), authed...))

	// Items
	s.RegisterRouteHandler("GET "+RouteItems, ChainMiddleware(s.ListItemsHandler(), authed...))
	s.RegisterRouteHandler("POST "+RouteItems, ChainMiddleware(s.CreateItemHandler(), authed...))
	s.RegisterRouteHandler("GET "+RouteItemByID, ChainMiddleware(s.GetItemHandler(), authed...))
	s.RegisterRouteHandler("PUT "+RouteItemByID, ChainMiddleware(s.UpdateItemHandler(), authed...))
	s.RegisterRouteHandler("DELETE "+RouteItemByID, ChainMiddleware(s.DeleteItemHandler(), authed...))

	// Users (mutations are admin only)
	s.RegisterRouteHandler("GET "+RouteUsers, ChainMiddleware(s.ListUsersHandler(), admin...))
	s.RegisterRouteHandler("POST "+RouteUsers, ChainMiddleware(s.CreateUserHandler(), admin...))
	s.RegisterRouteHandler("GET "+RouteUserByID, ChainMiddleware(s.GetUserHandler(), authed...))
	s.RegisterRouteHandler("PUT "+RouteUserByID, ChainMiddleware(s.UpdateUserHandler(), authed...))
	s.RegisterRouteHandler("DELETE "+RouteUserByID, ChainMiddleware(s.DeleteUserHandler(), admin...))
}
