package router

import (
	"net/http"

	"room-chat-server/internal/api"
	"room-chat-server/internal/api/endpoints"
)

func ChatRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		chatEndpoints := endpoints.NewChatEndpoints(s.Handler(), s.Config().Rooms)

		mux.HandleFunc(prefix+"/rooms", s.MakeHTTPHandleFunc(chatEndpoints.Rooms))
		mux.HandleFunc(prefix+"/ws", s.MakeDirectHandleFunc(chatEndpoints.Websocket))
	}
}
