package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"chatwire/internal/app/server/handlers"
	"chatwire/internal/core/domain"
	"chatwire/internal/core/services"
	"chatwire/pkg/middleware"
)

type Server struct {
	log        *slog.Logger
	mux        *http.ServeMux
	name       string
	addr       string
	wsHandler  *handlers.WSHandler
	msgHandler *handlers.MessageHandler
	prsHandler *handlers.PresenceHandler
	tokenSvc   *services.TokenService
	httpServer *http.Server
}

func NewServer(
	log *slog.Logger,
	name, addr string,
	tokenSvc *services.TokenService,
	delivery *services.DeliveryService,
	presence *services.PresenceService,
	messages domain.MessageRepository,
	users domain.UserRepository,
) *Server {
	s := &Server{
		log:        log,
		mux:        http.NewServeMux(),
		name:       name,
		addr:       addr,
		wsHandler:  handlers.NewWSHandler(delivery),
		msgHandler: handlers.NewMessageHandler(delivery, messages, users),
		prsHandler: handlers.NewPresenceHandler(presence),
		tokenSvc:   tokenSvc,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	auth := middleware.AuthMiddleware(s.tokenSvc)
	logged := middleware.RequestLogger(s.log)
	traced := middleware.TracerMiddleware(s.name)

	protect := func(h http.HandlerFunc) http.Handler {
		return traced(logged(auth(h)))
	}

	s.mux.Handle("POST /api/messages/send/{receiverId}", protect(s.msgHandler.Send))
	s.mux.Handle("GET /api/messages/{userId}", protect(s.msgHandler.History))
	s.mux.Handle("GET /api/users", protect(s.msgHandler.Contacts))
	s.mux.Handle("GET /api/presence", protect(s.prsHandler.Online))
	s.mux.Handle("GET /ws", protect(s.wsHandler.Handler))
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:        s.addr,
		Handler:     s.mux,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: it would sever long-lived websocket sessions.
	}
	s.log.Info("server starting", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
