package server

import (
	"fmt"

	"github.com/fieldops/apigate/pkg/config"
	httpHandlers "github.com/fieldops/apigate/pkg/handlers/http"
	"github.com/fieldops/apigate/pkg/infra/prometheus"
	"github.com/fieldops/apigate/pkg/middleware"
	"github.com/fieldops/apigate/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	AdmissionServerDI struct {
		Config           *config.Config
		Logger           *logrus.Logger
		Pipeline         *middleware.Pipeline
		HandlerTransport httpHandlers.HandlerTransport
		ExtraRoutes      []router.Route
	}
	AdmissionServer struct {
		*BaseServer
	}
)

// NewAdmissionServer builds the public API server: health probes first
// (outside the pipeline), then every API route behind the admission chain.
func NewAdmissionServer(di AdmissionServerDI) *AdmissionServer {
	prometheus.Initialize(prometheus.MetricsConfig{
		EnableLatency:     di.Config.Metrics.EnableLatency,
		EnableConnections: di.Config.Metrics.EnableConnections,
	})

	s := &AdmissionServer{
		BaseServer: NewBaseServer(di.Config, di.Logger),
	}

	s.setupHealthCheck()
	s.WithRouters(router.NewAPIRouter(di.Pipeline, di.HandlerTransport, di.ExtraRoutes))
	s.setupMetricsEndpoint()
	return s
}

func (s *AdmissionServer) Run() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("starting admission server")
	return s.Router.Listen(addr)
}

func (s *AdmissionServer) Shutdown() error {
	return s.Router.Shutdown()
}
