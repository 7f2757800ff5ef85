package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/airtrack/api"
	"github.com/Domenick1991/airtrack/config"
	"github.com/Domenick1991/airtrack/internal/service/booking"
	"github.com/Domenick1991/airtrack/internal/service/ops"
	"github.com/Domenick1991/airtrack/internal/service/support"
	"github.com/Domenick1991/airtrack/internal/service/trips"
	"github.com/Domenick1991/airtrack/internal/service/users"
	"github.com/gin-gonic/gin"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"
)

const swaggerFile = "airtrack.swagger.json"

type Services struct {
	Trips    trips.TripUseCase
	Bookings booking.BookingUseCase
	Support  support.SupportUseCase
	Users    users.UserUseCase
	Ops      ops.OpsUseCase
}

type Servers struct {
	grpcServer *grpc.Server
	health     *health.Server
	healthConn *grpc.ClientConn
	httpServer *http.Server
}

// Run starts the gRPC health server and the HTTP server (REST API, gateway
// /healthz, swagger) and blocks until ctx is cancelled or a server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services, tokens api.TokenParser, log *slog.Logger) error {
	s, err := newServers(cfg, svc, tokens, log)
	if err != nil {
		return err
	}
	defer s.healthConn.Close()

	errCh := make(chan error, 2)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}
	go func() { errCh <- s.grpcServer.Serve(lis) }()

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Info("servers started", slog.String("http", cfg.HTTP.Address), slog.String("grpc", cfg.GRPC.Address))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		s.health.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newServers(cfg *config.Config, svc Services, tokens api.TokenParser, log *slog.Logger) (*Servers, error) {
	grpcSrv := grpc.NewServer()
	healthSrv := health.NewServer()
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)

	conn, err := grpc.NewClient(cfg.GRPC.Address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial gRPC health endpoint: %w", err)
	}

	gateway := runtime.NewServeMux(
		runtime.WithHealthzEndpoint(healthpb.NewHealthClient(conn)),
		runtime.WithMarshalerOption(runtime.MIMEWildcard, &runtime.JSONPb{
			MarshalOptions: protojson.MarshalOptions{UseProtoNames: true, EmitUnpopulated: true},
		}),
	)

	engine := NewRouter(cfg.HTTP, svc, tokens, log)
	engine.GET("/healthz", gin.WrapH(gateway))

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           corsHandler(cfg.HTTP.AllowedOrigins).Handler(engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Servers{
		grpcServer: grpcSrv,
		health:     healthSrv,
		healthConn: conn,
		httpServer: httpSrv,
	}, nil
}

// NewRouter builds the gin engine with every API handler mounted under /api.
func NewRouter(cfg config.HTTPConfig, svc Services, tokens api.TokenParser, log *slog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	engine := gin.New()
	engine.Use(api.RequestID(), api.Recovery(log), api.RequestLogger(log), api.Authenticate(tokens))

	group := engine.Group("/api")
	api.NewTripHandler(svc.Trips).Register(group)
	api.NewBookingHandler(svc.Bookings).Register(group)
	api.NewSupportHandler(svc.Support).Register(group)
	api.NewAuthHandler(svc.Users).Register(group)
	api.NewAdminHandler(svc.Ops).Register(group)

	if cfg.SwaggerDir != "" {
		engine.Static("/swagger", cfg.SwaggerDir)
		engine.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/"+swaggerFile))))
	}
	return engine
}

func corsHandler(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	})
}
