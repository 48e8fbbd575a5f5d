package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/merchware/scanlink/pkg/backend"
	"github.com/merchware/scanlink/pkg/version"
	"github.com/sirupsen/logrus"
)

type apiServer struct {
	ctx  context.Context
	log  *logrus.Entry
	port int
}

func NewAPIServer(ctx context.Context, log *logrus.Entry, port int) *apiServer {
	return &apiServer{
		ctx:  ctx,
		log:  log,
		port: port,
	}
}

func newRouter(log *logrus.Entry, b backend.Backend) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(loggingMiddleware(log))
	h := newHandler(b)

	// When functioning properly, these routes return the running app version
	router.Path("/").HandlerFunc(h.root)
	router.Path("/healthz").HandlerFunc(h.root)

	// Admin routes, consumed by the embedded merchant UI. Session handling is
	// the surrounding app's concern and terminates before these handlers.
	api := router.PathPrefix("/api").Subrouter()
	api.Path("/qrcodes").Methods("GET").HandlerFunc(h.listRecords)
	api.Path("/qrcodes/{id}").Methods("GET").HandlerFunc(h.getRecord)
	api.Path("/qrcodes/{id}").Methods("PATCH").HandlerFunc(h.configureDestination)
	api.Path("/qrcodes/{id}/answer").Methods("PATCH").HandlerFunc(h.answerQuestion)
	api.Path("/qrcodes/{id}").Methods("DELETE").HandlerFunc(h.deleteRecord)

	// Storefront visitors submit questions through the shop's app proxy
	router.Path("/proxy/questions").Methods("POST").HandlerFunc(h.createQuestion)

	// Public scan and image routes, reachable from the printed QR code itself
	router.Path("/qrcodes/{id}/scan").Methods("GET").HandlerFunc(h.scan)
	router.Path("/qrcodes/{id}/image").Methods("GET").HandlerFunc(h.image)

	// Note: this allows not found urls to be logged via the middleware
	// It **HAS** to be defined after all other paths are defined.
	router.NotFoundHandler = router.NewRoute().HandlerFunc(http.NotFound).GetHandler()

	return router
}

func (a *apiServer) Start(backend backend.Backend) error {
	logrus.Infof("Version: %s", version.Get())

	router := newRouter(a.log, backend)

	// Below this point is where the server is started and graceful shutdown occurs.
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.port),
		Handler: handlers.CORS()(router),
	}

	go func() {
		a.log.WithField("port", a.port).Info("starting api server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Fatalf("listen: %s\n", err)
		}
	}()

	go backend.StartReconcilerDaemon(a.ctx.Done())

	<-a.ctx.Done()

	a.log.Info("shutting down the api server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer func() {
		cancel()
	}()

	if err := srv.Shutdown(ctx); err != nil {
		a.log.WithError(err).Error("unable to shutdown the api server gracefully")
		return err
	}

	return nil
}
