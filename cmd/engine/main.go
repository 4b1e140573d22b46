package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"

	_ "github.com/lintang-b-s/roadroute/docs"
	"github.com/lintang-b-s/roadroute/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/roadroute/pkg/kv"
	"github.com/lintang-b-s/roadroute/pkg/server/rest"
	"github.com/lintang-b-s/roadroute/pkg/server/rest/service"
	"github.com/lintang-b-s/roadroute/pkg/snap"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

var (
	listenAddr      = flag.String("listenaddr", ":5000", "server listen address")
	dbDir           = flag.String("db", "./roadroute_db", "badger directory holding the road network snapshot")
	networkName     = flag.String("name", "default", "name of the road network snapshot to serve")
	cacheDir        = flag.String("cache", "./roadroute_cache", "pebble directory for the route cache, empty keeps the cache in memory")
	noCache         = flag.Bool("nocache", false, "disable the route cache")
	maxSnapDistance = flag.Float64("maxsnap", 0, "positions farther than this from every link are outside the map, 0 means unlimited")
	maxExpansions   = flag.Int("maxexpansions", 0, "junctions a single route calculation may expand, 0 means unlimited")
	workers         = flag.Int("workers", runtime.NumCPU(), "goroutines per batch route request")
	memprofile      = flag.String("memprofile", "", "write memory profile to this file")
)

//	@title			roadroute API
//	@version		1.0
//	@description	point to point route calculation over a directed road network

//	@contact.name	lintang birda saputra
//	@description 	point to point route calculation over a directed road network. positions snap to their nearest road link through an r-tree, routes are found with A* over junctions

//	@license.name	GNU Affero General Public License v3.0
//	@license.url	https://www.gnu.org/licenses/gpl-3.0.en.html

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	flag.Parse()

	store, err := kv.OpenNetworkStore(*dbDir)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	net, err := store.LoadNetwork(context.Background(), *networkName)
	if err != nil {
		log.Fatal(err)
	}
	recordMemProfile(memprofile, "load_road_network")

	indexed, err := snap.NewIndexedNetwork(net, snap.WithMaxSnapDistance(*maxSnapDistance))
	if err != nil {
		log.Fatal(err)
	}

	svcOpts := []service.Option{
		service.WithWorkers(*workers),
		service.WithCalculatorOptions(routingalgorithm.WithMaxExpansions(*maxExpansions)),
	}
	if !*noCache {
		cache, err := kv.OpenRouteCache(*cacheDir)
		if err != nil {
			log.Fatal(err)
		}
		defer cache.Close()
		svcOpts = append(svcOpts, service.WithRouteCache(cache))
	}

	routeSvc := service.NewRouteService(indexed, svcOpts...)
	recordMemProfile(memprofile, "service_init")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost%s/swagger/doc.json", *listenAddr)), //The url pointing to API definition
	))

	rest.RouteRouter(r, routeSvc, m)

	fmt.Printf("\nroad network %q loaded: %d junctions, %d links", *networkName, net.NumJunctions(), net.NumLinks())
	fmt.Printf("\nserver started at %s\n", *listenAddr)

	log.Fatal(http.ListenAndServe(*listenAddr, r))
}

func recordMemProfile(memprofile *string, name string) {
	if *memprofile != "" {
		*memprofile = strings.Replace(*memprofile, ".mprof", fmt.Sprintf("%s.mprof", name), -1)
		f, err := os.Create(*memprofile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
}
