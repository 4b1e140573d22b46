package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/lintang-b-s/roadroute/pkg/kv"
	"github.com/lintang-b-s/roadroute/pkg/osmparser"
)

var (
	mapFile     = flag.String("f", "solo_jogja.osm.pbf", "openstreetmap file (.osm, .xml or .pbf) to build the road network from")
	dbDir       = flag.String("db", "./roadroute_db", "badger directory the road network snapshot is saved to")
	networkName = flag.String("name", "default", "name the road network is saved under")
	allVertices = flag.Bool("allvertices", false, "turn every way vertex into a junction")
	cpuprofile  = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile  = flag.String("memprofile", "", "write memory profile to this file")
)

func main() {
	flag.Parse()
	if *cpuprofile != "" {
		// https://go.dev/blog/pprof
		// ./bin/roadroute-preprocessing -cpuprofile=roadroutecpu.prof -memprofile=roadroutemem.mprof
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()

		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []osmparser.Option{osmparser.WithProgress(os.Stderr)}
	if *allVertices {
		opts = append(opts, osmparser.WithAllVertices())
	}

	log.Printf("reading osm file %s", *mapFile)
	net, err := osmparser.NewOSMParser(opts...).Parse(ctx, *mapFile)
	if err != nil {
		log.Fatal(err)
	}
	recordMemProfile(memprofile, "parsing_osm_data")

	store, err := kv.OpenNetworkStore(*dbDir)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	if err := store.SaveNetwork(ctx, *networkName, net); err != nil {
		log.Fatal(err)
	}
	recordMemProfile(memprofile, "saving_road_network")

	meta, err := store.Meta(*networkName)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nroad network %q ready: %d junctions, %d links, version %x, %d bytes\n", *networkName,
		meta.NumJunctions, meta.NumLinks, meta.Version, meta.Size)
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
