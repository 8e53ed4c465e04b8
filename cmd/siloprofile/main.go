// Command siloprofile runs a fixed create-then-query workload under
// runtime/pprof's CPU profiler, the way edwinsyarief-lazyecs's
// profile/query/main.go profiles its own query loop directly instead of
// pulling in a wrapper package.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/flintlock-dev/silo"
)

type position struct{ X, Y float64 }
type velocity struct{ X, Y float64 }

func main() {
	out := flag.String("cpuprofile", "siloprofile.prof", "write CPU profile to file")
	entities := flag.Int("entities", 100000, "number of entities to create")
	ticks := flag.Int("ticks", 100, "number of query passes to run")
	flag.Parse()

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	if err := pprof.StartCPUProfile(f); err != nil {
		log.Fatal(err)
	}
	defer pprof.StopCPUProfile()

	world := silo.NewWorld()
	for i := 0; i < *entities; i++ {
		if _, err := silo.Create2(world, position{X: float64(i)}, velocity{X: 1}); err != nil {
			log.Fatal(err)
		}
	}

	q := silo.NewQuery2[position, velocity](silo.Write[position](), silo.Read[velocity]())
	for t := 0; t < *ticks; t++ {
		for row := range q.IterMut(world) {
			row.C1.X += row.C2.X
			row.C1.Y += row.C2.Y
		}
	}

	fmt.Printf("ran %d ticks over %d entities, profile written to %s\n", *ticks, world.Entities(), *out)
}
