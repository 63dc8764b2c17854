// Command bench runs a synthetic workload against a map and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/lrumap/cache"
	pmet "github.com/IvanBrykalov/lrumap/metrics/prom"
)

func main() {
	// ---- Flags ----
	var (
		capacity = flag.Int("cap", 100_000, "map capacity (entries)")
		variant  = flag.String("variant", "hash", "key index: hash | ordered")
		hasher   = flag.String("hasher", "builtin", "hash variant only: builtin | fnv | xxhash")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")
		rangePct = flag.Int("ranges", 0, "ordered variant only: percentage of reads that are range queries")
		window   = flag.Int("window", 64, "width of range queries in keys")

		keys    = flag.Int("keys", 1_000_000, "keyspace size")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload = flag.Int("preload", 0, "preload entries (0 = cap/2)")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr")
		verbose     = flag.Bool("v", false, "debug logging (logs every eviction)")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Info("pprof: serving", "addr", *pprofAddr)
			log.Warn("pprof: stopped", "err", http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "lru", "bench", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Info("metrics: serving", "addr", *metricsAddr)
		log.Warn("metrics: stopped", "err", http.ListenAndServe(*metricsAddr, nil))
	}()

	// ---- Build map ----
	opt := cache.Options[int, string]{
		Capacity: *capacity,
		Metrics:  metrics,
		Logger:   log,
	}
	var (
		m       cache.Map[int, string]
		ordered *cache.OrderedMap[int, string]
		err     error
	)
	switch *variant {
	case "hash":
		switch *hasher {
		case "builtin":
		case "fnv":
			opt.Hasher = cache.FNV[int]
		case "xxhash":
			opt.Hasher = cache.XXHash[int]
		default:
			err = fmt.Errorf("unknown hasher %q (use builtin, fnv or xxhash)", *hasher)
		}
		if err == nil {
			m, err = cache.NewHash(opt)
		}
	case "ordered":
		ordered, err = cache.NewOrdered(opt)
		m = ordered
	default:
		err = fmt.Errorf("unknown variant %q (use hash or ordered)", *variant)
	}
	if err != nil {
		log.Error("build map", "err", err)
		os.Exit(2)
	}
	if ordered == nil && *rangePct > 0 {
		log.Warn("range queries need -variant=ordered; ignoring -ranges")
	}
	lm := cache.NewLocked[int, string](m, nil)

	// ---- Preload half capacity to get a realistic hit-rate ----
	pl := *preload
	if pl == 0 {
		pl = *capacity / 2
	}
	for i := 0; i < pl; i++ {
		lm.Push(i, "v"+strconv.Itoa(i))
	}

	// ---- Snapshot flags for goroutines ----
	readPctVal := *readPct
	rangePctVal := *rangePct
	windowVal := *window
	keysMax := uint64(*keys - 1)
	seedBase := *seed
	zipfSVal := *zipfS
	zipfVVal := *zipfV
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	// ---- Load generation ----
	var reads, writes, ranges, hits, misses, total atomic.Uint64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workersN; w++ {
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			localR := rand.New(rand.NewSource(seedBase + int64(w)*9973))
			localZipf := rand.NewZipf(localR, zipfSVal, zipfVVal, keysMax)
			keyByZipf := func() int { return int(localZipf.Uint64()) }

			for {
				select {
				case <-ctx.Done():
					if errors.Is(ctx.Err(), context.DeadlineExceeded) {
						return nil
					}
					return ctx.Err()
				default:
				}

				total.Add(1)
				switch {
				case int(localR.Int31n(100)) >= readPctVal:
					writes.Add(1)
					lm.Push(keyByZipf(), "v"+strconv.Itoa(localR.Int()))
				case ordered != nil && int(localR.Int31n(100)) < rangePctVal:
					ranges.Add(1)
					lo := keyByZipf()
					lm.Do(func(cache.Map[int, string]) {
						ordered.MostRecentInRange(cache.HalfOpen(lo, lo+windowVal))
					})
				default:
					reads.Add(1)
					if _, ok := lm.Get(keyByZipf()); ok {
						hits.Add(1)
					} else {
						misses.Add(1)
					}
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("workload", "err", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	// ---- Report ----
	ops := total.Load()
	readsN, hitsN := reads.Load(), hits.Load()
	hitRate := 0.0
	if readsN > 0 {
		hitRate = float64(hitsN) / float64(readsN) * 100
	}

	fmt.Printf("variant=%s hasher=%s cap=%d workers=%d keys=%d dur=%v seed=%d\n",
		*variant, *hasher, *capacity, workersN, *keys, elapsed, seedBase)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d  ranges=%d\n",
		ops, float64(ops)/elapsed.Seconds(), readsN, writes.Load(), ranges.Load())
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", hitsN, misses.Load(), hitRate)
	fmt.Printf("Len()=%d\n", lm.Len())
}
