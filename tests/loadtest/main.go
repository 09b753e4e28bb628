package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
)

const (
	baseURL      = "http://127.0.0.1:8090"
	numWorkers   = 20
	testDuration = 10 * time.Second
	numAccounts  = 10
)

var platforms = []string{"twitter", "youtube"}

var httpClient = &http.Client{
	Timeout: 35 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type target struct {
	platform string
	id       string
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== MoneyPrint Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Accounts: %d per platform\n\n", numWorkers, testDuration, numAccounts)

	fmt.Print("Waiting for server... ")
	if !waitForServer() {
		fmt.Println("FAILED: server not responding")
		return
	}
	fmt.Println("OK")

	fmt.Println("\n--- Seeding accounts ---")
	targets, err := seed()
	if err != nil {
		fmt.Println("FAILED:", err)
		return
	}
	fmt.Printf("Created %d accounts\n", len(targets))

	// every publish is a whole-collection rewrite, so contention shows up here
	fmt.Println("\n--- Phase 1: Publish now (POST /publish) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doPublish(targets[rng.Intn(len(targets))])
	})

	fmt.Println("\n--- Phase 2: Mixed load (20% publish, 80% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		t := targets[rng.Intn(len(targets))]
		r := rng.Float64()
		switch {
		case r < 0.20:
			return doPublish(t)
		case r < 0.60:
			return doGet("GET /history", fmt.Sprintf("/history?platform=%s&id=%s&limit=5", t.platform, t.id))
		case r < 0.90:
			return doGet("GET /accounts", "/accounts?platform="+t.platform)
		default:
			return doGet("GET /health", "/health")
		}
	})
}

func waitForServer() bool {
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return true
		}
		time.Sleep(200 * time.Millisecond)
	}
	return false
}

func seed() ([]target, error) {
	var targets []target
	for _, p := range platforms {
		for i := 0; i < numAccounts; i++ {
			body, _ := json.Marshal(map[string]string{
				"nickname": fmt.Sprintf("load_%s_%d", p, i),
				"topic":    "load testing",
			})
			resp, err := httpClient.Post(baseURL+"/accounts?platform="+p, "application/json", bytes.NewReader(body))
			if err != nil {
				return nil, err
			}
			var acc struct {
				ID string `json:"id"`
			}
			err = json.NewDecoder(resp.Body).Decode(&acc)
			resp.Body.Close()
			if err != nil {
				return nil, err
			}
			if resp.StatusCode != http.StatusCreated {
				return nil, fmt.Errorf("create account: status %d", resp.StatusCode)
			}
			targets = append(targets, target{platform: p, id: acc.ID})
		}
	}
	return targets, nil
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 1000)
	var wg sync.WaitGroup
	totalOps := atomic.NewInt64(0)
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(rng)
					totalOps.Inc()
				}
			}
		}(rand.Int63() + int64(i))
	}

	byEndpoint := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := byEndpoint[r.endpoint]
			if !ok {
				s = &stats{}
				byEndpoint[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(byEndpoint, totalOps.Load(), duration)
}

func printResults(byEndpoint map[string]*stats, totalOps int64, duration time.Duration) {
	endpoints := make([]string, 0, len(byEndpoint))
	for ep := range byEndpoint {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-16s %8s %6s %10s %10s %10s\n", "Endpoint", "Reqs", "Errs", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 66))

	var totalErrors int64
	for _, ep := range endpoints {
		s := byEndpoint[ep]
		totalErrors += s.errors
		sort.Slice(s.latencies, func(i, j int) bool { return s.latencies[i] < s.latencies[j] })
		fmt.Printf("  %-16s %8d %6d %10s %10s %10s\n", ep, s.count, s.errors,
			fmtDur(percentile(s.latencies, 0.50)), fmtDur(percentile(s.latencies, 0.95)), fmtDur(percentile(s.latencies, 0.99)))
	}

	fmt.Println("  " + strings.Repeat("-", 66))
	if totalOps == 0 {
		return
	}
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, float64(totalOps)/duration.Seconds())
}

func doPublish(t target) result {
	start := time.Now()
	resp, err := httpClient.Post(fmt.Sprintf("%s/publish?platform=%s&id=%s", baseURL, t.platform, t.id), "application/json", nil)
	lat := time.Since(start)
	if err != nil {
		return result{"POST /publish", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /publish", resp.StatusCode, lat, resp.StatusCode != http.StatusCreated}
}

func doGet(name, path string) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{name, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{name, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
