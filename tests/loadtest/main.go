package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

const (
	baseURL      = "http://127.0.0.1:8080"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numPayloads  = 300
)

var qrTypes = []string{"text", "url", "phone", "sms", "wifi"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
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
	fmt.Println("=== QRKeep Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Payloads: %d\n\n", numWorkers, testDuration, numPayloads)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Generating codes (POST /generate) ---")
	runPhase(testDuration, doGenerate)

	fmt.Println("\n--- Phase 2: Mixed load (40% generate, 60% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.40:
			return doGenerate(rng)
		case r < 0.60:
			return doHistory(rng)
		case r < 0.80:
			return doPNG(rng)
		case r < 0.90:
			return doToggleFavorite(rng)
		default:
			return doRequest("GET /stats", http.MethodGet, "/stats", nil, http.StatusOK)
		}
	})

	fmt.Println("\n--- Phase 3: Render-heavy load (cached PNG) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.10 {
			return doHistory(rng)
		}
		return doPNG(rng)
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
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
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
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

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-26s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 92))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-26s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 92))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func payloadFields(rng *rand.Rand, qrType string) map[string]interface{} {
	n := rng.Intn(numPayloads)
	switch qrType {
	case "url":
		return map[string]interface{}{"url": fmt.Sprintf("example.com/item/%d", n)}
	case "phone":
		return map[string]interface{}{"number": fmt.Sprintf("+1555%07d", n)}
	case "sms":
		return map[string]interface{}{"number": fmt.Sprintf("+1555%07d", n), "message": "load test"}
	case "wifi":
		return map[string]interface{}{"ssid": fmt.Sprintf("net-%d", n), "password": "secret", "security": "WPA"}
	default:
		return map[string]interface{}{"text": fmt.Sprintf("payload %d", n)}
	}
}

func doGenerate(rng *rand.Rand) result {
	qrType := qrTypes[rng.Intn(len(qrTypes))]
	body, _ := json.Marshal(map[string]interface{}{
		"type":   qrType,
		"fields": payloadFields(rng, qrType),
	})
	// 200 is a deduplicated repeat, 201 a new entry
	return doRequest("POST /generate", http.MethodPost, "/generate", body, http.StatusCreated, http.StatusOK)
}

func doHistory(rng *rand.Rand) result {
	filters := []string{"all", "generated", "favorites"}
	q := url.Values{"filter": {filters[rng.Intn(len(filters))]}}
	if rng.Float64() < 0.3 {
		q.Set("q", fmt.Sprintf("%d", rng.Intn(numPayloads)))
	}
	return doRequest("GET /history", http.MethodGet, "/history?"+q.Encode(), nil, http.StatusOK)
}

func doPNG(rng *rand.Rand) result {
	q := url.Values{"data": {fmt.Sprintf("payload %d", rng.Intn(numPayloads))}}
	return doRequest("GET /qr.png", http.MethodGet, "/qr.png?"+q.Encode(), nil, http.StatusOK)
}

func doToggleFavorite(rng *rand.Rand) result {
	body, _ := json.Marshal(map[string]string{"data": fmt.Sprintf("payload %d", rng.Intn(numPayloads))})
	return doRequest("POST /favorites/toggle", http.MethodPost, "/favorites/toggle", body, http.StatusOK)
}

func doRequest(endpoint, method, path string, body []byte, okStatus ...int) result {
	req, err := http.NewRequest(method, baseURL+path, bytes.NewReader(body))
	if err != nil {
		return result{endpoint, 0, 0, true}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	failed := true
	for _, s := range okStatus {
		if resp.StatusCode == s {
			failed = false
		}
	}
	return result{endpoint, resp.StatusCode, lat, failed}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
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
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
