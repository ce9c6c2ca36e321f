package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Scenario is one economy action the load test can fire
type Scenario struct {
	Name   string
	Method string
	// Path may reference {card} and {booster}
	Path string
	Body any
}

// TestResult contains metrics for a single request
type TestResult struct {
	Scenario     string
	StatusCode   int
	ResponseTime time.Duration
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests     int
	Succeeded         int
	Rejected          int // 4xx: the economy refused the action
	Failed            int // 5xx or transport error
	TotalTime         time.Duration
	ResponseTimes     []time.Duration
	StatusCounts      map[int]int
	ScenarioStats     map[string]int
	ErrorCounts       map[string]int
	TotalResponseTime time.Duration
	Lock              sync.Mutex
}

func main() {
	concurrency := flag.Int("c", 5, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 100, "Total number of requests to make")
	accountIDsStr := flag.String("a", "1,2,3", "Comma-separated list of account IDs to distribute load across")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	boosterIDs := flag.String("boosters", "1,2,3", "Comma-separated list of booster IDs")
	maxCardID := flag.Int("cards", 30, "Highest card ID to sell or list")
	delayMs := flag.Int("delay", 100, "Delay between requests in milliseconds")
	flag.Parse()

	accountIDs := parseIDs(*accountIDsStr)
	if len(accountIDs) == 0 {
		accountIDs = []uint64{1}
	}
	boosters := parseIDs(*boosterIDs)
	if len(boosters) == 0 {
		boosters = []uint64{1}
	}

	scenarios := []Scenario{
		{Name: "open booster", Method: http.MethodPost, Path: "/boosters/{booster}/open"},
		{Name: "buy booster", Method: http.MethodPost, Path: "/boosters/{booster}/buy"},
		{Name: "claim daily", Method: http.MethodPost, Path: "/rewards/daily/claim"},
		{Name: "sell card", Method: http.MethodPost, Path: "/cards/{card}/sell", Body: map[string]int{"quantity": 1}},
		{Name: "browse listings", Method: http.MethodGet, Path: "/listings?pageSize=20"},
		{Name: "view account", Method: http.MethodGet, Path: "/accounts/me"},
		{Name: "view achievements", Method: http.MethodGet, Path: "/achievements"},
	}

	client := &http.Client{Timeout: 10 * time.Second}

	fmt.Printf("Load testing %s across %d accounts: %v\n", *baseURL, len(accountIDs), accountIDs)
	fmt.Printf("Concurrency: %d goroutines, %d requests, %d ms delay\n", *concurrency, *totalRequests, *delayMs)

	// Accounts are registered up front; registration is idempotent
	for _, id := range accountIDs {
		if _, err := send(client, *baseURL, id, http.MethodPost, "/accounts", nil); err != nil {
			fmt.Printf("Warning: could not register account %d: %v\n", id, err)
		}
	}

	stats := &TestStats{
		TotalRequests: *totalRequests,
		ResponseTimes: make([]time.Duration, 0, *totalRequests),
		StatusCounts:  make(map[int]int),
		ScenarioStats: make(map[string]int),
		ErrorCounts:   make(map[string]int),
	}

	results := make(chan TestResult, *totalRequests)
	jobs := make(chan int, *totalRequests)

	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				if *delayMs > 0 {
					time.Sleep(time.Duration(*delayMs) * time.Millisecond)
				}
				accountID := accountIDs[rand.IntN(len(accountIDs))]
				scenario := scenarios[rand.IntN(len(scenarios))]
				path := strings.NewReplacer(
					"{booster}", strconv.FormatUint(boosters[rand.IntN(len(boosters))], 10),
					"{card}", strconv.Itoa(1+rand.IntN(*maxCardID)),
				).Replace(scenario.Path)

				start := time.Now()
				status, err := send(client, *baseURL, accountID, scenario.Method, path, scenario.Body)
				results <- TestResult{
					Scenario:     scenario.Name,
					StatusCode:   status,
					ResponseTime: time.Since(start),
					Error:        err,
				}
			}
		}()
	}

	go func() {
		for i := 0; i < *totalRequests; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for result := range results {
			stats.record(result)
		}
	}()

	startTime := time.Now()
	ticker := time.NewTicker(time.Second)
	go func() {
		for range ticker.C {
			stats.Lock.Lock()
			completed := stats.Succeeded + stats.Rejected + stats.Failed
			stats.Lock.Unlock()
			fmt.Printf("Progress: %d/%d requests completed\n", completed, *totalRequests)
		}
	}()

	wg.Wait()
	close(results)
	<-collected
	ticker.Stop()

	stats.TotalTime = time.Since(startTime)
	printResults(stats)
}

func parseIDs(list string) []uint64 {
	var ids []uint64
	for _, raw := range strings.Split(list, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// send performs one request as accountID and returns the status code
func send(client *http.Client, baseURL string, accountID uint64, method, path string, body any) (int, error) {
	var payload io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, payload)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Account-ID", strconv.FormatUint(accountID, 10))

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (s *TestStats) record(result TestResult) {
	s.Lock.Lock()
	defer s.Lock.Unlock()

	s.ScenarioStats[result.Scenario]++
	s.ResponseTimes = append(s.ResponseTimes, result.ResponseTime)
	s.TotalResponseTime += result.ResponseTime

	switch {
	case result.Error != nil:
		s.Failed++
		s.ErrorCounts[result.Error.Error()]++
		return
	case result.StatusCode >= 500:
		s.Failed++
	case result.StatusCode >= 400:
		s.Rejected++
	default:
		s.Succeeded++
	}
	s.StatusCounts[result.StatusCode]++
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[min(len(sorted)-1, len(sorted)*p/100)]
}

func printResults(stats *TestStats) {
	sorted := slices.Clone(stats.ResponseTimes)
	slices.Sort(sorted)

	var avg time.Duration
	if len(sorted) > 0 {
		avg = stats.TotalResponseTime / time.Duration(len(sorted))
	}
	throughput := float64(len(sorted)) / stats.TotalTime.Seconds()
	share := func(n int) float64 { return float64(n) / float64(max(stats.TotalRequests, 1)) * 100 }

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:   %d\n", stats.TotalRequests)
	fmt.Printf("Succeeded:        %d (%.1f%%)\n", stats.Succeeded, share(stats.Succeeded))
	fmt.Printf("Rejected (4xx):   %d (%.1f%%)\n", stats.Rejected, share(stats.Rejected))
	fmt.Printf("Failed:           %d (%.1f%%)\n", stats.Failed, share(stats.Failed))
	fmt.Printf("Total Test Time:  %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("Throughput:       %.2f requests/second\n", throughput)

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average:  %v\n", avg)
	if len(sorted) > 0 {
		fmt.Printf("Minimum:  %v\n", sorted[0])
		fmt.Printf("Maximum:  %v\n", sorted[len(sorted)-1])
	}
	for _, p := range []int{50, 90, 95, 99} {
		fmt.Printf("P%d:      %v\n", p, percentile(sorted, p))
	}

	fmt.Println("\n----------------- STATUS CODES -----------------")
	codes := make([]int, 0, len(stats.StatusCounts))
	for code := range stats.StatusCounts {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	for _, code := range codes {
		fmt.Printf("%d %-25s: %d\n", code, http.StatusText(code), stats.StatusCounts[code])
	}

	fmt.Println("\n----------------- SCENARIO DISTRIBUTION -----------------")
	for scenario, count := range stats.ScenarioStats {
		fmt.Printf("%-18s: %d requests (%.1f%%)\n", scenario, count, share(count))
	}

	if len(stats.ErrorCounts) > 0 {
		fmt.Println("\n----------------- TRANSPORT ERRORS -----------------")
		for errMsg, count := range stats.ErrorCounts {
			fmt.Printf("%-40s: %d\n", errMsg, count)
		}
	}

	fmt.Println("\n================= CONCLUSION =================")
	if stats.Failed == 0 {
		fmt.Printf("No server failures at %.2f requests/second\n", throughput)
	} else {
		fmt.Printf("%d server failures at %.2f requests/second\n", stats.Failed, throughput)
	}
	fmt.Println("================================================")
}
