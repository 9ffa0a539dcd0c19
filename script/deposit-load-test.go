package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// depositPayload matches the POST /deposits request body.
type depositPayload struct {
	Chain      string `json:"chain"`
	AmountUSDT string `json:"amount_usdt"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type requestResult struct {
	Success      bool
	ResponseTime time.Duration
	StatusCode   int
	Err          error
}

type runStats struct {
	Total         int
	Succeeded     int
	Failed        int
	RateLimited   int
	TotalTime     time.Duration
	ResponseTimes []time.Duration
	ErrorCounts   map[string]int
	ScenarioHits  map[string]int
	mu            sync.Mutex
}

type depositScenario struct {
	Name   string
	Chain  string
	Amount string
}

func main() {
	concurrency := flag.Int("c", 5, "Number of concurrent workers")
	totalRequests := flag.Int("n", 100, "Total number of deposit requests")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	accountsStr := flag.String("accounts", "load1@test.local:pass12345", "Comma-separated email:password pairs")
	delayMs := flag.Int("delay", 100, "Delay between requests per worker in milliseconds")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	// Log every account in first so workers only measure the deposit path.
	var tokens []string
	for _, pair := range strings.Split(*accountsStr, ",") {
		email, password, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			fmt.Printf("skipping malformed account %q\n", pair)
			continue
		}
		token, err := login(client, *baseURL, email, password)
		if err != nil {
			fmt.Printf("login failed for %s: %v\n", email, err)
			continue
		}
		tokens = append(tokens, token)
	}
	if len(tokens) == 0 {
		fmt.Println("no account could log in, aborting")
		return
	}

	scenarios := []depositScenario{
		{"TRC20 Small", "TRC20", "10.00"},
		{"TRC20 Medium", "TRC20", "100.00"},
		{"TRC20 Large", "TRC20", "500.00"},
		{"ERC20 Small", "ERC20", "25.00"},
		{"ERC20 Large", "ERC20", "250.00"},
	}

	fmt.Printf("Load testing %s with %d accounts, %d workers, %d requests, %dms delay\n",
		*baseURL, len(tokens), *concurrency, *totalRequests, *delayMs)

	stats := &runStats{
		Total:         *totalRequests,
		ResponseTimes: make([]time.Duration, 0, *totalRequests),
		ErrorCounts:   make(map[string]int),
		ScenarioHits:  make(map[string]int),
	}

	jobs := make(chan int, *totalRequests)
	results := make(chan requestResult, *totalRequests)

	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(client, *baseURL, *delayMs, tokens, scenarios, jobs, results, stats)
		}()
	}

	go func() {
		for i := 0; i < *totalRequests; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for result := range results {
			stats.mu.Lock()
			if result.Success {
				stats.Succeeded++
			} else {
				stats.Failed++
				if result.StatusCode == http.StatusTooManyRequests {
					stats.RateLimited++
				}
				msg := "unknown"
				if result.Err != nil {
					msg = result.Err.Error()
				}
				stats.ErrorCounts[msg]++
			}
			stats.ResponseTimes = append(stats.ResponseTimes, result.ResponseTime)
			stats.mu.Unlock()
		}
	}()

	start := time.Now()
	wg.Wait()
	close(results)
	<-done
	stats.TotalTime = time.Since(start)

	printResults(stats)
}

func login(client *http.Client, baseURL, email, password string) (string, error) {
	body, err := json.Marshal(loginPayload{Email: email, Password: password})
	if err != nil {
		return "", err
	}

	resp, err := client.Post(baseURL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP status code %d", resp.StatusCode)
	}

	var parsed loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("empty token in login response")
	}
	return parsed.AccessToken, nil
}

func worker(client *http.Client, baseURL string, delayMs int, tokens []string,
	scenarios []depositScenario, jobs <-chan int, results chan<- requestResult, stats *runStats) {

	for range jobs {
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}

		token := tokens[rand.Intn(len(tokens))]
		scenario := scenarios[rand.Intn(len(scenarios))]

		stats.mu.Lock()
		stats.ScenarioHits[scenario.Name]++
		stats.mu.Unlock()

		body, err := json.Marshal(depositPayload{Chain: scenario.Chain, AmountUSDT: scenario.Amount})
		if err != nil {
			results <- requestResult{Err: err}
			continue
		}

		req, err := http.NewRequest(http.MethodPost, baseURL+"/deposits", bytes.NewReader(body))
		if err != nil {
			results <- requestResult{Err: err}
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		start := time.Now()
		resp, err := client.Do(req)
		elapsed := time.Since(start)

		result := requestResult{ResponseTime: elapsed}
		if err != nil {
			result.Err = err
		} else {
			result.StatusCode = resp.StatusCode
			result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
			if !result.Success {
				result.Err = fmt.Errorf("HTTP status code %d", resp.StatusCode)
			}
			resp.Body.Close()
		}
		results <- result
	}
}

func printResults(stats *runStats) {
	tps := float64(stats.Succeeded) / stats.TotalTime.Seconds()

	var avg time.Duration
	if len(stats.ResponseTimes) > 0 {
		var total time.Duration
		for _, rt := range stats.ResponseTimes {
			total += rt
		}
		avg = total / time.Duration(len(stats.ResponseTimes))
	}

	var p50, p90, p99 time.Duration
	if len(stats.ResponseTimes) > 0 {
		sorted := make([]time.Duration, len(stats.ResponseTimes))
		copy(sorted, stats.ResponseTimes)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		p50 = sorted[len(sorted)*50/100]
		p90 = sorted[len(sorted)*90/100]
		p99 = sorted[len(sorted)*99/100]
	}

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:      %d\n", stats.Total)
	fmt.Printf("Successful Requests: %d (%.1f%%)\n", stats.Succeeded,
		float64(stats.Succeeded)/float64(stats.Total)*100)
	fmt.Printf("Failed Requests:     %d\n", stats.Failed)
	fmt.Printf("Rate Limited (429):  %d\n", stats.RateLimited)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("Throughput:          %.2f requests/second\n", tps)

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average Response:    %v\n", avg)
	fmt.Printf("P50 Response:        %v\n", p50)
	fmt.Printf("P90 Response:        %v\n", p90)
	fmt.Printf("P99 Response:        %v\n", p99)

	fmt.Println("\n----------------- SCENARIO DISTRIBUTION -----------------")
	for name, count := range stats.ScenarioHits {
		fmt.Printf("%-15s: %d requests\n", name, count)
	}

	if stats.Failed > 0 {
		fmt.Println("\n----------------- ERROR DISTRIBUTION -----------------")
		for msg, count := range stats.ErrorCounts {
			fmt.Printf("%-40s: %d\n", msg, count)
		}
	}
	fmt.Println("================================================")
}
