package benchmark

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"
)

// LoadRunner fires concurrent requests at the dispatch API
type LoadRunner struct {
	BaseURL     string
	Concurrency int
	Requests    int
	AuthToken   string
	Client      *http.Client
}

// LoadResult 压测结果
type LoadResult struct {
	URL            string        `json:"url"`
	Method         string        `json:"method"`
	Concurrency    int           `json:"concurrency"`
	TotalRequests  int           `json:"total_requests"`
	SuccessCount   int           `json:"success_count"`
	FailureCount   int           `json:"failure_count"`
	TotalTime      time.Duration `json:"total_time"`
	P50            time.Duration `json:"p50"`
	P95            time.Duration `json:"p95"`
	MaxTime        time.Duration `json:"max_time"`
	RequestsPerSec float64       `json:"requests_per_sec"`
	StatusCodes    map[int]int   `json:"status_codes"`
	Bodies         [][]byte      `json:"-"`
	Errors         []string      `json:"errors"`
}

type requestResult struct {
	duration time.Duration
	status   int
	body     []byte
	err      error
}

// NewLoadRunner 创建压测实例
func NewLoadRunner(baseURL string, concurrency, requests int, authToken string) *LoadRunner {
	return &LoadRunner{
		BaseURL:     baseURL,
		Concurrency: concurrency,
		Requests:    requests,
		AuthToken:   authToken,
		Client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// GET 对同一路径发起重复请求
func (b *LoadRunner) GET(path string) *LoadResult {
	return b.run(http.MethodGet, path, nil)
}

// POST sends payload(i) as the body of request i, so requests may differ
func (b *LoadRunner) POST(path string, payload func(i int) interface{}) *LoadResult {
	return b.run(http.MethodPost, path, payload)
}

func (b *LoadRunner) run(method, path string, payload func(i int) interface{}) *LoadResult {
	url := b.BaseURL + path
	results := make(chan requestResult, b.Requests)
	limiter := make(chan struct{}, b.Concurrency)
	var wg sync.WaitGroup

	// 所有请求同时放行，尽量制造竞争
	gate := make(chan struct{})
	start := time.Now()
	for i := 0; i < b.Requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-gate
			limiter <- struct{}{}
			defer func() { <-limiter }()
			results <- b.do(method, url, payload, i)
		}(i)
	}
	close(gate)

	go func() {
		wg.Wait()
		close(results)
	}()

	res := &LoadResult{
		URL:           url,
		Method:        method,
		Concurrency:   b.Concurrency,
		TotalRequests: b.Requests,
		StatusCodes:   make(map[int]int),
	}
	durations := make([]time.Duration, 0, b.Requests)
	for r := range results {
		if r.err != nil {
			res.FailureCount++
			res.Errors = append(res.Errors, r.err.Error())
			continue
		}
		durations = append(durations, r.duration)
		res.StatusCodes[r.status]++
		res.Bodies = append(res.Bodies, r.body)
		if r.status >= 200 && r.status < 300 {
			res.SuccessCount++
		} else {
			res.FailureCount++
		}
	}

	res.TotalTime = time.Since(start)
	res.RequestsPerSec = float64(b.Requests) / res.TotalTime.Seconds()
	if len(durations) > 0 {
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
		res.P50 = durations[len(durations)/2]
		res.P95 = durations[len(durations)*95/100]
		res.MaxTime = durations[len(durations)-1]
	}
	return res
}

func (b *LoadRunner) do(method, url string, payload func(i int) interface{}, i int) requestResult {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload(i)); err != nil {
			return requestResult{err: fmt.Errorf("JSON编码错误: %w", err)}
		}
	}

	start := time.Now()
	req, err := http.NewRequest(method, url, &body)
	if err != nil {
		return requestResult{err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if b.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+b.AuthToken)
	}

	resp, err := b.Client.Do(req)
	if err != nil {
		return requestResult{err: err}
	}
	defer resp.Body.Close()

	var raw bytes.Buffer
	if _, err := raw.ReadFrom(resp.Body); err != nil {
		return requestResult{err: err}
	}
	return requestResult{duration: time.Since(start), status: resp.StatusCode, body: raw.Bytes()}
}

// PrintResult 打印压测结果
func (r *LoadResult) PrintResult() {
	fmt.Printf("%s %s: %d requests, concurrency %d\n", r.Method, r.URL, r.TotalRequests, r.Concurrency)
	fmt.Printf("  success %d, failure %d, %.2f req/s\n", r.SuccessCount, r.FailureCount, r.RequestsPerSec)
	fmt.Printf("  p50 %s, p95 %s, max %s\n", r.P50, r.P95, r.MaxTime)
	codes := make([]int, 0, len(r.StatusCodes))
	for c := range r.StatusCodes {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	for _, c := range codes {
		fmt.Printf("  %d: %d\n", c, r.StatusCodes[c])
	}
	for i, err := range r.Errors {
		if i >= 5 {
			fmt.Printf("  ... %d more errors\n", len(r.Errors)-5)
			break
		}
		fmt.Printf("  %s\n", err)
	}
}
