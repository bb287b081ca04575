package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// -------------------- 统计 --------------------

type APITestStats struct {
	mu        sync.Mutex
	latencies map[string][]time.Duration
	failures  map[string]int
}

func NewAPITestStats() *APITestStats {
	return &APITestStats{
		latencies: make(map[string][]time.Duration),
		failures:  make(map[string]int),
	}
}

func (s *APITestStats) Add(step string, success bool, latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if success {
		s.latencies[step] = append(s.latencies[step], latency)
	} else {
		s.failures[step]++
	}
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}

func (s *APITestStats) Report(took time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	steps := make([]string, 0, len(s.latencies)+len(s.failures))
	seen := map[string]bool{}
	for k := range s.latencies {
		steps = append(steps, k)
		seen[k] = true
	}
	for k := range s.failures {
		if !seen[k] {
			steps = append(steps, k)
		}
	}
	sort.Strings(steps)

	total, ok := 0, 0
	fmt.Println("\n=== HTTP 场景测试结果 ===")
	fmt.Printf("%-16s %8s %8s %10s %10s %10s\n", "step", "ok", "failed", "p50", "p95", "p99")
	for _, step := range steps {
		lat := s.latencies[step]
		sort.Slice(lat, func(i, j int) bool { return lat[i] < lat[j] })
		fmt.Printf("%-16s %8d %8d %10v %10v %10v\n", step, len(lat), s.failures[step],
			percentile(lat, 0.50), percentile(lat, 0.95), percentile(lat, 0.99))
		ok += len(lat)
		total += len(lat) + s.failures[step]
	}
	fmt.Printf("\n耗时: %v 总请求: %d 成功: %d\n", took, total, ok)
	if took > 0 {
		fmt.Printf("QPS: %.2f\n", float64(ok)/took.Seconds())
	}
	if total > 0 {
		fmt.Printf("成功率: %.2f%%\n", float64(ok)/float64(total)*100)
	}
}

// -------------------- HTTP --------------------

type client struct {
	base  string
	http  *http.Client
	stats *APITestStats
}

// call 发送 JSON 请求，out 非 nil 时解析响应
func (c *client) call(step, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	latency := time.Since(start)
	if err != nil {
		c.stats.Add(step, false, latency)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.stats.Add(step, false, latency)
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	c.stats.Add(step, true, latency)
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

type userInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func (c *client) register(prefix string) (*userInfo, error) {
	name := prefix + "_" + uuid.NewString()[:8]
	var u userInfo
	err := c.call("register", http.MethodPost, "/api/register", map[string]string{
		"username": name,
		"email":    name + "@bench.local",
		"password": "bench123",
	}, &u)
	return &u, err
}

// scenario 两个用户：互加好友 -> 分享 -> 收藏 -> 浏览
func (c *client) scenario(id, shares int) error {
	alice, err := c.register(fmt.Sprintf("a%d", id))
	if err != nil {
		return err
	}
	bob, err := c.register(fmt.Sprintf("b%d", id))
	if err != nil {
		return err
	}

	var created struct {
		ID uint `json:"id"`
	}
	if err := c.call("friend-request", http.MethodPost, "/api/friend-request", map[string]interface{}{
		"fromUserId": alice.ID,
		"toUsername": bob.Username,
	}, &created); err != nil {
		return err
	}
	if err := c.call("friend-accept", http.MethodPost, fmt.Sprintf("/api/friend-request/%d/accept", created.ID), nil, nil); err != nil {
		return err
	}

	for i := 0; i < shares; i++ {
		if err := c.call("share", http.MethodPost, "/api/share", map[string]interface{}{
			"userId":     alice.ID,
			"title":      fmt.Sprintf("link %d", i),
			"content":    fmt.Sprintf("https://example.com/%d/%d", id, i),
			"type":       "link",
			"sharedWith": []uint{bob.ID},
		}, &created); err != nil {
			return err
		}
		if err := c.call("toggle", http.MethodPost, "/api/folder-content/toggle", map[string]interface{}{
			"shareId":  created.ID,
			"folderId": "favorites",
			"userId":   bob.ID,
		}, nil); err != nil {
			return err
		}
	}

	if err := c.call("received", http.MethodGet, fmt.Sprintf("/api/received-shares/%d", bob.ID), nil, nil); err != nil {
		return err
	}
	if err := c.call("folder-shares", http.MethodGet, fmt.Sprintf("/api/folder-shares/%d/favorites", bob.ID), nil, nil); err != nil {
		return err
	}
	return c.call("folders", http.MethodGet, fmt.Sprintf("/api/folders/%d", bob.ID), nil, nil)
}

func runHTTPBench(base string, concurrency, shares int) {
	fmt.Println("\n=== HTTP 场景并发测试开始 ===")
	fmt.Printf("目标: %s 并发: %d 每场景分享数: %d\n", base, concurrency, shares)

	c := &client{
		base:  base,
		http:  &http.Client{Timeout: 8 * time.Second},
		stats: NewAPITestStats(),
	}

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := c.scenario(id, shares); err != nil {
				fmt.Printf("场景 %d 失败: %v\n", id, err)
			}
		}(i)
	}
	wg.Wait()

	c.stats.Report(time.Since(start))
}

// -------------------- 入口 --------------------

func intArg(pos, def int) int {
	if len(os.Args) > pos {
		if val, err := strconv.Atoi(os.Args[pos]); err == nil && val > 0 {
			return val
		}
	}
	return def
}

func main() {
	concurrency := intArg(1, 5)
	shares := intArg(2, 10)

	baseURL := os.Getenv("BENCH_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	fmt.Println("=== 分享系统并发场景测试 ===")
	fmt.Printf("开始时间: %s\n", time.Now().Format("2006-01-02 15:04:05"))

	runHTTPBench(baseURL, concurrency, shares)

	fmt.Println("\n=== 测试完成 ===")
}
