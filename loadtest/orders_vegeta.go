// 订单创建压测工具：注册/登录一批测试用户后 以固定速率并发下单
// 用于验证并发下单时库存不少发不超卖
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/CCDD2022/minierp/pkg/logger"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

// loginResponse 登录接口响应
type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// orderResp 用于统计业务层成功率
type orderResp struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Code   int    `json:"code"`
}

func main() {
	var (
		baseURL     = flag.String("base", "http://localhost:8080", "API base URL")
		productID   = flag.Int64("product", 1, "Product ID to order")
		quantity    = flag.Int("quantity", 1, "Order quantity")
		users       = flag.Int("users", 50, "Number of virtual users (tokens) to prepare")
		rate        = flag.Int("rate", 200, "Requests per second")
		duration    = flag.String("duration", "30s", "Attack duration (e.g. 10s, 1m)")
		password    = flag.String("password", "password123", "Password used for all test users")
		register    = flag.Bool("register", false, "Register users before login (if they might not exist)")
		productList = flag.String("productList", "", "Comma separated product IDs (optional: random pick per request)")
		outJSON     = flag.String("out", "vegeta_results.json", "Summary JSON output file")
	)
	flag.Parse()

	attackDuration, err := time.ParseDuration(*duration)
	if err != nil {
		logger.Fatal("invalid duration", "err", err)
	}

	// 准备测试用户token
	tokens := prepareTokens(*baseURL, *users, *password, *register)
	if len(tokens) == 0 {
		logger.Fatal("no tokens prepared; aborting")
	}

	// 解析可选商品列表
	var productIDs []int64
	if *productList != "" {
		for _, part := range bytes.Split([]byte(*productList), []byte(",")) {
			var id int64
			_, err := fmt.Sscanf(string(bytes.TrimSpace(part)), "%d", &id)
			if err == nil && id > 0 {
				productIDs = append(productIDs, id)
			}
		}
	}
	rand.Seed(time.Now().UnixNano())

	// 自定义targeter 轮换token
	var counter uint64
	targeter := func(t *vegeta.Target) error {
		idx := atomic.AddUint64(&counter, 1) - 1
		token := tokens[idx%uint64(len(tokens))]
		pid := *productID
		if len(productIDs) > 0 {
			pid = productIDs[rand.Intn(len(productIDs))]
		}
		bodyMap := map[string]any{
			"product_id": pid,
			"quantity":   *quantity,
		}
		b, _ := json.Marshal(bodyMap)
		t.Method = http.MethodPost
		t.URL = fmt.Sprintf("%s/api/orders", *baseURL)
		t.Body = b
		t.Header = http.Header{}
		t.Header.Set("Content-Type", "application/json")
		t.Header.Set("Authorization", "Bearer "+token)
		return nil
	}

	attacker := vegeta.NewAttacker()
	var metrics vegeta.Metrics
	createdLogical := uint64(0)
	totalLogical := uint64(0)

	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: *rate, Per: time.Second}, attackDuration, "orders_test") {
		metrics.Add(res)
		atomic.AddUint64(&totalLogical, 1)
		// 201 + 订单ID 视为业务成功
		var or orderResp
		if err := json.Unmarshal(res.Body, &or); err == nil {
			if res.Code == http.StatusCreated && or.ID > 0 {
				atomic.AddUint64(&createdLogical, 1)
			}
		}
	}
	metrics.Close()

	logicalSuccessRatio := float64(createdLogical) / float64(maxU64(1, totalLogical))

	summary := map[string]any{
		"attack": map[string]any{
			"rate_rps": *rate,
			"duration": attackDuration.String(),
			"users":    *users,
		},
		"vegeta_metrics": map[string]any{
			"requests":           metrics.Requests,
			"rate":               metrics.Rate,
			"throughput":         metrics.Throughput,
			"success_ratio_http": metrics.Success,
			"latency_mean_ms":    metrics.Latencies.Mean.Seconds() * 1000,
			"latency_p95_ms":     metrics.Latencies.P95.Seconds() * 1000,
			"latency_p99_ms":     metrics.Latencies.P99.Seconds() * 1000,
			"errors":             metrics.Errors,
		},
		"orders_created_ratio": logicalSuccessRatio,
		"orders_created":       createdLogical,
		"requests_total":       totalLogical,
		"timestamp":            time.Now().Format(time.RFC3339),
	}

	data, _ := json.MarshalIndent(summary, "", "  ")
	if err := os.WriteFile(*outJSON, data, 0644); err != nil {
		logger.Warn("write summary failed", "err", err)
	}
	fmt.Println(string(data))
}

func prepareTokens(baseURL string, users int, password string, doRegister bool) []string {
	tokens := make([]string, 0, users)
	client := &http.Client{Timeout: 5 * time.Second}
	for i := 0; i < users; i++ {
		email := fmt.Sprintf("lt_user_%d@example.com", i)
		if doRegister {
			regBody := map[string]any{
				"email":    email,
				"password": password,
			}
			if err := postJSON(client, fmt.Sprintf("%s/api/auth/register", baseURL), regBody, nil); err != nil {
				logger.Warn("register failed", "email", email, "err", err)
			}
		}
		var lr loginResponse
		loginBody := map[string]string{"email": email, "password": password}
		err := postJSON(client, fmt.Sprintf("%s/api/auth/login", baseURL), loginBody, &lr)
		if err != nil || lr.AccessToken == "" {
			logger.Warn("login failed", "email", email, "err", err)
			continue
		}
		tokens = append(tokens, lr.AccessToken)
	}
	return tokens
}

func postJSON(client *http.Client, url string, payload any, out any) error {
	b, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("status %d body %s", resp.StatusCode, string(body))
	}
	if out != nil {
		_ = json.Unmarshal(body, out)
	}
	return nil
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
