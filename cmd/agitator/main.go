// Package main - agitator
// Load generator for stress testing: simulates many concurrent editors
// spamming board edits over WebSocket.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/websocket"
)

// Config for the agitator
type Config struct {
	ServerURL      string
	NumClients     int
	ActionInterval time.Duration
	TestDuration   time.Duration
	Rows           int
	Columns        int
}

// Stats tracks performance metrics
type Stats struct {
	MessagesSent     int64
	MessagesReceived int64
	Errors           int64
	Latencies        []time.Duration
	mu               sync.Mutex
}

// Editor action types to spam, weighted toward cell edits.
var actionTypes = []string{
	"TOGGLE",
	"TOGGLE",
	"TOGGLE",
	"STAMP",
	"STEP",
	"CYCLE_PRESET",
	"PLAY_PAUSE",
}

var stampShapes = []string{"glider", "acorn", "rpentomino", "piheptomino", "bheptomino", "thunderbird"}

func main() {
	serverURL := flag.String("url", "ws://localhost:8080/ws", "WebSocket server URL")
	numClients := flag.Int("clients", 50, "Number of concurrent editor clients")
	interval := flag.Duration("interval", 100*time.Millisecond, "Action interval per client")
	duration := flag.Duration("duration", 60*time.Second, "Test duration")
	rows := flag.Int("rows", 32, "Board rows on the target server")
	columns := flag.Int("columns", 64, "Board columns on the target server")
	flag.Parse()

	config := Config{
		ServerURL:      *serverURL,
		NumClients:     *numClients,
		ActionInterval: *interval,
		TestDuration:   *duration,
		Rows:           *rows,
		Columns:        *columns,
	}

	fmt.Println("=========================================")
	fmt.Println("AGITATOR - Editor Stress Test Tool")
	fmt.Println("=========================================")
	fmt.Printf("Server: %s\n", config.ServerURL)
	fmt.Printf("Clients: %d\n", config.NumClients)
	fmt.Printf("Interval: %v\n", config.ActionInterval)
	fmt.Printf("Duration: %v\n", config.TestDuration)
	fmt.Printf("Board: %dx%d\n", config.Columns, config.Rows)
	fmt.Println("=========================================")

	// Setup graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), config.TestDuration)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupt received, stopping...")
		cancel()
	}()

	// Run the stress test
	stats := runStressTest(ctx, config)

	// Print results
	printResults(stats, config)
}

func runStressTest(ctx context.Context, config Config) *Stats {
	stats := &Stats{
		Latencies: make([]time.Duration, 0, 10000),
	}

	var wg sync.WaitGroup

	fmt.Println("\nStarting clients...")

	for i := 0; i < config.NumClients; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()
			runClient(ctx, clientID, config, stats)
		}(i)

		// Stagger client starts to avoid thundering herd
		time.Sleep(10 * time.Millisecond)
	}

	fmt.Printf("All %d clients started\n\n", config.NumClients)

	// Progress updates
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sent := atomic.LoadInt64(&stats.MessagesSent)
				recv := atomic.LoadInt64(&stats.MessagesReceived)
				errs := atomic.LoadInt64(&stats.Errors)
				fmt.Printf("Progress: Sent=%s Recv=%s Errors=%s\n",
					humanize.Comma(sent), humanize.Comma(recv), humanize.Comma(errs))
			}
		}
	}()

	wg.Wait()
	return stats
}

func runClient(ctx context.Context, clientID int, config Config, stats *Stats) {
	u, err := url.Parse(config.ServerURL)
	if err != nil {
		log.Printf("Client %d: URL parse error: %v", clientID, err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}

	// Connect
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		log.Printf("Client %d: Connection failed: %v", clientID, err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	defer conn.Close()

	// Start receiver goroutine to drain board frames
	go func() {
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				return
			}
			atomic.AddInt64(&stats.MessagesReceived, 1)
		}
	}()

	// Send actions at configured interval
	ticker := time.NewTicker(config.ActionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			action := generateRandomAction(config)
			start := time.Now()

			if err := conn.WriteJSON(action); err != nil {
				atomic.AddInt64(&stats.Errors, 1)
				return
			}

			latency := time.Since(start)
			atomic.AddInt64(&stats.MessagesSent, 1)

			stats.mu.Lock()
			stats.Latencies = append(stats.Latencies, latency)
			stats.mu.Unlock()
		}
	}
}

func generateRandomAction(config Config) map[string]interface{} {
	actionType := actionTypes[rand.Intn(len(actionTypes))]

	action := map[string]interface{}{
		"type": actionType,
	}

	switch actionType {
	case "TOGGLE":
		action["row"] = rand.Intn(config.Rows)
		action["col"] = rand.Intn(config.Columns)

	case "STAMP":
		action["row"] = rand.Intn(config.Rows)
		action["col"] = rand.Intn(config.Columns)
		action["shape"] = stampShapes[rand.Intn(len(stampShapes))]
	}

	return action
}

func printResults(stats *Stats, config Config) {
	fmt.Println("\n=========================================")
	fmt.Println("STRESS TEST RESULTS")
	fmt.Println("=========================================")

	sent := atomic.LoadInt64(&stats.MessagesSent)
	recv := atomic.LoadInt64(&stats.MessagesReceived)
	errs := atomic.LoadInt64(&stats.Errors)

	fmt.Printf("Messages Sent:     %s\n", humanize.Comma(sent))
	fmt.Printf("Messages Received: %s\n", humanize.Comma(recv))
	fmt.Printf("Errors:            %s\n", humanize.Comma(errs))
	fmt.Printf("Error Rate:        %.2f%%\n", float64(errs)/float64(sent+1)*100)

	// Calculate throughput
	throughput := float64(sent) / config.TestDuration.Seconds()
	fmt.Printf("Throughput:        %.2f msg/sec\n", throughput)

	// Latency stats
	if len(stats.Latencies) > 0 {
		var total time.Duration
		var min, max time.Duration = stats.Latencies[0], stats.Latencies[0]

		for _, l := range stats.Latencies {
			total += l
			if l < min {
				min = l
			}
			if l > max {
				max = l
			}
		}

		avg := total / time.Duration(len(stats.Latencies))

		fmt.Printf("\nLatency:\n")
		fmt.Printf("  Min: %v\n", min)
		fmt.Printf("  Avg: %v\n", avg)
		fmt.Printf("  Max: %v\n", max)
	}

	// Verdict
	fmt.Println("\n-----------------------------------------")
	if errs == 0 && float64(sent) > float64(config.NumClients)*config.TestDuration.Seconds()*5 {
		fmt.Println("TEST PASSED: System handled the load")
	} else if float64(errs)/float64(sent+1) < 0.05 {
		fmt.Println("TEST WARNING: Some errors detected")
	} else {
		fmt.Println("TEST FAILED: High error rate")
	}
	fmt.Println("=========================================")

	// Export results as JSON
	results := map[string]interface{}{
		"messages_sent":      sent,
		"messages_received":  recv,
		"errors":             errs,
		"throughput_per_sec": throughput,
		"config": map[string]interface{}{
			"clients":  config.NumClients,
			"interval": config.ActionInterval.String(),
			"duration": config.TestDuration.String(),
		},
	}

	jsonData, _ := json.MarshalIndent(results, "", "  ")
	os.WriteFile("stress_test_results.json", jsonData, 0644)
	fmt.Println("\nResults saved to stress_test_results.json")
}
