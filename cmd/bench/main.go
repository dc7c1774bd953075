package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ryandielhenn/gossipcache/pkg/node"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "server address")
	n := flag.Int("n", 5000, "messages to publish")
	conc := flag.Int("c", 32, "concurrency")
	valSize := flag.Int("val", 128, "payload size bytes")
	topic := flag.String("topic", "bench", "topic to publish to")
	flag.Parse()

	base := "http://" + node.NormalizeHostPort(*addr, "8080")
	client := &http.Client{Timeout: 5 * time.Second}
	wg := sync.WaitGroup{}
	start := time.Now()
	ch := make(chan int, *conc)
	var misses atomic.Int64

	for i := 0; i < *n; i++ {
		wg.Add(1)
		ch <- 1
		go func(i int) {
			defer wg.Done()
			defer func() { <-ch }()

			payload := bytes.Repeat([]byte{byte(rand.Intn(255))}, *valSize)
			url := fmt.Sprintf("%s/msg?from=bench&seqno=%08x&topic=%s", base, i, *topic)
			resp, err := client.Post(url, "application/octet-stream", bytes.NewReader(payload))
			if err != nil {
				misses.Add(1)
				return
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			resp, err = client.Get(fmt.Sprintf("%s/msg/bench/%08x?peer=bench", base, i))
			if err != nil {
				misses.Add(1)
				return
			}
			if resp.StatusCode != http.StatusOK {
				misses.Add(1)
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}(i)
	}
	wg.Wait()
	dur := time.Since(start)
	fmt.Printf("Completed %d ops in %s (%.2f ops/s), %d misses\n", *n*2, dur, float64(*n*2)/dur.Seconds(), misses.Load())
}
