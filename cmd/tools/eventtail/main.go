package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/soltixdb/soltix-forecast/internal/config"
	"github.com/soltixdb/soltix-forecast/internal/queue"
	"github.com/soltixdb/soltix-forecast/internal/services"
	"github.com/soltixdb/soltix-forecast/internal/utils"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	queueType := flag.String("type", "", "Queue type override (nats, redis, kafka)")
	url := flag.String("url", "", "Queue URL override")
	subject := flag.String("subject", "", "Subject override")
	raw := flag.Bool("raw", false, "Print events as JSON lines")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error: failed to load config: %v\n", err)
	}

	events := cfg.Events
	if *queueType != "" {
		events.Type = *queueType
	}
	if *url != "" {
		events.URL = *url
	}
	if *subject != "" {
		events.Subject = *subject
	}
	if events.Type == string(utils.QueueTypeMemory) {
		log.Fatal("Error: the memory queue cannot be tailed from another process")
	}

	q, err := queue.New(events)
	if err != nil {
		log.Fatalf("Error: failed to connect to queue: %v\n", err)
	}
	defer func() { _ = q.Close() }()

	err = q.Subscribe(events.Subject, func(data []byte) error {
		event, err := services.DecodeForecastEvent(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping malformed event: %v\n", err)
			return nil
		}
		if *raw {
			out, _ := json.Marshal(event)
			fmt.Println(string(out))
			return nil
		}
		fmt.Println(format(event))
		return nil
	})
	if err != nil {
		log.Fatalf("Error: failed to subscribe to %s: %v\n", events.Subject, err)
	}

	fmt.Fprintf(os.Stderr, "Tailing %s on %s (Ctrl+C to stop)\n", events.Subject, events.Type)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
}

func format(e *services.ForecastEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %-3s n=%d", e.Timestamp.Format("15:04:05.000"), e.Method, e.DataPoints)
	if e.Window != nil {
		fmt.Fprintf(&b, " window=%d", *e.Window)
	}
	if e.Alpha != nil {
		fmt.Fprintf(&b, " alpha=%g", *e.Alpha)
	}
	if e.Rejected {
		b.WriteString(" rejected")
	} else {
		fmt.Fprintf(&b, " forecast=%v", e.Forecast)
	}
	if e.User != "" {
		fmt.Fprintf(&b, " user=%s", e.User)
	}
	return b.String()
}
