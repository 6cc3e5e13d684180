package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	forecastgrpc "github.com/soltixdb/soltix-forecast/internal/grpc"
	"github.com/soltixdb/soltix-forecast/internal/logging"
)

func main() {
	// Command line flags
	addr := flag.String("addr", "localhost:5001", "gRPC address of the forecast service")
	method := flag.String("method", "sma", "Forecast method (sma, es)")
	data := flag.String("data", "", "Comma separated observations, e.g. 10,20,30,40")
	window := flag.Int("window", 3, "Window for sma")
	alpha := flag.Float64("alpha", 0.5, "Smoothing factor for es")
	credential := flag.String("auth", "", "Bearer token or API key")
	health := flag.Bool("health", false, "Only check service health")
	timeout := flag.Duration("timeout", 5*time.Second, "Request timeout")

	flag.Parse()

	client, err := forecastgrpc.NewClient(*addr, logging.NewNop())
	if err != nil {
		log.Fatalf("Error: %v\n", err)
	}
	defer func() { _ = client.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *health {
		status, err := client.Check(ctx)
		if err != nil {
			log.Fatalf("Error: health check failed: %v\n", err)
		}
		fmt.Println(status.String())
		return
	}

	values, err := parseData(*data)
	if err != nil {
		log.Fatalf("Error: %v\n", err)
	}

	params := map[string]interface{}{}
	switch *method {
	case "sma":
		params["window"] = *window
	case "es":
		params["alpha"] = *alpha
	}

	result, err := client.Forecast(ctx, map[string]interface{}{
		"data":   values,
		"method": *method,
		"params": params,
	}, *credential)
	if err != nil {
		log.Fatalf("Error: forecast failed: %v\n", err)
	}

	for i, v := range result {
		fmt.Printf("t+%d\t%g\n", i+1, v)
	}
}

func parseData(s string) ([]interface{}, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("-data is required")
	}
	parts := strings.Split(s, ",")
	values := make([]interface{}, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid observation %q: %w", p, err)
		}
		values = append(values, v)
	}
	return values, nil
}
