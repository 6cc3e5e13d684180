package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/soltixdb/soltix-forecast/internal/auth"
	"github.com/soltixdb/soltix-forecast/internal/config"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to configuration file (etcd settings)")
	username := flag.String("user", "", "Username to store in etcd (optional)")
	password := flag.String("password", "", "Password to hash (read from stdin when empty)")
	remove := flag.Bool("delete", false, "Delete -user from etcd instead of storing it")

	flag.Parse()

	if *remove {
		if *username == "" {
			log.Fatal("Error: -delete requires -user")
		}
		withEtcd(*configPath, func(ctx context.Context, v *auth.EtcdVerifier) error {
			return v.DeleteUser(ctx, *username)
		})
		fmt.Printf("Deleted user %s\n", *username)
		return
	}

	if *password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("Error: failed to read password: %v\n", err)
		}
		*password = strings.TrimRight(line, "\r\n")
	}
	if *password == "" {
		log.Fatal("Error: password must not be empty")
	}

	// Without a user, print a hash for the static credential store
	if *username == "" {
		hash, err := auth.HashPassword(*password)
		if err != nil {
			log.Fatalf("Error: %v\n", err)
		}
		fmt.Println(hash)
		return
	}

	withEtcd(*configPath, func(ctx context.Context, v *auth.EtcdVerifier) error {
		return v.PutUser(ctx, *username, *password)
	})
	fmt.Printf("Stored user %s\n", *username)
}

func withEtcd(configPath string, fn func(ctx context.Context, v *auth.EtcdVerifier) error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Error: failed to load config: %v\n", err)
	}

	verifier, err := auth.NewEtcdVerifier(cfg.Etcd)
	if err != nil {
		log.Fatalf("Error: failed to connect to etcd: %v\n", err)
	}
	defer func() { _ = verifier.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := fn(ctx, verifier); err != nil {
		log.Fatalf("Error: %v\n", err)
	}
}
