package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"chessbot/internal/engine"
	"chessbot/internal/server/game"
	httpserver "chessbot/internal/server/http"
)

func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default: // linux / bsd
		cmd = exec.Command("xdg-open", url)
	}

	_ = cmd.Start() // headless machines have no browser
}

func main() {
	// flags with env fallbacks
	addr := flag.String("addr", getenv("CHESS_ADDR", ":2888"), "listen address")
	webDir := flag.String("web", getenv("CHESS_WEB", ""), "directory with index.html / js / svg (empty = API only)")
	strategy := flag.String("strategy", getenv("CHESS_STRATEGY", "medium"), "default bot strategy: random, greedy, easy, medium")
	workers := flag.Int("workers", getenvInt("CHESS_WORKERS", runtime.GOMAXPROCS(0)), "concurrent move raters per bot decision")
	cacheSize := flag.Int("cache", getenvInt("CHESS_CACHE", 0), "rating cache entries (0 = default, negative = off)")
	seed := flag.Int64("seed", int64(getenvInt("CHESS_SEED", 0)), "bot tie-break seed (0 = time based)")
	open := flag.Bool("open", getenb("CHESS_OPEN", false), "open the default browser")
	flag.Parse()

	s, err := engine.ParseStrategy(*strategy)
	if err != nil {
		log.Fatalf("strategy: %v", err)
	}
	eng := engine.NewEngine(engine.Config{Workers: *workers, CacheSize: *cacheSize, Seed: *seed})
	cfg := eng.Config()
	log.Printf("engine: default %s, %d workers, cache %d", s, cfg.Workers, cfg.CacheSize)

	h := httpserver.NewHandler(game.NewManager(eng), s)
	srv := httpserver.NewServer(h, *webDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Close(shutdown); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if *open && *webDir != "" {
		// give the listener a moment before the browser hits it
		go func() {
			time.Sleep(100 * time.Millisecond)
			host := *addr
			if strings.HasPrefix(host, ":") {
				host = "127.0.0.1" + host
			}
			openBrowser("http://" + host)
		}()
	}

	if err := srv.Listen(*addr); err != nil {
		log.Fatal(err)
	}
	log.Println("server stopped")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			log.Fatalf("%s: %v", key, err)
		}
		return n
	}
	return def
}

func getenb(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}
