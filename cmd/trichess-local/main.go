package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"trichess/internal/envflag"
	"trichess/internal/server/game"
	httpserver "trichess/internal/server/http"
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

	_ = cmd.Start() // 不阻塞，没有图形界面时会失败，无所谓
}

func main() {
	addr := flag.String("addr", envflag.String("TRICHESS_ADDR", ":2888"), "listen address")
	webDir := flag.String("web", envflag.String("TRICHESS_WEB", "./web"), "directory with index.html / js / svg")
	aiTime := flag.Duration("ai-time", envflag.Millis("TRICHESS_TIME_MS", httpserver.DefaultAITime), "base thinking time per AI move")
	seed := flag.Int64("seed", 0, "random seed for setups (0 = time based)")
	open := flag.Bool("open", envflag.Bool("TRICHESS_OPEN", true), "open the default browser")
	flag.Parse()

	mgr := game.NewManagerWithConfig(game.Config{Seed: *seed})
	srv := httpserver.NewServer(httpserver.NewHandler(mgr, *aiTime), *webDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Close(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("serving static from %s, ai time %v", *webDir, *aiTime)
	if *open {
		// 延迟一下再开浏览器，等服务起来
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
}
